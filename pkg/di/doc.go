// Package di defines the failure surface of a dependency-injection container
// and a diagnostic layer on top of it.
//
// The container's resolution algorithm lives elsewhere; this package only
// models what a resolution failure looks like (ResolutionError,
// CircularDependencyError, BindingConflictError), a read-only Snapshot of
// container state, and an Engine that turns a failure plus its context into
// ranked remediation suggestions.
//
// Construct diagnostic failures through Factory so every instance carries
// suggestions before it reaches an error handler:
//
//	f := di.NewFactory(snapshot, registry)
//	err := f.NotFound("app.Mailer")
//	// err.Suggestions: ["No binding found ...", "Did you mean 'app.Mailers'?", ...]
//
// All failure types are immutable after construction and safe to share.
package di
