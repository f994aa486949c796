package di

import (
	"fmt"
	"strings"
)

// Factory is the single construction point for diagnostic failures.
// Every failure it builds carries suggestions: generated by the Engine,
// canned per failure kind, or supplied by the caller via WithSuggestions
// (which fully replaces, not merges with, the generated ones).
type Factory struct {
	engine   *Engine
	snapshot Snapshot
}

// NewFactory creates a diagnostic failure factory over a container snapshot
// and a type registry.
func NewFactory(snapshot Snapshot, registry Registry) *Factory {
	return &Factory{
		engine:   NewEngine(registry),
		snapshot: snapshot,
	}
}

// FailureOption customizes a single failure construction.
type FailureOption func(*failureOptions)

type failureOptions struct {
	suggestions []string
	override    bool
}

// WithSuggestions replaces the default or generated suggestions entirely.
func WithSuggestions(suggestions ...string) FailureOption {
	return func(o *failureOptions) {
		o.suggestions = dedupe(suggestions)
		o.override = true
	}
}

func buildOptions(opts []FailureOption) failureOptions {
	var o failureOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Resolution builds a generic resolution failure. When abstract is non-empty,
// suggestions are generated from the identifier, cause, stack, and snapshot;
// otherwise the failure carries no suggestions.
func (f *Factory) Resolution(message, abstract string, cause error, stack []string, opts ...FailureOption) *ResolutionError {
	o := buildOptions(opts)

	suggestions := o.suggestions
	if !o.override {
		suggestions = []string{}
		if abstract != "" {
			if generated := f.engine.Generate(abstract, cause, stack, f.snapshot); generated != nil {
				suggestions = generated
			}
		}
	}

	return &ResolutionError{
		Message:     message,
		Abstract:    abstract,
		Err:         cause,
		Stack:       snapshotStack(stack),
		Suggestions: suggestions,
	}
}

// circularCanned is the default remediation set for dependency cycles.
var circularCanned = []string{
	"Use lazy loading for one of the dependencies in the cycle.",
	"Introduce an interface to decouple the two sides of the cycle.",
	"Move one dependency to setter injection instead of constructor injection.",
	"A dependency cycle often signals misplaced responsibilities; consider restructuring.",
}

// Circular builds a circular-dependency failure. The chain must not contain
// empty strings; abstract is the identifier that closed the cycle.
func (f *Factory) Circular(abstract string, chain []string, opts ...FailureOption) *CircularDependencyError {
	o := buildOptions(opts)

	suggestions := circularCanned
	if o.override {
		suggestions = o.suggestions
	}

	return &CircularDependencyError{
		Abstract:    abstract,
		Chain:       snapshotStack(chain),
		Suggestions: dedupe(suggestions),
	}
}

var conflictCanned = map[ConflictType][]string{
	ConflictDuplicate: {
		"Remove one of the duplicate bindings, or use a named binding for the second registration.",
		"If the rebinding is intentional, replace the existing binding explicitly instead of registering twice.",
	},
	ConflictIncompatible: {
		"Check that the bound concrete type actually implements the abstract it is registered for.",
	},
	ConflictValidation: {
		"Fix the binding definition; the registered factory or type failed validation.",
	},
	ConflictCircularAlias: {
		"Break the alias cycle; an alias chain must terminate at a real binding.",
	},
}

var conflictGenericCanned = []string{
	"Review the binding registration for this identifier.",
}

// Conflict builds a binding-conflict failure with a per-type message template.
// Unknown conflict types fall back to a generic message and suggestions.
func (f *Factory) Conflict(abstract string, conflict ConflictType, details map[string]any, opts ...FailureOption) *BindingConflictError {
	o := buildOptions(opts)

	e := &BindingConflictError{
		Abstract: abstract,
		Conflict: conflict,
		Details:  details,
	}

	switch conflict {
	case ConflictDuplicate:
		e.Message = fmt.Sprintf("Duplicate binding for '%s': already bound to %s, attempted to rebind to %s",
			abstract, e.Detail("existing_type"), e.Detail("new_type"))
	case ConflictIncompatible:
		e.Message = fmt.Sprintf("Incompatible binding for '%s': %s", abstract, e.Detail("reason"))
	case ConflictValidation:
		e.Message = fmt.Sprintf("Invalid binding for '%s': %s", abstract, e.Detail("validation_error"))
	case ConflictCircularAlias:
		e.Message = fmt.Sprintf("Circular alias for '%s': %s", abstract, strings.Join(aliasChain(details), " -> "))
	default:
		e.Message = fmt.Sprintf("Binding conflict for '%s' (%s)", abstract, string(conflict))
	}

	suggestions, ok := conflictCanned[conflict]
	if !ok {
		suggestions = conflictGenericCanned
	}
	if o.override {
		suggestions = o.suggestions
	}
	e.Suggestions = dedupe(suggestions)

	return e
}

var notFoundCanned = []string{
	"Register a binding for the identifier before resolving it.",
	"Check for typos in the identifier.",
}

// NotFound builds a missing-binding failure. Suggestions are the canned
// not-found set merged with generated ones, de-duplicated.
func (f *Factory) NotFound(abstract string, opts ...FailureOption) *ResolutionError {
	o := buildOptions(opts)

	suggestions := o.suggestions
	if !o.override {
		suggestions = dedupe(append(
			append([]string{}, notFoundCanned...),
			f.engine.Generate(abstract, nil, nil, f.snapshot)...,
		))
	}

	return &ResolutionError{
		Message:     fmt.Sprintf("No binding found for '%s'", abstract),
		Abstract:    abstract,
		Suggestions: suggestions,
	}
}

var parameterCanned = []string{
	"Add a type to the parameter so the container can resolve it.",
	"Provide a default value for the parameter.",
	"Pass the value explicitly when resolving.",
}

// Parameter builds a parameter-resolution failure. Context generation is
// skipped here; stack and container state rarely help for a single parameter.
func (f *Factory) Parameter(abstract, param string, opts ...FailureOption) *ResolutionError {
	o := buildOptions(opts)

	suggestions := parameterCanned
	if o.override {
		suggestions = o.suggestions
	}

	return &ResolutionError{
		Message:     fmt.Sprintf("Cannot resolve parameter '%s' of '%s'", param, abstract),
		Abstract:    abstract,
		Suggestions: dedupe(suggestions),
	}
}

var instantiationCanned = []string{
	"Bind the identifier to a concrete, constructable type.",
	"If the type needs setup, register a factory instead of relying on direct construction.",
}

// Instantiation builds a failure for a type that could not be constructed.
func (f *Factory) Instantiation(abstract string, cause error, opts ...FailureOption) *ResolutionError {
	o := buildOptions(opts)

	suggestions := instantiationCanned
	if o.override {
		suggestions = o.suggestions
	}

	return &ResolutionError{
		Message:     fmt.Sprintf("Failed to instantiate '%s'", abstract),
		Abstract:    abstract,
		Err:         cause,
		Suggestions: dedupe(suggestions),
	}
}

// snapshotStack copies the in-flight stack so the failure owns an immutable view.
func snapshotStack(stack []string) []string {
	if len(stack) == 0 {
		return nil
	}
	out := make([]string, len(stack))
	copy(out, stack)
	return out
}

// dedupe collapses exact duplicates, preserving first-occurrence order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func aliasChain(details map[string]any) []string {
	switch v := details["alias_chain"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
