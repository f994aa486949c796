package di

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ConflictType classifies a binding conflict.
type ConflictType string

// Known binding conflict types. Unknown values fall back to a generic
// message and generic suggestions.
const (
	ConflictDuplicate     ConflictType = "duplicate"
	ConflictIncompatible  ConflictType = "incompatible"
	ConflictValidation    ConflictType = "validation"
	ConflictCircularAlias ConflictType = "circular_alias"
)

// ResolutionError reports that an abstract identifier could not be resolved.
// Instances built through Factory always carry Suggestions (possibly empty,
// never nil) and a snapshot of the in-flight resolution stack.
type ResolutionError struct {
	Err         error // underlying cause, if any
	Message     string
	Abstract    string   // failed identifier ("" when unknown)
	Stack       []string // resolution stack at the moment of failure
	Suggestions []string // de-duplicated, insertion-ordered
}

func (e *ResolutionError) Error() string {
	return e.Message
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// CircularDependencyError reports a dependency cycle. The full circular path
// is Chain followed by Abstract (the identifier that closed the cycle).
type CircularDependencyError struct {
	Abstract    string
	Chain       []string // never contains the empty string
	Suggestions []string
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + e.FullPath()
}

// FullPath renders the complete cycle as "a -> b -> a".
func (e *CircularDependencyError) FullPath() string {
	return strings.Join(e.Chain, " -> ") + " -> " + e.Abstract
}

// IsInChain reports whether the identifier participates in the cycle,
// either inside the chain or as the closing identifier.
func (e *CircularDependencyError) IsInChain(abstract string) bool {
	return abstract == e.Abstract || slices.Contains(e.Chain, abstract)
}

// BindingConflictError reports an invalid binding registration.
type BindingConflictError struct {
	Details     map[string]any
	Message     string
	Abstract    string
	Conflict    ConflictType
	Suggestions []string
}

func (e *BindingConflictError) Error() string {
	return e.Message
}

// Detail returns a string detail field, or "" if absent or not a string.
func (e *BindingConflictError) Detail(key string) string {
	if v, ok := e.Details[key].(string); ok {
		return v
	}
	return ""
}

// IsDiagnostic reports whether the error belongs to the container-resolution
// family (and therefore carries suggestions when factory-built).
func IsDiagnostic(err error) bool {
	var re *ResolutionError
	var ce *CircularDependencyError
	var be *BindingConflictError
	return errors.As(err, &re) || errors.As(err, &ce) || errors.As(err, &be)
}

// SuggestionsOf extracts the suggestion list from any diagnostic error.
// Returns nil for non-diagnostic errors.
func SuggestionsOf(err error) []string {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Suggestions
	}
	var ce *CircularDependencyError
	if errors.As(err, &ce) {
		return ce.Suggestions
	}
	var be *BindingConflictError
	if errors.As(err, &be) {
		return be.Suggestions
	}
	return nil
}

// FormatSuggestions renders suggestions as a numbered block for logs.
func FormatSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Suggestions:")
	for i, s := range suggestions {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, s)
	}
	return b.String()
}
