package di

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity thresholds and stack heuristics. The values are arbitrary but
// observable in diagnostics output, so they are fixed constants.
const (
	nearMissThreshold   = 0.8
	nearMissLimit       = 3
	bindingSimThreshold = 0.7
	deepStackDepth      = 10
)

// Engine synthesizes remediation suggestions for container-resolution
// failures. It is stateless, deterministic, and performs no I/O; an Engine is
// safe for concurrent use.
type Engine struct {
	registry Registry
}

// NewEngine creates a suggestion engine over the given type registry.
// A nil registry is treated as empty.
func NewEngine(registry Registry) *Engine {
	if registry == nil {
		registry = Registry{}
	}
	return &Engine{registry: registry}
}

// Generate produces an ordered, de-duplicated list of suggestions for the
// failed identifier. Four analyses run in fixed order: identifier, cause,
// stack context, container state. The result for identical inputs is always
// identical. Generate never fails; inputs it cannot interpret simply
// contribute nothing.
func (e *Engine) Generate(abstract string, cause error, stack []string, snap Snapshot) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, s := range e.analyzeIdentifier(abstract) {
		add(s)
	}
	for _, s := range analyzeCause(cause) {
		add(s)
	}
	for _, s := range analyzeStack(abstract, stack) {
		add(s)
	}
	for _, s := range e.analyzeSnapshot(abstract, snap) {
		add(s)
	}

	return out
}

// analyzeIdentifier classifies the identifier against the type registry.
func (e *Engine) analyzeIdentifier(abstract string) []string {
	meta, ok := e.registry.Lookup(abstract)
	if !ok {
		return append(
			[]string{"Type or binding '" + abstract + "' was not found; check the identifier spelling and that the package registering it is imported."},
			e.nearMisses(abstract)...,
		)
	}

	var out []string
	switch {
	case meta.Interface:
		out = append(out, "'"+abstract+"' is an interface; register a binding that maps it to a concrete implementation.")
	case !meta.Instantiable:
		out = append(out, "'"+abstract+"' is not instantiable; bind it to a constructable type or provide a factory.")
	}
	if len(meta.UntypedParams) > 0 {
		out = append(out, "Constructor parameters without type information: "+strings.Join(meta.UntypedParams, ", ")+"; add explicit types so the container can resolve them.")
	}
	return out
}

// nearMisses returns up to nearMissLimit known identifiers whose similarity
// to the failed one exceeds nearMissThreshold, most similar first.
func (e *Engine) nearMisses(abstract string) []string {
	type candidate struct {
		name string
		sim  float64
	}

	var candidates []candidate
	for _, name := range e.registry.Known() {
		if sim := Similarity(abstract, name); sim > nearMissThreshold {
			candidates = append(candidates, candidate{name: name, sim: sim})
		}
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.sim != b.sim {
			if a.sim > b.sim {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(len(candidates), nearMissLimit))
	for _, c := range candidates[:min(len(candidates), nearMissLimit)] {
		out = append(out, "Did you mean '"+c.name+"'?")
	}
	return out
}

// causePhrases maps message fragments to canned remediations, checked in
// order. Used when the cause is not one of this package's typed failures.
var causePhrases = []struct {
	phrase string
	advice string
}{
	{"not found", "The dependency was never registered; bind it before resolving."},
	{"circular dependency", "Break the cycle with lazy resolution or by extracting a shared interface."},
	{"not instantiable", "The target cannot be constructed directly; bind it to a concrete type or factory."},
	{"untyped parameter", "Add type information to constructor parameters so they can be injected."},
	{"Cannot resolve parameter", "A constructor parameter has no binding and no default; register it or supply a default value."},
}

// analyzeCause inspects the triggering failure. Typed failures are matched
// by kind; foreign causes fall back to substring matching on their message.
func analyzeCause(cause error) []string {
	if cause == nil {
		return nil
	}

	var ce *CircularDependencyError
	if errors.As(cause, &ce) {
		return []string{"Break the cycle with lazy resolution or by extracting a shared interface."}
	}

	var out []string
	msg := cause.Error()
	for _, p := range causePhrases {
		if strings.Contains(msg, p.phrase) {
			out = append(out, p.advice)
		}
	}
	return out
}

// analyzeStack applies heuristics over the in-flight resolution stack.
func analyzeStack(abstract string, stack []string) []string {
	var out []string

	if len(stack) > deepStackDepth {
		out = append(out, "The resolution stack is deep ("+strconv.Itoa(len(stack))+" levels); consider simplifying the dependency graph.")
	}
	if slices.Contains(stack, abstract) {
		out = append(out, "'"+abstract+"' is already being resolved higher in the stack; use lazy loading to break the cycle.")
	}

	joined := strings.Join(stack, " ")
	if strings.Contains(joined, "Repository") && strings.Contains(joined, "Service") {
		out = append(out, "Repositories and services appear in the same resolution path; review the layering between them.")
	}
	return out
}

// analyzeSnapshot compares the identifier against live container state.
func (e *Engine) analyzeSnapshot(abstract string, snap Snapshot) []string {
	type candidate struct {
		name string
		sim  float64
	}

	var candidates []candidate
	for key := range snap.Bindings {
		if sim := Similarity(abstract, key); sim > bindingSimThreshold {
			candidates = append(candidates, candidate{name: key, sim: sim})
		}
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.sim != b.sim {
			if a.sim > b.sim {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})

	var out []string
	for _, c := range candidates {
		out = append(out, "A similar binding exists: '"+c.name+"'.")
	}

	if target, ok := snap.AliasTarget(abstract); ok {
		out = append(out, "'"+abstract+"' is an alias for '"+target+"'; the target binding may be missing.")
	}
	if snap.HasInstance(abstract) {
		out = append(out, "'"+abstract+"' holds a singleton instance; it may have been corrupted or cleared.")
	}
	return out
}

// Similarity returns the normalized edit-distance similarity of two strings,
// case-insensitive: 1 - lev(a, b) / max(len(a), len(b)). Two empty strings
// are identical (1.0). Similarity is symmetric.
func Similarity(a, b string) float64 {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	maxLen := max(utf8.RuneCountInString(la), utf8.RuneCountInString(lb))
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(la, lb)
	return 1.0 - float64(dist)/float64(maxLen)
}
