package di

// Snapshot is a read-only view of container state, passed by value into the
// suggestion engine so it never depends on the container's internals.
type Snapshot struct {
	// Bindings maps abstract identifiers to a human-readable description of
	// the bound concrete (type name, factory signature, etc.).
	Bindings map[string]string

	// Aliases maps alias identifiers to their targets.
	Aliases map[string]string

	// Instances holds identifiers with resolved singleton instances.
	Instances map[string]bool
}

// HasBinding reports whether the identifier has a registered binding.
func (s Snapshot) HasBinding(abstract string) bool {
	_, ok := s.Bindings[abstract]
	return ok
}

// AliasTarget returns the alias target for the identifier, if any.
func (s Snapshot) AliasTarget(abstract string) (string, bool) {
	target, ok := s.Aliases[abstract]
	return target, ok
}

// HasInstance reports whether the identifier holds a resolved singleton.
func (s Snapshot) HasInstance(abstract string) bool {
	return s.Instances[abstract]
}

// TypeMeta describes a declared type well enough for diagnostics.
// It replaces runtime reflection with an explicit registry populated by the
// container at binding time.
type TypeMeta struct {
	// Interface marks interface-only identifiers that need an explicit binding.
	Interface bool

	// Instantiable reports whether the type can be constructed directly.
	Instantiable bool

	// UntypedParams lists constructor parameter names lacking type information.
	UntypedParams []string
}

// Registry is an explicit catalog of declared types keyed by identifier.
type Registry map[string]TypeMeta

// Lookup returns the metadata for an identifier.
func (r Registry) Lookup(abstract string) (TypeMeta, bool) {
	meta, ok := r[abstract]
	return meta, ok
}

// Known returns all registered identifiers. Order is unspecified; callers
// that need determinism must sort.
func (r Registry) Known() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
