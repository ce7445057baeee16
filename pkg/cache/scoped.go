package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving tenants or
// environments that share a Redis or Mongo backend separate namespaces:
//
//	staging := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(mappingHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(mappingHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
