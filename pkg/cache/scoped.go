package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each tenant or deployment
// its own namespace in a shared backend:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "team:platform:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

// ColumnsKey generates a prefixed key for column caching.
func (k *ScopedKeyer) ColumnsKey(opts ColumnsKeyOpts) string {
	return k.prefix + k.inner.ColumnsKey(opts)
}
