package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// or environments can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "graphprep:staging:")
type ScopedKeyer struct {
	Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, falling back to [DefaultKeyer] when nil.
func NewScopedKeyer(inner Keyer, prefix string) ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{Keyer: inner, Prefix: prefix}
}

func (k ScopedKeyer) ResultKey(graphHash string) string {
	return k.Prefix + k.Keyer.ResultKey(graphHash)
}

func (k ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Keyer.ArtifactKey(resultHash, opts)
}
