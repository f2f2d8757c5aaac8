package model

// LatestTag is the literal tag value that requests the most recent release
const LatestTag = "latest"

// Selector is the query mode for a release: the most recent one, or an
// explicit tag.
type Selector struct {
	tag string
}

// LatestSelector requests the most recent release
func LatestSelector() Selector {
	return Selector{}
}

// TagSelector requests the release published under the given tag
func TagSelector(tag string) Selector {
	return Selector{tag: tag}
}

// ParseSelector interprets a raw tag parameter. An empty value or the
// literal "latest" selects the most recent release.
func ParseSelector(raw string) Selector {
	if raw == "" || raw == LatestTag {
		return LatestSelector()
	}
	return TagSelector(raw)
}

// IsLatest reports whether the selector requests the most recent release
func (s Selector) IsLatest() bool {
	return s.tag == ""
}

// Tag returns the explicit tag, or empty for a latest selector
func (s Selector) Tag() string {
	return s.tag
}

// String renders the selector for logging and coalescing keys
func (s Selector) String() string {
	if s.IsLatest() {
		return LatestTag
	}
	return s.tag
}
