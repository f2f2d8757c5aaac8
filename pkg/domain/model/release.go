package model

// AuthorInfo identifies the user that published a release
type AuthorInfo struct {
	Name  string `json:"name"`  // GitHub login
	Image string `json:"image"` // Avatar URL
}

// ReleaseNotes is the canonical record served to clients and stored in the
// cache. Once assembled it is never mutated; cache hits hand out the same
// record.
type ReleaseNotes struct {
	Repo   string      `json:"repo"`
	Org    string      `json:"org"`
	Title  string      `json:"title"`
	Latest bool        `json:"latest"` // true when requested via the latest selector
	Author *AuthorInfo `json:"author"`
	Tag    string      `json:"tag"`
	Items  []Item      `json:"items"`
	URL    string      `json:"url"`
}

// Matches reports whether this record satisfies a lookup for the given
// repository and selector. A record inserted under a specific tag satisfies
// a latest lookup only when it also carries the latest flag; tag strings are
// never compared against a separately resolved latest pointer.
func (r *ReleaseNotes) Matches(org, repo string, sel Selector) bool {
	if r.Org != org || r.Repo != repo {
		return false
	}
	if sel.IsLatest() {
		return r.Latest
	}
	return r.Tag == sel.Tag()
}
