package scraper

// imageSet collects harvested image URLs with exact-string deduplication,
// preserving the order of first sight. Insertions beyond the bound are
// rejected so the harvest loop can never overshoot the gallery counter.
type imageSet struct {
	seen  map[string]struct{}
	urls  []string
	bound int
}

// newImageSet creates a collector capped at bound entries. A bound <= 0
// means unbounded.
func newImageSet(bound int) *imageSet {
	return &imageSet{
		seen:  make(map[string]struct{}),
		urls:  []string{},
		bound: bound,
	}
}

// Add records url if it is non-empty, unseen and the bound is not reached.
// Returns true when the url was actually inserted.
func (s *imageSet) Add(url string) bool {
	if url == "" {
		return false
	}
	if _, dup := s.seen[url]; dup {
		return false
	}
	if s.bound > 0 && len(s.urls) >= s.bound {
		return false
	}
	s.seen[url] = struct{}{}
	s.urls = append(s.urls, url)
	return true
}

// Len reports how many distinct urls have been collected.
func (s *imageSet) Len() int {
	return len(s.urls)
}

// URLs returns the collected urls in first-seen order. The returned slice
// is never nil.
func (s *imageSet) URLs() []string {
	return s.urls
}
