package extract

// orderedSet collects strings once each, in first-seen order
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{
		seen:  make(map[string]bool),
		items: make([]string, 0),
	}
}

// Add appends v unless it is already present
func (s *orderedSet) Add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

// Items returns the collected values; never nil
func (s *orderedSet) Items() []string {
	return s.items
}
