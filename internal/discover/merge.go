package discover

import "github.com/sells-group/prospect-cli/internal/model"

// ownerSet accumulates owners keyed by normalized name, preserving
// insertion order. put never replaces an existing entry, so the first
// (most authoritative) source to report a name wins the title and any
// attached email; later sources can only add new names.
type ownerSet struct {
	byKey map[string]*model.Owner
	order []string
}

func newOwnerSet() *ownerSet {
	return &ownerSet{byKey: make(map[string]*model.Owner)}
}

// put inserts the owner if its normalized name key is absent. Returns true
// when inserted, false for duplicates.
func (s *ownerSet) put(o model.Owner) bool {
	key := nameKey(o.FirstName, o.LastName)
	if _, exists := s.byKey[key]; exists {
		return false
	}
	clone := o
	s.byKey[key] = &clone
	s.order = append(s.order, key)
	return true
}

// get returns the stored owner for a first/last name, or nil.
func (s *ownerSet) get(first, last string) *model.Owner {
	return s.byKey[nameKey(first, last)]
}

func (s *ownerSet) len() int { return len(s.order) }

// all returns the stored owners in insertion order. The returned pointers
// alias the set's entries so the cascade can fill emails in place.
func (s *ownerSet) all() []*model.Owner {
	owners := make([]*model.Owner, 0, len(s.order))
	for _, key := range s.order {
		owners = append(owners, s.byKey[key])
	}
	return owners
}

// snapshot copies the owners out in insertion order for the final result.
func (s *ownerSet) snapshot() []model.Owner {
	owners := make([]model.Owner, 0, len(s.order))
	for _, key := range s.order {
		owners = append(owners, *s.byKey[key])
	}
	return owners
}
