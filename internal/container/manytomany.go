// Package container implements the generic dual-index associative
// containers used to hold indexed query results in memory.
package container

// ManyToMany is a dual-indexed many-to-many relation between L and R,
// kept consistent as a pair of adjacency maps.
type ManyToMany[L comparable, R comparable] struct {
	ls map[L]map[R]struct{}
	rs map[R]map[L]struct{}
}

// NewManyToMany returns an empty relation.
func NewManyToMany[L comparable, R comparable]() *ManyToMany[L, R] {
	return &ManyToMany[L, R]{
		ls: make(map[L]map[R]struct{}),
		rs: make(map[R]map[L]struct{}),
	}
}

// Map records the pair (l, r). It returns whether l and r were each
// newly seen on their respective side (first-seen booleans), matching
// the original `(first_l, first_r)` return shape.
func (m *ManyToMany[L, R]) Map(l L, r R) (firstL bool, firstR bool) {
	if _, ok := m.ls[l]; !ok {
		m.ls[l] = make(map[R]struct{})
		firstL = true
	}
	if _, ok := m.rs[r]; !ok {
		m.rs[r] = make(map[L]struct{})
		firstR = true
	}
	m.ls[l][r] = struct{}{}
	m.rs[r][l] = struct{}{}
	return firstL, firstR
}

// GetRs returns the set of R related to l.
func (m *ManyToMany[L, R]) GetRs(l L) map[R]struct{} {
	return m.ls[l]
}

// GetLs returns the set of L related to r.
func (m *ManyToMany[L, R]) GetLs(r R) map[L]struct{} {
	return m.rs[r]
}

// Ls returns every L recorded, regardless of its associated R set.
func (m *ManyToMany[L, R]) Ls() []L {
	out := make([]L, 0, len(m.ls))
	for l := range m.ls {
		out = append(out, l)
	}
	return out
}

// Rs returns every R recorded, regardless of its associated L set.
func (m *ManyToMany[L, R]) Rs() []R {
	out := make([]R, 0, len(m.rs))
	for r := range m.rs {
		out = append(out, r)
	}
	return out
}

// LenLs reports the number of distinct R associated with l.
func (m *ManyToMany[L, R]) LenLs(l L) int {
	return len(m.ls[l])
}
