package container

// OneToOne is a symmetric bijection between L and R.
type OneToOne[L comparable, R comparable] struct {
	forward map[L]R
	reverse map[R]L
}

// NewOneToOne returns an empty bijection.
func NewOneToOne[L comparable, R comparable]() *OneToOne[L, R] {
	return &OneToOne[L, R]{
		forward: make(map[L]R),
		reverse: make(map[R]L),
	}
}

// Put records the pair (l, r), overwriting any prior mapping on either side.
func (o *OneToOne[L, R]) Put(l L, r R) {
	o.forward[l] = r
	o.reverse[r] = l
}

// Forward looks up r given l.
func (o *OneToOne[L, R]) Forward(l L) (R, bool) {
	r, ok := o.forward[l]
	return r, ok
}

// Reverse looks up l given r.
func (o *OneToOne[L, R]) Reverse(r R) (L, bool) {
	l, ok := o.reverse[r]
	return l, ok
}

// Len reports the number of pairs.
func (o *OneToOne[L, R]) Len() int {
	return len(o.forward)
}

// OneToOneFat is a bijection where each side stores the full value (not
// just its counterpart key), keyed by a derived identity on each side.
// LID/RID are the identity types extracted from L/R (e.g. Fid from a
// file Borrow, or an Ident from a file Borrow's path+kind).
type OneToOneFat[LID comparable, R any, RID comparable, L any] struct {
	byLID map[LID]R
	byRID map[RID]L
}

// NewOneToOneFat returns an empty fat bijection.
func NewOneToOneFat[LID comparable, R any, RID comparable, L any]() *OneToOneFat[LID, R, RID, L] {
	return &OneToOneFat[LID, R, RID, L]{
		byLID: make(map[LID]R),
		byRID: make(map[RID]L),
	}
}

// PutLeft records the left-keyed value: lid identifies l, and r is the
// full right-hand value associated with it.
func (o *OneToOneFat[LID, R, RID, L]) PutLeft(lid LID, r R) {
	o.byLID[lid] = r
}

// PutRight records the right-keyed value: rid identifies r, and l is the
// full left-hand value associated with it.
func (o *OneToOneFat[LID, R, RID, L]) PutRight(rid RID, l L) {
	o.byRID[rid] = l
}

// ByLID looks up the full right-hand value given a left identity.
func (o *OneToOneFat[LID, R, RID, L]) ByLID(lid LID) (R, bool) {
	r, ok := o.byLID[lid]
	return r, ok
}

// ByRID looks up the full left-hand value given a right identity.
func (o *OneToOneFat[LID, R, RID, L]) ByRID(rid RID) (L, bool) {
	l, ok := o.byRID[rid]
	return l, ok
}

// LIDs returns every left identity recorded.
func (o *OneToOneFat[LID, R, RID, L]) LIDs() []LID {
	out := make([]LID, 0, len(o.byLID))
	for k := range o.byLID {
		out = append(out, k)
	}
	return out
}

// Len reports the number of left-keyed entries.
func (o *OneToOneFat[LID, R, RID, L]) Len() int {
	return len(o.byLID)
}
