package container

import "golang.org/x/exp/maps"

// Diff computes the symmetric difference between two sets of comparable
// identities, as used by the update engine to compare on-disk truth
// against the indexed snapshot.
type Diff[D comparable] struct {
	ls map[D]struct{}
	rs map[D]struct{}
}

// NewDiff builds a Diff from two slices of identities.
func NewDiff[D comparable](ls, rs []D) *Diff[D] {
	d := &Diff[D]{
		ls: make(map[D]struct{}, len(ls)),
		rs: make(map[D]struct{}, len(rs)),
	}
	for _, l := range ls {
		d.ls[l] = struct{}{}
	}
	for _, r := range rs {
		d.rs[r] = struct{}{}
	}
	return d
}

// Diff returns (ls-rs, rs-ls): the elements only on the left, and the
// elements only on the right.
func (d *Diff[D]) Diff() (onlyLeft []D, onlyRight []D) {
	for l := range d.ls {
		if _, ok := d.rs[l]; !ok {
			onlyLeft = append(onlyLeft, l)
		}
	}
	for r := range d.rs {
		if _, ok := d.ls[r]; !ok {
			onlyRight = append(onlyRight, r)
		}
	}
	return onlyLeft, onlyRight
}

// Keep returns the elements common to both sides.
func (d *Diff[D]) Keep() []D {
	common := make([]D, 0)
	for l := range d.ls {
		if _, ok := d.rs[l]; ok {
			common = append(common, l)
		}
	}
	return common
}

// LeftKeys exposes the raw left-hand set, used by callers that need to
// iterate it in a stable sorted order via golang.org/x/exp/maps+slices.
func (d *Diff[D]) LeftKeys() []D { return maps.Keys(d.ls) }

// RightKeys exposes the raw right-hand set.
func (d *Diff[D]) RightKeys() []D { return maps.Keys(d.rs) }
