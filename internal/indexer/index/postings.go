package index

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Postings is a read-only set of document ids. The zero value is an empty
// set.
type Postings struct {
	bm *roaring.Bitmap
}

// Len returns the number of ids in the set.
func (p Postings) Len() int {
	if p.bm == nil {
		return 0
	}
	return int(p.bm.GetCardinality())
}

// IsEmpty reports whether the set has no ids.
func (p Postings) IsEmpty() bool {
	return p.bm == nil || p.bm.IsEmpty()
}

// Contains reports whether id is in the set.
func (p Postings) Contains(id uint32) bool {
	return p.bm != nil && p.bm.Contains(id)
}

// IDs returns the ids in ascending order as a fresh slice.
func (p Postings) IDs() []uint32 {
	if p.bm == nil {
		return []uint32{}
	}
	return p.bm.ToArray()
}

// Each calls fn for every id in ascending order until fn returns false.
func (p Postings) Each(fn func(id uint32) bool) {
	if p.bm == nil {
		return
	}
	p.bm.Iterate(fn)
}

// Intersect returns the ids present in every list. The inputs are not
// modified. Intersect of no lists is the empty set; callers that need to
// tell "nothing to intersect" apart from "empty intersection" must check
// len(lists) themselves.
func Intersect(lists ...Postings) Postings {
	if len(lists) == 0 {
		return Postings{}
	}
	bms := make([]*roaring.Bitmap, 0, len(lists))
	for _, l := range lists {
		if l.IsEmpty() {
			return Postings{}
		}
		bms = append(bms, l.bm)
	}
	return Postings{bm: roaring.FastAnd(bms...)}
}

// Union returns the ids present in any list.
func Union(lists ...Postings) Postings {
	bms := make([]*roaring.Bitmap, 0, len(lists))
	for _, l := range lists {
		if l.bm != nil {
			bms = append(bms, l.bm)
		}
	}
	if len(bms) == 0 {
		return Postings{}
	}
	return Postings{bm: roaring.FastOr(bms...)}
}

// NewPostings builds a set from ids.
func NewPostings(ids ...uint32) Postings {
	return Postings{bm: roaring.BitmapOf(ids...)}
}
