package vcf

import (
	"fmt"
	"slices"
)

// VariantSet is the id-to-variant collection built by the parser. It keeps
// first-insertion order; a variant with an existing ID replaces the earlier
// one in place.
type VariantSet struct {
	order []string
	byID  map[string]*Variant
}

// NewVariantSet creates an empty set.
func NewVariantSet() *VariantSet {
	return &VariantSet{byID: make(map[string]*Variant)}
}

// Add stores v under its ID and reports whether an earlier variant with the
// same ID was replaced. A mate linked to the replaced variant loses its
// link; it is relinked only if v names it as MATEID.
func (s *VariantSet) Add(v *Variant) (replaced bool) {
	if old, ok := s.byID[v.ID]; ok {
		replaced = true
		s.unlink(old)
	} else {
		s.order = append(s.order, v.ID)
	}
	s.byID[v.ID] = v
	v.set = s
	return replaced
}

// Get returns the variant with the given ID.
func (s *VariantSet) Get(id string) (*Variant, bool) {
	v, ok := s.byID[id]
	return v, ok
}

// Len returns the number of variants.
func (s *VariantSet) Len() int {
	return len(s.order)
}

// IDs returns a copy of the variant IDs in insertion order.
func (s *VariantSet) IDs() []string {
	return slices.Clone(s.order)
}

// Variants returns the variants in insertion order.
func (s *VariantSet) Variants() []*Variant {
	variants := make([]*Variant, len(s.order))
	for i, id := range s.order {
		variants[i] = s.byID[id]
	}
	return variants
}

// Link records a and b as mates of each other. Both must be in the set.
func (s *VariantSet) Link(a, b string) error {
	va, ok := s.byID[a]
	if !ok {
		return fmt.Errorf("link mates: variant %s not in set", a)
	}
	vb, ok := s.byID[b]
	if !ok {
		return fmt.Errorf("link mates: variant %s not in set", b)
	}
	s.unlink(va)
	s.unlink(vb)
	va.mate = b
	vb.mate = a
	return nil
}

// unlink clears the mate link of v and of the partner pointing back at it.
func (s *VariantSet) unlink(v *Variant) {
	if v.mate == "" {
		return
	}
	if partner, ok := s.byID[v.mate]; ok && partner.mate == v.ID {
		partner.mate = ""
	}
	v.mate = ""
}

// linkMate links v to the mate named by its MATEID if that mate has
// already been added. It reports whether a link was made.
func (s *VariantSet) linkMate(v *Variant) bool {
	if !v.IsBreakend() {
		return false
	}
	mateID, ok := v.info.Get("MATEID")
	if !ok || mateID.IsFlag() {
		return false
	}
	if _, ok := s.byID[mateID.String()]; !ok {
		return false
	}
	return s.Link(v.ID, mateID.String()) == nil
}

// Unlinked returns breakends that name a MATEID but have no linked mate,
// in insertion order.
func (s *VariantSet) Unlinked() []*Variant {
	var unlinked []*Variant
	for _, v := range s.Variants() {
		if !v.IsBreakend() || !v.HasInfo("MATEID") {
			continue
		}
		if _, ok := v.Mate(); !ok {
			unlinked = append(unlinked, v)
		}
	}
	return unlinked
}
