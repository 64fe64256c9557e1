// Package relocatable defines the machine words stored in a Cairo program:
// field elements or (segment, offset) addresses.
package relocatable

import (
	"fmt"

	"cairoprog/internal/felt"
)

// Relocatable is an address expressed relative to a memory segment.
type Relocatable struct {
	Segment int
	Offset  int
}

func (r Relocatable) String() string {
	return fmt.Sprintf("%d:%d", r.Segment, r.Offset)
}

// MaybeRelocatable is either a field element or a Relocatable.
// The zero value is the field element 0.
type MaybeRelocatable struct {
	f     felt.Felt
	r     Relocatable
	isRel bool
}

// FromFelt wraps a field element.
func FromFelt(f felt.Felt) MaybeRelocatable {
	return MaybeRelocatable{f: f}
}

// FromUint64 wraps v as a field element.
func FromUint64(v uint64) MaybeRelocatable {
	return MaybeRelocatable{f: felt.FromUint64(v)}
}

// FromRelocatable wraps an address.
func FromRelocatable(r Relocatable) MaybeRelocatable {
	return MaybeRelocatable{r: r, isRel: true}
}

// Felt returns the field element and true, or false for an address.
func (m MaybeRelocatable) Felt() (felt.Felt, bool) {
	if m.isRel {
		return felt.Felt{}, false
	}
	return m.f, true
}

// Relocatable returns the address and true, or false for a field element.
func (m MaybeRelocatable) Relocatable() (Relocatable, bool) {
	if !m.isRel {
		return Relocatable{}, false
	}
	return m.r, true
}

func (m MaybeRelocatable) IsRelocatable() bool { return m.isRel }

func (m MaybeRelocatable) Equal(o MaybeRelocatable) bool {
	if m.isRel != o.isRel {
		return false
	}
	if m.isRel {
		return m.r == o.r
	}
	return m.f.Equal(o.f)
}

func (m MaybeRelocatable) String() string {
	if m.isRel {
		return m.r.String()
	}
	return m.f.String()
}
