package program

import (
	"sort"

	"cairoprog/internal/serde"
)

// HintRange locates the hints of one pc inside the flattened hint array.
// A zero Len means the pc has no hints; a present range is never empty.
type HintRange struct {
	Start int
	Len   int
}

// Present reports whether the range holds at least one hint.
func (r HintRange) Present() bool { return r.Len > 0 }

// End returns the exclusive end offset.
func (r HintRange) End() int { return r.Start + r.Len }

// FlattenHints turns a per-pc hint mapping into one dense hint array and
// an index with one slot per pc up to the highest mapped pc. Each pc's
// hints stay contiguous and in order; pcs are laid out in ascending order.
// Pcs mapped to an empty list get no range. An empty mapping yields two
// empty outputs.
//
// Negative pcs and pcs above MaxHintPC must be rejected by the caller.
func FlattenHints(hints map[int][]serde.HintParams) ([]serde.HintParams, []HintRange) {
	if len(hints) == 0 {
		return nil, nil
	}

	pcs := make([]int, 0, len(hints))
	maxPC, total := 0, 0
	for pc, hs := range hints {
		pcs = append(pcs, pc)
		maxPC = max(maxPC, pc)
		total += len(hs)
	}
	sort.Ints(pcs)

	values := make([]serde.HintParams, 0, total)
	ranges := make([]HintRange, maxPC+1)
	for _, pc := range pcs {
		hs := hints[pc]
		if len(hs) == 0 {
			continue
		}
		ranges[pc] = HintRange{Start: len(values), Len: len(hs)}
		values = append(values, hs...)
	}
	return values, ranges
}
