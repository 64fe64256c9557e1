package program

import "cairoprog/internal/serde"

// HintReference is a compile-time reference reduced to what hint
// execution needs to resolve it.
type HintReference struct {
	Offset1     serde.OffsetValue
	Offset2     serde.OffsetValue
	Dereference bool
	// APTrackingData is set only when an offset is ap-relative.
	APTrackingData *serde.APTracking
	CairoType      string
}

func referenceList(rm serde.ReferenceManager) []HintReference {
	refs := make([]HintReference, len(rm.References))
	for i, r := range rm.References {
		va := r.ValueAddress
		refs[i] = HintReference{
			Offset1:     va.Offset1,
			Offset2:     va.Offset2,
			Dereference: va.Dereference,
			CairoType:   va.ValueType,
		}
		if va.Offset1.IsRelativeTo(serde.AP) || va.Offset2.IsRelativeTo(serde.AP) {
			tracking := r.APTrackingData
			refs[i].APTrackingData = &tracking
		}
	}
	return refs
}
