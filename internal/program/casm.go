package program

import (
	"strconv"

	"cairoprog/internal/casm"
	"cairoprog/internal/relocatable"
	"cairoprog/internal/serde"
)

// FromCompiledClass builds a program from a compiled contract class. Every
// pc in the class hint table gets one placeholder hint whose code is the
// decimal pc; the Cairo 1 hint processor resolves the real hints by pc.
//
// The result has no builtins, entrypoint, identifiers, attributes or
// references.
func FromCompiledClass(cc *casm.ContractClass) (*Program, error) {
	if !CompiledClassSupported {
		return nil, ErrCompiledClassUnsupported
	}

	data := make([]relocatable.MaybeRelocatable, len(cc.Bytecode))
	for i, w := range cc.Bytecode {
		data[i] = relocatable.FromFelt(w)
	}

	hints := make(map[int][]serde.HintParams, len(cc.Hints))
	for _, h := range cc.Hints {
		hints[h.PC] = []serde.HintParams{{
			Code:             strconv.Itoa(h.PC),
			AccessibleScopes: []string{},
			FlowTrackingData: serde.FlowTrackingData{ReferenceIDs: map[string]int{}},
		}}
	}

	return New(nil, data, nil, hints, serde.ReferenceManager{}, nil, nil, nil)
}
