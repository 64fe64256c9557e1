package disasm

// CallEdge represents a call site extracted from disassembly.
type CallEdge struct {
	FromPC     int    `json:"from_pc"`
	Kind       string `json:"kind"`                // "call abs", "call rel"
	TargetPC   int    `json:"target_pc,omitempty"` // resolved callee pc
	TargetName string `json:"target_name,omitempty"`
	Resolved   bool   `json:"resolved"`
}

// ExtractCallEdges scans insts for call instructions. Targets are named
// through lookup when it knows the callee pc.
func ExtractCallEdges(insts []Inst, lookup SymbolLookup) []CallEdge {
	var edges []CallEdge
	for _, inst := range insts {
		target, isCall, resolved := DecodeCall(inst)
		if !isCall {
			continue
		}
		kind := "call abs"
		if inst.Instr.PCUpdate == PCJumpRel {
			kind = "call rel"
		}
		e := CallEdge{FromPC: inst.PC, Kind: kind, Resolved: resolved}
		if resolved {
			e.TargetPC = target
			if lookup != nil {
				if name, ok := lookup(target); ok {
					e.TargetName = name
				}
			}
		}
		edges = append(edges, e)
	}
	return edges
}
