package disasm

import (
	"sort"

	"cairoprog/internal/program"
)

const functionType = "function"

// Function is a contiguous pc range named by a "function" identifier.
type Function struct {
	Name  string
	Start int // inclusive
	End   int // exclusive
}

// Functions returns the program's functions sorted by start pc. Each
// function extends to the next function's pc, the last one to the end of
// the data. Functions sharing a pc keep the lexically smallest name.
func Functions(prog *program.Program) []Function {
	byPC := make(map[int]string)
	for name, id := range prog.Identifiers() {
		if id.Type != functionType || id.PC == nil {
			continue
		}
		pc := *id.PC
		if pc < 0 || pc >= prog.DataLen() {
			continue
		}
		if prev, ok := byPC[pc]; !ok || name < prev {
			byPC[pc] = name
		}
	}

	funcs := make([]Function, 0, len(byPC))
	for pc, name := range byPC {
		funcs = append(funcs, Function{Name: name, Start: pc})
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Start < funcs[j].Start })
	for i := range funcs {
		funcs[i].End = prog.DataLen()
		if i+1 < len(funcs) {
			funcs[i].End = funcs[i+1].Start
		}
	}
	return funcs
}

// Slice returns the instructions of insts whose pc lies in [f.Start, f.End).
// insts must be sorted by pc.
func (f Function) Slice(insts []Inst) []Inst {
	lo := sort.Search(len(insts), func(i int) bool { return insts[i].PC >= f.Start })
	hi := sort.Search(len(insts), func(i int) bool { return insts[i].PC >= f.End })
	return insts[lo:hi]
}

// SymbolLookupFor names the function entry pcs of funcs.
func SymbolLookupFor(funcs []Function) SymbolLookup {
	names := make(map[int]string, len(funcs))
	for _, f := range funcs {
		names[f.Start] = f.Name
	}
	return PlaceholderLookup(names)
}

// FuncRecord is one line in functions.jsonl.
type FuncRecord struct {
	PC     int    `json:"pc"`
	Size   int    `json:"size"`
	Name   string `json:"name"`
	Insts  int    `json:"insts"`
	Hints  int    `json:"hints,omitempty"`
	Blocks int    `json:"blocks,omitempty"`
}

// CallEdgeRecord is one line in call_edges.jsonl.
type CallEdgeRecord struct {
	FromFunc string `json:"from_func"`
	FromPC   int    `json:"from_pc"`
	Kind     string `json:"kind"`             // "call abs" or "call rel"
	Target   string `json:"target,omitempty"` // callee name, or pc when unnamed
}
