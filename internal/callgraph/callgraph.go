// Package callgraph turns disassembled Cairo functions into lattice call
// graphs and control flow graphs.
package callgraph

import (
	"fmt"

	"github.com/zboralski/lattice"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/disasm"
	"cairoprog/internal/program"
)

// FuncInfo holds the data needed to build call graph and CFG for one function.
type FuncInfo struct {
	Name      string
	Insts     []disasm.Inst
	CallEdges []disasm.CallEdge
}

// Collect disassembles prog and splits it into its "function" identifiers.
func Collect(prog *program.Program, opts cairofmt.Options) []FuncInfo {
	insts := disasm.Disassemble(prog, opts)
	funcs := disasm.Functions(prog)
	lookup := disasm.SymbolLookupFor(funcs)

	infos := make([]FuncInfo, 0, len(funcs))
	for _, f := range funcs {
		body := f.Slice(insts)
		infos = append(infos, FuncInfo{
			Name:      f.Name,
			Insts:     body,
			CallEdges: disasm.ExtractCallEdges(body, lookup),
		})
	}
	return infos
}

// calleeName names a call target: the function name when known, else its pc.
func calleeName(e disasm.CallEdge) string {
	if e.TargetName != "" {
		return e.TargetName
	}
	if e.Resolved {
		return fmt.Sprintf("pc_%d", e.TargetPC)
	}
	return ""
}

// BuildCallGraph constructs a lattice.Graph from disassembled functions.
// Each function becomes a node. Each call with an immediate target becomes
// an edge; register-computed calls are skipped.
func BuildCallGraph(funcs []FuncInfo) *lattice.Graph {
	g := &lattice.Graph{}
	for _, f := range funcs {
		g.Nodes = append(g.Nodes, f.Name)
		for _, e := range f.CallEdges {
			callee := calleeName(e)
			if callee == "" {
				continue
			}
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: f.Name,
				Callee: callee,
			})
		}
	}
	g.Dedup()
	return g
}
