package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ethereum/go-ethereum/log"

	"cairoprog/internal/callgraph"
	"cairoprog/internal/disasm"
	"cairoprog/internal/output"
	"cairoprog/internal/program"
)

func annotators(p *program.Program) []disasm.Annotator {
	return []disasm.Annotator{
		disasm.HintAnnotator(p),
		disasm.ErrorMessageAnnotator(p),
		disasm.LocationAnnotator(p),
	}
}

func cmdDisasm(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	in := addInputFlags(fs)
	outDir := fs.String("out", "", "write asm.txt, functions.jsonl and call_edges.jsonl here")
	fn := fs.String("func", "", "only this function")

	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	p := l.prog

	insts := disasm.Disassemble(p, in.options())
	funcs := disasm.Functions(p)
	lookup := disasm.SymbolLookupFor(funcs)

	if *fn != "" {
		found := false
		for _, f := range funcs {
			if f.Name == *fn || f.Name == "__main__."+*fn {
				insts = f.Slice(insts)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("function %q not found", *fn)
		}
	}

	if *outDir == "" {
		fmt.Print(disasm.Format(insts, lookup, annotators(p)...))
		return nil
	}

	if err := output.EnsureDir(*outDir); err != nil {
		return err
	}
	if err := output.WriteASM(*outDir, insts, lookup, annotators(p)...); err != nil {
		return err
	}

	var funcRecs []disasm.FuncRecord
	var edgeRecs []disasm.CallEdgeRecord
	for _, info := range callgraph.Collect(p, in.options()) {
		_, blocks := callgraph.BuildFuncCFG(info.Name, info.Insts, info.CallEdges)
		rec := disasm.FuncRecord{Name: info.Name, Insts: len(info.Insts), Blocks: blocks}
		if len(info.Insts) > 0 {
			first, last := info.Insts[0], info.Insts[len(info.Insts)-1]
			rec.PC = first.PC
			rec.Size = last.PC + last.Size - first.PC
		}
		for _, inst := range info.Insts {
			rec.Hints += len(p.HintsAt(inst.PC))
		}
		funcRecs = append(funcRecs, rec)

		for _, e := range info.CallEdges {
			target := e.TargetName
			if target == "" && e.Resolved {
				target = strconv.Itoa(e.TargetPC)
			}
			edgeRecs = append(edgeRecs, disasm.CallEdgeRecord{
				FromFunc: info.Name,
				FromPC:   e.FromPC,
				Kind:     e.Kind,
				Target:   target,
			})
		}
	}
	if err := output.WriteJSONL(filepath.Join(*outDir, "functions.jsonl"), funcRecs); err != nil {
		return err
	}
	if err := output.WriteJSONL(filepath.Join(*outDir, "call_edges.jsonl"), edgeRecs); err != nil {
		return err
	}
	log.Info("Wrote disassembly", "dir", *outDir, "insts", len(insts), "funcs", len(funcRecs), "calls", len(edgeRecs))
	return nil
}
