package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/zboralski/lattice/render"

	"cairoprog/internal/callgraph"
	"cairoprog/internal/output"
)

func cmdGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	in := addInputFlags(fs)
	outDir := fs.String("out", "", "output directory for DOT files")
	title := fs.String("title", "", "graph title (default: input path)")
	from := fs.String("from", "", "only functions reachable from this function (default: all)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outDir == "" {
		return errors.New("--out is required")
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if *title == "" {
		*title = l.path
	}

	funcs := callgraph.Collect(l.prog, in.options())
	if len(funcs) == 0 {
		log.Warn("No function identifiers, graphs will be empty", "path", l.path)
	}
	if *from != "" {
		reachable := callgraph.ReachableSet([]string{*from}, funcs)
		if len(callgraph.Filter(funcs, map[string]bool{*from: true})) == 0 {
			return fmt.Errorf("function %q not found", *from)
		}
		funcs = callgraph.Filter(funcs, reachable)
	} else {
		log.Debug("Call graph roots", "entries", callgraph.FindEntryPoints(funcs))
	}
	cg := callgraph.BuildCallGraph(funcs)
	cfg := callgraph.BuildCFG(funcs)

	if err := output.EnsureDir(*outDir); err != nil {
		return err
	}
	if err := output.WriteDOT(*outDir, "callgraph", render.DOT(cg, *title+" call graph")); err != nil {
		return err
	}
	if err := output.WriteDOT(*outDir, "cfg", render.DOTCFG(cfg, *title+" CFG")); err != nil {
		return err
	}
	log.Info("Wrote graphs", "dir", *outDir, "funcs", len(cg.Nodes), "edges", len(cg.Edges))
	return nil
}
