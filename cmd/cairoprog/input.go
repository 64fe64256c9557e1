package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/ethereum/go-ethereum/log"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/casm"
	"cairoprog/internal/output"
	"cairoprog/internal/program"
)

// inputFlags are the flags shared by every subcommand.
type inputFlags struct {
	path     *string
	entry    *string
	casm     *bool
	strict   *bool
	maxSteps *int
	verbose  *bool
}

func addInputFlags(fs *flag.FlagSet) *inputFlags {
	return &inputFlags{
		path:     fs.String("in", "", "path to compiled program JSON"),
		entry:    fs.String("entry", "", "entrypoint function under __main__"),
		casm:     fs.Bool("casm", false, "input is a compiled contract class"),
		strict:   fs.Bool("strict", false, "fail on first malformed entry"),
		maxSteps: fs.Int("max-steps", 0, "disassembly cap in words"),
		verbose:  fs.Bool("v", false, "debug logging"),
	}
}

func (f *inputFlags) options() cairofmt.Options {
	opts := cairofmt.Options{
		Mode:     cairofmt.ModeBestEffort,
		MaxSteps: *f.maxSteps,
	}
	if *f.strict {
		opts.Mode = cairofmt.ModeStrict
	}
	return opts
}

// loaded is a program together with what loading it reported.
type loaded struct {
	prog  *program.Program
	kind  string
	path  string
	diags []cairofmt.Diag
}

func (f *inputFlags) load() (*loaded, error) {
	setupLogging(*f.verbose)
	if *f.path == "" {
		return nil, errors.New("--in is required")
	}
	data, err := os.ReadFile(*f.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if *f.casm {
		cc, err := casm.Parse(data)
		if err != nil {
			return nil, err
		}
		prog, err := program.FromCompiledClass(cc)
		if err != nil {
			return nil, err
		}
		log.Debug("Loaded contract class", "path", *f.path, "compiler", cc.CompilerVersion,
			"words", prog.DataLen(), "hint_pcs", len(cc.Hints))
		return &loaded{prog: prog, kind: "casm", path: *f.path}, nil
	}

	prog, diags, err := program.Load(data, *f.entry, f.options())
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		log.Warn("Load diagnostic", "diag", d.String())
	}
	return &loaded{prog: prog, kind: "program", path: *f.path, diags: diags}, nil
}

func optInt(v int, ok bool) *int {
	if !ok {
		return nil
	}
	return &v
}

func summarize(l *loaded) *output.Summary {
	p := l.prog
	s := &output.Summary{
		Path:            l.path,
		Kind:            l.kind,
		Prime:           p.Prime(),
		Builtins:        []string{},
		DataLen:         p.DataLen(),
		Main:            optInt(p.Main()),
		Start:           optInt(p.Start()),
		End:             optInt(p.End()),
		Hints:           len(p.Hints()),
		Identifiers:     p.IdentifiersLen(),
		Constants:       p.ConstantsLen(),
		References:      len(p.References()),
		ErrorMessages:   len(p.ErrorMessageAttributes()),
		HasDebugInfo:    p.HasDebugInfo(),
		CompiledSupport: program.CompiledClassSupported,
	}
	for b := range p.Builtins() {
		s.Builtins = append(s.Builtins, string(b))
	}
	for _, r := range p.HintRanges() {
		if r.Present() {
			s.HintPCs++
		}
	}
	return s
}

// hintPCs returns the pcs that carry hints, ascending.
func hintPCs(p *program.Program) []int {
	var pcs []int
	for pc, r := range p.HintRanges() {
		if r.Present() {
			pcs = append(pcs, pc)
		}
	}
	return slices.Clip(pcs)
}
