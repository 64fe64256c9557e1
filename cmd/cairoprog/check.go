package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/disasm"
	"cairoprog/internal/program"
)

// lint collects load diagnostics, structural checks and words that do not
// decode as instructions.
func lint(l *loaded, opts cairofmt.Options) []cairofmt.Diag {
	var d cairofmt.Diags
	for _, diag := range l.diags {
		d.Add(diag.PC, diag.Kind, diag.Msg)
	}
	for _, diag := range l.prog.Check() {
		d.Add(diag.PC, diag.Kind, diag.Msg)
	}
	for _, inst := range disasm.Disassemble(l.prog, opts) {
		if inst.Valid || inst.Raw.IsRelocatable() {
			continue
		}
		if isEntryPC(l.prog, inst.PC) {
			d.Addf(inst.PC, cairofmt.DiagInvalid, "entry word does not decode: %s", inst.Text)
		}
	}
	return d.Items()
}

// isEntryPC reports whether pc is the entrypoint or a function
// start. Other undecodable words are usually immediates or data.
func isEntryPC(p *program.Program, pc int) bool {
	if main, ok := p.Main(); ok && main == pc {
		return true
	}
	for _, f := range disasm.Functions(p) {
		if f.Start == pc {
			return true
		}
	}
	return false
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	in := addInputFlags(fs)
	jsonOut := fs.Bool("json", false, "output as JSONL")

	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	diags := lint(l, in.options())
	enc := json.NewEncoder(os.Stdout)
	for _, d := range diags {
		if *jsonOut {
			if err := enc.Encode(d); err != nil {
				return err
			}
			continue
		}
		fmt.Println(d)
	}
	if len(diags) > 0 {
		return fmt.Errorf("%d problems", len(diags))
	}
	fmt.Fprintln(os.Stderr, "ok")
	return nil
}
