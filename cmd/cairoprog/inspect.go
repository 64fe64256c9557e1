package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/disasm"
	"cairoprog/internal/program"
	"cairoprog/internal/relocatable"
)

const historyFile = ".cairoprog_history"

const inspectHelp = `commands:
  word <pc>          raw word at pc and its decoding
  dis <pc> [n]       disassemble n instructions from pc (default 8)
  hints <pc>         hints at pc
  id <name>          identifier by full name
  const <name>       constant value
  loc <pc>           source location of pc
  errors <pc>        error messages covering pc
  refs               reduced references
  summary            program summary
  quit               exit`

// inspector answers REPL queries against one loaded program.
type inspector struct {
	l     *loaded
	opts  cairofmt.Options
	insts []disasm.Inst
	names []string
}

func newInspector(l *loaded, opts cairofmt.Options) *inspector {
	return &inspector{
		l:     l,
		opts:  opts,
		insts: disasm.Disassemble(l.prog, opts),
		names: slices.Sorted(maps.Keys(maps.Collect(l.prog.Identifiers()))),
	}
}

func (in *inspector) complete(line string) []string {
	fields := strings.Fields(line)
	if len(fields) != 2 || (fields[0] != "id" && fields[0] != "const") {
		return nil
	}
	var out []string
	for _, n := range in.names {
		if strings.HasPrefix(n, fields[1]) {
			out = append(out, fields[0]+" "+n)
		}
	}
	return out
}

func parsePC(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing pc")
	}
	pc, err := strconv.Atoi(args[0])
	if err != nil || pc < 0 {
		return 0, fmt.Errorf("bad pc %q", args[0])
	}
	return pc, nil
}

// exec runs one command line and writes its answer to w. It returns false
// when the session should end.
func (in *inspector) exec(w io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true, nil
	}
	p := in.l.prog
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit", ":q":
		return false, nil
	case "help", "?":
		fmt.Fprintln(w, inspectHelp)
	case "summary":
		s := summarize(in.l)
		fmt.Fprintf(w, "%s: %d words, %d builtins, %d hints, %d identifiers\n",
			s.Kind, s.DataLen, len(s.Builtins), s.Hints, s.Identifiers)
	case "word":
		pc, err := parsePC(args)
		if err != nil {
			return true, err
		}
		word, ok := p.Word(pc)
		if !ok {
			return true, fmt.Errorf("pc %d past end of data (%d words)", pc, p.DataLen())
		}
		fmt.Fprintln(w, word)
		if text := decodeWord(p, pc, word); text != "" {
			fmt.Fprintf(w, "  as instruction: %s\n", text)
		}
	case "dis":
		pc, err := parsePC(args)
		if err != nil {
			return true, err
		}
		n := 8
		if len(args) > 1 {
			if n, err = strconv.Atoi(args[1]); err != nil || n <= 0 {
				return true, fmt.Errorf("bad count %q", args[1])
			}
		}
		start, _ := slices.BinarySearchFunc(in.insts, pc, func(inst disasm.Inst, pc int) int { return inst.PC - pc })
		end := min(start+n, len(in.insts))
		fmt.Fprint(w, disasm.Format(in.insts[start:end], disasm.SymbolLookupFor(disasm.Functions(p)), annotators(p)...))
	case "hints":
		pc, err := parsePC(args)
		if err != nil {
			return true, err
		}
		hs := p.HintsAt(pc)
		if len(hs) == 0 {
			fmt.Fprintf(w, "no hints at pc %d\n", pc)
		}
		for i, h := range hs {
			fmt.Fprintf(w, "#%d [%s]\n%s\n", i, strings.Join(h.AccessibleScopes, ", "), h.Code)
		}
	case "id":
		if len(args) == 0 {
			return true, errors.New("missing name")
		}
		id, ok := p.Identifier(args[0])
		if !ok {
			return true, fmt.Errorf("no identifier %q", args[0])
		}
		fmt.Fprintln(w, describeIdentifier(args[0], id))
	case "const":
		if len(args) == 0 {
			return true, errors.New("missing name")
		}
		v, ok := p.Constant(args[0])
		if !ok {
			return true, fmt.Errorf("no constant %q", args[0])
		}
		fmt.Fprintf(w, "%s (%s)\n", v, v.Hex())
	case "loc":
		pc, err := parsePC(args)
		if err != nil {
			return true, err
		}
		loc, ok := p.InstructionLocation(pc)
		if !ok {
			return true, fmt.Errorf("no location for pc %d", pc)
		}
		fmt.Fprintln(w, loc.Inst)
		for parent := loc.Inst.ParentLocation; parent != nil; parent = parent.Location.ParentLocation {
			fmt.Fprintf(w, "  %s %s\n", parent.Message, parent.Location)
		}
	case "errors":
		pc, err := parsePC(args)
		if err != nil {
			return true, err
		}
		for _, m := range p.ErrorMessagesAt(pc) {
			fmt.Fprintln(w, m)
		}
	case "refs":
		for i, r := range p.References() {
			ap := ""
			if r.APTrackingData != nil {
				ap = fmt.Sprintf(" ap=%d/%d", r.APTrackingData.Group, r.APTrackingData.Offset)
			}
			deref := ""
			if r.Dereference {
				deref = " deref"
			}
			fmt.Fprintf(w, "%d: %s, %s : %s%s%s\n", i, r.Offset1, r.Offset2, r.CairoType, deref, ap)
		}
	default:
		return true, fmt.Errorf("unknown command %q, try help", cmd)
	}
	return true, nil
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	in := addInputFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	insp := newInspector(l, in.options())
	return runREPL(insp, program.CompiledClassSupported)
}

func runREPL(insp *inspector, casmBuilt bool) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(insp.complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("%s: %d words, type help (compiled class support: %v)\n", insp.l.path, insp.l.prog.DataLen(), casmBuilt)
	for {
		line, err := ln.Prompt("cairo> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		more, err := insp.exec(os.Stdout, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if !more {
			return nil
		}
	}
}

// decodeWord reads word as an instruction, taking its immediate from pc+1.
func decodeWord(p *program.Program, pc int, word relocatable.MaybeRelocatable) string {
	f, ok := word.Felt()
	if !ok {
		return ""
	}
	raw, ok := f.Uint64()
	if !ok {
		return ""
	}
	imm, _ := p.Word(pc + 1)
	return disasm.DisasmOne(raw, imm)
}
