package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"cairoprog/internal/output"
)

func cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	in := addInputFlags(fs)
	jsonOut := fs.Bool("json", false, "output as JSON")
	outDir := fs.String("out", "", "write program.json to this directory")

	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s := summarize(l)

	if *outDir != "" {
		if err := output.EnsureDir(*outDir); err != nil {
			return err
		}
		if err := output.WriteSummaryJSON(*outDir, s); err != nil {
			return err
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Printf("%s (%s)\n", s.Path, s.Kind)
	fmt.Printf("  prime        %s\n", s.Prime)
	fmt.Printf("  builtins     [%s]\n", strings.Join(s.Builtins, ", "))
	fmt.Printf("  data         %d words\n", s.DataLen)
	printPC := func(label string, pc *int) {
		if pc != nil {
			fmt.Printf("  %-12s %d\n", label, *pc)
		}
	}
	printPC("main", s.Main)
	printPC("start", s.Start)
	printPC("end", s.End)
	fmt.Printf("  hints        %d at %d pcs\n", s.Hints, s.HintPCs)
	fmt.Printf("  identifiers  %d (%d constants)\n", s.Identifiers, s.Constants)
	fmt.Printf("  references   %d\n", s.References)
	fmt.Printf("  errors       %d error_message attributes\n", s.ErrorMessages)
	fmt.Printf("  debug info   %v\n", s.HasDebugInfo)
	if len(l.diags) > 0 {
		fmt.Printf("  diagnostics  %d (see check)\n", len(l.diags))
	}
	return nil
}
