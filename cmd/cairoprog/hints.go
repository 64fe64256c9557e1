package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"cairoprog/internal/serde"
)

type hintRecord struct {
	PC     int              `json:"pc"`
	Index  int              `json:"index"`
	Hint   serde.HintParams `json:"hint"`
	Offset int              `json:"offset"` // position in the flattened hint array
}

func cmdHints(args []string) error {
	fs := flag.NewFlagSet("hints", flag.ExitOnError)
	in := addInputFlags(fs)
	pcFlag := fs.Int("pc", -1, "only hints at this pc")
	jsonOut := fs.Bool("json", false, "output as JSONL")

	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	p := l.prog

	pcs := hintPCs(p)
	if *pcFlag >= 0 {
		pcs = []int{*pcFlag}
	}

	enc := json.NewEncoder(os.Stdout)
	for _, pc := range pcs {
		r, ok := p.HintRangeAt(pc)
		if !ok {
			continue
		}
		for i, h := range p.HintsAt(pc) {
			if *jsonOut {
				if err := enc.Encode(hintRecord{PC: pc, Index: i, Hint: h, Offset: r.Start + i}); err != nil {
					return err
				}
				continue
			}
			fmt.Printf("pc=%d #%d scopes=[%s] ap=%d/%d\n", pc, i,
				strings.Join(h.AccessibleScopes, ", "),
				h.FlowTrackingData.APTracking.Group, h.FlowTrackingData.APTracking.Offset)
			for _, line := range strings.Split(h.Code, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
	return nil
}
