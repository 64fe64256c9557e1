package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"cairoprog/internal/serde"
)

type identifierRecord struct {
	Name string `json:"name"`
	serde.Identifier
}

func cmdIdentifiers(args []string) error {
	fs := flag.NewFlagSet("identifiers", flag.ExitOnError)
	in := addInputFlags(fs)
	typ := fs.String("type", "", "only identifiers of this type (function, const, struct, ...)")
	prefix := fs.String("prefix", "", "only names with this prefix")
	jsonOut := fs.Bool("json", false, "output as JSONL")

	if err := fs.Parse(args); err != nil {
		return err
	}
	l, err := in.load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	p := l.prog

	names := slices.Sorted(maps.Keys(maps.Collect(p.Identifiers())))
	enc := json.NewEncoder(os.Stdout)
	for _, name := range names {
		id, _ := p.Identifier(name)
		if *typ != "" && id.Type != *typ {
			continue
		}
		if !strings.HasPrefix(name, *prefix) {
			continue
		}
		if *jsonOut {
			if err := enc.Encode(identifierRecord{Name: name, Identifier: id}); err != nil {
				return err
			}
			continue
		}
		fmt.Println(describeIdentifier(name, id))
	}
	return nil
}

func describeIdentifier(name string, id serde.Identifier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %s", id.Type, name)
	switch {
	case id.PC != nil:
		fmt.Fprintf(&b, " pc=%d", *id.PC)
	case id.Value != nil:
		fmt.Fprintf(&b, " = %s", id.Value)
		if v, ok := id.Value.Int64(); ok && v < 0 {
			fmt.Fprintf(&b, " (%d)", v)
		}
	case id.Destination != "":
		fmt.Fprintf(&b, " -> %s", id.Destination)
	case id.CairoType != "":
		fmt.Fprintf(&b, " : %s", id.CairoType)
	}
	if id.Size != nil {
		fmt.Fprintf(&b, " size=%d", *id.Size)
	}
	if len(id.Members) > 0 {
		members := slices.Sorted(maps.Keys(id.Members))
		slices.SortFunc(members, func(a, c string) int { return id.Members[a].Offset - id.Members[c].Offset })
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = fmt.Sprintf("%s: %s", m, id.Members[m].CairoType)
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(parts, ", "))
	}
	return b.String()
}
