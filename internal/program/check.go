package program

import (
	"sort"

	"cairoprog/internal/cairofmt"
)

// Check reports structural problems that loading accepts: pcs that point
// past the end of the data and relocatable words in the bytecode.
func (p *Program) Check() []cairofmt.Diag {
	var d cairofmt.Diags
	n := p.DataLen()

	if main, ok := p.Main(); ok && main >= n {
		d.Addf(main, cairofmt.DiagOutOfRange, "entrypoint past end of data (%d words)", n)
	}
	for _, label := range []string{StartLabel, EndLabel} {
		if id, ok := p.Identifier(label); ok && id.PC != nil && *id.PC > n {
			d.Addf(*id.PC, cairofmt.DiagOutOfRange, "%s past end of data", label)
		}
	}

	if ranges := p.HintRanges(); len(ranges) > n {
		for pc := n; pc < len(ranges); pc++ {
			if ranges[pc].Present() {
				d.Addf(pc, cairofmt.DiagOutOfRange, "%d hints past end of data (%d words)", ranges[pc].Len, n)
			}
		}
	}

	var names []string
	for name, id := range p.Identifiers() {
		if id.PC != nil && id.Type != "label" && *id.PC >= n {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		id, _ := p.Identifier(name)
		d.Addf(*id.PC, cairofmt.DiagOutOfRange, "%s %s past end of data", id.Type, name)
	}

	pc := 0
	for w := range p.Data() {
		if r, ok := w.Relocatable(); ok {
			d.Addf(pc, cairofmt.DiagRelocatable, "relocatable word %s in bytecode", r)
		}
		pc++
	}
	return d.Items()
}
