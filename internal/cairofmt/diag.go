// Package cairofmt provides shared options and diagnostics for loading
// compiled Cairo programs.
package cairofmt

import "fmt"

// DiagKind classifies a diagnostic message.
type DiagKind string

const (
	DiagInvalid        DiagKind = "invalid"
	DiagUnknownBuiltin DiagKind = "unknown_builtin"
	DiagBadReference   DiagKind = "bad_reference"
	DiagOutOfRange     DiagKind = "out_of_range"
	DiagRelocatable    DiagKind = "relocatable"
)

// NoPC marks a diagnostic that is not tied to a program counter.
const NoPC = -1

// Diag records a non-fatal issue found while loading or checking a program.
type Diag struct {
	PC   int      `json:"pc"`
	Kind DiagKind `json:"kind"`
	Msg  string   `json:"msg"`
}

func (d Diag) String() string {
	if d.PC == NoPC {
		return fmt.Sprintf("[%s] %s", d.Kind, d.Msg)
	}
	return fmt.Sprintf("[%s] pc=%d: %s", d.Kind, d.PC, d.Msg)
}

// Diags accumulates diagnostics.
type Diags struct {
	items []Diag
}

func (d *Diags) Add(pc int, kind DiagKind, msg string) {
	d.items = append(d.items, Diag{PC: pc, Kind: kind, Msg: msg})
}

func (d *Diags) Addf(pc int, kind DiagKind, format string, args ...any) {
	d.items = append(d.items, Diag{PC: pc, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

func (d *Diags) Items() []Diag { return d.items }
func (d *Diags) Len() int      { return len(d.items) }

// Mode controls error handling behavior.
type Mode int

const (
	ModeStrict     Mode = iota // first malformed entry returns error
	ModeBestEffort             // skip or zero malformed entries, accumulate diags
)

// Options controls loading behavior across packages.
type Options struct {
	Mode     Mode
	MaxSteps int // disassembly cap in words; 0 = use default
}

// DefaultMaxSteps is the default disassembly cap.
const DefaultMaxSteps = 10_000_000

func (o Options) EffectiveMaxSteps() int {
	if o.MaxSteps > 0 {
		return o.MaxSteps
	}
	return DefaultMaxSteps
}
