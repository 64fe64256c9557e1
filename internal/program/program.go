// Package program holds a loaded Cairo program in the form the VM runs it:
// a small per-run part and a large part shared by every run.
package program

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"cairoprog/internal/felt"
	"cairoprog/internal/relocatable"
	"cairoprog/internal/serde"
)

const errorMessageAttribute = "error_message"

// MaxHintPC is the highest pc a hint may be attached to. The hint index
// holds one slot per pc up to the highest hinted pc.
const MaxHintPC = 1<<22 - 1

// Label identifiers marking the proof-mode start and end of a program.
const (
	StartLabel = serde.MainScope + ".__start__"
	EndLabel   = serde.MainScope + ".__end__"
)

// sharedProgramData is the part of a program that runs never copy. It is
// written once by New and only read afterwards, so any number of
// goroutines may read it without locking.
//
// The fields here are either preprocessed into Program (constants) or only
// read in rare paths: hint lookup, error reporting, debug locations.
type sharedProgramData struct {
	data                   []relocatable.MaybeRelocatable
	hints                  []serde.HintParams
	hintRanges             []HintRange
	main                   *int
	start                  *int // proof mode only
	end                    *int // proof mode only
	errorMessageAttributes []serde.Attribute
	instructionLocations   map[int]serde.InstructionLocation
	identifiers            map[string]serde.Identifier
	references             []HintReference
}

var emptyShared = &sharedProgramData{identifiers: map[string]serde.Identifier{}}

// Program is a loaded program. Each VM run takes its own copy via Clone:
// builtins and constants are copied for locality on the run loop, the
// shared data is referenced.
//
// The zero Program is an empty program.
type Program struct {
	shared    *sharedProgramData
	constants map[string]felt.Felt
	builtins  []serde.BuiltinName
}

// New builds a program from parsed inputs. It takes ownership of its
// arguments; callers must not modify them afterwards.
//
// Every "const" identifier must carry a value. Hint pcs must be
// non-negative and at most MaxHintPC. The proof-mode start and end labels are read from the
// __main__.__start__ and __main__.__end__ identifiers when present.
func New(
	builtins []serde.BuiltinName,
	data []relocatable.MaybeRelocatable,
	main *int,
	hints map[int][]serde.HintParams,
	referenceManager serde.ReferenceManager,
	identifiers map[string]serde.Identifier,
	attributes []serde.Attribute,
	instructionLocations map[int]serde.InstructionLocation,
) (*Program, error) {
	if identifiers == nil {
		identifiers = map[string]serde.Identifier{}
	}
	constants, err := extractConstants(identifiers)
	if err != nil {
		return nil, err
	}

	for pc := range hints {
		if pc < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeHintPC, pc)
		}
		if pc > MaxHintPC {
			return nil, fmt.Errorf("%w: %d > %d", ErrHintPCOutOfRange, pc, MaxHintPC)
		}
	}
	flat, ranges := FlattenHints(hints)

	var errAttrs []serde.Attribute
	for _, a := range attributes {
		if a.Name == errorMessageAttribute {
			errAttrs = append(errAttrs, a)
		}
	}

	shared := &sharedProgramData{
		data:                   data,
		hints:                  flat,
		hintRanges:             ranges,
		main:                   main,
		start:                  labelPC(identifiers, StartLabel),
		end:                    labelPC(identifiers, EndLabel),
		errorMessageAttributes: errAttrs,
		instructionLocations:   instructionLocations,
		identifiers:            identifiers,
		references:             referenceList(referenceManager),
	}
	return &Program{
		shared:    shared,
		constants: constants,
		builtins:  builtins,
	}, nil
}

func labelPC(identifiers map[string]serde.Identifier, name string) *int {
	id, ok := identifiers[name]
	if !ok || id.PC == nil {
		return nil
	}
	pc := *id.PC
	return &pc
}

func (p *Program) sharedData() *sharedProgramData {
	if p.shared == nil {
		return emptyShared
	}
	return p.shared
}

// Clone returns a copy for a new run. Builtins and constants are copied;
// the shared data is not.
func (p *Program) Clone() *Program {
	return &Program{
		shared:    p.shared,
		constants: maps.Clone(p.constants),
		builtins:  slices.Clone(p.builtins),
	}
}

// Prime returns the field modulus as a hex string. It does not depend on
// the program.
func (p *Program) Prime() string { return felt.PrimeString }

// Builtins yields the builtins in segment layout order.
func (p *Program) Builtins() iter.Seq[serde.BuiltinName] { return slices.Values(p.builtins) }

func (p *Program) BuiltinsLen() int { return len(p.builtins) }

// Data yields the instruction words in pc order.
func (p *Program) Data() iter.Seq[relocatable.MaybeRelocatable] {
	return slices.Values(p.sharedData().data)
}

func (p *Program) DataLen() int { return len(p.sharedData().data) }

// Word returns the word at pc.
func (p *Program) Word(pc int) (relocatable.MaybeRelocatable, bool) {
	data := p.sharedData().data
	if pc < 0 || pc >= len(data) {
		return relocatable.MaybeRelocatable{}, false
	}
	return data[pc], true
}

// Identifier looks up an identifier by its full dotted name.
func (p *Program) Identifier(name string) (serde.Identifier, bool) {
	id, ok := p.sharedData().identifiers[name]
	return id, ok
}

// Identifiers yields every (name, identifier) pair in unspecified order.
func (p *Program) Identifiers() iter.Seq2[string, serde.Identifier] {
	return maps.All(p.sharedData().identifiers)
}

func (p *Program) IdentifiersLen() int { return len(p.sharedData().identifiers) }

// Constant returns the value of a "const" identifier.
func (p *Program) Constant(name string) (felt.Felt, bool) {
	v, ok := p.constants[name]
	return v, ok
}

// Constants yields every constant in unspecified order.
func (p *Program) Constants() iter.Seq2[string, felt.Felt] { return maps.All(p.constants) }

func (p *Program) ConstantsLen() int { return len(p.constants) }

// HintRangeAt reports where the hints of pc live in Hints. It is the
// per-step check of whether pc has hints at all.
func (p *Program) HintRangeAt(pc int) (HintRange, bool) {
	ranges := p.sharedData().hintRanges
	if pc < 0 || pc >= len(ranges) || !ranges[pc].Present() {
		return HintRange{}, false
	}
	return ranges[pc], true
}

// HintsAt returns the hints of pc in declaration order, or nil.
func (p *Program) HintsAt(pc int) []serde.HintParams {
	r, ok := p.HintRangeAt(pc)
	if !ok {
		return nil
	}
	return p.sharedData().hints[r.Start:r.End():r.End()]
}

// Hints returns the flattened hint array. It must not be modified.
func (p *Program) Hints() []serde.HintParams { return p.sharedData().hints }

// HintRanges returns the per-pc index into Hints. It must not be modified.
func (p *Program) HintRanges() []HintRange { return p.sharedData().hintRanges }

// Main returns the entrypoint pc, if one was resolved.
func (p *Program) Main() (int, bool) { return optPC(p.sharedData().main) }

// Start returns the proof-mode start label pc.
func (p *Program) Start() (int, bool) { return optPC(p.sharedData().start) }

// End returns the proof-mode end label pc.
func (p *Program) End() (int, bool) { return optPC(p.sharedData().end) }

func optPC(pc *int) (int, bool) {
	if pc == nil {
		return 0, false
	}
	return *pc, true
}

// ErrorMessageAttributes returns the "error_message" attributes.
func (p *Program) ErrorMessageAttributes() []serde.Attribute {
	return p.sharedData().errorMessageAttributes
}

// ErrorMessagesAt returns the error messages whose attribute covers pc, in
// attribute order.
func (p *Program) ErrorMessagesAt(pc int) []string {
	var msgs []string
	for _, a := range p.sharedData().errorMessageAttributes {
		if a.StartPC <= pc && pc < a.EndPC {
			msgs = append(msgs, a.Value)
		}
	}
	return msgs
}

// InstructionLocation returns the debug location of pc.
func (p *Program) InstructionLocation(pc int) (serde.InstructionLocation, bool) {
	loc, ok := p.sharedData().instructionLocations[pc]
	return loc, ok
}

// HasDebugInfo reports whether the program carries instruction locations.
func (p *Program) HasDebugInfo() bool { return p.sharedData().instructionLocations != nil }

// References returns the reduced references indexed by reference id. It
// must not be modified.
func (p *Program) References() []HintReference { return p.sharedData().references }
