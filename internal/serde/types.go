// Package serde decodes compiled Cairo program JSON into the typed inputs
// consumed by the program constructor.
package serde

import (
	"encoding/json"
	"fmt"

	"cairoprog/internal/felt"
)

// BuiltinName names a builtin facility. Program order is the builtin
// segment layout order.
type BuiltinName string

const (
	Output       BuiltinName = "output"
	Pedersen     BuiltinName = "pedersen"
	RangeCheck   BuiltinName = "range_check"
	ECDSA        BuiltinName = "ecdsa"
	Bitwise      BuiltinName = "bitwise"
	ECOp         BuiltinName = "ec_op"
	Keccak       BuiltinName = "keccak"
	Poseidon     BuiltinName = "poseidon"
	RangeCheck96 BuiltinName = "range_check96"
	AddMod       BuiltinName = "add_mod"
	MulMod       BuiltinName = "mul_mod"
	SegmentArena BuiltinName = "segment_arena"
)

var knownBuiltins = map[BuiltinName]bool{
	Output: true, Pedersen: true, RangeCheck: true, ECDSA: true,
	Bitwise: true, ECOp: true, Keccak: true, Poseidon: true,
	RangeCheck96: true, AddMod: true, MulMod: true, SegmentArena: true,
}

// Known reports whether b is a builtin the VM provides.
func (b BuiltinName) Known() bool { return knownBuiltins[b] }

// APTracking identifies an allocation-pointer position: the tracking group
// and the offset of ap within it.
type APTracking struct {
	Group  int `json:"group"`
	Offset int `json:"offset"`
}

// FlowTrackingData is the ap tracking and visible reference ids at a hint.
type FlowTrackingData struct {
	APTracking   APTracking     `json:"ap_tracking"`
	ReferenceIDs map[string]int `json:"reference_ids"`
}

// HintParams is one hint attached to an instruction.
type HintParams struct {
	Code             string           `json:"code"`
	AccessibleScopes []string         `json:"accessible_scopes"`
	FlowTrackingData FlowTrackingData `json:"flow_tracking_data"`
}

// Member is a struct member in an identifier's member table.
type Member struct {
	CairoType string `json:"cairo_type"`
	Offset    int    `json:"offset"`
}

// Identifier is a named symbol from the compiler's identifier table.
// Type is the tag ("const", "function", "struct", "label", "alias",
// "reference", ...); empty when absent.
type Identifier struct {
	PC          *int              `json:"pc,omitempty"`
	Type        string            `json:"type,omitempty"`
	Value       *felt.Felt        `json:"value,omitempty"`
	FullName    string            `json:"full_name,omitempty"`
	Members     map[string]Member `json:"members,omitempty"`
	CairoType   string            `json:"cairo_type,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Size        *int              `json:"size,omitempty"`
}

// Attribute is a compiler attribute spanning [StartPC, EndPC).
type Attribute struct {
	Name             string            `json:"name"`
	StartPC          int               `json:"start_pc"`
	EndPC            int               `json:"end_pc"`
	Value            string            `json:"value"`
	FlowTrackingData *FlowTrackingData `json:"flow_tracking_data,omitempty"`
}

// InputFile names a source file.
type InputFile struct {
	Filename string `json:"filename"`
}

// Location is a source span.
type Location struct {
	EndLine        int             `json:"end_line"`
	EndCol         int             `json:"end_col"`
	InputFile      InputFile       `json:"input_file"`
	ParentLocation *ParentLocation `json:"parent_location,omitempty"`
	StartLine      int             `json:"start_line"`
	StartCol       int             `json:"start_col"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.InputFile.Filename, l.StartLine, l.StartCol)
}

// ParentLocation is the enclosing location of an inlined span, encoded in
// JSON as a two-element array [location, message].
type ParentLocation struct {
	Location Location
	Message  string
}

func (p *ParentLocation) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("serde: parent_location: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Location); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &p.Message)
}

func (p ParentLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Location, p.Message})
}

// HintLocation is the source span of one hint.
type HintLocation struct {
	Location        Location `json:"location"`
	NPrefixNewlines int      `json:"n_prefix_newlines"`
}

// InstructionLocation is the debug location of one instruction.
type InstructionLocation struct {
	Inst  Location       `json:"inst"`
	Hints []HintLocation `json:"hints"`
}

// Reference is a compile-time variable reference as emitted by the compiler.
type Reference struct {
	APTrackingData APTracking
	PC             *int
	ValueAddress   ValueAddress
}

// ReferenceManager holds references in reference-id order.
type ReferenceManager struct {
	References []Reference
}
