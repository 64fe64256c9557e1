package serde

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"cairoprog/internal/cairofmt"
	"cairoprog/internal/felt"
	"cairoprog/internal/relocatable"
)

// MainScope prefixes entrypoint and label identifiers.
const MainScope = "__main__"

var (
	ErrPrimeMismatch      = errors.New("serde: prime does not match the field")
	ErrEntrypointNotFound = errors.New("serde: entrypoint not found")
	ErrInvalidHintPC      = errors.New("serde: invalid hint pc")
	ErrUnknownBuiltin     = errors.New("serde: unknown builtin")
)

// Parsed holds the constructor inputs decoded from a compiled program.
type Parsed struct {
	Builtins             []BuiltinName
	Data                 []relocatable.MaybeRelocatable
	Main                 *int
	Hints                map[int][]HintParams
	ReferenceManager     ReferenceManager
	Identifiers          map[string]Identifier
	Attributes           []Attribute
	InstructionLocations map[int]InstructionLocation // nil when the program has no debug info
	CompilerVersion      string
	Diags                []cairofmt.Diag
}

type programJSON struct {
	Prime            string                  `json:"prime"`
	CompilerVersion  string                  `json:"compiler_version"`
	Builtins         []BuiltinName           `json:"builtins"`
	Data             []felt.Felt             `json:"data"`
	Identifiers      map[string]Identifier   `json:"identifiers"`
	Hints            map[string][]HintParams `json:"hints"`
	ReferenceManager struct {
		References []referenceJSON `json:"references"`
	} `json:"reference_manager"`
	Attributes []Attribute `json:"attributes"`
	DebugInfo  *struct {
		InstructionLocations map[string]InstructionLocation `json:"instruction_locations"`
	} `json:"debug_info"`
}

type referenceJSON struct {
	APTrackingData APTracking `json:"ap_tracking_data"`
	PC             *int       `json:"pc"`
	Value          string     `json:"value"`
}

// Parse decodes a compiled program. A non-empty entrypoint is resolved to
// the pc of __main__.<entrypoint>.
func Parse(data []byte, entrypoint string, opts cairofmt.Options) (*Parsed, error) {
	var raw programJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("serde: decode program: %w", err)
	}

	if err := checkPrime(raw.Prime); err != nil {
		return nil, err
	}

	var diags cairofmt.Diags
	out := &Parsed{
		Identifiers:     raw.Identifiers,
		Attributes:      raw.Attributes,
		CompilerVersion: raw.CompilerVersion,
	}
	if out.Identifiers == nil {
		out.Identifiers = map[string]Identifier{}
	}

	for _, b := range raw.Builtins {
		if !b.Known() {
			if opts.Mode == cairofmt.ModeStrict {
				return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, b)
			}
			diags.Addf(cairofmt.NoPC, cairofmt.DiagUnknownBuiltin, "dropped builtin %q", b)
			continue
		}
		out.Builtins = append(out.Builtins, b)
	}

	out.Data = make([]relocatable.MaybeRelocatable, len(raw.Data))
	for i, w := range raw.Data {
		out.Data[i] = relocatable.FromFelt(w)
	}

	hints, err := parseHints(raw.Hints)
	if err != nil {
		return nil, err
	}
	out.Hints = hints

	for i, r := range raw.ReferenceManager.References {
		va, err := ParseValueAddress(r.Value)
		if err != nil {
			if opts.Mode == cairofmt.ModeStrict {
				return nil, fmt.Errorf("reference %d: %w", i, err)
			}
			pc := cairofmt.NoPC
			if r.PC != nil {
				pc = *r.PC
			}
			diags.Addf(pc, cairofmt.DiagBadReference, "reference %d: %v", i, err)
		}
		out.ReferenceManager.References = append(out.ReferenceManager.References, Reference{
			APTrackingData: r.APTrackingData,
			PC:             r.PC,
			ValueAddress:   va,
		})
	}

	if raw.DebugInfo != nil {
		out.InstructionLocations = make(map[int]InstructionLocation, len(raw.DebugInfo.InstructionLocations))
		for key, loc := range raw.DebugInfo.InstructionLocations {
			pc, err := strconv.Atoi(key)
			if err != nil || pc < 0 {
				if opts.Mode == cairofmt.ModeStrict {
					return nil, fmt.Errorf("serde: instruction location key %q: not a pc", key)
				}
				diags.Addf(cairofmt.NoPC, cairofmt.DiagInvalid, "instruction location key %q is not a pc", key)
				continue
			}
			out.InstructionLocations[pc] = loc
		}
	}

	if entrypoint != "" {
		id, ok := out.Identifiers[MainScope+"."+entrypoint]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntrypointNotFound, entrypoint)
		}
		// An entrypoint without a pc (a const or struct) leaves main unset.
		if id.PC != nil {
			pc := *id.PC
			out.Main = &pc
		}
	}

	out.Diags = diags.Items()
	return out, nil
}

func checkPrime(s string) error {
	p, ok := new(big.Int).SetString(s, 0)
	if !ok || p.Cmp(felt.Prime()) != 0 {
		return fmt.Errorf("%w: got %q, want %s", ErrPrimeMismatch, s, felt.PrimeString)
	}
	return nil
}

func parseHints(raw map[string][]HintParams) (map[int][]HintParams, error) {
	hints := make(map[int][]HintParams, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pc, err := strconv.Atoi(k)
		if err != nil || pc < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHintPC, k)
		}
		hints[pc] = raw[k]
	}
	return hints, nil
}
