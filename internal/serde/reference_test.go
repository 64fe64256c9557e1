package serde

import (
	"errors"
	"testing"

	"cairoprog/internal/felt"
)

func TestParseValueAddress(t *testing.T) {
	tests := []struct {
		in   string
		want ValueAddress
	}{
		{
			"[cast(fp + (-3), felt*)]",
			ValueAddress{Offset1: RegRef(FP, -3, false), Offset2: Plain(0), Dereference: true, ValueType: "felt*"},
		},
		{
			"cast(ap + (-1), felt)",
			ValueAddress{Offset1: RegRef(AP, -1, false), Offset2: Plain(0), ValueType: "felt"},
		},
		{
			"[cast(ap, starkware.cairo.common.cairo_builtins.HashBuiltin**)]",
			ValueAddress{Offset1: RegRef(AP, 0, false), Offset2: Plain(0), Dereference: true, ValueType: "starkware.cairo.common.cairo_builtins.HashBuiltin**"},
		},
		{
			"[cast([fp + (-4)] + 2, felt*)]",
			ValueAddress{Offset1: RegRef(FP, -4, true), Offset2: Plain(2), Dereference: true, ValueType: "felt*"},
		},
		{
			"cast([ap + (-1)] + [fp + 2], felt)",
			ValueAddress{Offset1: RegRef(AP, -1, true), Offset2: RegRef(FP, 2, true), ValueType: "felt"},
		},
		{
			"cast([ap] + (-5), (a: felt, b: felt))",
			ValueAddress{Offset1: RegRef(AP, 0, true), Offset2: Plain(-5), ValueType: "(a: felt, b: felt)"},
		},
		{
			"cast(10, felt)",
			ValueAddress{Offset1: Plain(10), Offset2: Plain(0), ValueType: "felt"},
		},
		{
			"[ap + (-1)] + 2",
			ValueAddress{Offset1: RegRef(AP, -1, true), Offset2: Plain(2)},
		},
	}
	for _, tt := range tests {
		got, err := ParseValueAddress(tt.in)
		if err != nil {
			t.Errorf("ParseValueAddress(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseValueAddress(%q) =\n  %+v\nwant\n  %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseValueAddressImmediate(t *testing.T) {
	got, err := ParseValueAddress("cast([fp] + 3618502788666131213697322783095070105623107215331596699973092056135872020480, felt)")
	if err != nil {
		t.Fatal(err)
	}
	if got.Offset2.Kind != OffsetImmediate || !got.Offset2.Imm.Equal(felt.FromInt64(-1)) {
		t.Errorf("offset2 = %+v", got.Offset2)
	}
}

func TestParseValueAddressRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"cast(sp + 1, felt)",
		"[cast(fp + (-3), felt*)",
		"cast(fp + (-3), )",
		"cast(fp + (-3) felt)",
		"cast(fp, felt) extra",
		"apx",
	} {
		if _, err := ParseValueAddress(in); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ParseValueAddress(%q): err = %v, want ErrInvalidReference", in, err)
		}
	}
}

func TestOffsetValueRelativeTo(t *testing.T) {
	if !RegRef(AP, -1, true).IsRelativeTo(AP) {
		t.Error("[ap + (-1)] not ap-relative")
	}
	if RegRef(FP, -1, false).IsRelativeTo(AP) {
		t.Error("fp + (-1) reported ap-relative")
	}
	if Plain(3).IsRelativeTo(AP) {
		t.Error("plain reported ap-relative")
	}
}
