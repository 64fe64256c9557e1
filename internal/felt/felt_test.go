package felt

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestPrimeString(t *testing.T) {
	want := new(big.Int).Lsh(big.NewInt(1), 251)
	want.Add(want, new(big.Int).Lsh(big.NewInt(17), 192))
	want.Add(want, big.NewInt(1))
	if Prime().Cmp(want) != 0 {
		t.Fatalf("prime = %s, want %s", Prime(), want)
	}
}

func TestFromStringReduces(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1000", "1000"},
		{"0x3e8", "1000"},
		{"0X3E8", "1000"},
		{"010", "10"},
		{"+7", "7"},
		{"-0x1", "3618502788666131213697322783095070105623107215331596699973092056135872020480"},
		{"-1", "3618502788666131213697322783095070105623107215331596699973092056135872020480"},
		{"3618502788666131213697322783095070105623107215331596699973092056135872020481", "0"},
		{"3618502788666131213697322783095070105623107215331596699973092056135872020482", "1"},
		{"-106710729501573572985208420194530329073740042555888586719489", "3618502788666131106986593281521497120414687020801267626233049500247285300992"},
	}
	for _, tt := range tests {
		f, err := FromString(tt.in)
		if err != nil {
			t.Fatalf("FromString(%q): %v", tt.in, err)
		}
		if got := f.String(); got != tt.want {
			t.Errorf("FromString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFromStringRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "0xzz", "1.5", "0x", "-", "--1", "1_000", "0b101", "0o17"} {
		if _, err := FromString(in); err == nil {
			t.Errorf("FromString(%q): expected error", in)
		}
	}
}

func TestInt64SignedView(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -3, 1 << 40, -(1 << 62)} {
		got, ok := FromInt64(v).Int64()
		if !ok || got != v {
			t.Errorf("FromInt64(%d).Int64() = %d, %v", v, got, ok)
		}
	}
	if _, ok := MustFromString("0x400000000000000000").Int64(); ok {
		t.Error("expected overflow for 2^70")
	}
}

func TestFromInt64MatchesString(t *testing.T) {
	if !FromInt64(-7).Equal(MustFromString("-7")) {
		t.Error("FromInt64(-7) != -7")
	}
}

func TestJSONRoundTripNumberAndString(t *testing.T) {
	var v struct {
		A Felt `json:"a"`
		B Felt `json:"b"`
	}
	in := `{"a": -106710729501573572985208420194530329073740042555888586719489, "b": "0x10"}`
	if err := json.Unmarshal([]byte(in), &v); err != nil {
		t.Fatal(err)
	}
	if v.A.Cmp(MustFromString("-106710729501573572985208420194530329073740042555888586719489")) != 0 {
		t.Errorf("a = %s", v.A)
	}
	if u, ok := v.B.Uint64(); !ok || u != 16 {
		t.Errorf("b = %s", v.B)
	}
	out, err := json.Marshal(v.B)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "16" {
		t.Errorf("marshal = %s, want 16", out)
	}
}
