package serde

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cairoprog/internal/felt"
)

var ErrInvalidReference = errors.New("serde: invalid reference value")

// Register is a VM pointer register.
type Register int

const (
	AP Register = iota
	FP
)

func (r Register) String() string {
	if r == FP {
		return "fp"
	}
	return "ap"
}

// OffsetKind discriminates OffsetValue.
type OffsetKind int

const (
	OffsetPlain     OffsetKind = iota // small integer
	OffsetImmediate                   // field element too large for an int
	OffsetReference                   // register-relative, optionally dereferenced
)

// OffsetValue is one operand of a reference's address expression.
type OffsetValue struct {
	Kind  OffsetKind
	Value int // OffsetPlain value, or the register offset for OffsetReference
	Imm   felt.Felt
	Reg   Register
	Deref bool
}

// Plain returns an integer operand.
func Plain(v int) OffsetValue { return OffsetValue{Kind: OffsetPlain, Value: v} }

// Immediate returns a field element operand.
func Immediate(f felt.Felt) OffsetValue { return OffsetValue{Kind: OffsetImmediate, Imm: f} }

// RegRef returns the operand reg + off, dereferenced when deref is set.
func RegRef(reg Register, off int, deref bool) OffsetValue {
	return OffsetValue{Kind: OffsetReference, Reg: reg, Value: off, Deref: deref}
}

// IsRelativeTo reports whether the operand is anchored on reg.
func (o OffsetValue) IsRelativeTo(reg Register) bool {
	return o.Kind == OffsetReference && o.Reg == reg
}

func (o OffsetValue) String() string {
	switch o.Kind {
	case OffsetImmediate:
		return o.Imm.String()
	case OffsetReference:
		s := fmt.Sprintf("%s + (%d)", o.Reg, o.Value)
		if o.Deref {
			return "[" + s + "]"
		}
		return s
	default:
		return strconv.Itoa(o.Value)
	}
}

// ValueAddress is a parsed reference value such as
// "[cast(fp + (-3), felt*)]".
type ValueAddress struct {
	Offset1     OffsetValue
	Offset2     OffsetValue
	Dereference bool
	ValueType   string
}

func (v ValueAddress) String() string {
	s := fmt.Sprintf("cast(%s + %s, %s)", v.Offset1, v.Offset2, v.ValueType)
	if v.Dereference {
		return "[" + s + "]"
	}
	return s
}

// ParseValueAddress parses a compiler reference value. Accepted forms:
//
//	[cast(<expr>, <type>)]    dereferenced
//	cast(<expr>, <type>)
//	<expr>                    untyped
//
// where <expr> is one or two terms joined by '+', and each term is a
// number, reg, reg + (n), or any of those wrapped in brackets.
func ParseValueAddress(s string) (ValueAddress, error) {
	p := &refParser{src: s}
	va, err := p.parse()
	if err != nil {
		return ValueAddress{}, fmt.Errorf("%w: %q: %v", ErrInvalidReference, s, err)
	}
	return va, nil
}

type refParser struct {
	src string
	pos int
}

func (p *refParser) parse() (ValueAddress, error) {
	var va ValueAddress
	p.skipSpace()
	if p.peek() == '[' && p.matchingClose(p.pos) == len(strings.TrimRight(p.src, " \t"))-1 {
		va.Dereference = true
		p.pos++
	}
	p.skipSpace()
	cast := p.consume("cast(")
	o1, o2, err := p.expr()
	if err != nil {
		return va, err
	}
	va.Offset1, va.Offset2 = o1, o2
	if cast {
		p.skipSpace()
		if !p.consume(",") {
			return va, fmt.Errorf("expected ',' at %d", p.pos)
		}
		end := strings.LastIndexByte(p.src, ')')
		if end < p.pos {
			return va, errors.New("unterminated cast")
		}
		va.ValueType = strings.TrimSpace(p.src[p.pos:end])
		if va.ValueType == "" {
			return va, errors.New("empty cast type")
		}
		p.pos = end + 1
	}
	p.skipSpace()
	if va.Dereference && !p.consume("]") {
		return va, fmt.Errorf("expected ']' at %d", p.pos)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return va, fmt.Errorf("trailing input %q", p.src[p.pos:])
	}
	return va, nil
}

func (p *refParser) expr() (OffsetValue, OffsetValue, error) {
	o1, err := p.term()
	if err != nil {
		return o1, OffsetValue{}, err
	}
	p.skipSpace()
	if !p.consume("+") {
		return o1, Plain(0), nil
	}
	o2, err := p.term()
	return o1, o2, err
}

func (p *refParser) term() (OffsetValue, error) {
	p.skipSpace()
	if p.consume("[") {
		o, err := p.regTerm()
		if err != nil {
			return o, err
		}
		p.skipSpace()
		if !p.consume("]") {
			return o, fmt.Errorf("expected ']' at %d", p.pos)
		}
		o.Deref = true
		return o, nil
	}
	if p.hasReg() {
		return p.regTerm()
	}
	return p.number()
}

func (p *refParser) regTerm() (OffsetValue, error) {
	p.skipSpace()
	if !p.hasReg() {
		return OffsetValue{}, fmt.Errorf("expected register at %d", p.pos)
	}
	reg := AP
	if p.src[p.pos] == 'f' {
		reg = FP
	}
	p.pos += 2
	off := 0
	save := p.pos
	p.skipSpace()
	if p.consume("+") {
		p.skipSpace()
		if c := p.peek(); c == '(' || c == '-' || (c >= '0' && c <= '9') {
			n, err := p.number()
			if err != nil {
				return OffsetValue{}, err
			}
			if n.Kind != OffsetPlain {
				return OffsetValue{}, fmt.Errorf("register offset out of range at %d", save)
			}
			off = n.Value
		} else {
			p.pos = save
		}
	} else {
		p.pos = save
	}
	return RegRef(reg, off, false), nil
}

func (p *refParser) number() (OffsetValue, error) {
	p.skipSpace()
	paren := p.consume("(")
	p.skipSpace()
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	lit := p.src[start:p.pos]
	if lit == "" || lit == "-" {
		return OffsetValue{}, fmt.Errorf("expected number at %d", start)
	}
	if paren {
		p.skipSpace()
		if !p.consume(")") {
			return OffsetValue{}, fmt.Errorf("expected ')' at %d", p.pos)
		}
	}
	if n, err := strconv.Atoi(lit); err == nil {
		return Plain(n), nil
	}
	f, err := felt.FromString(lit)
	if err != nil {
		return OffsetValue{}, err
	}
	return Immediate(f), nil
}

func (p *refParser) hasReg() bool {
	if p.pos+2 > len(p.src) {
		return false
	}
	r := p.src[p.pos : p.pos+2]
	if r != "ap" && r != "fp" {
		return false
	}
	if p.pos+2 < len(p.src) {
		c := p.src[p.pos+2]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func (p *refParser) matchingClose(open int) int {
	depth := 0
	for i := open; i < len(p.src); i++ {
		switch p.src[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *refParser) consume(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *refParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
