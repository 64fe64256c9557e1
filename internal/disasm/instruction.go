package disasm

import (
	"errors"
	"fmt"

	"cairoprog/internal/serde"
)

// Cairo instruction word layout:
//
//	bits  0-15  off_dst  (biased by 2^15)
//	bits 16-31  off_op0  (biased by 2^15)
//	bits 32-47  off_op1  (biased by 2^15)
//	bits 48-62  flags
//	bit  63     must be zero
const (
	offsetBias = 1 << 15

	flagDstReg   = 0
	flagOp0Reg   = 1
	flagOp1Src   = 2  // 3 bits
	flagRes      = 5  // 2 bits
	flagPCUpdate = 7  // 3 bits
	flagAPUpdate = 10 // 2 bits
	flagOpcode   = 12 // 3 bits
)

var (
	ErrHighBit  = errors.New("disasm: instruction high bit set")
	ErrOp1Src   = errors.New("disasm: invalid op1 source")
	ErrResLogic = errors.New("disasm: invalid res logic")
	ErrPCUpdate = errors.New("disasm: invalid pc update")
	ErrAPUpdate = errors.New("disasm: invalid ap update")
	ErrOpcode   = errors.New("disasm: invalid opcode")
)

type Op1Src int

const (
	Op1Op0 Op1Src = iota // [op0 + off_op1]
	Op1Imm               // [pc + 1]
	Op1FP
	Op1AP
)

type ResLogic int

const (
	ResOp1 ResLogic = iota
	ResAdd
	ResMul
	ResUnconstrained // jnz: res is not used
)

type PCUpdate int

const (
	PCRegular PCUpdate = iota
	PCJumpAbs
	PCJumpRel
	PCJnz
)

type APUpdate int

const (
	APRegular APUpdate = iota
	APAdd
	APAdd1
	APAdd2 // implied by call
)

type Opcode int

const (
	OpNop Opcode = iota
	OpCall
	OpRet
	OpAssertEq
)

func (o Opcode) String() string {
	switch o {
	case OpCall:
		return "call"
	case OpRet:
		return "ret"
	case OpAssertEq:
		return "assert_eq"
	}
	return "nop"
}

// Instruction is a decoded Cairo instruction word.
type Instruction struct {
	OffDst   int
	OffOp0   int
	OffOp1   int
	DstReg   serde.Register
	Op0Reg   serde.Register
	Op1Src   Op1Src
	Res      ResLogic
	PCUpdate PCUpdate
	APUpdate APUpdate
	Opcode   Opcode
}

// Size returns the instruction length in words. An immediate operand
// occupies the word after the instruction.
func (in Instruction) Size() int {
	if in.Op1Src == Op1Imm {
		return 2
	}
	return 1
}

// Decode decodes one instruction word.
func Decode(word uint64) (Instruction, error) {
	if word>>63 != 0 {
		return Instruction{}, ErrHighBit
	}
	in := Instruction{
		OffDst: int(word&0xffff) - offsetBias,
		OffOp0: int((word>>16)&0xffff) - offsetBias,
		OffOp1: int((word>>32)&0xffff) - offsetBias,
	}
	flags := word >> 48

	if flags>>flagDstReg&1 == 1 {
		in.DstReg = serde.FP
	}
	if flags>>flagOp0Reg&1 == 1 {
		in.Op0Reg = serde.FP
	}

	switch flags >> flagOp1Src & 7 {
	case 0:
		in.Op1Src = Op1Op0
	case 1:
		in.Op1Src = Op1Imm
	case 2:
		in.Op1Src = Op1FP
	case 4:
		in.Op1Src = Op1AP
	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrOp1Src, flags>>flagOp1Src&7)
	}

	switch flags >> flagPCUpdate & 7 {
	case 0:
		in.PCUpdate = PCRegular
	case 1:
		in.PCUpdate = PCJumpAbs
	case 2:
		in.PCUpdate = PCJumpRel
	case 4:
		in.PCUpdate = PCJnz
	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrPCUpdate, flags>>flagPCUpdate&7)
	}

	res := flags >> flagRes & 3
	switch {
	case in.PCUpdate == PCJnz && res == 0:
		in.Res = ResUnconstrained
	case in.PCUpdate == PCJnz:
		return Instruction{}, fmt.Errorf("%w: jnz with res %d", ErrResLogic, res)
	case res == 0:
		in.Res = ResOp1
	case res == 1:
		in.Res = ResAdd
	case res == 2:
		in.Res = ResMul
	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrResLogic, res)
	}

	switch flags >> flagOpcode & 7 {
	case 0:
		in.Opcode = OpNop
	case 1:
		in.Opcode = OpCall
	case 2:
		in.Opcode = OpRet
	case 4:
		in.Opcode = OpAssertEq
	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrOpcode, flags>>flagOpcode&7)
	}

	switch ap := flags >> flagAPUpdate & 3; {
	case in.Opcode == OpCall && ap == 0:
		in.APUpdate = APAdd2
	case in.Opcode == OpCall:
		return Instruction{}, fmt.Errorf("%w: call with ap update %d", ErrAPUpdate, ap)
	case ap == 0:
		in.APUpdate = APRegular
	case ap == 1:
		in.APUpdate = APAdd
	case ap == 2:
		in.APUpdate = APAdd1
	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrAPUpdate, ap)
	}
	return in, nil
}
