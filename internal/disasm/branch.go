package disasm

import "cairoprog/internal/relocatable"

// BranchInfo describes a decoded jump or return.
type BranchInfo struct {
	Target    int  // absolute target pc, valid when HasTarget
	HasTarget bool // false for ret and for register-computed targets
	Cond      bool // true for jnz (has fallthrough)
	IsRet     bool
}

// DecodeBranch reports the control transfer of a basic-block terminator.
// Returns nil if inst is not a jump or ret. Calls return to the next
// instruction and are not terminators; see DecodeCall.
func DecodeBranch(inst Inst) *BranchInfo {
	if !inst.Valid {
		return nil
	}
	in := inst.Instr
	if in.Opcode == OpRet {
		return &BranchInfo{IsRet: true}
	}
	if in.Opcode == OpCall {
		return nil
	}
	switch in.PCUpdate {
	case PCJnz:
		bi := &BranchInfo{Cond: true}
		if in.Op1Src == Op1Imm {
			bi.Target, bi.HasTarget = relTarget(inst.PC, inst.Imm)
		}
		return bi
	case PCJumpAbs, PCJumpRel:
		bi := &BranchInfo{}
		bi.Target, bi.HasTarget = immTarget(inst)
		return bi
	}
	return nil
}

// DecodeCall returns the callee pc of a call with an immediate target.
func DecodeCall(inst Inst) (target int, isCall, resolved bool) {
	if !inst.Valid || inst.Instr.Opcode != OpCall {
		return 0, false, false
	}
	target, resolved = immTarget(inst)
	return target, true, resolved
}

// immTarget resolves a jump whose res is a bare immediate.
func immTarget(inst Inst) (int, bool) {
	in := inst.Instr
	if in.Op1Src != Op1Imm || in.Res != ResOp1 {
		return 0, false
	}
	if in.PCUpdate == PCJumpRel {
		return relTarget(inst.PC, inst.Imm)
	}
	f, ok := inst.Imm.Felt()
	if !ok {
		return 0, false
	}
	v, ok := f.Uint64()
	if !ok || v > 1<<62 {
		return 0, false
	}
	return int(v), true
}

func relTarget(pc int, imm relocatable.MaybeRelocatable) (int, bool) {
	f, ok := imm.Felt()
	if !ok {
		return 0, false
	}
	off, ok := f.Int64()
	if !ok {
		return 0, false
	}
	target := int64(pc) + off
	if target < 0 {
		return 0, false
	}
	return int(target), true
}

// IsBranchTerminator returns true if the instruction ends a basic block.
func IsBranchTerminator(inst Inst) bool {
	return DecodeBranch(inst) != nil
}
