package decoder

import "github.com/keurnel/x86decode/internal/decoder/mnemonic"

// finalizeAttributes turns the collected prefix state into the record's
// Attributes bitset, checking each prefix against the matched definition's
// AcceptanceFlags (§4.9). A LOCK prefix the definition does not accept
// fails the decode with StatusDecodingError; any other prefix the
// definition does not accept sets no attribute and is not rejected.
func finalizeAttributes(st *decodeState, defn *InstructionDefinition) Status {
	var attrs Attributes

	attrs |= acceptanceAttrs(defn.Acceptance)

	if st.ps.HasOperandSizeOverride {
		attrs |= AttrHasOperandSize
	}
	if st.ps.HasAddressSizeOverride {
		attrs |= AttrHasAddressSize
	}

	if st.ps.LockCount > 0 {
		if defn.Acceptance&AcceptsLock == 0 {
			return StatusDecodingError
		}
		attrs |= AttrHasLock
	}

	// HLE forms (XACQUIRE/XRELEASE) are only reachable when either LOCK is
	// already present or the definition explicitly accepts HLE without it.
	hleEligible := attrs&AttrHasLock != 0 || defn.Acceptance&AcceptsHLEWithoutLock != 0

	switch {
	case st.ps.RepneCount > 0:
		switch {
		case defn.Acceptance&AcceptsRepne != 0:
			attrs |= AttrHasRepne
		case hleEligible && defn.Acceptance&AcceptsXacquire != 0:
			attrs |= AttrHasXacquire
		case defn.Acceptance&AcceptsBound != 0:
			attrs |= AttrHasBnd
		}
	case st.ps.RepCount > 0:
		switch {
		case defn.Acceptance&AcceptsRep != 0:
			attrs |= AttrHasRep
		case defn.Acceptance&AcceptsRepe != 0:
			attrs |= AttrHasRepe
		case hleEligible && defn.Acceptance&AcceptsXrelease != 0:
			attrs |= AttrHasXrelease
		}
	}

	switch {
	case st.ps.LastSegment == 0x2E && defn.Acceptance&AcceptsBranchHints != 0:
		attrs |= AttrHasBranchNotTaken
	case st.ps.LastSegment == 0x3E && defn.Acceptance&AcceptsBranchHints != 0:
		attrs |= AttrHasBranchTaken
	case st.ps.LastSegment != 0 && defn.Acceptance&AcceptsSegmentOverrides != 0:
		attrs |= segmentAttr(st.ps.LastSegment)
	}

	if defn.OperandDefs[0].Semantic == SemRel || (defn.NumOperands > 0 && hasRelativeOperand(defn)) {
		attrs |= AttrIsRelative
	}

	// The F3 of PAUSE (aliased from F3 NOP) is part of its encoding, not a REP.
	if st.rec.Mnemonic == mnemonic.PAUSE {
		attrs &^= AttrHasRep
	}

	st.rec.Attributes = attrs
	st.rec.ExceptionClass = defn.ExceptionClass
	st.rec.IsaSet = defn.ISASet
	st.rec.Category = defn.Category
	return StatusSuccess
}

// acceptanceAttrs sets one AttrAccepts* bit per AcceptanceFlags bit the
// definition declares, regardless of which prefixes were actually seen.
func acceptanceAttrs(acc AcceptanceFlags) Attributes {
	var attrs Attributes
	if acc&AcceptsLock != 0 {
		attrs |= AttrAcceptsLock
	}
	if acc&AcceptsRep != 0 {
		attrs |= AttrAcceptsRep
	}
	if acc&AcceptsRepe != 0 {
		attrs |= AttrAcceptsRepe
	}
	if acc&AcceptsRepne != 0 {
		attrs |= AttrAcceptsRepne
	}
	if acc&AcceptsBound != 0 {
		attrs |= AttrAcceptsBound
	}
	if acc&AcceptsXacquire != 0 {
		attrs |= AttrAcceptsXacquire
	}
	if acc&AcceptsXrelease != 0 {
		attrs |= AttrAcceptsXrelease
	}
	if acc&AcceptsHLEWithoutLock != 0 {
		attrs |= AttrAcceptsHLEWithoutLock
	}
	if acc&AcceptsBranchHints != 0 {
		attrs |= AttrAcceptsBranchHints
	}
	if acc&AcceptsSegmentOverrides != 0 {
		attrs |= AttrAcceptsSegmentOverrides
	}
	return attrs
}

func hasRelativeOperand(defn *InstructionDefinition) bool {
	for i := 0; i < defn.NumOperands; i++ {
		if defn.OperandDefs[i].Semantic == SemRel {
			return true
		}
	}
	return false
}

func segmentAttr(seg byte) Attributes {
	switch seg {
	case 0x2E:
		return AttrHasSegmentCS
	case 0x36:
		return AttrHasSegmentSS
	case 0x3E:
		return AttrHasSegmentDS
	case 0x26:
		return AttrHasSegmentES
	case 0x64:
		return AttrHasSegmentFS
	case 0x65:
		return AttrHasSegmentGS
	}
	return 0
}
