package decoder

import "testing"

// ==========================================================================
// finalizeAttributes implements the §4.9 prefix-disambiguation preference
// chain: LOCK gates HLE eligibility, F2/F3 rank REPNE/REPE over their HLE
// and BND fallbacks, and 2E/3E rank branch hints over a plain segment
// override.
// ==========================================================================
func TestFinalizeAttributes(t *testing.T) {
	newState := func(ps PrefixState) *decodeState {
		return &decodeState{rec: &InstructionRecord{}, ps: ps}
	}

	t.Run("lock rejected when definition does not accept it", func(t *testing.T) {
		st := newState(PrefixState{LockCount: 1})
		status := finalizeAttributes(st, &InstructionDefinition{})
		if status != StatusDecodingError {
			t.Errorf("expected StatusDecodingError, got %v", status)
		}
	})

	t.Run("lock accepted sets AttrHasLock", func(t *testing.T) {
		st := newState(PrefixState{LockCount: 1})
		status := finalizeAttributes(st, &InstructionDefinition{Acceptance: AcceptsLock})
		if status != StatusSuccess {
			t.Fatalf("expected success, got %v", status)
		}
		if !st.rec.Attributes.Has(AttrHasLock) {
			t.Error("expected AttrHasLock set")
		}
	})

	t.Run("declared acceptance flags set their AttrAccepts bits regardless of prefixes seen", func(t *testing.T) {
		st := newState(PrefixState{})
		defn := &InstructionDefinition{Acceptance: AcceptsLock | AcceptsRepne | AcceptsBranchHints}
		status := finalizeAttributes(st, defn)
		if status != StatusSuccess {
			t.Fatalf("expected success, got %v", status)
		}
		if !st.rec.Attributes.Has(AttrAcceptsLock) {
			t.Error("expected AttrAcceptsLock set")
		}
		if !st.rec.Attributes.Has(AttrAcceptsRepne) {
			t.Error("expected AttrAcceptsRepne set")
		}
		if !st.rec.Attributes.Has(AttrAcceptsBranchHints) {
			t.Error("expected AttrAcceptsBranchHints set")
		}
		if st.rec.Attributes.Has(AttrAcceptsRep) {
			t.Error("did not expect AttrAcceptsRep for a definition that never declared it")
		}
		if st.rec.Attributes.Has(AttrHasLock) {
			t.Error("no LOCK prefix was seen, AttrHasLock should not be set")
		}
	})

	t.Run("F2 prefers REPNE over XACQUIRE when both accepted", func(t *testing.T) {
		st := newState(PrefixState{RepneCount: 1})
		defn := &InstructionDefinition{Acceptance: AcceptsRepne | AcceptsXacquire | AcceptsHLEWithoutLock}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasRepne) {
			t.Error("expected AttrHasRepne")
		}
		if st.rec.Attributes.Has(AttrHasXacquire) {
			t.Error("did not expect AttrHasXacquire when REPNE is accepted")
		}
	})

	t.Run("F2 falls to XACQUIRE when LOCK makes HLE eligible and REPNE is not accepted", func(t *testing.T) {
		st := newState(PrefixState{LockCount: 1, RepneCount: 1})
		defn := &InstructionDefinition{Acceptance: AcceptsLock | AcceptsXacquire}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasXacquire) {
			t.Error("expected AttrHasXacquire")
		}
	})

	t.Run("F2 falls to BND when not HLE-eligible but BND accepted", func(t *testing.T) {
		st := newState(PrefixState{RepneCount: 1})
		defn := &InstructionDefinition{Acceptance: AcceptsBound}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasBnd) {
			t.Error("expected AttrHasBnd")
		}
	})

	t.Run("F3 prefers REP over REPE and XRELEASE", func(t *testing.T) {
		st := newState(PrefixState{RepCount: 1})
		defn := &InstructionDefinition{Acceptance: AcceptsRep | AcceptsRepe}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasRep) {
			t.Error("expected AttrHasRep")
		}
		if st.rec.Attributes.Has(AttrHasRepe) {
			t.Error("did not expect AttrHasRepe when REP is accepted")
		}
	})

	t.Run("F3 falls to XRELEASE when HLE-eligible without LOCK via AcceptsHLEWithoutLock", func(t *testing.T) {
		st := newState(PrefixState{RepCount: 1})
		defn := &InstructionDefinition{Acceptance: AcceptsHLEWithoutLock | AcceptsXrelease}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasXrelease) {
			t.Error("expected AttrHasXrelease")
		}
	})

	t.Run("2E with branch hints accepted sets not-taken, not a CS override", func(t *testing.T) {
		st := newState(PrefixState{LastSegment: 0x2E})
		defn := &InstructionDefinition{Acceptance: AcceptsBranchHints}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasBranchNotTaken) {
			t.Error("expected AttrHasBranchNotTaken")
		}
		if st.rec.Attributes.Has(AttrHasSegmentCS) {
			t.Error("did not expect a plain CS segment attribute")
		}
	})

	t.Run("2E without branch hints accepted falls back to a plain CS override", func(t *testing.T) {
		st := newState(PrefixState{LastSegment: 0x2E})
		defn := &InstructionDefinition{Acceptance: AcceptsSegmentOverrides}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasSegmentCS) {
			t.Error("expected AttrHasSegmentCS")
		}
	})

	t.Run("plain segment override maps to its attribute bit", func(t *testing.T) {
		st := newState(PrefixState{LastSegment: 0x64})
		defn := &InstructionDefinition{Acceptance: AcceptsSegmentOverrides}
		finalizeAttributes(st, defn)
		if !st.rec.Attributes.Has(AttrHasSegmentFS) {
			t.Error("expected AttrHasSegmentFS")
		}
	})
}
