package decoder

import "testing"

// ==========================================================================
// VEX2 (0xC5): the most compressed escape form, always implying the 0x0F map.
// ==========================================================================
func TestDecodeVEX2(t *testing.T) {
	// VZEROUPPER's VEX2 byte: 0xF8 = 1111_1000 -> R=1(inverted->0),
	// vvvv=1111(unused->VVVV=0), L=0, pp=00.
	cur := NewCursor([]byte{0xF8})
	rec := &InstructionRecord{}
	ps, status := decodeVEX2(cur, rec)
	if status != StatusSuccess {
		t.Fatalf("status = %v, want success", status)
	}
	if ps.LL != 0 {
		t.Errorf("LL = %d, want 0", ps.LL)
	}
	if ps.PP != 0 {
		t.Errorf("PP = %d, want 0", ps.PP)
	}
	if !ps.X || !ps.B {
		t.Error("VEX2 must imply X=1, B=1 (no extension bits available)")
	}
	if ps.MMMMM != 1 {
		t.Errorf("MMMMM = %d, want 1 (implied 0F map)", ps.MMMMM)
	}
	if rec.OpcodeMap != Map0F {
		t.Errorf("OpcodeMap = %v, want Map0F", rec.OpcodeMap)
	}
	if rec.Encoding != EncodingVEX {
		t.Errorf("Encoding = %v, want EncodingVEX", rec.Encoding)
	}
}

// ==========================================================================
// VEX3 (0xC4): validates MMMMM in {1,2,3} and carries an explicit W bit.
// ==========================================================================
func TestDecodeVEX3(t *testing.T) {
	t.Run("map 0F38 with W set", func(t *testing.T) {
		// byte2: R=1,X=1,B=1,mmmmm=00010(2) -> 0xE2
		// byte3: W=1, vvvv=1111(unused), L=0, pp=01 -> 1_1111_0_01 = 0xF9
		cur := NewCursor([]byte{0xE2, 0xF9})
		rec := &InstructionRecord{}
		ps, status := decodeVEX3(cur, rec)
		if status != StatusSuccess {
			t.Fatalf("status = %v, want success", status)
		}
		if ps.MMMMM != 2 {
			t.Errorf("MMMMM = %d, want 2", ps.MMMMM)
		}
		if !ps.W {
			t.Error("expected W set")
		}
		if ps.PP != 1 {
			t.Errorf("PP = %d, want 1", ps.PP)
		}
		if rec.OpcodeMap != Map0F38 {
			t.Errorf("OpcodeMap = %v, want Map0F38", rec.OpcodeMap)
		}
	})

	t.Run("invalid map rejected", func(t *testing.T) {
		// mmmmm = 0 is not a valid VEX3 map value.
		cur := NewCursor([]byte{0x60, 0x00})
		rec := &InstructionRecord{}
		_, status := decodeVEX3(cur, rec)
		if status != StatusInvalidMap {
			t.Errorf("status = %v, want StatusInvalidMap", status)
		}
	})
}

// ==========================================================================
// EVEX/MVEX (0x62): the P0 reserved-bit check, the mask (AAA) field width
// fix, LL==3 rejection, and the EVEX/MVEX branch via P1 bit 2.
// ==========================================================================
func TestDecodeEVEXOrMVEX(t *testing.T) {
	t.Run("VADDPS zmm0,zmm0,zmm1 with mask k7", func(t *testing.T) {
		// P0 = 0xF1: R=1,X=1,B=1,R'=1,mm=01 -> inverted bits all 0, MMMMM=1
		// P1 = 0x7C: W=0,vvvv=1111(unused),is4=1(EVEX),pp=00
		// P2 = 0x4F: z=0,L'=1,L=0,b=0,v'=1(inverted->0),aaa=111 (mask k7)
		cur := NewCursor([]byte{0xF1, 0x7C, 0x4F})
		rec := &InstructionRecord{}
		ps, status := decodeEVEXOrMVEX(cur, rec)
		if status != StatusSuccess {
			t.Fatalf("status = %v, want success", status)
		}
		if ps.AAA != 7 {
			t.Errorf("AAA = %d, want 7 (full 3-bit mask field, not truncated to 2 bits)", ps.AAA)
		}
		if ps.LL != 2 {
			t.Errorf("LL = %d, want 2 (512-bit)", ps.LL)
		}
		if rec.Encoding != EncodingEVEX {
			t.Errorf("Encoding = %v, want EncodingEVEX", rec.Encoding)
		}
		if rec.OpcodeMap != Map0F {
			t.Errorf("OpcodeMap = %v, want Map0F", rec.OpcodeMap)
		}
	})

	t.Run("malformed P0 reserved bits rejected", func(t *testing.T) {
		// bits 3:2 of P0 must be zero in a well-formed EVEX/MVEX prefix.
		cur := NewCursor([]byte{0x0C, 0x00, 0x00})
		rec := &InstructionRecord{}
		_, status := decodeEVEXOrMVEX(cur, rec)
		if status != StatusMalformedEVEX {
			t.Errorf("status = %v, want StatusMalformedEVEX", status)
		}
	})

	t.Run("LL == 3 rejected", func(t *testing.T) {
		// P0 = 0xF1 (map 1, well-formed), P1 = 0x7C (EVEX branch),
		// P2 = 0x60: L'(bit6)=1, L(bit5)=1 -> LL=3.
		cur := NewCursor([]byte{0xF1, 0x7C, 0x60})
		rec := &InstructionRecord{}
		_, status := decodeEVEXOrMVEX(cur, rec)
		if status != StatusDecodingError {
			t.Errorf("status = %v, want StatusDecodingError", status)
		}
	})

	t.Run("MVEX branch via P1 bit 2 clear", func(t *testing.T) {
		// P1 = 0x78: bit2 (is4/EVEX marker) clear -> MVEX.
		cur := NewCursor([]byte{0xF1, 0x78, 0x00})
		rec := &InstructionRecord{}
		ps, status := decodeEVEXOrMVEX(cur, rec)
		if status != StatusSuccess {
			t.Fatalf("status = %v, want success", status)
		}
		if rec.Encoding != EncodingMVEX {
			t.Errorf("Encoding = %v, want EncodingMVEX", rec.Encoding)
		}
		if ps.LL != 2 {
			t.Errorf("LL = %d, want 2 (MVEX is always 512-bit)", ps.LL)
		}
	})
}

// ==========================================================================
// XOP (0x8F): validates MMMMM in {8,9,10}.
// ==========================================================================
func TestDecodeXOP(t *testing.T) {
	t.Run("map XOP8", func(t *testing.T) {
		// p0: R=1,X=1,B=1,mmmmm=01000(8) -> 0xE8
		// p1: W=0,vvvv=1111(unused),L=0,pp=00 -> 0x78
		cur := NewCursor([]byte{0xE8, 0x78})
		rec := &InstructionRecord{}
		ps, status := decodeXOP(cur, rec)
		if status != StatusSuccess {
			t.Fatalf("status = %v, want success", status)
		}
		if ps.MMMMM != 8 {
			t.Errorf("MMMMM = %d, want 8", ps.MMMMM)
		}
		if rec.OpcodeMap != MapXOP8 {
			t.Errorf("OpcodeMap = %v, want MapXOP8", rec.OpcodeMap)
		}
	})

	t.Run("mmmmm below 8 rejected", func(t *testing.T) {
		cur := NewCursor([]byte{0x07, 0x00})
		rec := &InstructionRecord{}
		_, status := decodeXOP(cur, rec)
		if status != StatusInvalidMap {
			t.Errorf("status = %v, want StatusInvalidMap", status)
		}
	})

	t.Run("mmmmm above 10 rejected", func(t *testing.T) {
		cur := NewCursor([]byte{0xEB, 0x00}) // mmmmm = 0x0B = 11
		rec := &InstructionRecord{}
		_, status := decodeXOP(cur, rec)
		if status != StatusInvalidMap {
			t.Errorf("status = %v, want StatusInvalidMap", status)
		}
	})
}

// ==========================================================================
// shouldTriggerEscape: mode64 is unconditional; mode16/32 require the
// following byte's top two bits both set.
// ==========================================================================
func TestShouldTriggerEscape(t *testing.T) {
	t.Run("mode64 is always a trigger", func(t *testing.T) {
		cur := NewCursor([]byte{0xC5, 0x00})
		trigger, status := shouldTriggerEscape(cur, Mode64)
		if status != StatusSuccess || !trigger {
			t.Errorf("trigger = %v, status = %v, want true/success", trigger, status)
		}
	})

	t.Run("mode32 requires top two bits of next byte set", func(t *testing.T) {
		cur := NewCursor([]byte{0xC5, 0xC0})
		trigger, status := shouldTriggerEscape(cur, Mode32)
		if status != StatusSuccess || !trigger {
			t.Errorf("trigger = %v, status = %v, want true/success", trigger, status)
		}
	})

	t.Run("mode32 with next byte looking like mod!=11 is not a trigger", func(t *testing.T) {
		cur := NewCursor([]byte{0xC5, 0x40})
		trigger, status := shouldTriggerEscape(cur, Mode32)
		if status != StatusSuccess || trigger {
			t.Errorf("trigger = %v, status = %v, want false/success", trigger, status)
		}
	})
}
