package decoder

import "testing"

// ==========================================================================
// resolveOperandSize covers the six §4.6 policies across machine mode,
// operand-size override, and REX.W combinations.
// ==========================================================================
func TestResolveOperandSize(t *testing.T) {
	tests := []struct {
		name      string
		policy    SizePolicy
		mode      MachineMode
		override  bool
		rexW      bool
		wantSize  int
		wantClass EOSZClass
	}{
		{"default/mode16/no override", SizeDefault, Mode16, false, false, 16, EOSZ16},
		{"default/mode32/no override", SizeDefault, Mode32, false, false, 32, EOSZ32},
		{"default/mode64/no override/no rexW falls to 32", SizeDefault, Mode64, false, false, 32, EOSZ32},
		{"default/mode64/rexW promotes to 64", SizeDefault, Mode64, false, true, 64, EOSZ64},
		{"default/mode64/override ignores rexW-less default", SizeDefault, Mode64, true, false, 16, EOSZ16},
		{"default/mode32/override", SizeDefault, Mode32, true, false, 16, EOSZ16},
		{"default/mode16/override", SizeDefault, Mode16, true, false, 32, EOSZ32},

		{"override-ignored/mode64/no rexW falls to 32", SizeOperandOverrideIgnored, Mode64, true, false, 32, EOSZ32},
		{"override-ignored/mode32", SizeOperandOverrideIgnored, Mode32, true, false, 32, EOSZ32},

		{"rexW-promotes-32/rexW set", SizeRexWPromotesTo32, Mode64, false, true, 32, EOSZ32},
		{"rexW-promotes-32/override", SizeRexWPromotesTo32, Mode64, true, false, 16, EOSZ16},
		{"rexW-promotes-32/mode64 default falls to 32", SizeRexWPromotesTo32, Mode64, false, false, 32, EOSZ32},

		{"default64-in-longmode/mode64 no rexW still 64", SizeDefault64InLongMode, Mode64, false, false, 64, EOSZ64},
		{"default64-in-longmode/mode32 override", SizeDefault64InLongMode, Mode32, true, false, 16, EOSZ16},
		{"default64-in-longmode/mode32 plain", SizeDefault64InLongMode, Mode32, false, false, 32, EOSZ32},

		{"forced64-in-longmode/mode64", SizeForced64InLongMode, Mode64, false, false, 64, EOSZ64},
		{"forced64-in-longmode/mode32 override", SizeForced64InLongMode, Mode32, true, false, 16, EOSZ16},
		{"forced64-in-longmode/mode32 plain", SizeForced64InLongMode, Mode32, false, false, 32, EOSZ32},

		{"forced32-unless-rexW/mode64 rexW", SizeForced32UnlessRexW, Mode64, false, true, 64, EOSZ64},
		{"forced32-unless-rexW/mode64 no rexW", SizeForced32UnlessRexW, Mode64, false, false, 32, EOSZ32},
		{"forced32-unless-rexW/mode32", SizeForced32UnlessRexW, Mode32, false, false, 32, EOSZ32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, class := resolveOperandSize(tt.policy, tt.mode, tt.override, tt.rexW)
			if size != tt.wantSize {
				t.Errorf("size = %d, want %d", size, tt.wantSize)
			}
			if class != tt.wantClass {
				t.Errorf("class = %d, want %d", class, tt.wantClass)
			}
		})
	}
}

// ==========================================================================
// resolveAddressSize: native width xor the address-size override, with
// mode16/mode64 + override both landing on the opposite of their native
// width per §4.6.
// ==========================================================================
func TestResolveAddressSize(t *testing.T) {
	tests := []struct {
		name     string
		mode     MachineMode
		override bool
		want     int
	}{
		{"mode16 no override", Mode16, false, 16},
		{"mode16 override", Mode16, true, 32},
		{"mode32 no override", Mode32, false, 32},
		{"mode32 override", Mode32, true, 16},
		{"mode64 no override", Mode64, false, 64},
		{"mode64 override", Mode64, true, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveAddressSize(tt.mode, tt.override); got != tt.want {
				t.Errorf("resolveAddressSize() = %d, want %d", got, tt.want)
			}
		})
	}
}
