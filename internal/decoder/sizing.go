package decoder

// SizePolicy selects one of the six effective-operand-size policies a
// definition's operand_size_map can declare (§4.6). Each policy is
// conceptually an 8-entry table keyed by (machine mode, operand-size
// override present, REX.W); they are expressed here as direct functions of
// the same three inputs rather than literal arrays, since the six policies
// differ in shape more than in raw data.
type SizePolicy int

const (
	SizeDefault SizePolicy = iota
	SizeOperandOverrideIgnored
	SizeRexWPromotesTo32
	SizeDefault64InLongMode
	SizeForced64InLongMode
	SizeForced32UnlessRexW
)

// EOSZClass is the effective-operand-size class an operand-def size triple
// and disp/imm size triple are indexed by.
type EOSZClass int

const (
	EOSZ16 EOSZClass = 0
	EOSZ32 EOSZClass = 1
	EOSZ64 EOSZClass = 2
)

func nativeWidth(mode MachineMode) int { return int(mode) }

// defaultOperandWidth is the operand size a definition falls back to absent
// REX.W and an operand-size override. Unlike nativeWidth (used for address
// size, where long mode's native width really is 64), a 64-bit-mode
// instruction with neither REX.W nor 66 defaults to a 32-bit operand —
// REX.W is what promotes it to 64.
func defaultOperandWidth(mode MachineMode) int {
	if mode == Mode64 {
		return 32
	}
	return nativeWidth(mode)
}

// resolveOperandSize computes the effective operand size and its EOSZ class
// for a matched definition's policy.
func resolveOperandSize(policy SizePolicy, mode MachineMode, override, rexW bool) (size int, class EOSZClass) {
	switch policy {
	case SizeOperandOverrideIgnored:
		size = defaultOperandWidth(mode)
	case SizeRexWPromotesTo32:
		switch {
		case rexW:
			size = 32
		case override:
			size = 16
		default:
			size = defaultOperandWidth(mode)
		}
	case SizeDefault64InLongMode:
		switch {
		case mode == Mode64 && rexW:
			size = 64
		case mode == Mode64:
			size = 64
		case override:
			size = 16
		default:
			size = nativeWidth(mode)
		}
	case SizeForced64InLongMode:
		if mode == Mode64 {
			size = 64
		} else if override {
			size = 16
		} else {
			size = nativeWidth(mode)
		}
	case SizeForced32UnlessRexW:
		if mode == Mode64 && rexW {
			size = 64
		} else {
			size = 32
		}
	default: // SizeDefault
		switch {
		case mode == Mode64 && rexW:
			size = 64
		case override:
			if mode == Mode64 {
				size = 16
			} else if mode == Mode32 {
				size = 16
			} else {
				size = 32
			}
		default:
			size = defaultOperandWidth(mode)
		}
	}

	switch size {
	case 16:
		class = EOSZ16
	case 32:
		class = EOSZ32
	default:
		class = EOSZ64
	}
	return size, class
}

// resolveAddressSize implements §4.6's address-size rule: native width
// xor the address-size override, with mode16/mode64 + override both
// landing on 32.
func resolveAddressSize(mode MachineMode, override bool) int {
	if !override {
		return nativeWidth(mode)
	}
	switch mode {
	case Mode16:
		return 32
	case Mode32:
		return 16
	case Mode64:
		return 32
	}
	return nativeWidth(mode)
}
