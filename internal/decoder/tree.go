package decoder

// NodeKind identifies whether a tree node is a filter (internal) or a leaf,
// and which filter predicate or leaf meaning it carries (§3.4).
type NodeKind int

const (
	NodeInvalid NodeKind = iota
	NodeDefinition
	NodeTable
	NodeMap
	NodePP
	NodeMode
	NodeModeCompact
	NodeModRMMod
	NodeModRMModCompact
	NodeModRMReg
	NodeModRMRM
	NodeMandatoryPrefix
	NodeOperandSize
	NodeAddressSize
	NodeVectorLength
	NodeRexW
	NodeRexB
	NodeEvexB
	NodeEvexZ
	NodeMvexE
	NodeXOP
	NodeVEX
	NodeEMVEX
	NodeX87
	Node3DNOW
	NodeVendor
)

// Node is a single tree node: either an internal filter with a fixed-fanout
// child array, or a leaf (NodeDefinition references DefIndex into the
// decoder's definition table; NodeInvalid is the dead-end leaf).
type Node struct {
	Kind     NodeKind
	Children []*Node

	// EscapeChildren is only populated on the root TABLE node: the subtree
	// to continue into once an escape prefix has been decoded, keyed by
	// the resulting opcode map.
	EscapeChildren map[OpcodeMap]*Node

	// OpcodeMap tags a TABLE node that represents the entry point of a
	// legacy multi-byte opcode map (e.g. the 0x0F two-byte map), so the
	// record's OpcodeMap field reflects it the same way an escape-decoded
	// VEX/EVEX/XOP map does. Left at MapDefault for plain one-byte tables.
	OpcodeMap OpcodeMap

	DefIndex int
}

// VendorPreference resolves opcodes that differ between Intel and AMD when
// the VENDOR filter is reached.
type VendorPreference int

const (
	VendorIntel VendorPreference = iota
	VendorAMD
)

// walk navigates the opcode tree from root to a leaf, threading decodeState
// so filters that need ModR/M or the opcode byte can pull it lazily (§4.4).
func walk(root *Node, defs []InstructionDefinition, st *decodeState, vendor VendorPreference) (*InstructionDefinition, Status) {
	node := root
	for {
		switch node.Kind {
		case NodeInvalid:
			return nil, StatusDecodingError

		case NodeDefinition:
			if node.DefIndex < 0 || node.DefIndex >= len(defs) {
				return nil, StatusDecodingError
			}
			return &defs[node.DefIndex], StatusSuccess

		case NodeTable:
			if node.OpcodeMap != MapDefault {
				st.rec.OpcodeMap = node.OpcodeMap
			}
			b, status := st.cur.Peek(st.rec)
			if status != StatusSuccess {
				return nil, status
			}
			if node.EscapeChildren != nil && isEscapeTrigger(b) {
				trigger, status := shouldTriggerEscape(st.cur, st.mode)
				if status != StatusSuccess {
					return nil, status
				}
				if trigger {
					if st.ps.RexEncountered {
						return nil, StatusIllegalRex
					}
					if st.ps.MandatoryCandidate != 0 {
						return nil, StatusIllegalLegacyPrefix
					}
					if _, status := st.cur.Next(st.rec); status != StatusSuccess {
						return nil, status
					}
					raw, status := decodeEscape(st.cur, st.rec, b)
					if status != StatusSuccess {
						return nil, status
					}
					st.raw = raw
					st.escaped = true
					next, ok := node.EscapeChildren[st.rec.OpcodeMap]
					if !ok || next == nil {
						return nil, StatusInvalidMap
					}
					node = next
					continue
				}
			}
			opcode, status := st.cur.Next(st.rec)
			if status != StatusSuccess {
				return nil, status
			}
			st.opcodeByte = opcode
			st.rec.Opcode = opcode
			if !st.escaped && st.ps.RexApplied {
				st.raw.HasREX = true
				st.raw.REXByte = st.ps.RexByte
				st.raw.W = st.ps.W
				st.raw.R = st.ps.R
				st.raw.X = st.ps.X
				st.raw.B = st.ps.B
			}
			if int(opcode) >= len(node.Children) || node.Children[opcode] == nil {
				return nil, StatusDecodingError
			}
			node = node.Children[opcode]

		case NodeMap:
			idx := int(st.rec.OpcodeMap)
			if idx >= len(node.Children) || node.Children[idx] == nil {
				return nil, StatusDecodingError
			}
			node = node.Children[idx]

		case NodePP:
			idx := st.raw.PP
			if idx >= len(node.Children) || node.Children[idx] == nil {
				return nil, StatusDecodingError
			}
			node = node.Children[idx]

		case NodeMode:
			idx := modeIndex(st.mode)
			node = mustChild(node, idx)

		case NodeModeCompact:
			idx := 0
			if st.mode == Mode64 {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeModRMMod:
			if _, status := st.modRMByte(); status != StatusSuccess {
				return nil, status
			}
			node = mustChild(node, st.modMod)

		case NodeModRMModCompact:
			if _, status := st.modRMByte(); status != StatusSuccess {
				return nil, status
			}
			idx := 0
			if st.modMod == 3 {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeModRMReg:
			if _, status := st.modRMByte(); status != StatusSuccess {
				return nil, status
			}
			node = mustChild(node, st.modReg)

		case NodeModRMRM:
			if _, status := st.modRMByte(); status != StatusSuccess {
				return nil, status
			}
			node = mustChild(node, st.modRM)

		case NodeMandatoryPrefix:
			idx := mandatoryPrefixIndex(st)
			child := childOrNil(node, idx)
			if child == nil || child.Kind == NodeInvalid {
				// Fall through to slot 0, per the normalized reading in §9:
				// always fall through, never silently consume the prefix.
				fallback := childOrNil(node, 0)
				if fallback == nil {
					return nil, StatusDecodingError
				}
				node = fallback
				continue
			}
			node = child

		case NodeOperandSize:
			idx := operandSizeFilterIndex(st)
			node = mustChild(node, idx)

		case NodeAddressSize:
			idx := addressSizeFilterIndex(st)
			node = mustChild(node, idx)

		case NodeVectorLength:
			if st.raw.LL == 3 {
				return nil, StatusDecodingError
			}
			node = mustChild(node, st.raw.LL)

		case NodeRexW:
			idx := 0
			if st.raw.W {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeRexB:
			idx := 0
			if st.raw.B {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeEvexB:
			idx := 0
			if st.raw.B_ {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeEvexZ:
			idx := 0
			if st.raw.Z {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeMvexE:
			idx := 0
			if st.raw.E {
				idx = 1
			}
			node = mustChild(node, idx)

		case NodeVendor:
			node = mustChild(node, int(vendor))

		case NodeX87:
			if _, status := st.modRMByte(); status != StatusSuccess {
				return nil, status
			}
			if st.modMod != 3 {
				return nil, StatusDecodingError
			}
			idx := int(st.modrm) - 0xC0
			node = mustChild(node, idx)

		case Node3DNOW:
			// 3DNOW!'s ModR/M byte precedes its trailing suffix-opcode byte,
			// unlike every other escape form where the opcode is already
			// fixed before ModR/M is read.
			if _, status := st.modRMByte(); status != StatusSuccess {
				return nil, status
			}
			b, status := st.cur.Next(st.rec)
			if status != StatusSuccess {
				return nil, status
			}
			st.rec.Encoding = Encoding3DNOW
			st.rec.OpcodeMap = Map0F0F
			st.rec.Opcode = b
			node = mustChild(node, int(b))

		case NodeXOP, NodeVEX, NodeEMVEX:
			idx := st.raw.MMMMM
			node = mustChild(node, idx)

		default:
			return nil, StatusDecodingError
		}
		if node == nil {
			return nil, StatusDecodingError
		}
	}
}

func mustChild(node *Node, idx int) *Node {
	if idx < 0 || idx >= len(node.Children) {
		return &Node{Kind: NodeInvalid}
	}
	c := node.Children[idx]
	if c == nil {
		return &Node{Kind: NodeInvalid}
	}
	return c
}

func childOrNil(node *Node, idx int) *Node {
	if idx < 0 || idx >= len(node.Children) {
		return nil
	}
	return node.Children[idx]
}

func modeIndex(mode MachineMode) int {
	switch mode {
	case Mode16:
		return 0
	case Mode32:
		return 1
	default:
		return 2
	}
}

// mandatoryPrefixIndex maps the collected mandatory-prefix candidate to the
// MANDATORY_PREFIX filter's slot numbering (§4.4): 0=none, 2=66, 3=F3,
// 4=F2. Slot 1 ("explicit no-prefix entry") is reached only via the
// fallback path, never selected directly here.
func mandatoryPrefixIndex(st *decodeState) int {
	switch st.ps.MandatoryCandidate {
	case 0x66:
		return 2
	case 0xF3:
		return 3
	case 0xF2:
		return 4
	default:
		return 0
	}
}

func operandSizeFilterIndex(st *decodeState) int {
	_, class := resolveOperandSize(SizeDefault, st.mode, st.ps.HasOperandSizeOverride, st.raw.W)
	return int(class)
}

func addressSizeFilterIndex(st *decodeState) int {
	size := resolveAddressSize(st.mode, st.ps.HasAddressSizeOverride)
	switch size {
	case 16:
		return 0
	case 32:
		return 1
	default:
		return 2
	}
}
