// Package isaset orders instruction-set extension tags so a decoder build
// can answer "is this extension at or above my supported floor" queries,
// something a plain string-equality isa_set/isa_ext tag cannot express.
package isaset

import (
	"fmt"

	hversion "github.com/hashicorp/go-version"
)

// order assigns each known extension tag a dotted version string so
// go-version's Compare can rank them. The numbers carry no meaning beyond
// relative ordering; they exist only to make "at or above" comparisons
// well-defined across a set of unrelated ISA names.
var order = map[string]string{
	"I86":      "1.0.0",
	"I386":     "3.0.0",
	"LONGMODE": "6.0.0",
	"3DNOW":    "5.0.0",
	"AVX":      "7.0.0",
	"AVX2":     "7.2.0",
	"AVX512F":  "8.0.0",
	"AVX512VL": "8.1.0",
	"AVX512BW": "8.2.0",
}

// Floor represents a decoder build's minimum supported ISA extension.
type Floor struct {
	tag string
	ver *hversion.Version
}

// NewFloor parses a --min-isa flag value into a comparable Floor.
func NewFloor(tag string) (Floor, error) {
	raw, ok := order[tag]
	if !ok {
		return Floor{}, fmt.Errorf("isaset: unknown extension tag %q", tag)
	}
	v, err := hversion.NewVersion(raw)
	if err != nil {
		return Floor{}, err
	}
	return Floor{tag: tag, ver: v}, nil
}

// Allows reports whether an instruction definition's isa_ext tag is at or
// above the floor. An empty tag is allowed; any other unknown tag is
// disallowed.
func (f Floor) Allows(isaExt string) bool {
	raw, ok := order[isaExt]
	if !ok {
		return isaExt == "" || isaExt == "I86"
	}
	v, err := hversion.NewVersion(raw)
	if err != nil {
		return false
	}
	return v.Compare(f.ver) >= 0
}

// String returns the floor's extension tag.
func (f Floor) String() string { return f.tag }
