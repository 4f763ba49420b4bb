package x86_64

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keurnel/x86decode/internal/decoder/tables"
)

// MapsCmd lists the static opcode-tree coverage the build was compiled
// with: which one-byte opcodes the root table has wired, and which
// escape-prefix opcode maps are reachable at all. Useful for sanity
// checking a build's tables without reaching for a debugger.
var MapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the opcode values and escape maps the decoder tables cover",
	RunE: func(c *cobra.Command, args []string) error {
		fmt.Fprintln(c.OutOrStdout(), "populated one-byte opcodes:")
		for _, op := range tables.PopulatedOpcodes() {
			fmt.Fprintf(c.OutOrStdout(), "  0x%02x\n", op)
		}
		fmt.Fprintln(c.OutOrStdout(), "escape maps:")
		for _, m := range tables.EscapeMaps() {
			fmt.Fprintf(c.OutOrStdout(), "  map %d\n", m)
		}
		return nil
	},
}
