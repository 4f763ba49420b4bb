package x86_64

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keurnel/x86decode/internal/decoder"
	"github.com/keurnel/x86decode/internal/decoder/isaset"
	"github.com/keurnel/x86decode/internal/decoder/tables"
	"github.com/keurnel/x86decode/internal/formatter"
)

var (
	decodeMode   string
	decodeIP     uint64
	decodeMinISA string
)

var DecodeCmd = &cobra.Command{
	Use:   "decode <hex-bytes>",
	Short: "Decode a single x86/x86-64 instruction from hex-encoded bytes",
	Long: `Decode reads one hex-encoded byte string (spaces optional, e.g.
"48 89 d8" or "4889d8"), decodes exactly one instruction from its front,
and prints the resulting mnemonic/operand text plus its length in bytes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		raw := strings.ReplaceAll(args[0], " ", "")
		bytes, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}

		mode, err := parseMode(decodeMode)
		if err != nil {
			return err
		}

		d := decoder.NewDecoder(tables.Root, tables.Definitions, mode)
		if decodeMinISA != "" {
			floor, err := isaset.NewFloor(decodeMinISA)
			if err != nil {
				return err
			}
			d.Configure(decoder.Config{MinISA: &floor})
		}
		rec, n, status := d.DecodeNext(bytes, decodeIP)
		if !status.Ok() {
			errColor := color.New(color.FgRed)
			errColor.Fprintf(c.OutOrStdout(), "(bad) %s\n", status)
			return nil
		}

		text := formatter.Format(rec)
		mnemonicColor := color.New(color.FgCyan, color.Bold)
		lenColor := color.New(color.FgYellow)

		fmt.Fprintf(c.OutOrStdout(), "%s  ", mnemonicColor.Sprint(text))
		lenColor.Fprintf(c.OutOrStdout(), "(%d bytes)\n", n)
		return nil
	},
}

func init() {
	DecodeCmd.Flags().StringVar(&decodeMode, "mode", "64", "machine mode: 16, 32 or 64")
	DecodeCmd.Flags().Uint64Var(&decodeIP, "ip", 0, "instruction pointer to report for relative operands")
	DecodeCmd.Flags().StringVar(&decodeMinISA, "min-isa", "", "reject definitions below this isa_set floor (e.g. AVX2)")
}

func parseMode(s string) (decoder.MachineMode, error) {
	switch s {
	case "16":
		return decoder.Mode16, nil
	case "32":
		return decoder.Mode32, nil
	case "64", "":
		return decoder.Mode64, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want 16, 32 or 64)", s)
}
