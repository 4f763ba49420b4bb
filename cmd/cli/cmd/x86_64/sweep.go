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
	"github.com/keurnel/x86decode/internal/diagnostics"
	"github.com/keurnel/x86decode/internal/formatter"
)

var (
	sweepMode    string
	sweepBase    uint64
	sweepVerbose bool
	sweepMinISA  string
)

var SweepCmd = &cobra.Command{
	Use:   "sweep <hex-bytes>",
	Short: "Decode an entire hex-encoded byte stream as a sequence of instructions",
	Long: `Sweep decodes hex-encoded bytes front to back, printing one line per
instruction. A malformed instruction is reported as "(bad)" and scanning
resumes at the next byte, so a single bad instruction never stops the
sweep.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		raw := strings.ReplaceAll(args[0], " ", "")
		bytes, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}

		mode, err := parseMode(sweepMode)
		if err != nil {
			return err
		}

		d := decoder.NewDecoder(tables.Root, tables.Definitions, mode)
		if sweepMinISA != "" {
			floor, err := isaset.NewFloor(sweepMinISA)
			if err != nil {
				return err
			}
			d.Configure(decoder.Config{MinISA: &floor})
		}
		addrColor := color.New(color.FgGreen)
		badColor := color.New(color.FgRed)
		warnColor := color.New(color.FgYellow)

		log := diagnostics.NewLog(raw)
		index := 0
		for rec := range d.Sweep(bytes, sweepBase) {
			pos := diagnostics.At(rec.InstructionPointer(), index)
			index++

			addrColor.Fprintf(c.OutOrStdout(), "%08x:  ", rec.InstructionPointer())
			if !rec.Status.Ok() {
				badColor.Fprintf(c.OutOrStdout(), "(bad) %s\n", rec.Status)
				log.Error(pos, "decode failed").
					WithDetail(fmt.Sprintf("% x", rec.RawBytes)).
					WithStatus(rec.Status.String())
				continue
			}
			fmt.Fprintln(c.OutOrStdout(), formatter.Format(rec))
			log.Info(pos, rec.Mnemonic.String())
		}

		if sweepVerbose {
			for _, e := range log.Entries() {
				if e.Severity() == diagnostics.SeverityError {
					warnColor.Fprintf(c.ErrOrStderr(), "%s\n", e.String())
				}
			}
			fmt.Fprintf(c.ErrOrStderr(), "%d instructions, %d decode errors\n", log.Count(), len(log.Errors()))
		}
		return nil
	},
}

func init() {
	SweepCmd.Flags().StringVar(&sweepMode, "mode", "64", "machine mode: 16, 32 or 64")
	SweepCmd.Flags().Uint64Var(&sweepBase, "base", 0, "base address of the first byte")
	SweepCmd.Flags().BoolVar(&sweepVerbose, "verbose", false, "print a diagnostics summary to stderr after the sweep")
	SweepCmd.Flags().StringVar(&sweepMinISA, "min-isa", "", "reject definitions below this isa_set floor (e.g. AVX2)")
}
