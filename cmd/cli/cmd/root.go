package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "x86decode",
	Short: "x86/x86-64 length disassembler and semantic decoder",
	Long:  `x86decode is a tool for decoding x86 and x86-64 machine code.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {

	rootCmd.AddGroup(&cobra.Group{
		ID:    "arch",
		Title: "Architectures",
	})

	rootCmd.AddCommand(x8664Cmd)

	rootCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
