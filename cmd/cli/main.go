package main

import "github.com/keurnel/x86decode/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
