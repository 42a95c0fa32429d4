package main

import (
	"os"

	"github.com/msto63/minilang/cmd/minic/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
