// cmd/riskxvii is the command-line interface to the RISK-XVII emulator.
package main

import (
	"context"
	"os"

	"riskxvii/internal/cli"
	"riskxvii/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Run(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
