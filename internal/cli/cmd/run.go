package cmd

// run.go implements the sole riskxvii subcommand: load an image and run it
// to completion. Grounded on the reference codebase's exec command
// (internal/cli/cmd/exec.go), trimmed of the LC-3 hex-encoding loader and
// the display-channel goroutine (RISK-XVII's console output is just writes
// to an io.Writer, not a polled device), and adapted to the fixed exit-code
// and diagnostic contract of spec.md §7.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"riskxvii/internal/cli"
	"riskxvii/internal/log"
	"riskxvii/internal/tty"
	"riskxvii/internal/vm"
)

// Run returns the "run" command.
func Run() cli.Command {
	return &runner{logLevel: slog.LevelWarn, log: log.DefaultLogger()}
}

type runner struct {
	logLevel slog.Level
	timeout  time.Duration
	log      *log.Logger
}

func (runner) Description() string {
	return "run a RISK-XVII memory image"
}

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `<image>

Loads a flat memory image and executes it until HALT, a fault, or the
instruction region is exhausted.`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)

	fs.Func("loglevel", "set log `level` (default: warn)", func(s string) error {
		return r.logLevel.UnmarshalText([]byte(s))
	})

	fs.DurationVar(&r.timeout, "timeout", 0, "abort after `duration`, 0 disables the timeout")

	return fs
}

// Run loads args[0] as a memory image and executes it, writing console
// output and diagnostics to stdout and returning the process exit code per
// spec.md §6.2/§7.
func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	log.LogLevel.Set(r.logLevel)

	if len(args) != 1 {
		fmt.Fprintln(stdout, "usage: riskxvii [option]... <image>")
		return 1
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("image read failed", "err", err)
		fmt.Fprintf(stdout, "%s: %s\n", vm.ErrImageIO, err)

		return 1
	}

	in := io.Reader(os.Stdin)

	console, err := tty.NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		logger.Warn("console init failed, falling back to plain stdio", "err", err)
	} else {
		defer console.Restore()

		in = console.Reader()
	}

	machine := vm.New(vm.WithLogger(logger), vm.WithStdio(in, stdout))

	loader := vm.NewLoader(machine.Mem)
	if err := loader.Load(image); err != nil {
		logger.Error("image load failed", "err", err)
		fmt.Fprintf(stdout, "%s: %s\n", vm.ErrImageIO, err)

		return 1
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger.Debug("starting machine", "image", args[0], "bytes", len(image))

	err = machine.Run(ctx)

	return r.report(stdout, machine, err)
}

// report writes the terminal diagnostic, if any, and returns the process
// exit code, per spec.md §7's exact wording for IllegalOperation and
// NotImplemented.
func (r *runner) report(stdout io.Writer, machine *vm.Machine, err error) int {
	switch {
	case err == nil:
		return 0

	case errors.Is(err, vm.ErrHalted):
		return 0

	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(stdout, "Timeout")
		return 1

	default:
		var fault *vm.Fault
		if !errors.As(err, &fault) {
			fmt.Fprintf(stdout, "%s\n", err)
			return 1
		}

		switch {
		case errors.Is(fault.Kind, vm.ErrIllegalOperation):
			fmt.Fprintf(stdout, "Illegal Operation: 0x%08x\n", uint32(fault.Instruction))
		case errors.Is(fault.Kind, vm.ErrNotImplemented):
			fmt.Fprintf(stdout, "Instruction Not Implemented: 0x%08x\n", uint32(fault.Instruction))
		default:
			fmt.Fprintf(stdout, "%s\n", fault)
		}

		fmt.Fprint(stdout, machine.RegisterDump())

		return 1
	}
}
