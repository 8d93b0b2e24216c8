package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kapitanov/chip8emu/internal/hal"
	"github.com/kapitanov/chip8emu/internal/term"
	"github.com/kapitanov/chip8emu/internal/vm"
	"github.com/spf13/cobra"
)

const (
	frontendSDL  = "sdl"
	frontendTerm = "term"
)

type frontend interface {
	vm.HAL
	Shutdown()
}

type flags struct {
	verbose        bool
	frontend       string
	scale          int
	cpuHz          int
	permissive     bool
	wrapSprites    bool
	index12Bit     bool
	shiftVY        bool
	incrementIndex bool
	seed           uint64
}

// options builds a fresh option set; a fixed seed replays the same random
// sequence after every reboot.
func (f *flags) options() vm.Options {
	opts := vm.DefaultOptions()
	opts.CyclesPerSecond = f.cpuHz
	opts.Quirks = vm.Quirks{
		WrapSprites:              f.wrapSprites,
		IndexWraps12Bit:          f.index12Bit,
		ShiftUsesVY:              f.shiftVY,
		LoadStoreIncrementsIndex: f.incrementIndex,
	}
	if f.permissive {
		opts.Unknown = vm.UnknownSkip
	}
	if f.seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(f.seed, f.seed))
	}
	return opts
}

func newFrontend(name string, scale int) (frontend, error) {
	switch name {
	case frontendSDL:
		h, err := hal.New(scale)
		if err != nil {
			return nil, err
		}
		return h, nil
	case frontendTerm:
		t, err := term.New()
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w %q, want %q or %q", errUnknownFrontend, name, frontendSDL, frontendTerm)
	}
}

var (
	errUnknownFrontend = errors.New("unknown frontend")
	errInvalidCPUHz    = errors.New("invalid cpu-hz")
)

func (f *flags) validate() error {
	if f.cpuHz <= 0 || f.cpuHz > vm.MaxCyclesPerSecond {
		return fmt.Errorf("%w: %d, want 1..%d", errInvalidCPUHz, f.cpuHz, vm.MaxCyclesPerSecond)
	}
	return nil
}

func isReboot(err error) bool {
	return errors.Is(err, hal.ErrReboot) || errors.Is(err, term.ErrReboot)
}

func isQuit(err error) bool {
	return errors.Is(err, hal.ErrQuit) || errors.Is(err, term.ErrQuit) || errors.Is(err, context.Canceled)
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s PATH_TO_ROM_FILE", filepath.Base(os.Args[0])),
		Short:         "Run emulator",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
	}

	f := &flags{}
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().StringVarP(&f.frontend, "frontend", "f", frontendSDL, "frontend to run: sdl or term")
	cmd.Flags().IntVar(&f.scale, "scale", hal.DefaultScale, "sdl window pixels per chip-8 pixel")
	cmd.Flags().IntVar(&f.cpuHz, "cpu-hz", vm.DefaultCyclesPerSecond, "instructions executed per second")
	cmd.Flags().BoolVar(&f.permissive, "permissive", false, "skip unknown opcodes instead of halting")
	cmd.Flags().BoolVar(&f.wrapSprites, "wrap-sprites", false, "wrap sprites around screen edges instead of clipping")
	cmd.Flags().BoolVar(&f.index12Bit, "index-12bit", false, "wrap I modulo 4096 on FX1E")
	cmd.Flags().BoolVar(&f.shiftVY, "shift-vy", false, "8XY6/8XYE shift VY into VX")
	cmd.Flags().BoolVar(&f.incrementIndex, "increment-index", false, "FX55/FX65 advance I past the last register")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for CXNN, 0 picks one")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := f.validate(); err != nil {
			return err
		}
		cmd.SilenceUsage = true

		loggerOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if f.verbose {
			loggerOpts.Level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))

		path := args[0]
		bs, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load file %q: %w", path, err)
		}

		machine, err := vm.New(bs, f.options())
		if err != nil {
			return fmt.Errorf("unable to load file %q: %w", path, err)
		}

		fe, err := newFrontend(f.frontend, f.scale)
		if err != nil {
			return fmt.Errorf("unable to initialize frontend: %w", err)
		}
		defer fe.Shutdown()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for {
			err = machine.Run(ctx, fe)

			if isQuit(err) {
				return nil
			}

			if isReboot(err) {
				slog.Info("reboot")
				if machine, err = vm.New(bs, f.options()); err != nil {
					return err
				}
				continue
			}

			return err
		}
	}

	return cmd
}

func main() {
	cmd := newCommand()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}
