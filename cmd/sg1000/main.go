// Command sg1000 is the CLI entry point described in §6: it takes a
// single positional ROM path, wires up a Machine, and drives the
// frame loop until the process is interrupted or an optional frame
// budget is exhausted. The host windowing and input layer this feeds
// (framebuffer presentation, keyboard polling) is an external
// collaborator per §1 and is deliberately not implemented here; this
// binary only exercises the core's StepFrame/TakeCanvas contract and,
// on request, dumps the last completed frame to disk so the core can
// be exercised without a GUI.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-sg1000/sg1000emu/machine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var zoom int
	var frames int
	var snapshot string

	cmd := &cobra.Command{
		Use:   "sg1000 <rom>",
		Short: "SG-1000-class Z80/VDP emulation core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], zoom, frames, snapshot)
		},
	}

	cmd.Flags().IntVar(&zoom, "zoom", 2, "integer framebuffer scale factor")
	cmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 = run until interrupted)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write the last completed frame as a PNG to this path on exit")

	return cmd
}

// run loads the ROM at path, builds a Machine and drives StepFrame
// until either the frame budget is exhausted or SIGINT/SIGTERM is
// received, per §6's exit-code contract: a ROM-load failure returns a
// non-zero exit, a requested shutdown returns nil (exit 0).
func run(path string, zoom, frames int, snapshot string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sg1000: failed to read ROM %q: %w", path, err)
	}

	m, err := machine.LoadROM(rom, zoom)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var lastFrame *image.RGBA
	count := 0
	for {
		select {
		case <-sigCh:
			return saveSnapshot(snapshot, lastFrame)
		default:
		}

		m.StepFrame()
		if frame, ready := m.TakeCanvas(); ready {
			lastFrame = frame
		}

		count++
		if frames > 0 && count >= frames {
			return saveSnapshot(snapshot, lastFrame)
		}
	}
}

// saveSnapshot writes frame to path as a PNG if both are present; an empty
// path or a frame that never completed (e.g. --frames 0 interrupted
// before the first vblank) is not an error.
func saveSnapshot(path string, frame *image.RGBA) error {
	if path == "" || frame == nil {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sg1000: failed to write snapshot %q: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, frame); err != nil {
		return fmt.Errorf("sg1000: failed to encode snapshot: %w", err)
	}
	return nil
}
