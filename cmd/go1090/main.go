// Command go1090 decodes Mode S / ADS-B squitters from an RTL-SDR
// dongle or a previously recorded capture file, printing one line per
// accepted message in the fixed wire format described by
// internal/emit, or driving an optional interactive aircraft-count
// table.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/regentag/go1090/internal/config"
	"github.com/regentag/go1090/internal/dsp"
	"github.com/regentag/go1090/internal/emit"
	"github.com/regentag/go1090/internal/icao"
	"github.com/regentag/go1090/internal/modes"
	"github.com/regentag/go1090/internal/receiver"
	"github.com/regentag/go1090/internal/sdr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "go1090 [capture-file]",
		Short: "Mode S / ADS-B receiver",
		Long: "go1090 demodulates Mode S squitters at 1090MHz, either live from an\n" +
			"RTL-SDR dongle or by replaying a previously recorded capture file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.ReplayPath = args[0]
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.DeviceIndex, "device", "d", cfg.DeviceIndex, "RTL-SDR device index")
	flags.Float32VarP(&cfg.Threshold, "threshold", "t", cfg.Threshold, "preamble correlation threshold")
	flags.BoolVar(&cfg.Decoder.FixXoredCRCs, "fix-xored-crcs", cfg.Decoder.FixXoredCRCs, "attempt 1-bit correction against XORed CRC remainders")
	flags.BoolVar(&cfg.Decoder.Fix2BitErrors, "fix-2-bit-errors", cfg.Decoder.Fix2BitErrors, "attempt 2-bit correction on plain-CRC messages")
	flags.BoolVarP(&cfg.Debug, "debug", "v", cfg.Debug, "enable debug logging and periodic stats")
	flags.BoolVarP(&cfg.Interactive, "interactive", "i", cfg.Interactive, "show a live aircraft-count table instead of raw output")
	flags.StringVarP(&cfg.RecordPath, "write-file", "w", cfg.RecordPath, "record the live stream to this capture file")

	return cmd
}

func run(cfg config.Config) error {
	log := logrus.New()
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if cfg.RecordPath != "" && cfg.ReplayPath != "" {
		return fmt.Errorf("go1090: --write-file cannot be combined with a replay file")
	}

	if cfg.RecordPath != "" {
		return runRecord(cfg, log)
	}

	src, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer src.Close()

	filters := dsp.NewFilterBank()
	demod := modes.NewDemodulator(cfg.Decoder)
	dir := icao.New()

	var stats *receiver.Stats
	if cfg.Debug {
		stats = receiver.NewStats()
	}

	onDecode, stopView, err := buildSink(cfg)
	if err != nil {
		return err
	}
	if stopView != nil {
		defer stopView()
	}

	proc := receiver.NewProcessor(filters, demod, dir, cfg.Threshold, src, log, onDecode)
	proc.Stats = stats

	return proc.Run()
}

// openSource opens the replay file or the live device named by cfg.
// It is only reached for the decode paths (live or replay); record
// mode opens the device itself in runRecord, never a decode pipeline.
func openSource(cfg config.Config, log *logrus.Logger) (receiver.Source, error) {
	if cfg.ReplayPath != "" {
		return sdr.OpenFile(cfg.ReplayPath)
	}
	return sdr.OpenRTL(cfg.DeviceIndex, log)
}

// runRecord drives record mode: pull blocks from the live device and
// write them to the capture file, with no DSP pipeline constructed and
// no message ever decoded or emitted. This mirrors the original
// receiver's write-file mode, where the sample reader never wakes the
// decode side at all.
func runRecord(cfg config.Config, log *logrus.Logger) error {
	live, err := sdr.OpenRTL(cfg.DeviceIndex, log)
	if err != nil {
		return err
	}
	defer live.Close()

	sink, err := sdr.CreateFile(cfg.RecordPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	re := make([]float32, receiver.BlockSize+dsp.FilterLen)
	im := make([]float32, receiver.BlockSize+dsp.FilterLen)

	for {
		res, err := live.NextBlock(re, im)
		if err != nil {
			return fmt.Errorf("go1090: source error: %w", err)
		}
		if res == receiver.BlockEOF || res == receiver.BlockCancelled {
			return nil
		}
		if err := sink.WriteBlock(re[:receiver.BlockSize], im[:receiver.BlockSize]); err != nil {
			return fmt.Errorf("go1090: write capture file: %w", err)
		}
	}
}

// buildSink returns the Emit callback for the run: the plain stdout
// writer by default, or a Tracker feeding an interactive gocui table
// when cfg.Interactive is set. The returned stop func is nil in the
// plain case and does nothing in the interactive case: the gocui Gui is
// released by the view's own Run when its main loop ends. The
// interactive view itself is started as its own goroutine since it owns
// the process's main loop.
func buildSink(cfg config.Config) (receiver.Emit, func(), error) {
	if !cfg.Interactive {
		e := emit.New(os.Stdout)
		return e.Emit, nil, nil
	}

	tracker := emit.NewTracker()
	view, err := emit.NewInteractiveView(tracker)
	if err != nil {
		return nil, nil, err
	}
	go func() {
		_ = view.Run()
	}()
	return tracker.Observe, func() {}, nil
}
