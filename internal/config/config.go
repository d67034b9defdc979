// Package config holds the operator-facing settings shared by every
// invocation mode (live capture, file replay, record-to-file). The cobra
// flags that populate them are bound in cmd/go1090.
package config

import "github.com/regentag/go1090/internal/modes"

// Config collects every flag the command line accepts, independent of
// which positional form (live/replay/record) was chosen.
type Config struct {
	// DeviceIndex selects which RTL-SDR dongle to open when running
	// live (ignored for replay).
	DeviceIndex int

	// Threshold is the minimum matched-filter correlation score a
	// preamble candidate must clear.
	Threshold float32

	// Decoder carries the two optional error-correction behaviours.
	Decoder modes.DecoderConfig

	// Debug turns on per-message diagnostic logging (corrected CRCs,
	// directory insertions) and the periodic stats reporter. Rejected
	// invalid-ICAO decodes are logged as warnings whether or not it is
	// set.
	Debug bool

	// Interactive starts the gocui aircraft-table view instead of
	// plain line-oriented stdout output.
	Interactive bool

	// ReplayPath is set when replaying a capture file instead of
	// reading live from hardware.
	ReplayPath string

	// RecordPath is set when the live stream should be written to a
	// flat capture file instead of being decoded.
	RecordPath string
}

// Default returns the configuration reached when no flags are given:
// live capture from device 0, the same default threshold the original
// receiver used, and both error-correction passes off, matching the
// original receiver's zero-initialized flags.
func Default() Config {
	return Config{
		DeviceIndex: 0,
		Threshold:   0.0,
		Decoder: modes.DecoderConfig{
			FixXoredCRCs:  false,
			Fix2BitErrors: false,
		},
	}
}
