// Package sdr supplies the two sample sources go1090 can run against:
// a live RTL-SDR dongle and a flat capture file, both satisfying
// receiver.Source so the processing pipeline can't tell them apart.
package sdr

import (
	"fmt"
	"sync"
	"time"

	rtl "github.com/jpoirier/gortlsdr"
	"github.com/sirupsen/logrus"

	"github.com/regentag/go1090/internal/receiver"
)

const (
	// CenterFreq is the Mode S downlink frequency, 1090MHz.
	CenterFreq = 1_090_000_000
	// SampleRate is 2Msps, the rate that makes one sample per PPM
	// half-bit period (two per bit) at the Mode S 1Mbit/s bit rate.
	SampleRate = 2_000_000
)

// RTLSource streams blocks from an RTL-SDR dongle via an asynchronous
// hardware callback, bridged to the processor's synchronous NextBlock
// pull through one mutex and one condition variable guarding a single
// pending-block slot. The reader (the hardware callback) always takes
// the mutex with a blocking Lock; if the previous block is still
// pending, unconsumed by NextBlock, it logs an overflow and overwrites
// that block with the new one.
type RTLSource struct {
	dev *rtl.Context
	log *logrus.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	have    bool
	exiting bool
}

// OpenRTL opens and configures device index devIndex: manual tuner
// gain pinned to the maximum reported value, AGC enabled on the
// baseband path, centre frequency and sample rate set per the Mode S
// parameters, and the hardware buffer reset and drained for one second
// before any samples are delivered to the pipeline.
func OpenRTL(devIndex int, log *logrus.Logger) (*RTLSource, error) {
	count := rtl.GetDeviceCount()
	if count == 0 {
		return nil, fmt.Errorf("sdr: no supported RTL-SDR devices found")
	}

	log.Infof("Found %d device(s):", count)
	for i := 0; i < count; i++ {
		_, product, serial, err := rtl.GetDeviceUsbStrings(i)
		mark := ""
		if i == devIndex {
			mark = " (currently selected)"
		}
		if err == nil {
			log.Infof("%d: %s, SN: %s%s", i, product, serial, mark)
		}
	}
	if devIndex >= count {
		return nil, fmt.Errorf("sdr: no RTL-SDR device at index %d", devIndex)
	}

	dev, err := rtl.Open(devIndex)
	if err != nil {
		return nil, fmt.Errorf("sdr: error opening device %d: %w", devIndex, err)
	}

	if err := dev.SetAgcMode(true); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: set agc mode: %w", err)
	}
	if err := dev.SetTunerGainMode(true); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: set manual gain mode: %w", err)
	}
	gains, err := dev.GetTunerGains()
	if err != nil || len(gains) == 0 {
		dev.Close()
		return nil, fmt.Errorf("sdr: get tuner gains: %w", err)
	}
	maxGain := gains[len(gains)-1]
	log.Infof("Setting maximum available gain: %.1fdB", float64(maxGain)/10.0)
	if err := dev.SetTunerGain(maxGain); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: set tuner gain: %w", err)
	}

	if err := dev.SetCenterFreq(CenterFreq); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: set center freq: %w", err)
	}
	if err := dev.SetSampleRate(SampleRate); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: set sample rate: %w", err)
	}

	if err := dev.ResetBuffer(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: reset buffer: %w", err)
	}
	time.Sleep(1 * time.Second)
	drain := make([]byte, 4096)
	dev.ReadSync(drain, len(drain))

	log.Infof("Gain reported by device: %.1fdB", float64(dev.GetTunerGain())/10.0)
	log.Infof("Centre frequency reported by device: %dHz", dev.GetCenterFreq())
	log.Infof("Sample rate reported by device: %dsps", dev.GetSampleRate())

	s := &RTLSource{dev: dev, log: log}
	s.cond = sync.NewCond(&s.mu)

	go func() {
		err := dev.ReadAsync(s.onSamples, nil, 0, receiver.BlockSize*2)
		if err != nil {
			log.WithError(err).Error("rtl-sdr async read loop exited")
		}
	}()

	return s, nil
}

// onSamples is the asynchronous hardware callback: one call per block
// of receiver.BlockSize*2 raw bytes, or a cancellation signal once
// Close has set exiting.
func (s *RTLSource) onSamples(buf []byte) {
	s.mu.Lock()
	if s.exiting {
		s.cond.Signal()
		s.mu.Unlock()
		return
	}

	if len(buf) != receiver.BlockSize*2 {
		s.log.Errorf("unexpected sample block length: got %d, want %d", len(buf), receiver.BlockSize*2)
		s.mu.Unlock()
		return
	}

	if s.have {
		s.log.Warn("Overflow!")
	}
	if s.pending == nil {
		s.pending = make([]byte, len(buf))
	}
	copy(s.pending, buf)
	s.have = true
	s.cond.Signal()
	s.mu.Unlock()
}

// NextBlock blocks until the hardware callback has delivered a fresh
// block, converts it from offset-binary bytes to zero-biased floats,
// and returns BlockOK; or returns BlockCancelled once Close has been
// called.
func (s *RTLSource) NextBlock(re, im []float32) (receiver.BlockResult, error) {
	s.mu.Lock()
	for !s.have && !s.exiting {
		s.cond.Wait()
	}
	if s.exiting {
		s.mu.Unlock()
		return receiver.BlockCancelled, nil
	}

	for i := 0; i < receiver.BlockSize; i++ {
		re[i] = float32(s.pending[2*i]) - 128.0
		im[i] = float32(s.pending[2*i+1]) - 128.0
	}
	s.have = false
	s.mu.Unlock()
	return receiver.BlockOK, nil
}

// Close cancels the async hardware read and releases the device.
func (s *RTLSource) Close() error {
	s.mu.Lock()
	s.exiting = true
	s.cond.Signal()
	s.mu.Unlock()

	if err := s.dev.CancelAsync(); err != nil {
		s.log.WithError(err).Debug("cancel async read")
	}
	return s.dev.Close()
}
