package sdr

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/regentag/go1090/internal/receiver"
)

// FileSource replays a flat capture file: raw interleaved unsigned
// 8-bit I/Q pairs, the same byte layout the dongle delivers, with no
// block boundaries embedded. A short final read (fewer than BlockSize
// complex samples remaining) is treated as end of file and its partial
// data discarded, matching the capture format's lack of framing.
type FileSource struct {
	f   *os.File
	buf []byte
}

// OpenFile opens path for replay.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdr: open capture file: %w", err)
	}
	return &FileSource{
		f:   f,
		buf: make([]byte, receiver.BlockSize*2),
	}, nil
}

// NextBlock reads the next BlockSize complex samples from the file.
func (s *FileSource) NextBlock(re, im []float32) (receiver.BlockResult, error) {
	if _, err := io.ReadFull(s.f, s.buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return receiver.BlockEOF, nil
		}
		return receiver.BlockEOF, fmt.Errorf("sdr: read capture file: %w", err)
	}

	for i := 0; i < receiver.BlockSize; i++ {
		re[i] = float32(s.buf[2*i]) - 128.0
		im[i] = float32(s.buf[2*i+1]) - 128.0
	}
	return receiver.BlockOK, nil
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}

// FileSink records live samples to a capture file in the same raw
// format FileSource replays. An exclusive, non-blocking advisory lock is
// held on the file descriptor for the lifetime of the recording, so a
// second CreateFile on the same path fails at the lock step (after its
// open has already truncated the file). FileSource takes no lock, so a
// replay of the same path is not held off.
type FileSink struct {
	f *os.File
}

// CreateFile creates (or truncates) path for recording and takes an
// exclusive advisory lock on it.
func CreateFile(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sdr: create capture file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("sdr: lock capture file: %w", err)
	}
	return &FileSink{f: f}, nil
}

// WriteBlock appends one block of re/im, re-quantised to unsigned
// 8-bit offset-binary samples, to the capture file.
func (s *FileSink) WriteBlock(re, im []float32) error {
	buf := make([]byte, receiver.BlockSize*2)
	for i := 0; i < receiver.BlockSize; i++ {
		buf[2*i] = quantize(re[i])
		buf[2*i+1] = quantize(im[i])
	}
	_, err := s.f.Write(buf)
	return err
}

func quantize(v float32) byte {
	q := v + 128.0
	if q < 0 {
		q = 0
	}
	if q > 255 {
		q = 255
	}
	return byte(q)
}

// Close unlocks and closes the capture file.
func (s *FileSink) Close() error {
	_ = unix.Flock(int(s.f.Fd()), unix.LOCK_UN)
	return s.f.Close()
}
