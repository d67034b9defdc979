package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatScore(b int, values ...float32) [NumFilters][]float32 {
	var score [NumFilters][]float32
	for i := range score {
		score[i] = make([]float32, b)
	}
	for j, v := range values {
		score[0][j] = v
	}
	return score
}

func TestScan_SingleRunYieldsArgmax(t *testing.T) {
	score := flatScore(8, 0, 5, 9, 6, 0, 0, 0, 0)

	var got []Candidate
	Scan(score, 1.0, 8, 0, func(c Candidate) int {
		got = append(got, c)
		return 0
	})

	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].Sample)
	require.Equal(t, float32(9), got[0].Score)
}

func TestScan_TwoSeparateRunsYieldTwoCandidates(t *testing.T) {
	score := flatScore(10, 0, 5, 0, 0, 6, 0, 0, 0, 0)

	var got []Candidate
	Scan(score, 1.0, 10, 0, func(c Candidate) int {
		got = append(got, c)
		return 0
	})

	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].Sample)
	require.Equal(t, 4, got[1].Sample)
}

func TestScan_StraddleGuardDropsTrailingCandidate(t *testing.T) {
	score := flatScore(8, 0, 0, 0, 0, 0, 0, 5, 0)

	var got []Candidate
	Scan(score, 1.0, 8, 4, func(c Candidate) int {
		got = append(got, c)
		return 0
	})

	require.Empty(t, got, "candidate within straddleGuard of block end must be dropped")
}

func TestScan_ConsumedSamplesSkipAhead(t *testing.T) {
	score := flatScore(20, 0, 5, 0, 0, 0, 0, 0, 0, 0, 0, 6, 0, 0, 0, 0, 0, 0, 0, 0)

	var got []Candidate
	Scan(score, 1.0, 20, 0, func(c Candidate) int {
		got = append(got, c)
		return 5
	})

	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].Sample)
	require.Equal(t, 10, got[1].Sample)
}

func TestScan_NeverCallsTryTwiceForSameRun(t *testing.T) {
	score := flatScore(6, 2, 3, 4, 3, 2, 0)

	calls := 0
	Scan(score, 1.0, 6, 0, func(c Candidate) int {
		calls++
		return 0
	})

	require.Equal(t, 1, calls)
}
