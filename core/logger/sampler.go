package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ratioSampler admits the first num events of every den. A zero ratio admits everything.
type ratioSampler struct {
	ratio atomic.Uint64 // num<<32 | den
	seen  atomic.Uint64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the window.
func (s *ratioSampler) Set(num, den int) {
	if num <= 0 || den <= 0 {
		s.ratio.Store(0)
		s.seen.Store(0)
		return
	}
	num = min(num, den)
	s.ratio.Store(uint64(num)<<32 | uint64(uint32(den)))
	s.seen.Store(0)
}

// Allow reports whether the next event passes.
func (s *ratioSampler) Allow() bool {
	r := s.ratio.Load()
	if r == 0 {
		return true
	}
	num, den := r>>32, r&0xffffffff
	n := s.seen.Add(1) - 1
	return n%den < num
}

// parseRatio reads "num/den" or a bare "den" meaning 1/den.
// Unparseable or non-positive input yields 0, 0.
func parseRatio(s string) (int, int) {
	s = strings.TrimSpace(s)
	if a, b, ok := strings.Cut(s, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(a))
		den, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil {
			return 0, 0
		}
		return num, den
	}
	den, err := strconv.Atoi(s)
	if err != nil || den <= 0 {
		return 0, 0
	}
	return 1, den
}
