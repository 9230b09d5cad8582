package facial

import (
	"math"
	"sync"
)

// Smoother damps label jitter across consecutive frames with a majority vote
// over the last Window reports. Eye contact is the rounded window mean.
// Ties go to the label seen most recently.
type Smoother struct {
	mu     sync.Mutex
	window int
	buf    []Report
}

// NewSmoother treats a window below 1 as 1, which passes reports through.
func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = 1
	}
	return &Smoother{window: window, buf: make([]Report, 0, window)}
}

func (s *Smoother) Push(r Report) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buf) == s.window {
		copy(s.buf, s.buf[1:])
		s.buf = s.buf[:len(s.buf)-1]
	}
	s.buf = append(s.buf, r)

	return s.current()
}

// Last returns the most recent smoothed report, if any frame was pushed.
func (s *Smoother) Last() (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buf) == 0 {
		return Report{}, false
	}
	return s.current(), true
}

// current votes over the window; callers hold mu.
func (s *Smoother) current() Report {
	exprs := make([]string, len(s.buf))
	postures := make([]string, len(s.buf))
	sum := 0
	for i, b := range s.buf {
		exprs[i] = string(b.Expression)
		postures[i] = string(b.Posture)
		sum += b.EyeContactPercent
	}
	return Report{
		EyeContactPercent: int(math.Round(float64(sum) / float64(len(s.buf)))),
		Expression:        Expression(majority(exprs)),
		Posture:           Posture(majority(postures)),
	}
}

func (s *Smoother) Reset() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	s.mu.Unlock()
}

// majority picks the most frequent label; on a tie, the one whose latest
// occurrence is newest wins.
func majority(labels []string) string {
	counts := map[string]int{}
	last := map[string]int{}
	for i, l := range labels {
		counts[l]++
		last[l] = i
	}
	best, found := "", false
	for l, c := range counts {
		if !found || c > counts[best] || (c == counts[best] && last[l] > last[best]) {
			best, found = l, true
		}
	}
	return best
}
