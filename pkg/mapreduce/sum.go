package mapreduce

import "math"

// Sum is a Neumaier-compensated accumulator. Means over a group do not
// depend on member order beyond a relative error of about 1e-15.
type Sum struct {
	sum  float64
	comp float64
}

func (s *Sum) Add(x float64) {
	t := s.sum + x
	if math.Abs(s.sum) >= math.Abs(x) {
		s.comp += (s.sum - t) + x
	} else {
		s.comp += (x - t) + s.sum
	}
	s.sum = t
}

func (s *Sum) Value() float64 {
	return s.sum + s.comp
}
