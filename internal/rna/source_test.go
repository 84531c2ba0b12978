package rna

// fixedSource returns the same draw forever. Intn always returns 0.
type fixedSource struct {
	f float64
}

func (s *fixedSource) Float64() float64 { return s.f }
func (s *fixedSource) Intn(n int) int   { return 0 }

// scriptedSource replays floats and ints in order, repeating the last value
// once a script is exhausted.
type scriptedSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	if s.fi >= len(s.floats) {
		return s.floats[len(s.floats)-1]
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	var v int
	if s.ii >= len(s.ints) {
		v = s.ints[len(s.ints)-1]
	} else {
		v = s.ints[s.ii]
		s.ii++
	}
	return v % n
}

// testParams returns defaults with the given overrides applied.
func testParams(fn func(*Params)) Params {
	p := DefaultParams()
	if fn != nil {
		fn(&p)
	}
	return p
}
