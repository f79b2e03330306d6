package aircraft

// Cycle yields the positions of a detented rotary or toggle control: up to
// the top stop, back down to zero, up again, forever. It starts one step
// after the value the control held when the cycle was created.
type Cycle struct {
	seq []int
	pos int
}

// NewCycle builds the cycle for a control bounded to [0, max] that currently
// sits at current.
func NewCycle(current, max int) *Cycle {
	if max <= 0 {
		return &Cycle{seq: []int{0}}
	}
	if current < 0 {
		current = 0
	}
	if current > max {
		current = max
	}
	full := make([]int, 0, 3*max+1)
	for i := 0; i <= max; i++ {
		full = append(full, i)
	}
	for i := max - 1; i > 0; i-- {
		full = append(full, i)
	}
	for i := 0; i <= max; i++ {
		full = append(full, i)
	}
	return &Cycle{seq: full[current+1 : 2*max+current+1]}
}

// Next returns the following position and advances.
func (c *Cycle) Next() int {
	v := c.seq[c.pos]
	c.pos = (c.pos + 1) % len(c.seq)
	return v
}

// Len returns the period of the cycle.
func (c *Cycle) Len() int { return len(c.seq) }
