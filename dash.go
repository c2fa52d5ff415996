package svg

import "math"

// Dash defines a dash pattern for stroking.
// A dash pattern consists of alternating dash and gap lengths.
type Dash struct {
	// Array contains alternating dash/gap lengths in user units.
	// If the array has an odd number of elements, it is logically
	// duplicated to create an even-length pattern ([5] becomes [5, 5]).
	Array []float64

	// Offset is the starting offset into the pattern.
	Offset float64
}

// NewDash creates a dash pattern from alternating dash/gap lengths.
// Returns nil if no lengths are provided, any length is negative, or all
// lengths are zero — per SVG, those cases render as a solid line.
func NewDash(lengths ...float64) *Dash {
	if len(lengths) == 0 {
		return nil
	}
	sum := 0.0
	for _, l := range lengths {
		if l < 0 {
			return nil
		}
		sum += l
	}
	if sum <= 0 {
		return nil
	}
	arr := make([]float64, len(lengths))
	copy(arr, lengths)
	return &Dash{Array: arr}
}

// WithOffset returns a copy of the Dash with the given offset.
func (d *Dash) WithOffset(offset float64) *Dash {
	if d == nil {
		return nil
	}
	return &Dash{Array: d.Array, Offset: offset}
}

// PatternLength returns the total length of one complete pattern cycle.
// For odd-length arrays, this includes the duplicated pattern.
func (d *Dash) PatternLength() float64 {
	if d == nil || len(d.Array) == 0 {
		return 0
	}
	var total float64
	for _, l := range d.Array {
		total += l
	}
	if len(d.Array)%2 != 0 {
		total *= 2
	}
	return total
}

// pattern returns the effective even-length pattern.
func (d *Dash) pattern() []float64 {
	if len(d.Array)%2 == 0 {
		return d.Array
	}
	out := make([]float64, 0, len(d.Array)*2)
	out = append(out, d.Array...)
	out = append(out, d.Array...)
	return out
}

// applyDash splits flattened polylines into dash segments.
// The output polylines are all open; they are subsequently stroked with
// caps at every dash end, per SVG dashing semantics.
func applyDash(lines []Polyline, d *Dash) []Polyline {
	if d == nil || d.PatternLength() <= 0 {
		return lines
	}
	pat := d.pattern()
	patLen := d.PatternLength()

	var out []Polyline
	for _, pl := range lines {
		pts := pl.Points
		if pl.Closed && len(pts) > 1 && pts[0] != pts[len(pts)-1] {
			pts = append(append([]Point(nil), pts...), pts[0])
		}
		if len(pts) < 2 {
			continue
		}

		// Position within the pattern, honoring the (possibly negative)
		// dash offset.
		pos := math.Mod(d.Offset, patLen)
		if pos < 0 {
			pos += patLen
		}
		idx := 0
		for pos >= pat[idx] {
			pos -= pat[idx]
			idx = (idx + 1) % len(pat)
		}
		on := idx%2 == 0

		var cur []Point
		if on {
			cur = append(cur, pts[0])
		}
		for i := 1; i < len(pts); i++ {
			p0, p1 := pts[i-1], pts[i]
			segLen := p0.Distance(p1)
			if segLen <= 0 {
				continue
			}
			traveled := 0.0
			for {
				remain := pat[idx] - pos
				if traveled+remain >= segLen {
					pos += segLen - traveled
					if on {
						cur = append(cur, p1)
					}
					break
				}
				traveled += remain
				cut := p0.Lerp(p1, traveled/segLen)
				if on {
					cur = append(cur, cut)
					out = append(out, Polyline{Points: cur})
					cur = nil
				} else {
					cur = []Point{cut}
				}
				on = !on
				pos = 0
				idx = (idx + 1) % len(pat)
			}
		}
		if len(cur) > 1 {
			out = append(out, Polyline{Points: cur})
		}
	}
	return out
}
