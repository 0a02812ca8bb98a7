package split

// recalculate derives every participant's subtotal and tax share from
// scratch. It runs in full after every mutation; there is no incremental
// path, which costs a little CPU and removes an entire class of drift bugs.
func (s *Session) recalculate() {
	for _, p := range s.participants {
		var subtotal float64

		for unitID := range p.direct {
			subtotal += s.units[unitID].Price
		}
		for _, g := range s.shares {
			if g.Contains(p.ID) {
				subtotal += s.SharePortion(g)
			}
		}
		p.Subtotal = subtotal
	}

	// Tax is allocated in proportion to each participant's slice of the
	// receipt's declared subtotal. A zero subtotal (all free items, or a
	// degenerate extraction) falls back to an even split.
	for _, p := range s.participants {
		switch {
		case s.subtotal > 0:
			p.TaxShare = p.Subtotal / s.subtotal * s.tax
			if p.TaxShare < 0 {
				p.TaxShare = 0
			}
		default:
			p.TaxShare = s.tax / float64(len(s.participants))
		}
	}
}
