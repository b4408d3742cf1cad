package outcome

import "math"

// Case registers an exact status code or a closed range with an Outcome.
type Case struct {
	lo, hi  int
	exact   bool
	outcome Outcome
}

// Status registers an exact status code.
func Status(code int, o Outcome) Case {
	return Case{lo: code, exact: true, outcome: o}
}

// Range registers a closed range [lo, hi] of status codes.
func Range(lo, hi int, o Outcome) Case {
	return Case{lo: lo, hi: hi, outcome: o}
}

// rangeEntry is a compiled half-open range [lo, hi). When the registered
// upper bound is already the maximum representable value it cannot be
// widened without overflowing, so hi stays inclusive for that one value.
type rangeEntry struct {
	lo, hi      int
	inclusiveHi bool
	outcome     Outcome
}

// Table resolves a status code to its declared Outcome.
//
// Lookup rules: an exact case wins unconditionally over any range; ranges
// are scanned in registration order and the first containing range wins.
// Registering the same exact code twice follows last-registered-wins,
// matching map-literal override semantics.
type Table struct {
	exact  map[int]Outcome
	ranges []rangeEntry
}

// Build compiles an ordered list of cases into a Table.
func Build(cases ...Case) *Table {
	t := &Table{exact: make(map[int]Outcome, len(cases))}
	for _, c := range cases {
		if c.exact {
			t.exact[c.lo] = c.outcome
			continue
		}
		e := rangeEntry{lo: c.lo, outcome: c.outcome}
		if c.hi == math.MaxInt {
			e.hi = c.hi
			e.inclusiveHi = true
		} else {
			e.hi = c.hi + 1
		}
		t.ranges = append(t.ranges, e)
	}
	return t
}

// Lookup resolves a status code. The second return is false when no case
// covers the code.
func (t *Table) Lookup(code int) (Outcome, bool) {
	if o, ok := t.exact[code]; ok {
		return o, true
	}
	for _, r := range t.ranges {
		if code < r.lo {
			continue
		}
		if code < r.hi || (r.inclusiveHi && code == r.hi) {
			return r.outcome, true
		}
	}
	return Outcome{}, false
}
