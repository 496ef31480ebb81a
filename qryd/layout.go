package qryd

import (
	"fmt"
	"sort"
)

// A MultiTweezerTime is one multi-qubit gate-time entry: an ordered list of
// tweezer indices and the gate time for that list.
type MultiTweezerTime struct {
	Tweezers []int
	Time     float64
}

// A LayoutInfo holds the calibration data of one named layout: gate-time
// tables for every arity, the allowed shift chains, and the optional row
// geometry. A tweezer index is present in a layout iff it occurs in at least
// one of the four gate-time tables.
type LayoutInfo struct {
	// SingleQubitGateTimes maps gate name -> tweezer -> time in seconds.
	SingleQubitGateTimes map[string]map[int]float64

	// TwoQubitGateTimes maps gate name -> ordered tweezer pair -> time. The
	// pair is stored in insertion order; lookups probe the order each
	// consuming operation specifies.
	TwoQubitGateTimes map[string]map[[2]int]float64

	// ThreeQubitGateTimes maps gate name -> ordered tweezer triple -> time.
	ThreeQubitGateTimes map[string]map[[3]int]float64

	// MultiQubitGateTimes maps gate name -> entries keyed by an ordered
	// tweezer list. Go maps cannot key on slices, so entries live in a
	// slice with overwrite-on-equal-list set semantics.
	MultiQubitGateTimes map[string][]MultiTweezerTime

	// AllowedShifts maps a source tweezer to its shift chains. Each chain
	// lists destination candidates nearest first: a qubit may move to chain
	// element i only if elements 0..i are all unoccupied.
	AllowedShifts map[int][][]int

	// TweezersPerRow is the optional row geometry, used for compatibility
	// checks between layouts.
	TweezersPerRow []int
}

func newLayoutInfo() *LayoutInfo {
	return &LayoutInfo{
		SingleQubitGateTimes: map[string]map[int]float64{},
		TwoQubitGateTimes:    map[string]map[[2]int]float64{},
		ThreeQubitGateTimes:  map[string]map[[3]int]float64{},
		MultiQubitGateTimes:  map[string][]MultiTweezerTime{},
		AllowedShifts:        map[int][][]int{},
	}
}

func (l *LayoutInfo) clone() *LayoutInfo {
	c := newLayoutInfo()
	for g, m := range l.SingleQubitGateTimes {
		cm := make(map[int]float64, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.SingleQubitGateTimes[g] = cm
	}
	for g, m := range l.TwoQubitGateTimes {
		cm := make(map[[2]int]float64, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.TwoQubitGateTimes[g] = cm
	}
	for g, m := range l.ThreeQubitGateTimes {
		cm := make(map[[3]int]float64, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.ThreeQubitGateTimes[g] = cm
	}
	for g, entries := range l.MultiQubitGateTimes {
		ce := make([]MultiTweezerTime, len(entries))
		for i, e := range entries {
			ce[i] = MultiTweezerTime{Tweezers: append([]int(nil), e.Tweezers...), Time: e.Time}
		}
		c.MultiQubitGateTimes[g] = ce
	}
	for t, chains := range l.AllowedShifts {
		cc := make([][]int, len(chains))
		for i, chain := range chains {
			cc[i] = append([]int(nil), chain...)
		}
		c.AllowedShifts[t] = cc
	}
	c.TweezersPerRow = append([]int(nil), l.TweezersPerRow...)
	return c
}

// hasTweezer reports whether the index occurs in any gate-time table.
func (l *LayoutInfo) hasTweezer(tweezer int) bool {
	for _, m := range l.SingleQubitGateTimes {
		if _, ok := m[tweezer]; ok {
			return true
		}
	}
	for _, m := range l.TwoQubitGateTimes {
		for k := range m {
			if k[0] == tweezer || k[1] == tweezer {
				return true
			}
		}
	}
	for _, m := range l.ThreeQubitGateTimes {
		for k := range m {
			if k[0] == tweezer || k[1] == tweezer || k[2] == tweezer {
				return true
			}
		}
	}
	for _, entries := range l.MultiQubitGateTimes {
		for _, e := range entries {
			for _, t := range e.Tweezers {
				if t == tweezer {
					return true
				}
			}
		}
	}
	return false
}

// maxTweezer returns the highest tweezer index referenced anywhere in the
// gate-time tables, and false if the layout is empty.
func (l *LayoutInfo) maxTweezer() (int, bool) {
	max, found := 0, false
	grow := func(t int) {
		if !found || t > max {
			max, found = t, true
		}
	}
	for _, m := range l.SingleQubitGateTimes {
		for k := range m {
			grow(k)
		}
	}
	for _, m := range l.TwoQubitGateTimes {
		for k := range m {
			grow(k[0])
			grow(k[1])
		}
	}
	for _, m := range l.ThreeQubitGateTimes {
		for k := range m {
			grow(k[0])
			grow(k[1])
			grow(k[2])
		}
	}
	for _, entries := range l.MultiQubitGateTimes {
		for _, e := range entries {
			for _, t := range e.Tweezers {
				grow(t)
			}
		}
	}
	return max, found
}

// gateNames returns the de-duplicated union of gate names across all four
// tables, sorted.
func (l *LayoutInfo) gateNames() []string {
	set := map[string]bool{}
	for g := range l.SingleQubitGateTimes {
		set[g] = true
	}
	for g := range l.TwoQubitGateTimes {
		set[g] = true
	}
	for g := range l.ThreeQubitGateTimes {
		set[g] = true
	}
	for g := range l.MultiQubitGateTimes {
		set[g] = true
	}
	names := make([]string, 0, len(set))
	for g := range set {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

// tweezerPositions counts the distinct tweezer indices referenced in the
// gate-time tables.
func (l *LayoutInfo) tweezerPositions() int {
	set := map[int]bool{}
	for _, m := range l.SingleQubitGateTimes {
		for k := range m {
			set[k] = true
		}
	}
	for _, m := range l.TwoQubitGateTimes {
		for k := range m {
			set[k[0]] = true
			set[k[1]] = true
		}
	}
	for _, m := range l.ThreeQubitGateTimes {
		for k := range m {
			set[k[0]] = true
			set[k[1]] = true
			set[k[2]] = true
		}
	}
	for _, entries := range l.MultiQubitGateTimes {
		for _, e := range entries {
			for _, t := range e.Tweezers {
				set[t] = true
			}
		}
	}
	return len(set)
}

// AddLayout registers a new empty layout. It does not activate it.
func (d *Device) AddLayout(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty layout name", ErrUnknownLayout)
	}
	if _, ok := d.layouts[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLayout, name)
	}
	d.layouts[name] = newLayoutInfo()
	return nil
}

// layoutInfo resolves a layout by name, or the current layout for name == "".
func (d *Device) layoutInfo(name string) (*LayoutInfo, error) {
	if name == "" {
		if d.current == "" {
			return nil, ErrNoCurrentLayout
		}
		name = d.current
	}
	info, ok := d.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return info, nil
}

func (d *Device) currentLayoutInfo() (*LayoutInfo, error) {
	return d.layoutInfo("")
}

// IsTweezerPresent reports whether the tweezer occurs in the calibration
// data of the named layout ("" for the current layout).
func (d *Device) IsTweezerPresent(tweezer int, layout string) (bool, error) {
	info, err := d.layoutInfo(layout)
	if err != nil {
		return false, err
	}
	return info.hasTweezer(tweezer), nil
}

// SetTweezersPerRow records the row geometry of the named layout ("" for the
// current layout). Row geometry gates dynamic layout switches.
func (d *Device) SetTweezersPerRow(rows []int, layout string) error {
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	info.TweezersPerRow = append([]int(nil), rows...)
	return nil
}

// SetSingleQubitGateTime sets the time of a single-qubit gate for a tweezer
// in the named layout ("" for the current layout). Any established qubit ->
// tweezer mapping is invalidated, since the set of valid tweezers may have
// changed.
func (d *Device) SetSingleQubitGateTime(gate string, tweezer int, time float64, layout string) error {
	if !validGateName(gate, aritySingle) {
		return fmt.Errorf("%w: %q is not a native single-qubit gate", ErrUnsupportedGate, gate)
	}
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	m, ok := info.SingleQubitGateTimes[gate]
	if !ok {
		m = map[int]float64{}
		info.SingleQubitGateTimes[gate] = m
	}
	m[tweezer] = time
	d.mapping = nil
	return nil
}

// SetTwoQubitGateTime sets the time of a two-qubit gate for an ordered
// tweezer pair in the named layout ("" for the current layout). The mapping
// is invalidated.
func (d *Device) SetTwoQubitGateTime(gate string, tweezer0, tweezer1 int, time float64, layout string) error {
	if !validGateName(gate, arityTwo) {
		return fmt.Errorf("%w: %q is not a native two-qubit gate", ErrUnsupportedGate, gate)
	}
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	m, ok := info.TwoQubitGateTimes[gate]
	if !ok {
		m = map[[2]int]float64{}
		info.TwoQubitGateTimes[gate] = m
	}
	m[[2]int{tweezer0, tweezer1}] = time
	d.mapping = nil
	return nil
}

// SetThreeQubitGateTime sets the time of a three-qubit gate for an ordered
// tweezer triple in the named layout ("" for the current layout). The
// mapping is invalidated.
func (d *Device) SetThreeQubitGateTime(gate string, tweezer0, tweezer1, tweezer2 int, time float64, layout string) error {
	if !validGateName(gate, arityThree) {
		return fmt.Errorf("%w: %q is not a native three-qubit gate", ErrUnsupportedGate, gate)
	}
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	m, ok := info.ThreeQubitGateTimes[gate]
	if !ok {
		m = map[[3]int]float64{}
		info.ThreeQubitGateTimes[gate] = m
	}
	m[[3]int{tweezer0, tweezer1, tweezer2}] = time
	d.mapping = nil
	return nil
}

// SetMultiQubitGateTime sets the time of a multi-qubit gate for an ordered
// tweezer list in the named layout ("" for the current layout). An entry
// with an equal list is overwritten. The mapping is invalidated.
func (d *Device) SetMultiQubitGateTime(gate string, tweezers []int, time float64, layout string) error {
	if !validGateName(gate, arityMulti) {
		return fmt.Errorf("%w: %q is not a native multi-qubit gate", ErrUnsupportedGate, gate)
	}
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	entry := MultiTweezerTime{Tweezers: append([]int(nil), tweezers...), Time: time}
	entries := info.MultiQubitGateTimes[gate]
	replaced := false
	for i := range entries {
		if equalInts(entries[i].Tweezers, tweezers) {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	info.MultiQubitGateTimes[gate] = entries
	d.mapping = nil
	return nil
}

// AvailableGateNames returns the union of gate names across the four
// gate-time tables of the named layout ("" for the current layout).
func (d *Device) AvailableGateNames(layout string) ([]string, error) {
	info, err := d.layoutInfo(layout)
	if err != nil {
		return nil, err
	}
	return info.gateNames(), nil
}

// NumberTweezerPositions returns the count of distinct tweezer indices
// referenced by the named layout ("" for the current layout).
func (d *Device) NumberTweezerPositions(layout string) (int, error) {
	info, err := d.layoutInfo(layout)
	if err != nil {
		return 0, err
	}
	return info.tweezerPositions(), nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
