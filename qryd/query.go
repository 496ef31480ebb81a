package qryd

// SingleQubitGateTime returns the time of a single-qubit gate on a logical
// qubit, translated through the current mapping. A missing mapping entry or
// table entry means "not available", never an error.
func (d *Device) SingleQubitGateTime(gate string, qubit int) (float64, bool) {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return 0, false
	}
	tw, err := d.TweezerFromQubit(qubit)
	if err != nil {
		return 0, false
	}
	t, ok := info.SingleQubitGateTimes[gate][tw]
	return t, ok
}

// TwoQubitGateTime returns the time of a two-qubit gate on a (control,
// target) qubit pair. The table is probed in the stored (control, target)
// order only.
func (d *Device) TwoQubitGateTime(gate string, control, target int) (float64, bool) {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return 0, false
	}
	cw, err := d.TweezerFromQubit(control)
	if err != nil {
		return 0, false
	}
	tw, err := d.TweezerFromQubit(target)
	if err != nil {
		return 0, false
	}
	t, ok := info.TwoQubitGateTimes[gate][[2]int{cw, tw}]
	return t, ok
}

// ThreeQubitGateTime returns the time of a three-qubit gate on a (control0,
// control1, target) qubit triple.
func (d *Device) ThreeQubitGateTime(gate string, control0, control1, target int) (float64, bool) {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return 0, false
	}
	c0, err := d.TweezerFromQubit(control0)
	if err != nil {
		return 0, false
	}
	c1, err := d.TweezerFromQubit(control1)
	if err != nil {
		return 0, false
	}
	tw, err := d.TweezerFromQubit(target)
	if err != nil {
		return 0, false
	}
	t, ok := info.ThreeQubitGateTimes[gate][[3]int{c0, c1, tw}]
	return t, ok
}

// MultiQubitGateTime returns the time of a multi-qubit gate on an ordered
// qubit list.
func (d *Device) MultiQubitGateTime(gate string, qubits []int) (float64, bool) {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return 0, false
	}
	mapped := make([]int, len(qubits))
	for i, q := range qubits {
		tw, err := d.TweezerFromQubit(q)
		if err != nil {
			return 0, false
		}
		mapped[i] = tw
	}
	for _, e := range info.MultiQubitGateTimes[gate] {
		if equalInts(e.Tweezers, mapped) {
			return e.Time, true
		}
	}
	return 0, false
}

// TwoQubitEdges returns the qubit-domain connectivity graph: every ordered
// pair of mapped qubits whose tweezers have a gate-time entry for any
// registered two-qubit gate.
func (d *Device) TwoQubitEdges() [][2]int {
	info, err := d.currentLayoutInfo()
	if err != nil || d.mapping == nil {
		return nil
	}
	var edges [][2]int
	for q0, t0 := range d.mapping {
		for q1, t1 := range d.mapping {
			if q0 == q1 {
				continue
			}
			for _, m := range info.TwoQubitGateTimes {
				if _, ok := m[[2]int{t0, t1}]; ok {
					edges = append(edges, [2]int{q0, q1})
					break
				}
			}
		}
	}
	return edges
}

// TwoTweezerEdges returns the tweezer-domain connectivity graph. An edge
// exists between two tweezers iff PhaseShiftedControlledPhase can be
// performed between them.
func (d *Device) TwoTweezerEdges() [][2]int {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return nil
	}
	var edges [][2]int
	for k := range info.TwoQubitGateTimes["PhaseShiftedControlledPhase"] {
		edges = append(edges, k)
	}
	return edges
}
