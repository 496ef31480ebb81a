package qryd

import "fmt"

// SetAllowedShifts registers shift chains for a source tweezer in the named
// layout ("" for the current layout). Each chain lists destination tweezers
// nearest first. Chains are appended to any already registered for the
// source.
func (d *Device) SetAllowedShifts(tweezer int, chains [][]int, layout string) error {
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	if !info.hasTweezer(tweezer) {
		return fmt.Errorf("%w: tweezer %d", ErrUnknownTweezer, tweezer)
	}
	for _, chain := range chains {
		for _, t := range chain {
			if t == tweezer {
				return fmt.Errorf("%w: tweezer %d", ErrSelfReferentialShift, tweezer)
			}
			if !info.hasTweezer(t) {
				return fmt.Errorf("%w: tweezer %d", ErrUnknownTweezer, t)
			}
		}
	}
	for _, chain := range chains {
		info.AllowedShifts[tweezer] = append(info.AllowedShifts[tweezer], append([]int(nil), chain...))
	}
	return nil
}

// SetAllowedShiftsFromRows derives bidirectional shift chains from a row
// partition of the tweezers and merges them into the named layout ("" for
// the current layout). For each tweezer of a row the chain towards the left
// and the chain towards the right are added, nearest tweezer first.
// Already-registered identical chains are not duplicated.
func (d *Device) SetAllowedShiftsFromRows(rows [][]int, layout string) error {
	info, err := d.layoutInfo(layout)
	if err != nil {
		return err
	}
	for _, row := range rows {
		seen := map[int]bool{}
		for _, t := range row {
			if seen[t] {
				return fmt.Errorf("%w: tweezer %d", ErrDuplicateTweezerInRow, t)
			}
			seen[t] = true
			if !info.hasTweezer(t) {
				return fmt.Errorf("%w: tweezer %d", ErrUnknownTweezer, t)
			}
		}
	}
	for _, row := range rows {
		for i, t := range row {
			left := make([]int, 0, i)
			for j := i - 1; j >= 0; j-- {
				left = append(left, row[j])
			}
			right := append([]int(nil), row[i+1:]...)
			if len(left) > 0 && !containsChain(info.AllowedShifts[t], left) {
				info.AllowedShifts[t] = append(info.AllowedShifts[t], left)
			}
			if len(right) > 0 && !containsChain(info.AllowedShifts[t], right) {
				info.AllowedShifts[t] = append(info.AllowedShifts[t], right)
			}
		}
	}
	return nil
}

func containsChain(chains [][]int, chain []int) bool {
	for _, c := range chains {
		if equalInts(c, chain) {
			return true
		}
	}
	return false
}

// A Shift moves the qubit occupying Source into Destination along one of the
// source's registered shift chains.
type Shift struct {
	Source      int
	Destination int
}

// ApplyShifts validates and applies a batch of shifts. Each shift slides the
// qubit in Source along the chain containing Destination; every chain
// position up to and including the destination must be unoccupied. Shifts
// are validated in order against a scratch copy of the mapping so a batch
// may contain dependent moves; if any shift fails the whole batch is
// rejected and the mapping is untouched.
func (d *Device) ApplyShifts(shifts []Shift) error {
	if d.mapping == nil {
		return ErrNoQubitsToShift
	}
	info, err := d.currentLayoutInfo()
	if err != nil {
		return err
	}
	scratch := d.mapping.Clone()
	for _, s := range shifts {
		chains, ok := info.AllowedShifts[s.Source]
		if !ok || len(chains) == 0 {
			return fmt.Errorf("%w: no shifts registered for tweezer %d", ErrInvalidShift, s.Source)
		}
		chain := matchChain(chains, s.Destination)
		if chain == nil {
			return fmt.Errorf("%w: tweezer %d not reachable from %d", ErrInvalidShift, s.Destination, s.Source)
		}
		qubit, ok := scratch.QubitAt(s.Source)
		if !ok {
			return fmt.Errorf("%w: tweezer %d holds no qubit", ErrInvalidShift, s.Source)
		}
		if !pathFree(scratch, chain, s.Destination) {
			return fmt.Errorf("%w: path from %d to %d is blocked", ErrInvalidShift, s.Source, s.Destination)
		}
		scratch[qubit] = s.Destination
	}
	d.mapping = scratch
	return nil
}

// matchChain returns the first chain containing the destination.
func matchChain(chains [][]int, destination int) []int {
	for _, chain := range chains {
		for _, t := range chain {
			if t == destination {
				return chain
			}
		}
	}
	return nil
}

// pathFree reports whether every chain position up to and including the
// destination is unoccupied. Positions past the destination do not matter.
func pathFree(m Mapping, chain []int, destination int) bool {
	for _, t := range chain {
		if m.occupied(t) {
			return false
		}
		if t == destination {
			return true
		}
	}
	return true
}
