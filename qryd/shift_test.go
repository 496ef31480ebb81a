package qryd

import (
	"errors"
	"testing"
)

// newRowDevice builds a device whose layout covers tweezers 0..5 with
// single-qubit calibration only, so shifts can be exercised without two-qubit
// structure getting in the way.
func newRowDevice(t *testing.T) *Device {
	t.Helper()
	d := New(Options{})
	if err := d.AddLayout("row"); err != nil {
		t.Fatalf("AddLayout: %v", err)
	}
	for tw := 0; tw < 6; tw++ {
		if err := d.SetSingleQubitGateTime("RotateX", tw, 1e-6, "row"); err != nil {
			t.Fatalf("SetSingleQubitGateTime(%d): %v", tw, err)
		}
	}
	if err := d.SwitchLayout("row"); err != nil {
		t.Fatalf("SwitchLayout: %v", err)
	}
	return d
}

// free detaches the qubits sitting on the given tweezers of the trivial
// mapping so the corresponding positions become empty.
func free(t *testing.T, d *Device, tweezers ...int) {
	t.Helper()
	for _, tw := range tweezers {
		q, ok := d.QubitTweezerMapping().QubitAt(tw)
		if !ok {
			t.Fatalf("tweezer %d already free", tw)
		}
		if _, err := d.DeactivateQubit(q); err != nil {
			t.Fatalf("DeactivateQubit(%d): %v", q, err)
		}
	}
}

func TestSetAllowedShiftsValidation(t *testing.T) {
	d := newRowDevice(t)
	tcs := []struct {
		name    string
		tweezer int
		chains  [][]int
		want    error
	}{{
		name:    "source absent",
		tweezer: 9,
		chains:  [][]int{{0}},
		want:    ErrUnknownTweezer,
	}, {
		name:    "chain member absent",
		tweezer: 0,
		chains:  [][]int{{1, 9}},
		want:    ErrUnknownTweezer,
	}, {
		name:    "self referential",
		tweezer: 0,
		chains:  [][]int{{1, 0}},
		want:    ErrSelfReferentialShift,
	}}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if err := d.SetAllowedShifts(tc.tweezer, tc.chains, ""); !errors.Is(err, tc.want) {
				t.Errorf("err == %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSetAllowedShiftsAppends(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShifts(0, [][]int{{1, 2}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	if err := d.SetAllowedShifts(0, [][]int{{3}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	// Both chains must be live: destination 2 via the first, 3 via the second.
	free(t, d, 1, 2)
	if err := d.ApplyShifts([]Shift{{Source: 0, Destination: 2}}); err != nil {
		t.Errorf("shift along first chain: %v", err)
	}
	free(t, d, 3)
	if err := d.ApplyShifts([]Shift{{Source: 0, Destination: 3}}); !errors.Is(err, ErrInvalidShift) {
		// Tweezer 0 is empty after the first shift.
		t.Errorf("shift from empty source: err == %v, want ErrInvalidShift", err)
	}
}

func TestApplyShifts(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShifts(0, [][]int{{1, 2, 3}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	free(t, d, 1, 2)
	if err := d.ApplyShifts([]Shift{{Source: 0, Destination: 2}}); err != nil {
		t.Fatalf("ApplyShifts: %v", err)
	}
	m := d.QubitTweezerMapping()
	if m[0] != 2 {
		t.Errorf("mapping[0] == %d, want 2", m[0])
	}
	if q, ok := m.QubitAt(0); ok {
		t.Errorf("tweezer 0 still holds qubit %d", q)
	}
}

func TestApplyShiftsBlockedPath(t *testing.T) {
	d := newRowDevice(t)
	// Destination 3 is free, but 2 sits before it on the only chain.
	if err := d.SetAllowedShifts(0, [][]int{{2, 3}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	free(t, d, 3)
	err := d.ApplyShifts([]Shift{{Source: 0, Destination: 3}})
	if !errors.Is(err, ErrInvalidShift) {
		t.Errorf("blocked path: err == %v, want ErrInvalidShift", err)
	}
	if m := d.QubitTweezerMapping(); m[0] != 0 {
		t.Errorf("mapping[0] == %d after rejected shift, want 0", m[0])
	}
}

func TestApplyShiftsChainOrder(t *testing.T) {
	d := newRowDevice(t)
	// 5 may move towards 3, passing 4 first.
	if err := d.SetAllowedShifts(5, [][]int{{4, 3}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	free(t, d, 3)
	// 3 is free but 4 blocks the chain, and 4 itself is occupied.
	for _, dst := range []int{3, 4} {
		if err := d.ApplyShifts([]Shift{{Source: 5, Destination: dst}}); !errors.Is(err, ErrInvalidShift) {
			t.Errorf("shift 5->%d: err == %v, want ErrInvalidShift", dst, err)
		}
	}
	free(t, d, 4)
	if err := d.ApplyShifts([]Shift{{Source: 5, Destination: 4}}); err != nil {
		t.Errorf("shift 5->4 after freeing 4: %v", err)
	}
}

func TestApplyShiftsErrors(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShifts(0, [][]int{{1, 2}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	tcs := []struct {
		name  string
		shift Shift
		want  error
	}{{
		name:  "no chains for source",
		shift: Shift{Source: 4, Destination: 5},
		want:  ErrInvalidShift,
	}, {
		name:  "destination on no chain",
		shift: Shift{Source: 0, Destination: 5},
		want:  ErrInvalidShift,
	}, {
		name:  "destination occupied",
		shift: Shift{Source: 0, Destination: 1},
		want:  ErrInvalidShift,
	}}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if err := d.ApplyShifts([]Shift{tc.shift}); !errors.Is(err, tc.want) {
				t.Errorf("err == %v, want %v", err, tc.want)
			}
		})
	}
}

func TestApplyShiftsNoMapping(t *testing.T) {
	d := newRowDevice(t)
	// Touching the calibration drops the mapping.
	if err := d.SetSingleQubitGateTime("RotateZ", 0, 1e-6, ""); err != nil {
		t.Fatalf("SetSingleQubitGateTime: %v", err)
	}
	if err := d.ApplyShifts([]Shift{{Source: 0, Destination: 1}}); !errors.Is(err, ErrNoQubitsToShift) {
		t.Errorf("err == %v, want ErrNoQubitsToShift", err)
	}
}

func TestApplyShiftsBatchAtomic(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShifts(0, [][]int{{1}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	if err := d.SetAllowedShifts(2, [][]int{{3}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	free(t, d, 1)
	before := d.QubitTweezerMapping()
	// First shift is valid on its own; the second targets an occupied
	// tweezer, so the whole batch must be rejected.
	err := d.ApplyShifts([]Shift{
		{Source: 0, Destination: 1},
		{Source: 2, Destination: 3},
	})
	if !errors.Is(err, ErrInvalidShift) {
		t.Fatalf("err == %v, want ErrInvalidShift", err)
	}
	after := d.QubitTweezerMapping()
	if len(after) != len(before) {
		t.Fatalf("mapping size changed: %v -> %v", before, after)
	}
	for q, tw := range before {
		if after[q] != tw {
			t.Errorf("mapping[%d] == %d after rejected batch, want %d", q, after[q], tw)
		}
	}
}

func TestApplyShiftsDependentBatch(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShifts(0, [][]int{{1}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	if err := d.SetAllowedShifts(1, [][]int{{2}}, ""); err != nil {
		t.Fatalf("SetAllowedShifts: %v", err)
	}
	free(t, d, 2)
	// The second move only becomes possible after the first vacates tweezer 1.
	err := d.ApplyShifts([]Shift{
		{Source: 1, Destination: 2},
		{Source: 0, Destination: 1},
	})
	if err != nil {
		t.Fatalf("ApplyShifts: %v", err)
	}
	m := d.QubitTweezerMapping()
	if m[1] != 2 || m[0] != 1 {
		t.Errorf("mapping == %v, want qubit 1 on tweezer 2 and qubit 0 on tweezer 1", m)
	}
}

func TestSetAllowedShiftsFromRows(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShiftsFromRows([][]int{{0, 1, 2}}, ""); err != nil {
		t.Fatalf("SetAllowedShiftsFromRows: %v", err)
	}
	// Middle of the row can go both ways, nearest tweezer first.
	free(t, d, 0)
	if err := d.ApplyShifts([]Shift{{Source: 1, Destination: 0}}); err != nil {
		t.Errorf("leftward shift: %v", err)
	}
	// Tweezer 2 was never freed, so its qubit walks the leftward chain.
	if err := d.ApplyShifts([]Shift{{Source: 2, Destination: 1}}); err != nil {
		t.Errorf("leftward shift from row end: %v", err)
	}
	if m := d.QubitTweezerMapping(); m[2] != 1 {
		t.Errorf("mapping[2] == %d, want 1", m[2])
	}
}

func TestSetAllowedShiftsFromRowsErrors(t *testing.T) {
	d := newRowDevice(t)
	if err := d.SetAllowedShiftsFromRows([][]int{{0, 1, 0}}, ""); !errors.Is(err, ErrDuplicateTweezerInRow) {
		t.Errorf("duplicate in row: err == %v, want ErrDuplicateTweezerInRow", err)
	}
	if err := d.SetAllowedShiftsFromRows([][]int{{0, 9}}, ""); !errors.Is(err, ErrUnknownTweezer) {
		t.Errorf("absent tweezer: err == %v, want ErrUnknownTweezer", err)
	}
}

func TestSetAllowedShiftsFromRowsDedup(t *testing.T) {
	d := newRowDevice(t)
	for i := 0; i < 2; i++ {
		if err := d.SetAllowedShiftsFromRows([][]int{{0, 1, 2}}, ""); err != nil {
			t.Fatalf("SetAllowedShiftsFromRows: %v", err)
		}
	}
	info, err := d.currentLayoutInfo()
	if err != nil {
		t.Fatalf("currentLayoutInfo: %v", err)
	}
	if got := len(info.AllowedShifts[1]); got != 2 {
		t.Errorf("tweezer 1 has %d chains after repeat derivation, want 2", got)
	}
}
