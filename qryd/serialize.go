package qryd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// The wire form flattens every non-string-keyed table into an ordered
// key-value sequence, so the same shape survives JSON and cbor. Sequences
// are sorted on encode to keep output deterministic.

type tweezerTimeWire struct {
	Tweezer int     `json:"tweezer" cbor:"tweezer"`
	Time    float64 `json:"time" cbor:"time"`
}

type tweezerPairTimeWire struct {
	Tweezers [2]int  `json:"tweezers" cbor:"tweezers"`
	Time     float64 `json:"time" cbor:"time"`
}

type tweezerTripleTimeWire struct {
	Tweezers [3]int  `json:"tweezers" cbor:"tweezers"`
	Time     float64 `json:"time" cbor:"time"`
}

type tweezerListTimeWire struct {
	Tweezers []int   `json:"tweezers" cbor:"tweezers"`
	Time     float64 `json:"time" cbor:"time"`
}

type singleGateTimesWire struct {
	Gate  string            `json:"gate" cbor:"gate"`
	Times []tweezerTimeWire `json:"times" cbor:"times"`
}

type twoGateTimesWire struct {
	Gate  string                `json:"gate" cbor:"gate"`
	Times []tweezerPairTimeWire `json:"times" cbor:"times"`
}

type threeGateTimesWire struct {
	Gate  string                  `json:"gate" cbor:"gate"`
	Times []tweezerTripleTimeWire `json:"times" cbor:"times"`
}

type multiGateTimesWire struct {
	Gate  string                `json:"gate" cbor:"gate"`
	Times []tweezerListTimeWire `json:"times" cbor:"times"`
}

type allowedShiftsWire struct {
	Tweezer int     `json:"tweezer" cbor:"tweezer"`
	Chains  [][]int `json:"chains" cbor:"chains"`
}

type layoutInfoWire struct {
	SingleQubitGateTimes []singleGateTimesWire `json:"single_qubit_gate_times" cbor:"single_qubit_gate_times"`
	TwoQubitGateTimes    []twoGateTimesWire    `json:"two_qubit_gate_times" cbor:"two_qubit_gate_times"`
	ThreeQubitGateTimes  []threeGateTimesWire  `json:"three_qubit_gate_times" cbor:"three_qubit_gate_times"`
	MultiQubitGateTimes  []multiGateTimesWire  `json:"multi_qubit_gate_times" cbor:"multi_qubit_gate_times"`
	AllowedShifts        []allowedShiftsWire   `json:"allowed_shifts" cbor:"allowed_shifts"`
	TweezersPerRow       []int                 `json:"tweezers_per_row,omitempty" cbor:"tweezers_per_row,omitempty"`
}

type layoutEntryWire struct {
	Name   string         `json:"name" cbor:"name"`
	Layout layoutInfoWire `json:"layout" cbor:"layout"`
}

type qubitTweezerWire struct {
	Qubit   int `json:"qubit" cbor:"qubit"`
	Tweezer int `json:"tweezer" cbor:"tweezer"`
}

type deviceWire struct {
	LayoutRegister []layoutEntryWire `json:"layout_register" cbor:"layout_register"`
	CurrentLayout  string            `json:"current_layout,omitempty" cbor:"current_layout,omitempty"`
	// QubitToTweezer is null when the mapping is not established and an
	// (possibly empty) sequence when it is.
	QubitToTweezer             []qubitTweezerWire `json:"qubit_to_tweezer" cbor:"qubit_to_tweezer"`
	DefaultLayout              string             `json:"default_layout,omitempty" cbor:"default_layout,omitempty"`
	ControlledZPhaseRelation   string             `json:"controlled_z_phase_relation" cbor:"controlled_z_phase_relation"`
	ControlledPhasePhaseRelation string           `json:"controlled_phase_phase_relation" cbor:"controlled_phase_phase_relation"`
	DeviceName                 string             `json:"device_name" cbor:"device_name"`
	Seed                       *int64             `json:"seed,omitempty" cbor:"seed,omitempty"`
	AllowReset                 bool               `json:"allow_reset" cbor:"allow_reset"`
}

func (l *LayoutInfo) toWire() layoutInfoWire {
	var w layoutInfoWire
	for _, gate := range sortedKeys(l.SingleQubitGateTimes) {
		entry := singleGateTimesWire{Gate: gate}
		for t, v := range l.SingleQubitGateTimes[gate] {
			entry.Times = append(entry.Times, tweezerTimeWire{Tweezer: t, Time: v})
		}
		sort.Slice(entry.Times, func(i, j int) bool { return entry.Times[i].Tweezer < entry.Times[j].Tweezer })
		w.SingleQubitGateTimes = append(w.SingleQubitGateTimes, entry)
	}
	for _, gate := range sortedKeys(l.TwoQubitGateTimes) {
		entry := twoGateTimesWire{Gate: gate}
		for k, v := range l.TwoQubitGateTimes[gate] {
			entry.Times = append(entry.Times, tweezerPairTimeWire{Tweezers: k, Time: v})
		}
		sort.Slice(entry.Times, func(i, j int) bool {
			a, b := entry.Times[i].Tweezers, entry.Times[j].Tweezers
			if a[0] != b[0] {
				return a[0] < b[0]
			}
			return a[1] < b[1]
		})
		w.TwoQubitGateTimes = append(w.TwoQubitGateTimes, entry)
	}
	for _, gate := range sortedKeys(l.ThreeQubitGateTimes) {
		entry := threeGateTimesWire{Gate: gate}
		for k, v := range l.ThreeQubitGateTimes[gate] {
			entry.Times = append(entry.Times, tweezerTripleTimeWire{Tweezers: k, Time: v})
		}
		sort.Slice(entry.Times, func(i, j int) bool {
			a, b := entry.Times[i].Tweezers, entry.Times[j].Tweezers
			for n := 0; n < 3; n++ {
				if a[n] != b[n] {
					return a[n] < b[n]
				}
			}
			return false
		})
		w.ThreeQubitGateTimes = append(w.ThreeQubitGateTimes, entry)
	}
	for _, gate := range sortedKeys(l.MultiQubitGateTimes) {
		entry := multiGateTimesWire{Gate: gate}
		for _, e := range l.MultiQubitGateTimes[gate] {
			entry.Times = append(entry.Times, tweezerListTimeWire{Tweezers: append([]int(nil), e.Tweezers...), Time: e.Time})
		}
		w.MultiQubitGateTimes = append(w.MultiQubitGateTimes, entry)
	}
	for _, t := range sortedKeys(l.AllowedShifts) {
		chains := make([][]int, len(l.AllowedShifts[t]))
		for i, c := range l.AllowedShifts[t] {
			chains[i] = append([]int(nil), c...)
		}
		w.AllowedShifts = append(w.AllowedShifts, allowedShiftsWire{Tweezer: t, Chains: chains})
	}
	w.TweezersPerRow = append([]int(nil), l.TweezersPerRow...)
	return w
}

func layoutFromWire(w layoutInfoWire) *LayoutInfo {
	l := newLayoutInfo()
	for _, entry := range w.SingleQubitGateTimes {
		m := map[int]float64{}
		for _, t := range entry.Times {
			m[t.Tweezer] = t.Time
		}
		l.SingleQubitGateTimes[entry.Gate] = m
	}
	for _, entry := range w.TwoQubitGateTimes {
		m := map[[2]int]float64{}
		for _, t := range entry.Times {
			m[t.Tweezers] = t.Time
		}
		l.TwoQubitGateTimes[entry.Gate] = m
	}
	for _, entry := range w.ThreeQubitGateTimes {
		m := map[[3]int]float64{}
		for _, t := range entry.Times {
			m[t.Tweezers] = t.Time
		}
		l.ThreeQubitGateTimes[entry.Gate] = m
	}
	for _, entry := range w.MultiQubitGateTimes {
		entries := make([]MultiTweezerTime, len(entry.Times))
		for i, t := range entry.Times {
			entries[i] = MultiTweezerTime{Tweezers: t.Tweezers, Time: t.Time}
		}
		l.MultiQubitGateTimes[entry.Gate] = entries
	}
	for _, entry := range w.AllowedShifts {
		l.AllowedShifts[entry.Tweezer] = entry.Chains
	}
	l.TweezersPerRow = w.TweezersPerRow
	return l
}

func (d *Device) toWire() deviceWire {
	w := deviceWire{
		CurrentLayout:                d.current,
		DefaultLayout:                d.defaultLayout,
		ControlledZPhaseRelation:     d.czPhaseRelation,
		ControlledPhasePhaseRelation: d.cpPhaseRelation,
		DeviceName:                   d.name,
		Seed:                         d.seed,
		AllowReset:                   d.allowReset,
	}
	for _, name := range d.AvailableLayouts() {
		w.LayoutRegister = append(w.LayoutRegister, layoutEntryWire{Name: name, Layout: d.layouts[name].toWire()})
	}
	if d.mapping != nil {
		w.QubitToTweezer = []qubitTweezerWire{}
		for _, q := range sortedKeys(d.mapping) {
			w.QubitToTweezer = append(w.QubitToTweezer, qubitTweezerWire{Qubit: q, Tweezer: d.mapping[q]})
		}
	}
	return w
}

func (d *Device) fromWire(w deviceWire) {
	d.layouts = map[string]*LayoutInfo{}
	for _, entry := range w.LayoutRegister {
		d.layouts[entry.Name] = layoutFromWire(entry.Layout)
	}
	d.current = w.CurrentLayout
	d.defaultLayout = w.DefaultLayout
	d.czPhaseRelation = w.ControlledZPhaseRelation
	d.cpPhaseRelation = w.ControlledPhasePhaseRelation
	d.name = w.DeviceName
	d.seed = w.Seed
	d.allowReset = w.AllowReset
	d.mapping = nil
	if w.QubitToTweezer != nil {
		d.mapping = Mapping{}
		for _, p := range w.QubitToTweezer {
			d.mapping[p.Qubit] = p.Tweezer
		}
	}
}

// validateWire applies the gate-name allow-list to every table of every
// layout in the wire form.
func validateWire(w deviceWire) error {
	for _, entry := range w.LayoutRegister {
		for _, g := range entry.Layout.SingleQubitGateTimes {
			if !validGateName(g.Gate, aritySingle) {
				return fmt.Errorf("%w: %q in layout %q", ErrUnsupportedGate, g.Gate, entry.Name)
			}
		}
		for _, g := range entry.Layout.TwoQubitGateTimes {
			if !validGateName(g.Gate, arityTwo) {
				return fmt.Errorf("%w: %q in layout %q", ErrUnsupportedGate, g.Gate, entry.Name)
			}
		}
		for _, g := range entry.Layout.ThreeQubitGateTimes {
			if !validGateName(g.Gate, arityThree) {
				return fmt.Errorf("%w: %q in layout %q", ErrUnsupportedGate, g.Gate, entry.Name)
			}
		}
		for _, g := range entry.Layout.MultiQubitGateTimes {
			if !validGateName(g.Gate, arityMulti) {
				return fmt.Errorf("%w: %q in layout %q", ErrUnsupportedGate, g.Gate, entry.Name)
			}
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler with deterministic field ordering.
func (d *Device) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toWire())
}

// UnmarshalJSON implements json.Unmarshaler. Gate names are validated
// against the native allow-lists, and if the decoded device carries a
// default layout it is switched to as part of loading.
func (d *Device) UnmarshalJSON(data []byte) error {
	var w deviceWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := validateWire(w); err != nil {
		return err
	}
	d.fromWire(w)
	if d.defaultLayout != "" {
		return d.SwitchLayout(d.defaultLayout)
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler via the compact cbor
// form.
func (d *Device) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(d.toWire())
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Device) UnmarshalBinary(data []byte) error {
	var w deviceWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	d.fromWire(w)
	return nil
}

func sortedKeys[K interface{ ~int | ~string }, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
