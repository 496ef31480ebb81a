// Package qryd models QRyd neutral-atom tweezer devices: named calibration
// layouts, a dynamic qubit-to-tweezer assignment, validated qubit shifts
// along tweezer chains, and the derived gate-time and connectivity queries
// consumed during circuit translation.
package qryd

import (
	"sort"
)

// DefaultPhaseRelation is the phase relation assumed for the native
// phase-shifted two-qubit gates when none is configured.
const DefaultPhaseRelation = "DefaultRelation"

// A Mapping is a qubit -> tweezer assignment. A nil Mapping means no
// assignment has been established yet; distinct qubits always occupy
// distinct tweezers.
type Mapping map[int]int

// Clone returns a deep copy of m. Cloning a nil Mapping yields nil.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	c := make(Mapping, len(m))
	for q, t := range m {
		c[q] = t
	}
	return c
}

// QubitAt returns the qubit occupying tweezer, if any.
func (m Mapping) QubitAt(tweezer int) (int, bool) {
	for q, t := range m {
		if t == tweezer {
			return q, true
		}
	}
	return 0, false
}

func (m Mapping) occupied(tweezer int) bool {
	_, ok := m.QubitAt(tweezer)
	return ok
}

// A Device is the full model of one QRyd tweezer device: a register of named
// calibration layouts, the active layout, and the device-wide qubit ->
// tweezer mapping. A Device is not safe for concurrent mutation; callers
// hand a clone to worker goroutines.
type Device struct {
	layouts       map[string]*LayoutInfo
	current       string // "" until a layout is activated
	mapping       Mapping
	defaultLayout string

	czPhaseRelation string
	cpPhaseRelation string

	name       string
	seed       *int64
	allowReset bool
}

// Options configures a new Device. The zero value is usable.
type Options struct {
	// ControlledZPhaseRelation names the phase relation for the
	// PhaseShiftedControlledZ gate. Either a known relation name or a float
	// literal for a hardcoded phase. Defaults to DefaultPhaseRelation.
	ControlledZPhaseRelation string

	// ControlledPhasePhaseRelation is the analogue for
	// PhaseShiftedControlledPhase. Defaults to DefaultPhaseRelation.
	ControlledPhasePhaseRelation string

	// Name is the backend routing key reported by Name(). Defaults to
	// "qryd_tweezer_device".
	Name string

	// Seed is an optional seed forwarded to consumers of the device.
	Seed *int64
}

// New returns an empty Device configured according to opts.
func New(opts Options) *Device {
	cz := opts.ControlledZPhaseRelation
	if cz == "" {
		cz = DefaultPhaseRelation
	}
	cp := opts.ControlledPhasePhaseRelation
	if cp == "" {
		cp = DefaultPhaseRelation
	}
	name := opts.Name
	if name == "" {
		name = "qryd_tweezer_device"
	}
	return &Device{
		layouts:         map[string]*LayoutInfo{},
		czPhaseRelation: cz,
		cpPhaseRelation: cp,
		name:            name,
		seed:            opts.Seed,
	}
}

// Name returns the backend routing key identifying this device instance.
func (d *Device) Name() string { return d.name }

// Seed returns the optional seed carried by the device. Consumers forward it
// into request payloads; the device itself does not interpret it.
func (d *Device) Seed() *int64 { return d.seed }

// AllowReset reports whether reset-type operations are permitted.
func (d *Device) AllowReset() bool { return d.allowReset }

// SetAllowReset gates whether reset-type operations are permitted.
func (d *Device) SetAllowReset(allow bool) { d.allowReset = allow }

// CurrentLayout returns the name of the active layout, or "" if no layout
// has been activated yet.
func (d *Device) CurrentLayout() string { return d.current }

// DefaultLayout returns the name of the layout auto-activated on load, or ""
// if none is set.
func (d *Device) DefaultLayout() string { return d.defaultLayout }

// AvailableLayouts returns the sorted names of all registered layouts.
func (d *Device) AvailableLayouts() []string {
	names := make([]string, 0, len(d.layouts))
	for name := range d.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QubitTweezerMapping returns a copy of the current qubit -> tweezer
// mapping, or nil if it has not been established.
func (d *Device) QubitTweezerMapping() Mapping { return d.mapping.Clone() }

// Clone returns a deep copy of the device.
func (d *Device) Clone() *Device {
	c := *d
	c.layouts = make(map[string]*LayoutInfo, len(d.layouts))
	for name, info := range d.layouts {
		c.layouts[name] = info.clone()
	}
	c.mapping = d.mapping.Clone()
	if d.seed != nil {
		s := *d.seed
		c.seed = &s
	}
	return &c
}
