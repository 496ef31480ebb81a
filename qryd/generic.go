package qryd

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A GenericDevice is the flattened, tweezer-agnostic export of a device's
// current calibration: gate times keyed directly by qubit index plus
// per-qubit decoherence rates, for tooling that only understands the
// abstract device interface.
type GenericDevice struct {
	NumberQubits     int
	SingleQubitGates map[string]map[int]float64
	TwoQubitGates    map[string]map[[2]int]float64
	DecoherenceRates map[int]*mat.Dense
}

// NewGenericDevice returns an empty generic device for the given qubit
// count.
func NewGenericDevice(numberQubits int) *GenericDevice {
	return &GenericDevice{
		NumberQubits:     numberQubits,
		SingleQubitGates: map[string]map[int]float64{},
		TwoQubitGates:    map[string]map[[2]int]float64{},
		DecoherenceRates: map[int]*mat.Dense{},
	}
}

// SetSingleQubitGateTime records a single-qubit gate time for a qubit.
func (g *GenericDevice) SetSingleQubitGateTime(gate string, qubit int, time float64) error {
	if qubit >= g.NumberQubits {
		return fmt.Errorf("qubit %d out of range for %d qubits", qubit, g.NumberQubits)
	}
	m, ok := g.SingleQubitGates[gate]
	if !ok {
		m = map[int]float64{}
		g.SingleQubitGates[gate] = m
	}
	m[qubit] = time
	return nil
}

// SetTwoQubitGateTime records a two-qubit gate time for an ordered qubit
// pair.
func (g *GenericDevice) SetTwoQubitGateTime(gate string, control, target int, time float64) error {
	if control >= g.NumberQubits || target >= g.NumberQubits {
		return fmt.Errorf("qubit pair (%d, %d) out of range for %d qubits", control, target, g.NumberQubits)
	}
	m, ok := g.TwoQubitGates[gate]
	if !ok {
		m = map[[2]int]float64{}
		g.TwoQubitGates[gate] = m
	}
	m[[2]int{control, target}] = time
	return nil
}

// SetQubitDecoherenceRates records the 3x3 decoherence-rate matrix of a
// qubit.
func (g *GenericDevice) SetQubitDecoherenceRates(qubit int, rates *mat.Dense) error {
	if qubit >= g.NumberQubits {
		return fmt.Errorf("qubit %d out of range for %d qubits", qubit, g.NumberQubits)
	}
	r, c := rates.Dims()
	if r != 3 || c != 3 {
		return fmt.Errorf("decoherence rates must be 3x3, got %dx%d", r, c)
	}
	g.DecoherenceRates[qubit] = rates
	return nil
}

// QubitDecoherenceRates returns the decoherence-rate matrix of a qubit. The
// tweezer model is noise free, so the rates are all zero.
func (d *Device) QubitDecoherenceRates(qubit int) *mat.Dense {
	return mat.NewDense(3, 3, nil)
}

// ToGenericDevice materializes the current layout's calibration into a
// generic device, keyed by qubit index, with zero decoherence rates for
// every qubit.
func (d *Device) ToGenericDevice() (*GenericDevice, error) {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return nil, err
	}
	n := d.NumberQubits()
	if max, ok := info.maxTweezer(); ok && max+1 > n {
		// A partial mapping must not truncate the exported tables.
		n = max + 1
	}
	generic := NewGenericDevice(n)
	for gate, m := range info.SingleQubitGateTimes {
		for tweezer, time := range m {
			if err := generic.SetSingleQubitGateTime(gate, tweezer, time); err != nil {
				return nil, err
			}
		}
	}
	for gate, m := range info.TwoQubitGateTimes {
		for pair, time := range m {
			if err := generic.SetTwoQubitGateTime(gate, pair[0], pair[1], time); err != nil {
				return nil, err
			}
		}
	}
	for qubit := 0; qubit < generic.NumberQubits; qubit++ {
		if err := generic.SetQubitDecoherenceRates(qubit, d.QubitDecoherenceRates(qubit)); err != nil {
			return nil, err
		}
	}
	return generic, nil
}
