package qryd

import (
	"math"
	"strconv"
)

// controlledGateTime is the fixed execution time reported for the native
// phase-shifted controlled gates once their phase is validated.
const controlledGateTime = 1e-6

// phaseTolerance is the absolute tolerance used when comparing a requested
// phase against the device's resolved phase relation.
const phaseTolerance = 1e-4

// defaultRelationCZPhase is the measured phase shift of the native
// controlled-Z implementation, reached by DefaultRelation at theta = pi.
const defaultRelationCZPhase = 2.13146

// PhiThetaRelation resolves a named phase relation at the given theta.
// Unknown relation names yield no phase.
func PhiThetaRelation(relation string, theta float64) (float64, bool) {
	switch relation {
	case DefaultPhaseRelation:
		return defaultRelationCZPhase / math.Pi * theta, true
	}
	return 0, false
}

// resolveRelation parses the relation as a hardcoded float literal, falling
// back to the named-relation evaluation.
func resolveRelation(relation string, theta float64) (float64, bool) {
	if v, err := strconv.ParseFloat(relation, 64); err == nil {
		return v, true
	}
	return PhiThetaRelation(relation, theta)
}

// PhaseShiftControlledZ returns the phase shift of the native
// PhaseShiftedControlledZ gate according to the device's relation.
func (d *Device) PhaseShiftControlledZ() (float64, bool) {
	return resolveRelation(d.czPhaseRelation, math.Pi)
}

// PhaseShiftControlledPhase returns the phase shift of the native
// PhaseShiftedControlledPhase gate at theta according to the device's
// relation.
func (d *Device) PhaseShiftControlledPhase(theta float64) (float64, bool) {
	return resolveRelation(d.cpPhaseRelation, theta)
}

// GateTimeControlledZ returns the gate time of a PhaseShiftedControlledZ
// with the given phi, available only if the two-qubit gate-time lookup
// succeeds and |phi| matches the device's resolved relation within
// tolerance.
func (d *Device) GateTimeControlledZ(control, target int, phi float64) (float64, bool) {
	if _, ok := d.TwoQubitGateTime("PhaseShiftedControlledZ", control, target); !ok {
		return 0, false
	}
	relationPhi, ok := d.PhaseShiftControlledZ()
	if !ok || math.Abs(math.Abs(relationPhi)-math.Abs(phi)) >= phaseTolerance {
		return 0, false
	}
	return controlledGateTime, true
}

// GateTimeControlledPhase is the PhaseShiftedControlledPhase analogue of
// GateTimeControlledZ, with the relation evaluated at theta.
func (d *Device) GateTimeControlledPhase(control, target int, phi, theta float64) (float64, bool) {
	if _, ok := d.TwoQubitGateTime("PhaseShiftedControlledPhase", control, target); !ok {
		return 0, false
	}
	relationPhi, ok := d.PhaseShiftControlledPhase(theta)
	if !ok || math.Abs(math.Abs(relationPhi)-math.Abs(phi)) >= phaseTolerance {
		return 0, false
	}
	return controlledGateTime, true
}
