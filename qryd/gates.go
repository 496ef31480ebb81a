package qryd

// Native gate names recognized by QRyd hardware, partitioned by arity. These
// encode a hardware capability contract, not configuration: calibration
// entries for names outside these sets are rejected.
var (
	singleQubitGates = map[string]bool{
		"SingleQubitGate":            true,
		"RotateZ":                    true,
		"RotateX":                    true,
		"RotateY":                    true,
		"PauliX":                     true,
		"PauliY":                     true,
		"PauliZ":                     true,
		"SqrtPauliX":                 true,
		"InvSqrtPauliX":              true,
		"Hadamard":                   true,
		"SGate":                      true,
		"TGate":                      true,
		"PhaseShiftState0":           true,
		"PhaseShiftState1":           true,
		"RotateAroundSphericalAxis":  true,
		"RotateXY":                   true,
		"GPi":                        true,
		"GPi2":                       true,
		"Identity":                   true,
		"SqrtPauliY":                 true,
		"InvSqrtPauliY":              true,
	}

	twoQubitGates = map[string]bool{
		"CNOT":                       true,
		"SWAP":                       true,
		"ISwap":                      true,
		"FSwap":                      true,
		"SqrtISwap":                  true,
		"InvSqrtISwap":               true,
		"XY":                         true,
		"ControlledPhaseShift":       true,
		"ControlledPauliY":           true,
		"ControlledPauliZ":           true,
		"MolmerSorensenXX":           true,
		"VariableMSXX":               true,
		"GivensRotation":             true,
		"GivensRotationLittleEndian": true,
		"Qsim":                       true,
		"Fsim":                       true,
		"SpinInteraction":            true,
		"Bogoliubov":                 true,
		"PMInteraction":              true,
		"ComplexPMInteraction":       true,
		"PhaseShiftedControlledZ":    true,
		"PhaseShiftedControlledPhase": true,
		"ControlledRotateX":          true,
		"ControlledRotateXY":         true,
		"EchoCrossResonance":         true,
	}

	threeQubitGates = map[string]bool{
		"Toffoli":                        true,
		"ControlledControlledPauliZ":     true,
		"ControlledControlledPhaseShift": true,
	}

	multiQubitGates = map[string]bool{
		"MultiQubitMS": true,
		"MultiQubitZZ": true,
	}
)

// gateArity is the number of qubits a gate-time table entry addresses.
type gateArity int

const (
	aritySingle gateArity = iota
	arityTwo
	arityThree
	arityMulti
)

func validGateName(name string, arity gateArity) bool {
	switch arity {
	case aritySingle:
		return singleQubitGates[name]
	case arityTwo:
		return twoQubitGates[name]
	case arityThree:
		return threeQubitGates[name]
	case arityMulti:
		return multiQubitGates[name]
	}
	return false
}
