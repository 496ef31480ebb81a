package qryd

// An Operation is one step of a quantum program as seen by the device model:
// either a gate application on logical qubits or an embedded device-change
// request. Backends only need this much structure to validate availability
// and to apply mid-run changes.
type Operation struct {
	Gate   string `json:"gate,omitempty" cbor:"gate,omitempty"`
	Qubits []int  `json:"qubits,omitempty" cbor:"qubits,omitempty"`

	// ChangeTag and ChangePayload carry a device-change request. When
	// ChangeTag is set, Gate and Qubits are ignored.
	ChangeTag     string `json:"change_tag,omitempty" cbor:"change_tag,omitempty"`
	ChangePayload []byte `json:"change_payload,omitempty" cbor:"change_payload,omitempty"`
}

// IsChange reports whether the operation is a device-change request.
func (op Operation) IsChange() bool { return op.ChangeTag != "" }

// ChangeOperation wraps a change request into an Operation for embedding in
// a program.
func ChangeOperation(req ChangeRequest) (Operation, error) {
	payload, err := EncodeChangeRequest(req)
	if err != nil {
		return Operation{}, err
	}
	return Operation{ChangeTag: req.Tag(), ChangePayload: payload}, nil
}

// GateTime resolves the gate time of a gate operation against the current
// layout and mapping, dispatching on the qubit count.
func (d *Device) GateTime(op Operation) (float64, bool) {
	switch len(op.Qubits) {
	case 0:
		return 0, false
	case 1:
		return d.SingleQubitGateTime(op.Gate, op.Qubits[0])
	case 2:
		return d.TwoQubitGateTime(op.Gate, op.Qubits[0], op.Qubits[1])
	case 3:
		return d.ThreeQubitGateTime(op.Gate, op.Qubits[0], op.Qubits[1], op.Qubits[2])
	default:
		return d.MultiQubitGateTime(op.Gate, op.Qubits)
	}
}
