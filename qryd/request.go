package qryd

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Change request tags recognized by ChangeDevice.
const (
	TagSwitchLayout    = "PragmaSwitchDeviceLayout"
	TagDeactivateQubit = "PragmaDeactivateQRydQubit"
	TagShiftQubits     = "PragmaShiftQubitsTweezers"
)

// A ChangeRequest mutates device state mid-run. The concrete types form a
// closed set; anything else fails with ErrUnsupportedChangeRequest.
type ChangeRequest interface {
	// Tag returns the wire tag identifying the request kind.
	Tag() string
}

// A SwitchLayoutRequest switches the active layout without touching the
// qubit -> tweezer mapping. It is accepted only between layouts of equal row
// geometry, which guarantees tweezer indices stay meaningful.
type SwitchLayoutRequest struct {
	Layout string `cbor:"new_layout"`
}

// Tag implements ChangeRequest.
func (SwitchLayoutRequest) Tag() string { return TagSwitchLayout }

// A DeactivateQubitRequest removes one qubit from the mapping.
type DeactivateQubitRequest struct {
	Qubit int `cbor:"qubit"`
}

// Tag implements ChangeRequest.
func (DeactivateQubitRequest) Tag() string { return TagDeactivateQubit }

// A ShiftQubitsRequest applies a batch of validated qubit shifts.
type ShiftQubitsRequest struct {
	Shifts []Shift `cbor:"shifts"`
}

// Tag implements ChangeRequest.
func (ShiftQubitsRequest) Tag() string { return TagShiftQubits }

// EncodeChangeRequest serializes a change request payload for transport
// inside a circuit.
func EncodeChangeRequest(req ChangeRequest) ([]byte, error) {
	return cbor.Marshal(req)
}

// DecodeChangeRequest decodes a (tag, payload) pair into a typed change
// request. Unknown tags and undecodable payloads are errors.
func DecodeChangeRequest(tag string, payload []byte) (ChangeRequest, error) {
	switch tag {
	case TagSwitchLayout:
		var req SwitchLayoutRequest
		if err := cbor.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("%w: bad %s payload: %v", ErrUnsupportedChangeRequest, tag, err)
		}
		return req, nil
	case TagDeactivateQubit:
		var req DeactivateQubitRequest
		if err := cbor.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("%w: bad %s payload: %v", ErrUnsupportedChangeRequest, tag, err)
		}
		return req, nil
	case TagShiftQubits:
		var req ShiftQubitsRequest
		if err := cbor.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("%w: bad %s payload: %v", ErrUnsupportedChangeRequest, tag, err)
		}
		return req, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedChangeRequest, tag)
}

// ChangeDevice decodes a tagged change request payload and applies it.
func (d *Device) ChangeDevice(tag string, payload []byte) error {
	req, err := DecodeChangeRequest(tag, payload)
	if err != nil {
		return err
	}
	return d.Apply(req)
}

// Apply executes a typed change request against the device.
func (d *Device) Apply(req ChangeRequest) error {
	switch r := req.(type) {
	case SwitchLayoutRequest:
		return d.switchLayoutCompatible(r.Layout)
	case DeactivateQubitRequest:
		_, err := d.DeactivateQubit(r.Qubit)
		return err
	case ShiftQubitsRequest:
		return d.ApplyShifts(r.Shifts)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedChangeRequest, req.Tag())
}

// switchLayoutCompatible performs the dynamic mid-run layout switch: both
// the current and target layouts must declare equal row geometry, and the
// qubit -> tweezer mapping is left as-is.
func (d *Device) switchLayoutCompatible(name string) error {
	target, ok := d.layouts[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	current, err := d.currentLayoutInfo()
	if err != nil {
		return err
	}
	if len(current.TweezersPerRow) == 0 || len(target.TweezersPerRow) == 0 {
		return fmt.Errorf("%w: row geometry not declared", ErrIncompatibleRowLayout)
	}
	if !equalInts(current.TweezersPerRow, target.TweezersPerRow) {
		return fmt.Errorf("%w: %v != %v", ErrIncompatibleRowLayout, current.TweezersPerRow, target.TweezersPerRow)
	}
	return d.switchLayout(name, false)
}
