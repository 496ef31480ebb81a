package qryd

import "errors"

// Errors returned by the device model. All failures are reported to the
// immediate caller; the model never retries or partially applies a mutation.
var (
	// ErrDuplicateLayout is returned when adding a layout under a name that
	// is already registered.
	ErrDuplicateLayout = errors.New("layout name already in use")

	// ErrUnknownLayout is returned when a named layout is not registered.
	ErrUnknownLayout = errors.New("layout not registered")

	// ErrNoCurrentLayout is returned when a layout-relative operation runs
	// before any layout has been activated.
	ErrNoCurrentLayout = errors.New("no current layout")

	// ErrUnsupportedGate is returned when a gate name is outside the native
	// allow-list for its arity.
	ErrUnsupportedGate = errors.New("gate not supported by the device")

	// ErrUnknownTweezer is returned when a tweezer index does not occur in
	// the relevant layout's calibration data.
	ErrUnknownTweezer = errors.New("tweezer not present in tweezer data")

	// ErrUnknownQubit is returned when a qubit has no mapping entry.
	ErrUnknownQubit = errors.New("qubit not present in the mapping")

	// ErrSelfReferentialShift is returned when a shift chain contains its
	// own source tweezer.
	ErrSelfReferentialShift = errors.New("shift chain contains its source tweezer")

	// ErrDuplicateTweezerInRow is returned when a row used to derive shifts
	// contains a repeated tweezer index.
	ErrDuplicateTweezerInRow = errors.New("row contains repeated tweezers")

	// ErrNoQubitsToShift is returned when a shift batch runs with no
	// established qubit -> tweezer mapping.
	ErrNoQubitsToShift = errors.New("mapping is empty: no qubits to shift")

	// ErrInvalidShift is returned when any shift in a batch fails
	// validation. The batch is rejected whole.
	ErrInvalidShift = errors.New("shift not valid on this device")

	// ErrIncompatibleRowLayout is returned when a dynamic layout switch
	// targets a layout with different row geometry.
	ErrIncompatibleRowLayout = errors.New("row geometry differs between layouts")

	// ErrUnsupportedChangeRequest is returned for unrecognized change
	// request tags.
	ErrUnsupportedChangeRequest = errors.New("change request not supported")
)
