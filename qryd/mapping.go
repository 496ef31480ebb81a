package qryd

import "fmt"

// SwitchLayout activates the named layout. If no qubit -> tweezer mapping is
// established, a trivial identity mapping covering tweezers 0..max of the
// new layout is derived.
func (d *Device) SwitchLayout(name string) error {
	return d.switchLayout(name, true)
}

func (d *Device) switchLayout(name string, populate bool) error {
	info, ok := d.layouts[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	d.current = name
	if populate && d.mapping == nil {
		d.mapping = trivialMapping(info)
	}
	return nil
}

// trivialMapping assigns qubit i to tweezer i for every index up to the
// layout's highest referenced tweezer. An empty layout yields an established
// but empty mapping.
func trivialMapping(info *LayoutInfo) Mapping {
	m := Mapping{}
	if max, ok := info.maxTweezer(); ok {
		for i := 0; i <= max; i++ {
			m[i] = i
		}
	}
	return m
}

// AddQubitTweezerMapping assigns a qubit to a tweezer of the current layout.
// A tweezer holds at most one qubit: any qubit already occupying it is
// removed first. The updated mapping is returned.
func (d *Device) AddQubitTweezerMapping(qubit, tweezer int) (Mapping, error) {
	info, err := d.currentLayoutInfo()
	if err != nil {
		return nil, err
	}
	if !info.hasTweezer(tweezer) {
		return nil, fmt.Errorf("%w: tweezer %d", ErrUnknownTweezer, tweezer)
	}
	if d.mapping == nil {
		d.mapping = Mapping{}
	}
	if prev, ok := d.mapping.QubitAt(tweezer); ok {
		delete(d.mapping, prev)
	}
	d.mapping[qubit] = tweezer
	return d.mapping.Clone(), nil
}

// DeactivateQubit removes a qubit from the mapping, freeing its tweezer for
// remapping. The updated mapping is returned.
func (d *Device) DeactivateQubit(qubit int) (Mapping, error) {
	if _, ok := d.mapping[qubit]; !ok {
		return nil, fmt.Errorf("%w: qubit %d", ErrUnknownQubit, qubit)
	}
	delete(d.mapping, qubit)
	return d.mapping.Clone(), nil
}

// TweezerFromQubit resolves a qubit through the mapping to its tweezer.
func (d *Device) TweezerFromQubit(qubit int) (int, error) {
	if d.mapping == nil {
		return 0, fmt.Errorf("%w: mapping not established", ErrUnknownQubit)
	}
	t, ok := d.mapping[qubit]
	if !ok {
		return 0, fmt.Errorf("%w: qubit %d", ErrUnknownQubit, qubit)
	}
	return t, nil
}

// SetDefaultLayout records the layout auto-activated when a serialized
// device is loaded, and switches to it immediately.
func (d *Device) SetDefaultLayout(name string) error {
	if _, ok := d.layouts[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	d.defaultLayout = name
	return d.SwitchLayout(name)
}

// NumberQubits returns the number of mapped qubits, or, with no mapping
// established, the number of tweezers the trivial mapping would cover.
func (d *Device) NumberQubits() int {
	if d.mapping != nil {
		return len(d.mapping)
	}
	info, err := d.currentLayoutInfo()
	if err != nil {
		return 0
	}
	if max, ok := info.maxTweezer(); ok {
		return max + 1
	}
	return 0
}
