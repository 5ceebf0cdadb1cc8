package simulated

import "exposure/internal/framework"

// SetFrameworkEnabled flips the registration state from outside, as the system
// settings would.
func (d *Device) SetFrameworkEnabled(enabled bool) {
	d.mu.Lock()
	changed := d.enabled != enabled
	d.enabled = enabled
	d.mu.Unlock()
	if changed {
		d.state.Notify()
	}
}

func (d *Device) SetBluetoothEnabled(enabled bool) {
	d.mu.Lock()
	changed := d.bluetoothEnabled != enabled
	d.bluetoothEnabled = enabled
	d.mu.Unlock()
	if changed {
		d.bluetooth.Notify()
	}
}

func (d *Device) SetBluetoothSupported(supported bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bluetoothSupported = supported
}

func (d *Device) SetServiceStatus(status framework.ServiceStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serviceStatus = status
}

func (d *Device) SetServiceVersion(version int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serviceVersion = version
}

// FailStart makes subsequent Start calls return err; nil restores success.
func (d *Device) FailStart(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.startErr = err
}

// FailStop makes subsequent Stop calls return err; nil restores success.
func (d *Device) FailStop(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopErr = err
}

// FinishSynchronously controls the finished flag SubmitBatch returns.
func (d *Device) FinishSynchronously(finished bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finishSync = finished
}

// SetMatcher installs the function that produces results for submitted files.
func (d *Device) SetMatcher(match MatchFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.match = match
}

// OnSubmitted registers a hook called after every submission, standing in for
// the platform's completion broadcast.
func (d *Device) OnSubmitted(hook func(token string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onSubmitted = hook
}

func (d *Device) Submissions() []Submission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Submission(nil), d.submissions...)
}

func (d *Device) Removed() [][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]string(nil), d.removed...)
}

// Calls returns how many times Start and Stop were invoked.
func (d *Device) Calls() (starts, stops int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.stops
}

// BluetoothWatchers returns the number of live Bluetooth subscriptions.
func (d *Device) BluetoothWatchers() int {
	return d.bluetooth.Len()
}

// StateWatchers returns the number of live registration state subscriptions.
func (d *Device) StateWatchers() int {
	return d.state.Len()
}
