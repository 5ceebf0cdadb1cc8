// Package simulated provides an in-process exposure framework, platform service and
// Bluetooth adapter whose behaviour is controlled by the caller.
package simulated

import (
	"context"
	"sync"

	"exposure/internal/framework"
	"exposure/pkg/platform/sentinel"
	"exposure/pkg/platform/signal"
)

// MatchFunc computes the matching result for a submitted set of files.
type MatchFunc func(files []string) (framework.ExposureSummary, []framework.ExposureInformation)

// Submission is one recorded SubmitBatch call.
type Submission struct {
	Token string
	Files []string
}

// Device implements framework.Client, framework.ServiceAvailability and
// framework.Bluetooth.
type Device struct {
	mu sync.Mutex

	enabled            bool
	serviceStatus      framework.ServiceStatus
	serviceVersion     int
	bluetoothSupported bool
	bluetoothEnabled   bool
	startErr           error
	stopErr            error
	finishSync         bool

	match       MatchFunc
	onSubmitted func(token string)
	results     map[string]result
	submissions []Submission
	removed     [][]string
	starts      int
	stops       int

	state     signal.Broadcaster
	bluetooth signal.Broadcaster
}

type result struct {
	summary framework.ExposureSummary
	infos   []framework.ExposureInformation
}

// New returns a healthy device: service available, Bluetooth on, framework off.
func New() *Device {
	return &Device{
		serviceStatus:      framework.ServiceSuccess,
		serviceVersion:     201813000,
		bluetoothSupported: true,
		bluetoothEnabled:   true,
		results:            make(map[string]result),
	}
}

func (d *Device) IsEnabled(context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled, nil
}

func (d *Device) Start(ctx context.Context) error {
	return d.setRegistered(ctx, true)
}

func (d *Device) Stop(ctx context.Context) error {
	return d.setRegistered(ctx, false)
}

func (d *Device) setRegistered(ctx context.Context, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	var err error
	if enabled {
		d.starts++
		err = d.startErr
	} else {
		d.stops++
		err = d.stopErr
	}
	changed := err == nil && d.enabled != enabled
	if err == nil {
		d.enabled = enabled
	}
	d.mu.Unlock()

	if changed {
		d.state.Notify()
	}
	return err
}

func (d *Device) SubmitBatch(ctx context.Context, files []string, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	d.submissions = append(d.submissions, Submission{Token: token, Files: append([]string(nil), files...)})
	var r result
	if d.match != nil {
		r.summary, r.infos = d.match(files)
	}
	d.results[token] = r
	finished := d.finishSync
	hook := d.onSubmitted
	d.mu.Unlock()

	if hook != nil {
		hook(token)
	}
	return finished, nil
}

func (d *Device) ExposureSummary(_ context.Context, token string) (framework.ExposureSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.results[token]
	if !ok {
		return framework.ExposureSummary{}, sentinel.ErrNotFound
	}
	return r.summary, nil
}

func (d *Device) ExposureInformation(_ context.Context, token string) ([]framework.ExposureInformation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.results[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]framework.ExposureInformation(nil), r.infos...), nil
}

func (d *Device) RemoveBatchParts(_ context.Context, files []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removed = append(d.removed, append([]string(nil), files...))
	return nil
}

func (d *Device) SystemSettingsURL() string {
	return "settings://exposure-notifications"
}

func (d *Device) WatchState() (<-chan struct{}, func()) {
	return d.state.Subscribe()
}

func (d *Device) ServiceStatus(context.Context) framework.ServiceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.serviceStatus
}

func (d *Device) ServiceVersion(context.Context) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.serviceVersion
}

func (d *Device) Supported() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bluetoothSupported
}

func (d *Device) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bluetoothEnabled
}

func (d *Device) Watch() (<-chan struct{}, func()) {
	return d.bluetooth.Subscribe()
}
