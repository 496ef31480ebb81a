// Package sim executes quantum programs locally against a tweezer device
// model. It validates every gate against the device's calibration tables and
// applies device-change operations mid-run; it performs no state-vector
// numerics.
package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/tweezerlab/qryd/go/qryd"
)

// A Report summarizes one program execution: how many operations ran and the
// total duration the calibrated gate times add up to.
type Report struct {
	GateOps   int
	ChangeOps int
	TotalTime float64
}

// A Backend runs programs against one device. The device is mutated by
// embedded change operations, so callers hand in a clone when the original
// must stay untouched.
type Backend struct {
	device *qryd.Device
	rng    *rand.Rand
	log    *zap.Logger
}

// New returns a backend for the device. The device's seed, when present,
// makes sampling reproducible.
func New(device *qryd.Device, log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	seed := int64(1)
	if s := device.Seed(); s != nil {
		seed = *s
	}
	return &Backend{device: device, rng: rand.New(rand.NewSource(seed)), log: log}
}

// Device returns the device the backend executes against.
func (b *Backend) Device() *qryd.Device { return b.device }

// Run walks the program in order. Gate operations must be available on the
// device in its state at that point of the program; change operations are
// applied to the device before execution continues. The first failure aborts
// the run.
func (b *Backend) Run(program []qryd.Operation) (Report, error) {
	var report Report
	for i, op := range program {
		if op.IsChange() {
			if err := b.device.ChangeDevice(op.ChangeTag, op.ChangePayload); err != nil {
				return Report{}, fmt.Errorf("applying %s at position %d: %w", op.ChangeTag, i, err)
			}
			report.ChangeOps++
			b.log.Debug("device changed", zap.String("tag", op.ChangeTag), zap.Int("position", i))
			continue
		}
		t, ok := b.device.GateTime(op)
		if !ok {
			return Report{}, fmt.Errorf("operation %s%v at position %d is not available on device %s",
				op.Gate, op.Qubits, i, b.device.Name())
		}
		report.GateOps++
		report.TotalTime += t
	}
	b.log.Debug("program executed",
		zap.Int("gateOps", report.GateOps),
		zap.Int("changeOps", report.ChangeOps),
		zap.Float64("totalTime", report.TotalTime))
	return report, nil
}

// SampleCounts draws uniformly random measurement outcomes over the
// device's mapped qubits, in the hex-keyed count format returned by the web
// API. It stands in for real acquisition until simulation numerics exist.
func (b *Backend) SampleCounts(shots int) map[string]uint64 {
	n := b.device.NumberQubits()
	counts := make(map[string]uint64)
	for i := 0; i < shots; i++ {
		var outcome uint64
		if n > 0 {
			outcome = uint64(b.rng.Int63n(1 << uint(min(n, 62))))
		}
		counts[fmt.Sprintf("%#x", outcome)]++
	}
	return counts
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
