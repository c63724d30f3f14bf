// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "time"

// ReplicationObserver receives fan-out telemetry.
type ReplicationObserver interface {
	// ContributorWrite records one per-contributor write and whether it succeeded.
	ContributorWrite(success bool)

	// FanOut records the duration of a whole fan-out and how many copies it touched.
	FanOut(duration time.Duration, copies int)

	// RepairJob records the outcome of a repair job.
	RepairJob(success bool)
}

// NopReplicationObserver discards all telemetry.
type NopReplicationObserver struct{}

func (NopReplicationObserver) ContributorWrite(bool)    {}
func (NopReplicationObserver) FanOut(time.Duration, int) {}
func (NopReplicationObserver) RepairJob(bool)            {}
