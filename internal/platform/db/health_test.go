package db

import (
	"testing"
	"time"
)

type fakePoolStat struct {
	total, idle, acquired, max int32
	acquires                   int64
	acquireDur                 time.Duration
}

func (s fakePoolStat) TotalConns() int32              { return s.total }
func (s fakePoolStat) IdleConns() int32               { return s.idle }
func (s fakePoolStat) AcquiredConns() int32           { return s.acquired }
func (s fakePoolStat) MaxConns() int32                { return s.max }
func (s fakePoolStat) AcquireCount() int64            { return s.acquires }
func (s fakePoolStat) AcquireDuration() time.Duration { return s.acquireDur }

func TestSnapshotPool(t *testing.T) {
	snap := snapshotPool(fakePoolStat{
		total:      8,
		idle:       5,
		acquired:   3,
		max:        20,
		acquires:   142,
		acquireDur: 250 * time.Millisecond,
	})

	if snap.TotalConns != 8 || snap.IdleConns != 5 || snap.AcquiredConns != 3 {
		t.Errorf("connection counts = %d/%d/%d, want 8/5/3",
			snap.TotalConns, snap.IdleConns, snap.AcquiredConns)
	}
	if snap.MaxConns != 20 {
		t.Errorf("MaxConns = %d, want 20", snap.MaxConns)
	}
	if snap.AcquireCount != 142 {
		t.Errorf("AcquireCount = %d, want 142", snap.AcquireCount)
	}
	if snap.AcquireDuration != "250ms" {
		t.Errorf("AcquireDuration = %q, want 250ms", snap.AcquireDuration)
	}
	if !snap.Healthy {
		t.Error("a pool with open connections should report healthy")
	}
}

func TestSnapshotPool_NoConnections(t *testing.T) {
	snap := snapshotPool(fakePoolStat{max: 20})
	if snap.Healthy {
		t.Error("a pool with zero connections should not report healthy")
	}
}
