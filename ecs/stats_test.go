package ecs

import (
	"testing"
	"time"
)

func TestStorageStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	RegisterComponent[float64](registry)

	storage := NewStorage(registry)

	stats := storage.CollectStats()
	if stats.ComponentTypeCount != 3 {
		t.Errorf("expected 3 component types, got %d", stats.ComponentTypeCount)
	}
	if stats.TotalEntityCount != 0 {
		t.Errorf("expected 0 entities, got %d", stats.TotalEntityCount)
	}
	if stats.SingletonCount != 0 {
		t.Errorf("expected 0 singletons, got %d", stats.SingletonCount)
	}

	reader := RegisterReader[int](storage)

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	NewSingleton[float64](storage, 3.14)
	NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()

	if stats.TotalEntityCount != 3 {
		t.Errorf("expected 3 entities, got %d", stats.TotalEntityCount)
	}
	if stats.SingletonCount != 2 {
		t.Errorf("expected 2 singletons, got %d", stats.SingletonCount)
	}
	if len(stats.SingletonTypes) != 2 || stats.SingletonTypes[0] != "float64" {
		t.Errorf("unexpected singleton types: %v", stats.SingletonTypes)
	}

	if len(stats.ComponentBreakdown) != 3 {
		t.Fatalf("expected 3 component breakdown entries, got %d", len(stats.ComponentBreakdown))
	}

	expected := []ComponentStats{
		{Type: "float64", EntityCount: 1, RetainedEvents: 0, LiveReaders: 0, HeadSequence: 1},
		{Type: "int", EntityCount: 2, RetainedEvents: 2, LiveReaders: 1, HeadSequence: 2},
		{Type: "string", EntityCount: 3, RetainedEvents: 0, LiveReaders: 0, HeadSequence: 3},
	}
	for i, want := range expected {
		if got := stats.ComponentBreakdown[i]; got != want {
			t.Errorf("breakdown[%d]: expected %+v, got %+v", i, want, got)
		}
	}

	storage.EventLog(TypeOf[int]()).Read(reader)
	if retained := storage.CollectStats().ComponentBreakdown[1].RetainedEvents; retained != 0 {
		t.Errorf("expected consumed events to be trimmed, %d retained", retained)
	}
}

type TestSystem struct {
	executeCount int
	sleepDur     time.Duration
}

func (s *TestSystem) Execute(frame *UpdateFrame) {
	s.executeCount++
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
}

func TestSchedulerStatsDurations(t *testing.T) {
	storage := NewStorage(NewComponentRegistry())
	scheduler := NewScheduler(storage)

	fast := &TestSystem{}
	slow := &TestSystem{sleepDur: time.Millisecond}
	scheduler.Add(fast, "fast")
	scheduler.Add(slow, "slow")

	stats := scheduler.GetStats()
	if stats.TotalExecutions != 0 {
		t.Errorf("expected 0 executions before running, got %d", stats.TotalExecutions)
	}

	for i := 0; i < 3; i++ {
		scheduler.Once(0.016)
	}

	stats = scheduler.GetStats()
	if stats.TotalExecutions != 6 {
		t.Errorf("expected 6 total executions, got %d", stats.TotalExecutions)
	}
	if fast.executeCount != 3 || slow.executeCount != 3 {
		t.Errorf("expected each system to run 3 times, got %d and %d", fast.executeCount, slow.executeCount)
	}

	slowStats := stats.Systems[1]
	if slowStats.Name != "slow" {
		t.Fatalf("expected slow system second, got %q", slowStats.Name)
	}
	if slowStats.MinDuration < time.Millisecond {
		t.Errorf("expected slow system to take at least 1ms, got %v", slowStats.MinDuration)
	}
	if slowStats.LastDuration == 0 || slowStats.TotalDuration < 3*time.Millisecond {
		t.Errorf("unexpected durations: %+v", slowStats)
	}
}
