package main

import (
	"context"
	"math/rand"
	"reflect"
	"runtime"
	"time"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"github.com/plus3/physync/physics/kinematic"
	"go.uber.org/zap"
)

const (
	tallySystemName = "event_tally_system"

	// Simulation time advances by a fixed step so runs with the same seed
	// produce the same events.
	fixedStep = 1.0 / 60.0
)

// eventTally counts every change event on the synced component types.
type eventTally struct {
	storage *ecs.Storage
	types   []reflect.Type
	readers []*ecs.ReaderId
	totals  []EventTotals
}

func newEventTally(storage *ecs.Storage, types ...reflect.Type) *eventTally {
	t := &eventTally{storage: storage, types: types}
	for _, typ := range types {
		t.readers = append(t.readers, storage.RegisterReader(typ))
		t.totals = append(t.totals, EventTotals{Type: typ.String()})
	}
	return t
}

func (t *eventTally) Access() ecs.Access {
	return ecs.Access{Reads: t.types}
}

func (t *eventTally) Execute(frame *ecs.UpdateFrame) {
	for i, typ := range t.types {
		for _, event := range t.storage.EventLog(typ).Read(t.readers[i]) {
			switch event.Kind {
			case ecs.EventInserted:
				t.totals[i].Inserted++
			case ecs.EventModified:
				t.totals[i].Modified++
			case ecs.EventRemoved:
				t.totals[i].Removed++
			}
		}
	}
}

type world struct {
	storage  *ecs.Storage
	schedule *ecs.Schedule
	lines    *physics.DebugLines
	tally    *eventTally
	entities []ecs.EntityId
	rng      *rand.Rand
	churn    int

	drawn int
}

func newWorld(opts *Options, logger *zap.Logger) (*world, error) {
	registry := ecs.NewComponentRegistry()
	physics.RegisterComponents(registry)
	kinematic.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	cfg := physics.DefaultConfig()
	cfg.DebugLines = true
	lines := physics.NewDebugLines()

	scheduler := ecs.NewScheduler(storage, ecs.WithWorkers(opts.Workers), ecs.WithLogger(logger))
	bundle := physics.NewBundle(storage,
		physics.WithBackend(kinematic.NewBackend(storage, kinematic.Config{}, logger)),
		physics.WithDebugLines(lines),
		physics.WithConfig(cfg),
		physics.WithLogger(logger),
	)
	if err := bundle.Build(scheduler); err != nil {
		return nil, err
	}

	tally := newEventTally(storage, ecs.TypeOf[physics.Transform](), ecs.TypeOf[physics.PhysicsTransform]())
	scheduler.Add(tally, tallySystemName, physics.SyncFromPhysicsSystemName)

	schedule, err := scheduler.Build()
	if err != nil {
		return nil, err
	}

	w := &world{
		storage:  storage,
		schedule: schedule,
		lines:    lines,
		tally:    tally,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		churn:    opts.Churn,
	}
	for i := 0; i < opts.Entities; i++ {
		w.entities = append(w.entities, w.spawn(i))
	}
	return w, nil
}

// spawn creates a body on a grid. Every tenth body is a static obstacle.
func (w *world) spawn(i int) ecs.EntityId {
	body := kinematic.Body{
		Status:   kinematic.Dynamic,
		Velocity: physics.Vector3{X: w.rng.Float64()*20 - 10, Y: w.rng.Float64()*20 - 10},
	}
	if i%10 == 0 {
		body = kinematic.Body{Status: kinematic.Static}
	}

	return w.storage.Spawn(
		physics.NewTransform(w.randomPosition()),
		physics.Collider{Shape: physics.ShapeRectangle(4, 4, 1)},
		body,
	)
}

func (w *world) randomPosition() physics.Vector3 {
	return physics.Vector3{X: w.rng.Float64() * 1000, Y: w.rng.Float64() * 1000}
}

// churnTransforms removes the Transform of entities that have one and
// re-adds it to those that do not.
func (w *world) churnTransforms() {
	if len(w.entities) == 0 {
		return
	}
	for i := 0; i < w.churn; i++ {
		id := w.entities[w.rng.Intn(len(w.entities))]
		if ecs.HasComponent[physics.Transform](w.storage, id) {
			ecs.RemoveComponent[physics.Transform](w.storage, id)
			continue
		}
		_ = w.storage.AddComponent(id, physics.NewTransform(w.randomPosition()))
	}
}

func (w *world) frame(dt float64) {
	w.churnTransforms()
	w.schedule.Once(dt)
	w.drawn += len(w.lines.Drain())
}

func runStress(ctx context.Context, opts *Options, logger *zap.Logger) (*Report, error) {
	w, err := newWorld(opts, logger)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Duration: opts.Duration,
		Frames:   opts.Frames,
		Entities: opts.Entities,
		Workers:  opts.Workers,
		Churn:    opts.Churn,
		Seed:     opts.Seed,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	if opts.Frames == 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	logger.Info("stress run started", zap.Int("entities", opts.Entities), zap.Int("workers", opts.Workers))

	start := time.Now()
Loop:
	for opts.Frames == 0 || report.TotalUpdates < int64(opts.Frames) {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		frameStart := time.Now()
		w.frame(fixedStep)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(frameStart))
		report.TotalUpdates++
	}

	report.TotalTime = time.Since(start)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Events = w.tally.totals
	report.Bodies = w.storage.ComponentCount(ecs.TypeOf[physics.PhysicsTransform]())
	report.Transforms = w.storage.ComponentCount(ecs.TypeOf[physics.Transform]())
	report.DebugLines = w.drawn
	report.Systems = w.schedule.GetStats().Systems

	logger.Info("stress run finished", zap.Int64("frames", report.TotalUpdates), zap.Duration("elapsed", report.TotalTime))
	return report, nil
}
