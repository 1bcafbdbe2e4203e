package physics_test

import (
	"testing"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// scriptedStep moves every physics transform to a fixed position.
type scriptedStep struct {
	storage *ecs.Storage
	target  physics.Vector3
	Bodies  ecs.Query[struct {
		ecs.EntityId
		*physics.PhysicsTransform
	}]
}

func (s *scriptedStep) Execute(frame *ecs.UpdateFrame) {
	for body := range s.Bodies.Values() {
		ecs.WriteComponent[physics.PhysicsTransform](s.storage, body.EntityId).
			SetPosition(s.target.X, s.target.Y, s.target.Z)
	}
}

type scriptedBackend struct {
	step *scriptedStep
}

func (b *scriptedBackend) RegisterSystems(s *ecs.Scheduler, after string) string {
	s.Add(b.step, "scripted_step", after)
	return "scripted_step"
}

func TestBundleOrder(t *testing.T) {
	storage := newStorage()
	cfg := physics.DefaultConfig()
	cfg.DebugLines = true

	scheduler := ecs.NewScheduler(storage)
	bundle := physics.NewBundle(storage,
		physics.WithBackend(&scriptedBackend{step: &scriptedStep{storage: storage}}),
		physics.WithDebugLines(physics.NewDebugLines()),
		physics.WithConfig(cfg),
	)
	require.NoError(t, bundle.Build(scheduler))

	schedule, err := scheduler.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{
		physics.SyncToPhysicsSystemName,
		"scripted_step",
		physics.SyncFromPhysicsSystemName,
		physics.DebugSystemName,
	}, schedule.Order())
}

func TestBundleWithoutDebugLines(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)

	bundle := physics.NewBundle(storage, physics.WithBackend(&scriptedBackend{step: &scriptedStep{storage: storage}}))
	require.NoError(t, bundle.Build(scheduler))

	assert.False(t, scheduler.Has(physics.DebugSystemName))
}

func TestBundleRoundTrip(t *testing.T) {
	storage := newStorage()
	cfg := physics.DefaultConfig()
	cfg.DebugLines = true
	lines := physics.NewDebugLines()

	scheduler := ecs.NewScheduler(storage, ecs.WithWorkers(2))
	bundle := physics.NewBundle(storage,
		physics.WithBackend(&scriptedBackend{step: &scriptedStep{storage: storage, target: physics.Vector3{X: 10, Y: 20}}}),
		physics.WithDebugLines(lines),
		physics.WithConfig(cfg),
	)
	require.NoError(t, bundle.Build(scheduler))

	player := storage.Spawn(
		physics.NewTransform(physics.Vector3{X: 25, Y: 50}),
		physics.Collider{Shape: physics.ShapeRectangle(15, 22, 1)},
	)
	scheduler.Once(1.0 / 60)

	assert.Equal(t, physics.Vector3{X: 10, Y: 20, Z: 0}, ecs.ReadComponent[physics.Transform](storage, player).Translation)

	drawn := lines.Drain()
	require.Len(t, drawn, 4)
	assert.Equal(t, physics.Vector3{X: 2.5, Y: 31, Z: 0}, drawn[0].Start, "the overlay reflects the synced position")
}

func TestBundleHostStep(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)

	cfg := physics.DefaultConfig()
	cfg.StepSystem = "host_step"
	require.NoError(t, physics.NewBundle(storage, physics.WithConfig(cfg)).Build(scheduler))
	scheduler.Add(&scriptedStep{storage: storage}, "host_step", physics.SyncToPhysicsSystemName)

	schedule, err := scheduler.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{
		physics.SyncToPhysicsSystemName,
		"host_step",
		physics.SyncFromPhysicsSystemName,
	}, schedule.Order())
}

func TestBundleHostStepWithoutDependencies(t *testing.T) {
	storage := newStorage()
	scheduler := ecs.NewScheduler(storage)

	scheduler.Add(&scriptedStep{storage: storage, target: physics.Vector3{X: 3}}, "host_step")
	require.NoError(t, physics.NewBundle(storage, physics.WithStepSystem("host_step")).Build(scheduler))

	schedule, err := scheduler.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{
		physics.SyncToPhysicsSystemName,
		"host_step",
		physics.SyncFromPhysicsSystemName,
	}, schedule.Order())

	id := storage.Spawn(physics.NewTransform(physics.Vector3{X: 25, Y: 50}))
	schedule.Once(1.0 / 60)
	assert.Equal(t, physics.Vector3{X: 3}, ecs.ReadComponent[physics.Transform](storage, id).Translation,
		"a body created in the same frame is stepped")
}

func TestBundleErrors(t *testing.T) {
	t.Run("no physics step", func(t *testing.T) {
		storage := newStorage()
		err := physics.NewBundle(storage).Build(ecs.NewScheduler(storage))
		assert.ErrorIs(t, err, physics.ErrNoPhysicsStep)
	})

	t.Run("debug lines without buffer", func(t *testing.T) {
		storage := newStorage()
		cfg := physics.DefaultConfig()
		cfg.DebugLines = true

		err := physics.NewBundle(storage, physics.WithStepSystem("step"), physics.WithConfig(cfg)).
			Build(ecs.NewScheduler(storage))
		assert.ErrorIs(t, err, physics.ErrNoDebugLines)
	})

	t.Run("unregistered step", func(t *testing.T) {
		storage := newStorage()
		scheduler := ecs.NewScheduler(storage)
		require.NoError(t, physics.NewBundle(storage, physics.WithStepSystem("missing_step")).Build(scheduler))

		_, err := scheduler.Build()
		require.ErrorIs(t, err, ecs.ErrUnknownDependency)
		assert.Contains(t, err.Error(), "missing_step")
	})

	t.Run("cycle through host step", func(t *testing.T) {
		storage := newStorage()
		scheduler := ecs.NewScheduler(storage)
		require.NoError(t, physics.NewBundle(storage, physics.WithStepSystem("host_step")).Build(scheduler))
		scheduler.Add(&scriptedStep{storage: storage}, "host_step", physics.SyncFromPhysicsSystemName)

		_, err := scheduler.Build()
		assert.ErrorIs(t, err, ecs.ErrCyclicDependency)
	})
}

func TestBundleLogsRegistration(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	storage := newStorage()

	bundle := physics.NewBundle(storage, physics.WithStepSystem("step"), physics.WithLogger(zap.New(core)))
	require.NoError(t, bundle.Build(ecs.NewScheduler(storage)))

	entries := logs.FilterMessage("physics bundle registered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "step", entries[0].ContextMap()["step"])
}
