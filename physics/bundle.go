package physics

import (
	"errors"

	"github.com/plus3/physync/ecs"
	"go.uber.org/zap"
)

const (
	SyncToPhysicsSystemName   = "sync_transforms_to_physics_system"
	SyncFromPhysicsSystemName = "sync_transforms_from_physics_system"
	DebugSystemName           = "debug_system"
)

var (
	// ErrNoPhysicsStep is returned when a bundle has neither a backend nor a host step to order around.
	ErrNoPhysicsStep = errors.New("bundle has no physics step")
	// ErrNoDebugLines is returned when debug lines are enabled without a buffer to draw into.
	ErrNoDebugLines = errors.New("debug lines enabled without a DebugLines buffer")
)

// Backend is a physics engine that steps simulation transforms.
type Backend interface {
	// RegisterSystems adds the backend's systems so that they run after the
	// named system, and returns the name of the system that finishes
	// writing PhysicsTransform.
	RegisterSystems(s *ecs.Scheduler, after string) string
}

// Bundle registers the transform sync pipeline on a scheduler:
//
//	sync_transforms_to_physics_system -> physics step -> sync_transforms_from_physics_system -> debug_system
//
// The debug system is only added when Config.DebugLines is set.
type Bundle struct {
	storage    *ecs.Storage
	backend    Backend
	stepSystem string
	lines      *DebugLines
	config     Config
	logger     *zap.Logger
}

// BundleOption configures a Bundle.
type BundleOption func(*Bundle)

// WithBackend steps physics with the given backend.
func WithBackend(backend Backend) BundleOption {
	return func(b *Bundle) {
		b.backend = backend
	}
}

// WithStepSystem orders the sync systems around a physics step the host
// registers itself, before or after Build.
func WithStepSystem(name string) BundleOption {
	return func(b *Bundle) {
		b.stepSystem = name
	}
}

// WithDebugLines sets the buffer the debug system draws into.
func WithDebugLines(lines *DebugLines) BundleOption {
	return func(b *Bundle) {
		b.lines = lines
	}
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) BundleOption {
	return func(b *Bundle) {
		b.config = cfg
	}
}

// WithLogger sets the logger handed to the bundle's systems.
func WithLogger(logger *zap.Logger) BundleOption {
	return func(b *Bundle) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBundle creates a bundle with DefaultConfig and no backend.
func NewBundle(storage *ecs.Storage, opts ...BundleOption) *Bundle {
	b := &Bundle{
		storage: storage,
		config:  DefaultConfig(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.stepSystem == "" {
		b.stepSystem = b.config.StepSystem
	}
	return b
}

// Build adds the bundle's systems to the scheduler. Dependency errors, such
// as a step name nobody registered, are reported by Scheduler.Build.
func (b *Bundle) Build(s *ecs.Scheduler) error {
	if b.backend == nil && b.stepSystem == "" {
		return ErrNoPhysicsStep
	}
	if b.config.DebugLines && b.lines == nil {
		return ErrNoDebugLines
	}

	s.Add(NewSyncTransformsToPhysicsSystem(b.storage, b.logger), SyncToPhysicsSystemName)

	step := b.stepSystem
	if b.backend != nil {
		step = b.backend.RegisterSystems(s, SyncToPhysicsSystemName)
	} else {
		s.Depend(step, SyncToPhysicsSystemName)
	}

	s.Add(NewSyncTransformsFromPhysicsSystem(b.storage, b.logger), SyncFromPhysicsSystemName, step)

	if b.config.DebugLines {
		s.Add(NewDebugSystem(b.lines, b.config), DebugSystemName, SyncFromPhysicsSystemName)
	}

	b.logger.Info("physics bundle registered",
		zap.String("step", step),
		zap.Bool("debug_lines", b.config.DebugLines),
	)
	return nil
}
