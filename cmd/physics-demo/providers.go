package main

import (
	"fmt"

	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/ecs/debugui"
	debugui_ebiten "github.com/plus3/physync/ecs/debugui/ebiten"
	"github.com/plus3/physync/physics"
	"github.com/plus3/physync/physics/debugrender"
	"github.com/plus3/physync/physics/kinematic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func provideLogger(cfg Config) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	physics.RegisterComponents(registry)
	kinematic.RegisterComponents(registry)
	debugui.RegisterDebugUIComponents(registry)
	return ecs.NewStorage(registry)
}

func provideBackend(storage *ecs.Storage, cfg Config, logger *zap.Logger) *kinematic.Backend {
	return kinematic.NewBackend(storage, cfg.Kinematic, logger)
}

// provideScheduler registers the physics bundle and the ImGui system.
func provideScheduler(storage *ecs.Storage, cfg Config, logger *zap.Logger, backend *kinematic.Backend, lines *physics.DebugLines) (*ecs.Scheduler, error) {
	scheduler, err := newPhysicsScheduler(storage, cfg, logger, backend, lines)
	if err != nil {
		return nil, err
	}
	scheduler.Add(&debugui.ImguiSystem{}, "imgui_system")
	return scheduler, nil
}

func newPhysicsScheduler(storage *ecs.Storage, cfg Config, logger *zap.Logger, backend *kinematic.Backend, lines *physics.DebugLines) (*ecs.Scheduler, error) {
	scheduler := ecs.NewScheduler(storage, ecs.WithWorkers(cfg.Workers), ecs.WithLogger(logger))

	bundle := physics.NewBundle(storage,
		physics.WithBackend(backend),
		physics.WithDebugLines(lines),
		physics.WithConfig(cfg.Physics),
		physics.WithLogger(logger),
	)
	if err := bundle.Build(scheduler); err != nil {
		return nil, fmt.Errorf("physics bundle: %w", err)
	}
	return scheduler, nil
}

func provideImgui(storage *ecs.Storage, cfg Config) *ecs.Singleton[debugui_ebiten.ImguiBackend] {
	backend := debugui_ebiten.NewImguiBackend("physync demo", cfg.Window.Width, cfg.Window.Height)
	return ecs.NewSingleton(storage, backend)
}

func provideRenderer(cfg Config) *debugrender.Renderer {
	return debugrender.NewRenderer(debugrender.Camera{
		Center: physics.Vector3{X: 50, Y: 60},
		Zoom:   cfg.Window.Zoom,
	})
}
