package physics

import (
	"reflect"

	"github.com/plus3/physync/ecs"
	"go.uber.org/zap"
)

// SyncTransformsFromPhysicsSystem copies simulation positions the physics
// step modified back onto the presentation transforms.
type SyncTransformsFromPhysicsSystem struct {
	storage *ecs.Storage
	reader  *ecs.ReaderId
	logger  *zap.Logger
}

// NewSyncTransformsFromPhysicsSystem registers its PhysicsTransform reader immediately.
func NewSyncTransformsFromPhysicsSystem(storage *ecs.Storage, logger *zap.Logger) *SyncTransformsFromPhysicsSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncTransformsFromPhysicsSystem{
		storage: storage,
		reader:  ecs.RegisterReader[PhysicsTransform](storage),
		logger:  logger.With(zap.String("system", SyncFromPhysicsSystemName)),
	}
}

func (s *SyncTransformsFromPhysicsSystem) Access() ecs.Access {
	return ecs.Access{
		Reads:  []reflect.Type{ecs.TypeOf[PhysicsTransform]()},
		Writes: []reflect.Type{ecs.TypeOf[Transform]()},
	}
}

func (s *SyncTransformsFromPhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	changes := ecs.Diff[PhysicsTransform](s.storage, s.reader)

	for id := range changes.Modified.All() {
		body := ecs.ReadComponent[PhysicsTransform](s.storage, id)
		if body == nil || !ecs.HasComponent[Transform](s.storage, id) {
			continue
		}

		x, y, z := body.Position()
		ecs.WriteComponent[Transform](s.storage, id).SetTranslationXYZ(x, y, z)
		s.logger.Debug("synced transform from physics",
			zap.Uint64("entity", uint64(id)),
			zap.Float64("x", x),
			zap.Float64("y", y),
			zap.Float64("z", z),
		)
	}
}
