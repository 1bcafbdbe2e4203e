package physics

import (
	"reflect"

	"github.com/plus3/physync/ecs"
	"go.uber.org/zap"
)

// SyncTransformsToPhysicsSystem creates and removes simulation transforms
// as presentation transforms appear and disappear.
//
// Modifications of a Transform are not propagated: once an entity has a
// PhysicsTransform the physics backend owns its position, and the
// simulation flows back through SyncTransformsFromPhysicsSystem.
type SyncTransformsToPhysicsSystem struct {
	storage *ecs.Storage
	reader  *ecs.ReaderId
	logger  *zap.Logger
}

// NewSyncTransformsToPhysicsSystem registers its Transform reader immediately.
func NewSyncTransformsToPhysicsSystem(storage *ecs.Storage, logger *zap.Logger) *SyncTransformsToPhysicsSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncTransformsToPhysicsSystem{
		storage: storage,
		reader:  ecs.RegisterReader[Transform](storage),
		logger:  logger.With(zap.String("system", SyncToPhysicsSystemName)),
	}
}

func (s *SyncTransformsToPhysicsSystem) Access() ecs.Access {
	return ecs.Access{
		Reads:  []reflect.Type{ecs.TypeOf[Transform]()},
		Writes: []reflect.Type{ecs.TypeOf[PhysicsTransform]()},
	}
}

func (s *SyncTransformsToPhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	changes := ecs.Diff[Transform](s.storage, s.reader)
	if changes.Empty() {
		return
	}

	for _, id := range changes.Union().Sorted() {
		transform := ecs.ReadComponent[Transform](s.storage, id)

		if transform == nil {
			if changes.Removed.Has(id) && ecs.RemoveComponent[PhysicsTransform](s.storage, id) {
				s.logger.Info("removed physics transform", zap.Uint64("entity", uint64(id)))
			}
			continue
		}

		if changes.Inserted.Has(id) {
			s.insert(id, transform, changes.Removed.Has(id))
			continue
		}

		if changes.Modified.Has(id) {
			s.logger.Debug("transform modification not propagated", zap.Uint64("entity", uint64(id)))
		}
	}
}

// insert attaches a PhysicsTransform at the transform's translation. An
// existing one is kept unless the Transform itself was replaced.
func (s *SyncTransformsToPhysicsSystem) insert(id ecs.EntityId, transform *Transform, replaced bool) {
	if !replaced && ecs.HasComponent[PhysicsTransform](s.storage, id) {
		return
	}

	err := s.storage.AddComponent(id, NewPhysicsTransform(transform.Translation))
	if err != nil {
		s.logger.Warn("failed to insert physics transform", zap.Uint64("entity", uint64(id)), zap.Error(err))
		return
	}
	s.logger.Info("inserted physics transform",
		zap.Uint64("entity", uint64(id)),
		zap.Float64("x", transform.Translation.X),
		zap.Float64("y", transform.Translation.Y),
		zap.Float64("z", transform.Translation.Z),
	)
}
