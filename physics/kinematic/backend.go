package kinematic

import (
	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/physics"
	"go.uber.org/zap"
)

// Backend is a physics.Backend that steps bodies with a single StepSystem.
type Backend struct {
	step     *StepSystem
	contacts *Contacts
}

var _ physics.Backend = (*Backend)(nil)

// NewBackend creates a backend whose step system writes into storage.
func NewBackend(storage *ecs.Storage, cfg Config, logger *zap.Logger) *Backend {
	contacts := &Contacts{}
	return &Backend{
		step:     NewStepSystem(storage, cfg, contacts, logger),
		contacts: contacts,
	}
}

func (b *Backend) RegisterSystems(s *ecs.Scheduler, after string) string {
	s.Add(b.step, StepSystemName, after)
	return StepSystemName
}

// Contacts returns the sensor overlaps found by the most recent step.
func (b *Backend) Contacts() []Contact {
	return b.contacts.All()
}
