package ecs

import "sort"

// StorageStats summarizes the contents of a Storage.
type StorageStats struct {
	TotalEntityCount   int
	ComponentTypeCount int
	SingletonCount     int
	ComponentBreakdown []ComponentStats
	SingletonTypes     []string
}

// ComponentStats describes one component storage and its change log.
type ComponentStats struct {
	Type           string
	EntityCount    int
	RetainedEvents int
	LiveReaders    int
	HeadSequence   uint64
}

// CollectStats gathers entity, component and change log statistics.
// Breakdown entries are sorted by component type name.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		TotalEntityCount:   s.EntityCount(),
		ComponentTypeCount: len(s.components),
		SingletonCount:     len(s.singletons),
	}

	for typ, storage := range s.components {
		events := storage.Events()
		stats.ComponentBreakdown = append(stats.ComponentBreakdown, ComponentStats{
			Type:           typ.String(),
			EntityCount:    storage.Len(),
			RetainedEvents: events.Retained(),
			LiveReaders:    events.Readers(),
			HeadSequence:   events.Head(),
		})
	}
	sort.Slice(stats.ComponentBreakdown, func(i, j int) bool {
		return stats.ComponentBreakdown[i].Type < stats.ComponentBreakdown[j].Type
	})

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
