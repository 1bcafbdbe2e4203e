package ecs

// UpdateFrame is passed to every system of one schedule pass.
// Commands queued on it are applied after the last system finishes.
type UpdateFrame struct {
	DeltaTime float64
	// Number counts passes of the schedule, starting at 1.
	Number   uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, number uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Number:    number,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
