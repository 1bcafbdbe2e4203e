//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/plus3/physync/physics"
)

func initializeGame(cfg Config) (*Game, func(), error) {
	wire.Build(
		provideLogger,
		provideStorage,
		physics.NewDebugLines,
		provideBackend,
		provideScheduler,
		provideImgui,
		provideRenderer,
		NewGame,
	)
	return nil, nil, nil
}
