package main

import (
	"fmt"
	"image/color"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/physync/ecs"
	"github.com/plus3/physync/ecs/debugui"
	debugui_ebiten "github.com/plus3/physync/ecs/debugui/ebiten"
	"github.com/plus3/physync/physics"
	"github.com/plus3/physync/physics/debugrender"
	"github.com/plus3/physync/physics/kinematic"
	"go.uber.org/zap"
)

var background = color.RGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff}

// Game implements ebiten.Game around the physics schedule.
type Game struct {
	storage  *ecs.Storage
	schedule *ecs.Schedule
	lines    *physics.DebugLines
	renderer *debugrender.Renderer
	imgui    *ecs.Singleton[debugui_ebiten.ImguiBackend]
	input    *ecs.Singleton[debugui.ImguiInputState]
	scene    scene
	speed    float64
	logger   *zap.Logger

	frameLines []physics.DebugLine
}

func NewGame(
	storage *ecs.Storage,
	scheduler *ecs.Scheduler,
	backend *kinematic.Backend,
	lines *physics.DebugLines,
	renderer *debugrender.Renderer,
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend],
	cfg Config,
	logger *zap.Logger,
) (*Game, error) {
	g := &Game{
		storage:  storage,
		lines:    lines,
		renderer: renderer,
		imgui:    imguiBackend,
		input:    ecs.NewSingleton[debugui.ImguiInputState](storage),
		scene:    spawnScene(storage),
		speed:    cfg.PlayerSpeed,
		logger:   logger,
	}

	debugui.SpawnDebugUI(storage, scheduler.GetStats)
	storage.Spawn(debugui.ImguiItem{Render: func() {
		imgui.Begin("Controls")
		imgui.Text("Arrow keys move the player")
		imgui.Text(fmt.Sprintf("Sensor contacts: %d", len(backend.Contacts())))
		if t := ecs.ReadComponent[physics.Transform](storage, g.scene.player); t != nil {
			imgui.Text(fmt.Sprintf("Player: (%.1f, %.1f)", t.Translation.X, t.Translation.Y))
		}
		imgui.End()
	}})

	schedule, err := scheduler.Build()
	if err != nil {
		return nil, err
	}
	g.schedule = schedule

	logger.Info("demo ready", zap.Strings("systems", schedule.Order()))
	return g, nil
}

func (g *Game) Update() error {
	dx, dy := 0.0, 0.0
	if state := g.input.Get(); state == nil || !state.WantCaptureKeyboard {
		dx, dy = arrowDirection()
	}
	steer(g.storage, g.scene.player, dx, dy, g.speed)

	return g.imgui.Get().Frame(func() error {
		g.schedule.Once(1.0 / float64(ebiten.TPS()))
		g.frameLines = g.lines.Drain()
		return nil
	})
}

func arrowDirection() (dx, dy float64) {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy--
	}
	return dx, dy
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.Draw(screen, g.frameLines)
	g.imgui.Get().Overlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imgui.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
