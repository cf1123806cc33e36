package app

import (
	"log"
	"math"
	"time"

	"VoxelTerra/jogo/internal/audio"
	"VoxelTerra/jogo/internal/camera"
	"VoxelTerra/jogo/internal/meshing"
	"VoxelTerra/jogo/internal/render"
	"VoxelTerra/jogo/internal/sim"
	"VoxelTerra/jogo/internal/telemetry"
	"VoxelTerra/shared/config"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Gerando a vizinhança inicial
	StatePlaying
	StatePaused
)

// App é a aplicação principal do VoxelTerra: junta o mundo, o
// renderizador, a simulação e a entrada do usuário em um loop único.
type App struct {
	Config *config.Config
	State  AppState

	Cam      *camera.Camera
	store    *world.Store
	mesher   *meshing.Manager
	backend  *render.RaylibBackend
	renderer *render.WorldRenderer

	monitor  *telemetry.Monitor
	statsSrv *telemetry.StatsServer
	player   *audio.Player

	ticks      *sim.TickCoordinator
	timeEvents *sim.TimeEvents
	liquids    *sim.LiquidSimulator
	growth     *sim.GrowthSimulator
	mobs       *sim.MobManager
	spawner    *sim.Spawner
	physDebug  *render.PhysicsDebug

	frameCount int
	placeID    uint8
	quit       bool
}

// New cria a aplicação sem abrir a janela.
func New(cfg *config.Config) *App {
	return &App{
		Config:  cfg,
		State:   StateLoading,
		placeID: world.BlockStone,
	}
}

// Run inicializa janela e subsistemas e roda o loop principal.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)
	rl.DisableCursor()

	log.Println("[App] Janela inicializada")
	log.Printf("[App] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.initWorld()
	a.initSimulation()

	// Carga inicial: vizinhança completa + todas as malhas.
	a.renderer.RefreshProximity(true)
	a.renderer.GenerateAllMeshes()
	a.liquids.Simulate(true)
	a.growth.Simulate(true)
	log.Printf("[App] Vizinhança inicial: %d chunks, %d reconstruções em voo",
		len(a.renderer.ChunksInProximity()), a.mesher.Outstanding())

	for !rl.WindowShouldClose() && !a.quit {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// initWorld monta armazenamento, meshing, backend e renderizador.
func (a *App) initWorld() {
	gen := world.NewTerrainGenerator(a.Config.WorldSeed)
	a.store = world.NewStore(gen, a.Config.CachedChunks)
	if err := a.store.OpenPersistence(a.Config.WorldName); err != nil {
		log.Printf("[App] Persistência indisponível, mundo efêmero: %v", err)
	}

	a.mesher = meshing.NewManager(a.Config.MesherThreads, a.Config.MaxChunkUpdates)
	a.backend = render.NewRaylibBackend()
	a.monitor = telemetry.NewMonitor()
	if a.Config.TelemetryAddr != "" {
		a.statsSrv = telemetry.NewStatsServer(a.Config.TelemetryAddr)
	}

	aspect := float32(a.Config.WindowWidth) / float32(a.Config.WindowHeight)
	a.Cam = camera.New(a.Config.FOV, aspect)
	a.Cam.Position = a.spawnPosition()

	a.renderer = render.NewWorldRenderer(a.Config, a.store, a.Cam,
		a.mesher, a.backend, a.monitor)
}

// initSimulation liga simuladores, áudio e o coordenador de ticks.
func (a *App) initSimulation() {
	a.player = audio.NewPlayer(a.Config.MasterVolume)
	if a.Config.AudioEnabled {
		if err := a.player.Initialize(); err != nil {
			log.Printf("[App] Áudio indisponível: %v", err)
		}
	}

	inRange := a.renderer.IsWithinSimulationRange
	seed := time.Now().UnixNano()

	a.liquids = sim.NewLiquidSimulator(a.store, inRange)
	a.growth = sim.NewGrowthSimulator(a.store, seed,
		a.renderer.ChunksInProximity, inRange)
	a.mobs = sim.NewMobManager(a.store, seed, inRange)
	a.spawner = sim.NewSpawner(a.mobs, seed, func() mgl32.Vec3 {
		return a.Cam.Position
	})
	a.timeEvents = sim.NewTimeEvents(a.player)
	a.physDebug = render.NewPhysicsDebug()

	a.ticks = sim.NewTickCoordinator(time.Now().UnixMilli())
	a.ticks.OnSecond(a.spawner.TickSpawn)
	a.ticks.OnSecond(func() { a.liquids.Simulate(false) })
	a.ticks.OnSecond(func() { a.growth.Simulate(false) })
	a.ticks.OnTenSeconds(a.mobs.TickAI)

	a.renderer.AddTransparent(a.mobs)
	if a.Config.ShowDebugInfo {
		a.renderer.AddTransparent(a.physDebug)
	}
}

// spawnPosition acha a superfície na origem do mundo.
func (a *App) spawnPosition() mgl32.Vec3 {
	const sx, sz = 8, 8
	for y := int32(util.ChunkDimY - 1); y >= 0; y-- {
		if world.IsSolid(a.store.GetBlock(sx, y, sz)) {
			return mgl32.Vec3{sx + 0.5, float32(y) + 1, sz + 0.5}
		}
	}
	return mgl32.Vec3{sx + 0.5, float32(world.SeaLevel) + 4, sz + 0.5}
}

// update avança a lógica de um frame.
func (a *App) update() {
	a.frameCount++
	delta := float64(rl.GetFrameTime())

	switch a.State {
	case StateLoading:
		a.renderer.InstallResults(8 * time.Millisecond)
		if a.mesher.Outstanding() == 0 {
			a.State = StatePlaying
			log.Println("[App] Mundo pronto")
		}
	case StatePlaying:
		a.updateInput(delta)
		a.renderer.Update(delta)
		a.mobs.Update(delta)
		a.ticks.AdvanceTick(time.Now().UnixMilli())
		a.timeEvents.Fire(a.renderer.Sky().TimeOfDay())

		// Persistência e descarte de cache, fora do caminho quente.
		if a.frameCount%300 == 0 {
			a.store.FlushCache()
		}
		if a.statsSrv != nil && a.frameCount%60 == 0 {
			a.publishStats()
		}
	case StatePaused:
		a.updateInput(delta)
	}
}

func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	a.mesher.Stop()
	a.renderer.Dispose()
	a.backend.Dispose()
	a.player.Cleanup()
	a.store.Close()

	if err := a.Config.Save(); err != nil {
		log.Printf("[App] Erro ao salvar configurações: %v", err)
	}
}

// eyeBlock retorna a coordenada do bloco no ponto de visão.
func (a *App) eyeBlock() (int32, int32, int32) {
	eye := a.Cam.Eye()
	return int32(math.Floor(float64(eye.X()))),
		int32(math.Floor(float64(eye.Y()))),
		int32(math.Floor(float64(eye.Z())))
}
