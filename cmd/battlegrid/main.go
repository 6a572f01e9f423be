// Command battlegrid is a small development entrypoint that wires the
// config, runner harness, and match driver together for a single match
// between two external programs. It is not the CLI front end spec.md §1
// hands to the host application — argv ownership and match scheduling
// belong to the caller; this binary exists so the engine can be run and
// observed end to end during development.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"battlegrid/internal/api"
	"battlegrid/internal/config"
	"battlegrid/internal/match"
	"battlegrid/internal/observability"
	"battlegrid/internal/runner"
	"battlegrid/internal/wire"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("💡 no .env file found, using environment variables only")
	}

	log.Println("⚔️  ================================")
	log.Println("⚔️   BATTLEGRID - MATCH ENGINE")
	log.Println("⚔️  ================================")

	appConfig := config.Load()

	if len(os.Args) < 3 {
		log.Fatalf("usage: %s <blue-program> <red-program>", os.Args[0])
	}
	blueProgram, redProgram := os.Args[1], os.Args[2]

	log.Printf("🗺️  grid: %dx%d (%s)", appConfig.Grid.Size, appConfig.Grid.Size, appConfig.Grid.MapType)
	log.Printf("🎮 mode: %s, max turns: %d, seed: %q", appConfig.Match.GameMode, appConfig.Match.MaxTurn, appConfig.Match.Seed)

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := observability.DefaultConfig()
		if err := observability.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ debug server disabled: %v", err)
		}
	}

	server := api.NewServer()
	if os.Getenv("DISABLE_DISPATCH_API") != "true" {
		go func() {
			if err := server.Start(appConfig.Server.Addr); err != nil {
				log.Printf("⚠️ dispatch API stopped: %v", err)
			}
		}()
		defer server.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("🛑 shutdown requested, cancelling in-flight runners...")
		cancel()
	}()

	runners := map[wire.Team]match.RunnerResult{
		wire.Blue: startRunner(ctx, wire.Blue, blueProgram, appConfig.Runner),
		wire.Red:  startRunner(ctx, wire.Red, redProgram, appConfig.Runner),
	}

	observability.SetActiveMatches(1)
	defer observability.SetActiveMatches(0)

	turn := 0
	out := match.Run(ctx, runners, func(cb wire.CallbackInput) {
		turn = int(cb.Turn)
		server.Hub().Broadcast(cb)
		log.Printf("📍 turn %d: %d objects on grid", cb.Turn, len(cb.Objs))
	}, buildMatchConfig(appConfig))

	log.Printf("🏁 match ended; last turn record: %d", turn)
	if out.Winner != nil {
		log.Printf("🏆 winner: %s", out.Winner)
	} else {
		log.Println("🤝 no winner (tie or double walkover)")
	}
	for team, err := range out.Errors {
		log.Printf("💥 %s runner error: %s", team, err.Error())
	}

	if b, err := json.Marshal(out); err == nil {
		os.Stdout.Write(b)
		os.Stdout.Write([]byte("\n"))
	}
}

func startRunner(ctx context.Context, team wire.Team, program string, cfg config.RunnerConfig) match.RunnerResult {
	r, progErr := runner.StartChildProcessRunner(ctx, program)
	if progErr != nil {
		log.Printf("⚠️ %s runner failed to start: %s", team, progErr.Error())
		return match.RunnerResult{Err: progErr}
	}
	return match.RunnerResult{Runner: runner.WithTimeout(r, cfg.TurnTimeout)}
}

func buildMatchConfig(appConfig config.AppConfig) match.Config {
	var gameMode wire.GameMode
	_ = gameMode.UnmarshalText([]byte(appConfig.Match.GameMode))

	var mapType wire.MapType
	if appConfig.Grid.MapType == "Rect" {
		mapType = wire.Rect
	} else {
		mapType = wire.Circle
	}

	return match.Config{
		MaxTurn: appConfig.Match.MaxTurn,
		DevMode: appConfig.Match.DevMode,
		Settings: wire.Settings{
			SpawnSettings: wire.SpawnSettings{
				InitialUnitNum:   appConfig.Match.InitialUnitNum,
				RecurrentUnitNum: appConfig.Match.RecurrentUnitNum,
				SpawnEvery:       appConfig.Match.SpawnEvery,
			},
		},
		GameMode: gameMode,
		Seed:     appConfig.Match.Seed,
		MapType:  mapType,
		GridSize: appConfig.Grid.Size,
	}
}
