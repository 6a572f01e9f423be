// Package match implements the Match Driver (spec.md §4.J): the
// orchestration loop that ties the World Model, Spawn Controller, Action
// Validator, Conflict Resolver, and Winner Adjudicator together with
// concurrent per-turn dispatch to the Runner Harness.
package match

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"battlegrid/internal/engine"
	"battlegrid/internal/observability"
	"battlegrid/internal/runner"
	"battlegrid/internal/wire"
)

// RunnerResult is a team's runner slot: either a ready Runner or the
// fatal error that prevented one from being constructed (spec §4.J:
// "runners: Map<Team, Result<Runner, ProgramError>>").
type RunnerResult struct {
	Runner runner.Runner
	Err    *wire.ProgramError
}

// Config bundles the match configuration parameters named in spec §4.J
// and §6 beyond the runner set itself.
type Config struct {
	MaxTurn  int
	DevMode  bool
	Settings wire.Settings
	GameMode wire.GameMode
	Seed     string
	MapType  wire.MapType
	GridSize int
}

// TurnCallback is invoked once per completed turn with the pre-mutation
// snapshot and merged outcomes (spec §4.J.f), plus a final post-match
// record when the match runs to MaxTurn; a match ended by a runner error
// gets no final record.
type TurnCallback func(wire.CallbackInput)

// Run is the Match Driver's public entry point (spec §4.J).
func Run(ctx context.Context, runners map[wire.Team]RunnerResult, turnCb TurnCallback, cfg Config) *wire.MatchOutput {
	teams := stableTeams(runners)

	live, errored := splitRunners(runners)
	defer closeRunners(live)

	if len(errored) > 0 {
		log.Printf("⚠️ match aborted before turn 1: %d runner(s) failed to start", len(errored))
		for _, err := range errored {
			observability.RecordRunnerError(string(err.Kind))
			if err.Kind == wire.KindTimeout {
				observability.RecordRunnerTimeout()
			}
		}
		return &wire.MatchOutput{
			Winner: engine.DetermineWinnerWithErrors(teams, nil, erroredSet(errored)),
			Errors: toErrorMap(errored),
			Turns:  nil,
		}
	}

	gridSize := cfg.GridSize
	if gridSize <= 0 {
		gridSize = wire.DefaultGridSize
	}

	world := engine.New(cfg.MapType, gridSize, cfg.GameMode, cfg.Settings, cfg.Seed, teams)

	var turns []wire.CallbackInput
	fatalErrors := make(map[wire.Team]*wire.ProgramError)

	for turn := 1; turn <= cfg.MaxTurn; turn++ {
		engine.RunTurnSpawn(world, turn)

		snapshot := world.Snapshot()
		denseGrid := world.Grid.DenseRows(gridSize)
		roster := world.TeamRoster()

		dispatchStart := time.Now()
		results := dispatchTurn(ctx, live, wire.StateView{
			Turn:  uint32(turn),
			Objs:  snapshot,
			Grid:  denseGrid,
			Teams: roster,
		}, gridSize)
		observability.RecordTurn(time.Since(dispatchStart))

		if errs := turnErrors(results); len(errs) > 0 {
			for team, err := range errs {
				fatalErrors[team] = err
				observability.RecordRunnerError(string(err.Kind))
				if err.Kind == wire.KindTimeout {
					observability.RecordRunnerTimeout()
				}
			}
			log.Printf("💥 match terminated at turn %d: %d team(s) errored", turn, len(errs))
			break
		}

		actions := make(map[wire.Id]wire.ValidatedAction)
		logs := make(map[wire.Team][]string)
		inspections := make(map[wire.Team][]wire.Id)
		debugTables := make(map[wire.Id]map[string]string)

		for _, team := range teams {
			res, ok := results[team]
			if !ok {
				continue
			}
			validated := engine.ValidateActions(world, team, res.out.RobotActions)
			for id, va := range validated {
				actions[id] = va
			}
			logs[team] = res.out.Logs

			if cfg.DevMode {
				inspections[team] = res.out.DebugInspections
				if sanitized := sanitizeDebugTables(world, team, res.out.DebugTables); sanitized != nil {
					for id, t := range sanitized {
						debugTables[id] = t
					}
				}
			}
		}

		engine.Resolve(world, actions)

		cb := wire.CallbackInput{
			Turn:             uint32(turn),
			Objs:             snapshot,
			Actions:          actions,
			Logs:             logs,
			DebugTables:      debugTables,
			DebugInspections: inspections,
		}
		turns = append(turns, cb)
		if turnCb != nil {
			turnCb(cb)
		}
	}

	if len(fatalErrors) > 0 {
		errored := make(map[wire.Team]bool, len(fatalErrors))
		for t := range fatalErrors {
			errored[t] = true
		}
		return &wire.MatchOutput{
			Winner: engine.DetermineWinnerWithErrors(teams, world.SurvivorCounts(), errored),
			Errors: fatalErrors,
			Turns:  turns,
		}
	}

	final := wire.CallbackInput{
		Turn:    uint32(cfg.MaxTurn + 1),
		Objs:    world.Snapshot(),
		Actions: map[wire.Id]wire.ValidatedAction{},
	}
	turns = append(turns, final)
	if turnCb != nil {
		turnCb(final)
	}

	return &wire.MatchOutput{
		Winner: world.DetermineWinner(),
		Errors: map[wire.Team]*wire.ProgramError{},
		Turns:  turns,
	}
}

type turnResult struct {
	out *wire.ProgramOutput
	err *wire.ProgramError
}

// dispatchTurn fans out to every live runner concurrently and joins on
// the full set before returning, per spec §5: "fan out N independent
// tasks, join on a set, then inspect for errors."
func dispatchTurn(ctx context.Context, live map[wire.Team]runner.Runner, state wire.StateView, gridSize int) map[wire.Team]turnResult {
	type entry struct {
		team wire.Team
		res  turnResult
	}
	ch := make(chan entry, len(live))
	var wg sync.WaitGroup

	for team, r := range live {
		wg.Add(1)
		go func(team wire.Team, r runner.Runner) {
			defer wg.Done()
			input := &wire.ProgramInput{State: state, GridSize: gridSize, Team: team}
			out, err := r.Run(ctx, input)
			ch <- entry{team, turnResult{out, err}}
		}(team, r)
	}

	wg.Wait()
	close(ch)

	results := make(map[wire.Team]turnResult, len(live))
	for e := range ch {
		results[e.team] = e.res
	}
	return results
}

func turnErrors(results map[wire.Team]turnResult) map[wire.Team]*wire.ProgramError {
	errs := make(map[wire.Team]*wire.ProgramError)
	for team, res := range results {
		if res.err != nil {
			errs[team] = res.err
		}
	}
	return errs
}

// sanitizeDebugTables enforces the injection guard (spec §4.J.d): a
// team's whole debug_tables payload is dropped if any key is not one of
// that team's own unit ids.
func sanitizeDebugTables(w *engine.World, team wire.Team, tables map[wire.Id]map[string]string) map[wire.Id]map[string]string {
	for id := range tables {
		obj, ok := w.Objs[id]
		if !ok || obj.Kind != wire.KindUnit || obj.Team != team {
			return nil
		}
	}
	return tables
}

func stableTeams(runners map[wire.Team]RunnerResult) []wire.Team {
	teams := make([]wire.Team, 0, len(runners))
	for t := range runners {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i] < teams[j] })
	return teams
}

// closeRunners tears down every live runner regardless of how the match
// ended — a normal finish or a mid-match fatal error both reach this via
// defer. Dropping a runner must terminate any child process and close its
// pipes (spec §5); runners that own no such resource (RunnerFunc, the
// in-process backend) simply don't implement Closer and are skipped.
func closeRunners(live map[wire.Team]runner.Runner) {
	for _, r := range live {
		if c, ok := r.(runner.Closer); ok {
			c.Close()
		}
	}
}

func splitRunners(runners map[wire.Team]RunnerResult) (live map[wire.Team]runner.Runner, errored map[wire.Team]*wire.ProgramError) {
	live = make(map[wire.Team]runner.Runner)
	errored = make(map[wire.Team]*wire.ProgramError)
	for team, r := range runners {
		if r.Err != nil {
			errored[team] = r.Err
			continue
		}
		live[team] = r.Runner
	}
	return live, errored
}

func erroredSet(errored map[wire.Team]*wire.ProgramError) map[wire.Team]bool {
	out := make(map[wire.Team]bool, len(errored))
	for t := range errored {
		out[t] = true
	}
	return out
}

func toErrorMap(errored map[wire.Team]*wire.ProgramError) map[wire.Team]*wire.ProgramError {
	out := make(map[wire.Team]*wire.ProgramError, len(errored))
	for t, e := range errored {
		out[t] = e
	}
	return out
}
