// Command parkroute finds the best parking slot in a multi-floor garage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/parkroute/internal/algo"
	"github.com/elektrokombinacija/parkroute/internal/config"
	"github.com/elektrokombinacija/parkroute/internal/core"
	"github.com/elektrokombinacija/parkroute/internal/gridio"
	"github.com/elektrokombinacija/parkroute/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	mapsDir := flag.String("maps", cfg.MapsDir, "directory of floor files")
	strategy := flag.String("strategy", cfg.Strategy, "a_star, dijkstra, bfs, greedy_bfs or all")
	category := flag.String("category", strings.ToUpper(string(cfg.Category.Symbol())), "slot category: P, L or D")
	floor := flag.Int("floor", floorFlag(cfg.DesiredFloor), "desired floor, -1 for none")
	preference := flag.String("prefer", "", "weight preset: lobby or car")
	wLobby := flag.Float64("wlobby", cfg.WeightLobby, "weight of the lobby walk")
	wCar := flag.Float64("wcar", cfg.WeightCar, "weight of the drive")
	workers := flag.Int("workers", cfg.Workers, "candidate evaluation workers")
	limit := flag.Int("limit", cfg.CandidateLimit, "evaluate only the N slots nearest the car, 0 for all")
	nearest := flag.Bool("nearest", false, "run a single blind search for the nearest slot")
	verify := flag.Bool("verify", false, "check returned paths step by step")
	showMap := flag.Bool("map", false, "print floors with the chosen paths")
	traceFlag := flag.Bool("trace", false, "print expansions per floor across all searches")
	level := flag.String("log", cfg.LogLevel.String(), "log level")
	flag.Parse()

	log := logger.GetLoggerConfigured(logger.ParseLevel(*level))

	cat, ok := core.ParseCategory(*category)
	if !ok {
		log.Fatal().Str("category", *category).Msg("unknown slot category")
	}
	cfg.MapsDir = *mapsDir
	cfg.Category = cat
	cfg.DesiredFloor = nil
	if *floor >= 0 {
		cfg.DesiredFloor = floor
	}
	cfg.WeightLobby, cfg.WeightCar = *wLobby, *wCar
	if *preference != "" {
		pref, err := algo.ParsePreference(*preference)
		if err != nil {
			log.Fatal().Err(err).Msg("bad options")
		}
		cfg.WeightLobby, cfg.WeightCar = pref.Weights()
	}
	cfg.Workers = *workers
	cfg.CandidateLimit = *limit
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad options")
	}

	g, files, err := gridio.LoadDir(cfg.MapsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load maps")
	}
	log.Info().Str("dir", cfg.MapsDir).Strs("files", files).Int("floors", g.NumFloors()).Msg("maps loaded")

	fmt.Println("=== Parking Slot Search ===")
	fmt.Printf("Category: %v, desired floor: %s, weights lobby=%.1f car=%.1f\n",
		cfg.Category, floorLabel(cfg.DesiredFloor), cfg.WeightLobby, cfg.WeightCar)

	sel := cfg.Selector(log)
	if *traceFlag {
		trace := algo.NewTrace()
		sel.Observer = trace
		defer printTrace(trace, g.NumFloors())
	}

	if strings.EqualFold(*strategy, "all") {
		req, err := cfg.Request(log)
		if err != nil {
			log.Fatal().Err(err).Msg("bad request")
		}
		results, err := sel.CompareStrategies(context.Background(), g, req)
		if err != nil {
			log.Fatal().Err(err).Msg("comparison failed")
		}
		for _, r := range results {
			printSelection(r.Strategy, r.Selection)
			if *verify {
				verifySelection(g, r.Selection, log)
			}
		}
		return
	}

	cfg.Strategy = *strategy
	req, err := cfg.Request(log)
	if err != nil {
		log.Fatal().Err(err).Msg("bad request")
	}

	if *nearest {
		res, warnings, err := sel.NearestSlot(g, req)
		if err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
		for _, w := range warnings {
			fmt.Printf("  warning: %v\n", w)
		}
		if !res.Found() {
			fmt.Printf("\n  %s: no reachable slot (%d expanded)\n", req.Strategy, len(res.VisitedOrder))
			return
		}
		last, _ := res.Path.Last()
		fmt.Printf("\n  %s: nearest slot %v, %d steps, %d expanded\n",
			req.Strategy, last, res.Path.Steps(), len(res.VisitedOrder))
		if *showMap {
			printMap(g, res.Path, nil)
		}
		return
	}

	selection, err := sel.FindBestSlot(context.Background(), g, req)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	printSelection(req.Strategy, selection)
	if *verify {
		verifySelection(g, selection, log)
	}
	if *showMap && selection.Found() {
		printMap(g, selection.Best.CarPath, selection.Best.LobbyPath)
	}
}

func printSelection(strategy algo.Strategy, sel *algo.Selection) {
	d := sel.Diagnostics
	fmt.Printf("\n  %s: ", strategy)
	for _, w := range sel.Warnings {
		fmt.Printf("\n    warning: %v", w)
	}
	if !sel.Found() {
		fmt.Printf("\n    no slot: %v\n", sel.Reason)
		return
	}
	b := sel.Best
	fmt.Printf("\n    Slot=%v, Score=%.1f, Car=%d, Lobby=%s, FloorPenalty=%.0f",
		b.Slot, b.Score, b.CarDistance, lobbyLabel(b), b.FloorPenalty)
	fmt.Printf("\n    Candidates=%d, Expanded=%d, Time=%v\n",
		d.CandidatesEvaluated, d.NodesExpanded, d.Elapsed)
}

func printTrace(t *algo.Trace, floors int) {
	fmt.Printf("\n  Trace: %d expanded, %d paths found, max cost %.0f\n", t.Total(), t.PathsFound(), t.MaxCost())
	for z := 0; z < floors; z++ {
		fmt.Printf("    floor %d: %d\n", z, t.ExpandedOn(z))
	}
}

func verifySelection(g *core.FloorGrid, sel *algo.Selection, log *zerolog.Logger) {
	if !sel.Found() {
		return
	}
	if err := checkSelection(g, sel); err != nil {
		log.Error().Err(err).Stringer("slot", sel.Best.Slot).Msg("path check failed")
		return
	}
	fmt.Println("    verified")
}

// checkSelection validates both returned paths step by step.
func checkSelection(g *core.FloorGrid, sel *algo.Selection) error {
	b := sel.Best
	goal := core.AtPosition(b.Slot)
	if len(b.CarPath) > 0 {
		if err := algo.ValidatePath(g, b.CarPath, b.CarPath[0], goal, core.Vehicle); err != nil {
			return fmt.Errorf("vehicle path: %w", err)
		}
	}
	if len(b.LobbyPath) > 0 {
		if err := algo.ValidatePath(g, b.LobbyPath, b.LobbyPath[0], goal, core.Pedestrian); err != nil {
			return fmt.Errorf("pedestrian path: %w", err)
		}
	}
	return nil
}

// printMap marks the vehicle path with '*' and the walk with '+'.
func printMap(g *core.FloorGrid, carPath, lobbyPath core.Path) {
	floors, err := g.Floors()
	if err != nil {
		fmt.Printf("  cannot render: %v\n", err)
		return
	}
	mark := func(path core.Path, sym core.Cell) {
		for i := 1; i+1 < len(path); i++ {
			p := path[i]
			if floors[p.Floor][p.Row][p.Col].Kind() == core.KindRoad {
				floors[p.Floor][p.Row][p.Col] = sym
			}
		}
	}
	mark(carPath, '*')
	mark(lobbyPath, '+')

	for z, floor := range floors {
		fmt.Printf("\n  Floor %d\n", z)
		for _, row := range floor {
			var sb strings.Builder
			for _, c := range row {
				sb.WriteByte(byte(c))
			}
			fmt.Printf("    %s\n", sb.String())
		}
	}
}

func lobbyLabel(b *core.SlotCandidateScore) string {
	if !b.LobbyReachable {
		return "unreachable"
	}
	return fmt.Sprintf("%d", b.LobbyPath.Steps())
}

func floorLabel(f *int) string {
	if f == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *f)
}

func floorFlag(f *int) int {
	if f == nil {
		return -1
	}
	return *f
}
