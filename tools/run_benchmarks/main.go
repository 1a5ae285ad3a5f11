// Package main provides the benchmark runner for parking slot search strategies.
// Runs every strategy on each YAML case and collects metrics.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/parkroute/internal/algo"
	"github.com/elektrokombinacija/parkroute/internal/core"
	"github.com/elektrokombinacija/parkroute/internal/gridio"
	"github.com/elektrokombinacija/parkroute/internal/logger"
)

// BenchmarkResult stores results from a single strategy run.
type BenchmarkResult struct {
	RunID         string
	Timestamp     string
	CommitHash    string
	GoVersion     string
	OS            string
	Arch          string
	Case          string
	Floors        int
	Strategy      string
	RuntimeMs     float64
	Success       bool
	Slot          string
	Score         float64
	CarSteps      int
	LobbySteps    int
	NodesExpanded int
	Candidates    int
	Reason        string
}

// StrategyMetrics holds per-strategy aggregated metrics.
type StrategyMetrics struct {
	Name           string
	TotalRuns      int
	Successes      int
	TotalRuntimeMs float64
	TotalScore     float64
	TotalExpanded  int
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// runCase runs one case with one strategy on a sequential selector so
// timings are comparable across strategies.
func runCase(g *core.FloorGrid, c Case, strategy algo.Strategy, sel *algo.Selector, base BenchmarkResult) *BenchmarkResult {
	result := base
	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	result.Case = c.Name
	result.Floors = g.NumFloors()
	result.Strategy = strategy.Label()

	req := c.request()
	req.Strategy = strategy

	startTime := time.Now()
	selection, err := sel.FindBestSlot(context.Background(), g, req)
	result.RuntimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	if err != nil {
		result.Reason = err.Error()
		return &result
	}

	result.NodesExpanded = selection.Diagnostics.NodesExpanded
	result.Candidates = selection.Diagnostics.CandidatesEvaluated
	if !selection.Found() {
		result.Reason = selection.Reason.Error()
		return &result
	}
	best := selection.Best
	result.Success = true
	result.Slot = best.Slot.String()
	result.Score = best.Score
	result.CarSteps = best.CarDistance
	result.LobbySteps = best.LobbyPath.Steps()
	return &result
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"run_id", "timestamp", "commit_hash", "go_version", "os", "arch",
		"case", "floors", "strategy", "runtime_ms", "success", "slot", "score",
		"car_steps", "lobby_steps", "nodes_expanded", "candidates", "reason",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.RunID, r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Case, fmt.Sprintf("%d", r.Floors), r.Strategy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Success),
			r.Slot, fmt.Sprintf("%.1f", r.Score),
			fmt.Sprintf("%d", r.CarSteps), fmt.Sprintf("%d", r.LobbySteps),
			fmt.Sprintf("%d", r.NodesExpanded), fmt.Sprintf("%d", r.Candidates),
			r.Reason,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func summarize(results []*BenchmarkResult) []*StrategyMetrics {
	metrics := make(map[string]*StrategyMetrics)
	for _, r := range results {
		m, ok := metrics[r.Strategy]
		if !ok {
			m = &StrategyMetrics{Name: r.Strategy}
			metrics[r.Strategy] = m
		}
		m.TotalRuns++
		m.TotalExpanded += r.NodesExpanded
		if r.Success {
			m.Successes++
			m.TotalRuntimeMs += r.RuntimeMs
			m.TotalScore += r.Score
		}
	}

	var out []*StrategyMetrics
	for _, m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func printSummary(results []*BenchmarkResult) {
	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-12s %6s %8s %12s %10s %12s\n",
		"Strategy", "Runs", "Success", "Avg Time(ms)", "Avg Score", "Avg Expanded")
	fmt.Println(strings.Repeat("-", 66))

	for _, m := range summarize(results) {
		avgTime, avgScore := 0.0, 0.0
		if m.Successes > 0 {
			avgTime = m.TotalRuntimeMs / float64(m.Successes)
			avgScore = m.TotalScore / float64(m.Successes)
		}
		avgExpanded := float64(m.TotalExpanded) / float64(m.TotalRuns)
		fmt.Printf("%-12s %6d %8d %12.2f %10.1f %12.1f\n",
			m.Name, m.TotalRuns, m.Successes, avgTime, avgScore, avgExpanded)
	}
}

func main() {
	casesFile := flag.String("cases", "tools/run_benchmarks/cases.yaml", "YAML benchmark case file")
	mapsDir := flag.String("maps", "", "Directory of floor files (overrides the case file)")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	strategyFilter := flag.String("strategy", "", "Run only specific strategies (comma-separated)")
	maxExpansions := flag.Int("max-expansions", 0, "Expansion budget per search (0 = unbounded)")
	cpuProfile := flag.String("cpuprofile", "", "Write a CPU profile into this directory")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := logger.GetLoggerConfigured(level)

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.Quiet).Stop()
	}

	cf, err := loadCases(*casesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cases: %v\n", err)
		os.Exit(1)
	}
	dir := cf.Maps
	if *mapsDir != "" {
		dir = *mapsDir
	}

	g, files, err := gridio.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading maps: %v\n", err)
		fmt.Fprintf(os.Stderr, "Generate some first: go run ./tools/gen_grids -output %s\n", dir)
		os.Exit(1)
	}

	strategies := algo.Strategies()
	if *strategyFilter != "" {
		strategies = nil
		for _, name := range strings.Split(*strategyFilter, ",") {
			s, err := algo.StrategyByName(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			strategies = append(strategies, s)
		}
	}

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	sel := algo.NewSelector()
	sel.MaxExpansions = *maxExpansions
	sel.Log = log

	base := BenchmarkResult{
		RunID:      uuid.NewString(),
		CommitHash: getGitCommit(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}

	totalRuns := len(cf.Cases) * len(strategies)
	fmt.Printf("Running benchmarks: %d floors (%d files), %d cases x %d strategies = %d runs\n",
		g.NumFloors(), len(files), len(cf.Cases), len(strategies), totalRuns)

	var results []*BenchmarkResult
	currentRun := 0
	for _, c := range cf.Cases {
		for _, strategy := range strategies {
			currentRun++
			if *verbose {
				fmt.Printf("[%d/%d] %s / %s ... ", currentRun, totalRuns, c.Name, strategy)
			} else {
				fmt.Printf("\r[%d/%d] Running...", currentRun, totalRuns)
			}

			result := runCase(g, c, strategy, sel, base)
			results = append(results, result)

			if *verbose {
				if result.Success {
					fmt.Printf("OK (%.2fms, slot=%s, score=%.1f)\n", result.RuntimeMs, result.Slot, result.Score)
				} else {
					fmt.Printf("NO SLOT (%s)\n", result.Reason)
				}
			}
		}
	}

	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
