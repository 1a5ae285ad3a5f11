package algo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/elektrokombinacija/parkroute/internal/core"
	"github.com/elektrokombinacija/parkroute/internal/logger"
)

const (
	// FloorPenaltyWeight is the score added per floor away from the desired floor.
	FloorPenaltyWeight = 1000
	// DefaultUnreachableLobbyPenalty stands in for the lobby distance when no
	// lobby on the slot's floor reaches it.
	DefaultUnreachableLobbyPenalty = 1e6
)

// ErrInvalidRequest marks a slot request that cannot be evaluated.
var ErrInvalidRequest = errors.New("invalid slot request")

// Preference selects a weight preset.
type Preference string

const (
	PreferLobby Preference = "lobby" // Short walk matters more
	PreferCar   Preference = "car"   // Short drive matters more
)

// ParsePreference accepts "lobby" or "car", case-insensitively.
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferLobby, PreferCar:
		return p, nil
	default:
		return "", fmt.Errorf("preference %q, want lobby or car: %w", s, ErrInvalidRequest)
	}
}

// Weights returns (weightLobby, weightCar) for the preference.
func (p Preference) Weights() (lobby, car float64) {
	if p == PreferCar {
		return 1, 2
	}
	return 2, 1
}

// Request describes one slot search.
type Request struct {
	Strategy     Strategy
	Category     core.SlotCategory
	DesiredFloor *int // nil = no preference
	WeightLobby  float64
	WeightCar    float64
}

// Diagnostics carries search metrics for one FindBestSlot call.
type Diagnostics struct {
	RunID               string
	Strategy            string
	VisitedCar          []core.Pos // Winning candidate's vehicle search
	VisitedLobby        []core.Pos // Winning candidate's best lobby search
	NodesExpanded       int        // Across every search run
	CandidatesEvaluated int
	Elapsed             time.Duration
}

// Selection is the outcome of FindBestSlot. Best is nil when no slot was
// found; Reason then says why. Not finding a slot is a normal outcome.
type Selection struct {
	Best        *core.SlotCandidateScore
	Reason      error
	Warnings    []error
	Diagnostics Diagnostics
}

// Found reports whether a slot was selected.
func (s *Selection) Found() bool {
	return s.Best != nil
}

// Selector scores every candidate slot and picks the minimum.
type Selector struct {
	Workers                 int // >1 evaluates candidates concurrently
	MaxExpansions           int // Per search; 0 = unbounded
	CandidateLimit          int // Keep only the N slots nearest the car; 0 = all
	UnreachableLobbyPenalty float64
	ExcludeUnreachableLobby bool
	Observer                Observer // Receives events from every search; must be concurrency-safe when Workers > 1
	Log                     *zerolog.Logger
}

// NewSelector creates a sequential selector with default policy.
func NewSelector() *Selector {
	return &Selector{
		Workers:                 1,
		UnreachableLobbyPenalty: DefaultUnreachableLobbyPenalty,
		Log:                     logger.GetLogger(),
	}
}

// candidateOutcome is the independent result of evaluating one slot.
type candidateOutcome struct {
	score        *core.SlotCandidateScore
	visitedCar   []core.Pos
	visitedLobby []core.Pos
	expanded     int
	exhausted    bool
	warnings     []error
}

// FindBestSlot runs a vehicle search from the car start and a pedestrian
// search from each lobby on the slot's floor for every candidate slot, and
// returns the one with the lowest weighted score. Ties go to the earliest
// slot in scan order.
func (s *Selector) FindBestSlot(ctx context.Context, g *core.FloorGrid, req Request) (*Selection, error) {
	if req.WeightLobby < 0 || req.WeightCar < 0 {
		return nil, fmt.Errorf("weights lobby=%v car=%v must be non-negative: %w",
			req.WeightLobby, req.WeightCar, ErrInvalidRequest)
	}
	if req.Strategy.priority == nil {
		req.Strategy = AStar
	}

	started := time.Now()
	runID := uuid.NewString()
	log := s.logger().With().
		Str("run", runID[:8]).
		Str("strategy", req.Strategy.Name()).
		Str("category", req.Category.String()).
		Logger()

	sel := &Selection{}
	sel.Diagnostics.RunID = runID
	sel.Diagnostics.Strategy = req.Strategy.Label()
	defer func() { sel.Diagnostics.Elapsed = time.Since(started) }()

	cars := g.PositionsOfKind(core.KindCarStart)
	if len(cars) == 0 {
		sel.Reason = fmt.Errorf("no car start: %w", core.ErrMissingSymbol)
		log.Info().Err(sel.Reason).Msg("no slot selected")
		return sel, nil
	}
	car := cars[0]

	slots := g.PositionsOfSlot(req.Category)
	if len(slots) == 0 {
		sel.Reason = fmt.Errorf("no %v slot: %w", req.Category, core.ErrMissingSymbol)
		log.Info().Err(sel.Reason).Msg("no slot selected")
		return sel, nil
	}

	if req.DesiredFloor != nil && !hasSlotOnFloor(slots, *req.DesiredFloor) {
		w := fmt.Errorf("floor %d, searching all floors: %w", *req.DesiredFloor, core.ErrDesiredFloorEmpty)
		sel.Warnings = append(sel.Warnings, w)
		log.Warn().Int("desired_floor", *req.DesiredFloor).Msg("desired floor has no matching slot, widening search")
	}

	candidates := s.limitCandidates(car, slots)
	lobbies := lobbiesByFloor(g)

	outcomes, err := s.evaluateAll(ctx, g, req, car, candidates, lobbies, log)
	if err != nil {
		return nil, err
	}

	bestIdx := -1
	exhausted := false
	for i, o := range outcomes {
		sel.Diagnostics.NodesExpanded += o.expanded
		sel.Warnings = append(sel.Warnings, o.warnings...)
		exhausted = exhausted || o.exhausted
		if o.score == nil {
			continue
		}
		sel.Diagnostics.CandidatesEvaluated++
		if bestIdx < 0 || o.score.Score < outcomes[bestIdx].score.Score {
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		if exhausted {
			sel.Reason = fmt.Errorf("no slot within expansion budget: %w", core.ErrSearchExhausted)
		} else {
			sel.Reason = fmt.Errorf("%d candidates: %w", len(candidates), core.ErrNoReachableSlot)
		}
		log.Info().Err(sel.Reason).Msg("no slot selected")
		return sel, nil
	}

	best := outcomes[bestIdx]
	sel.Best = best.score
	sel.Diagnostics.VisitedCar = best.visitedCar
	sel.Diagnostics.VisitedLobby = best.visitedLobby
	log.Debug().
		Stringer("slot", best.score.Slot).
		Float64("score", best.score.Score).
		Int("expanded", sel.Diagnostics.NodesExpanded).
		Msg("slot selected")
	return sel, nil
}

func (s *Selector) logger() *zerolog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logger.GetLogger()
}

// evaluateAll scores candidates in order, concurrently when Workers > 1.
// Outcomes are indexed by candidate so the reduction is order-independent.
func (s *Selector) evaluateAll(
	ctx context.Context,
	g *core.FloorGrid,
	req Request,
	car core.Pos,
	candidates []core.Pos,
	lobbies map[int][]core.Pos,
	log zerolog.Logger,
) ([]candidateOutcome, error) {
	outcomes := make([]candidateOutcome, len(candidates))

	if s.Workers <= 1 {
		for i, slot := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = s.evaluate(g, req, car, slot, lobbies[slot.Floor], log)
		}
		return outcomes, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.Workers)
	for i, slot := range candidates {
		i, slot := i, slot
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.evaluate(g, req, car, slot, lobbies[slot.Floor], log)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// evaluate scores a single slot. It reads the grid only.
func (s *Selector) evaluate(
	g *core.FloorGrid,
	req Request,
	car, slot core.Pos,
	lobbies []core.Pos,
	log zerolog.Logger,
) candidateOutcome {
	var out candidateOutcome
	searcher := Searcher{Strategy: req.Strategy, MaxExpansions: s.MaxExpansions, Observer: s.Observer}
	goal := core.AtPosition(slot)

	carRes, err := searcher.Search(g, car, goal, core.Vehicle)
	out.expanded += len(carRes.VisitedOrder)
	if err != nil {
		out.exhausted = errors.Is(err, core.ErrSearchExhausted)
		out.warnings = append(out.warnings, fmt.Errorf("vehicle search to %v: %w", slot, err))
		return out
	}
	if !carRes.Found() {
		log.Debug().Stringer("slot", slot).Msg("slot unreachable by vehicle")
		return out
	}
	out.visitedCar = carRes.VisitedOrder

	var lobbyPath core.Path
	lobbyExhausted := false
	for _, lobby := range lobbies {
		res, err := searcher.Search(g, lobby, goal, core.Pedestrian)
		out.expanded += len(res.VisitedOrder)
		if err != nil {
			lobbyExhausted = lobbyExhausted || errors.Is(err, core.ErrSearchExhausted)
			out.warnings = append(out.warnings, fmt.Errorf("pedestrian search %v to %v: %w", lobby, slot, err))
			continue
		}
		if res.Found() && (lobbyPath == nil || res.Path.Steps() < lobbyPath.Steps()) {
			lobbyPath = res.Path
			out.visitedLobby = res.VisitedOrder
		}
	}

	// A lobby search that gave up proves nothing about reachability.
	if lobbyPath == nil && lobbyExhausted {
		out.exhausted = true
		log.Debug().Stringer("slot", slot).Msg("lobby search exhausted, slot not scored")
		return out
	}

	lobbyDist := float64(lobbyPath.Steps())
	if lobbyPath == nil {
		if s.ExcludeUnreachableLobby {
			log.Debug().Stringer("slot", slot).Msg("slot unreachable from any lobby, excluded")
			return out
		}
		lobbyDist = s.UnreachableLobbyPenalty
		log.Warn().Stringer("slot", slot).Float64("penalty", lobbyDist).
			Msg("slot unreachable from any lobby on its floor, applying penalty")
	}

	floorPenalty := 0.0
	if req.DesiredFloor != nil {
		dz := slot.Floor - *req.DesiredFloor
		if dz < 0 {
			dz = -dz
		}
		floorPenalty = float64(dz * FloorPenaltyWeight)
	}

	carDist := carRes.Path.Steps()
	out.score = &core.SlotCandidateScore{
		Slot:           slot,
		CarPath:        carRes.Path,
		LobbyPath:      lobbyPath,
		LobbyReachable: lobbyPath != nil,
		CarDistance:    carDist,
		LobbyDistance:  lobbyDist,
		FloorPenalty:   floorPenalty,
		Score:          float64(carDist)*req.WeightCar + lobbyDist*req.WeightLobby + floorPenalty,
	}
	return out
}

// limitCandidates keeps the CandidateLimit slots nearest to car by Manhattan
// distance, returned in scan order.
func (s *Selector) limitCandidates(car core.Pos, slots []core.Pos) []core.Pos {
	if s.CandidateLimit <= 0 || len(slots) <= s.CandidateLimit {
		return slots
	}

	idx := make([]int, len(slots))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return core.Manhattan(car, slots[idx[a]]) < core.Manhattan(car, slots[idx[b]])
	})
	idx = idx[:s.CandidateLimit]
	sort.Ints(idx)

	limited := make([]core.Pos, len(idx))
	for i, j := range idx {
		limited[i] = slots[j]
	}
	return limited
}

func lobbiesByFloor(g *core.FloorGrid) map[int][]core.Pos {
	byFloor := make(map[int][]core.Pos)
	for _, p := range g.PositionsOfKind(core.KindLobby) {
		byFloor[p.Floor] = append(byFloor[p.Floor], p)
	}
	return byFloor
}

func hasSlotOnFloor(slots []core.Pos, floor int) bool {
	for _, p := range slots {
		if p.Floor == floor {
			return true
		}
	}
	return false
}
