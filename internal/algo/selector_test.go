package algo

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

func newTestSelector() *Selector {
	nop := zerolog.Nop()
	s := NewSelector()
	s.Log = &nop
	return s
}

func intPtr(v int) *int { return &v }

var garage = [][]string{
	{
		"C...p...U",
		".#.....#.",
		"p..O..p..",
	},
	{
		"p.......E",
		".O.....p.",
	},
}

func TestFindBestSlotStraightRow(t *testing.T) {
	g := createGrid(t, []string{"C.O.p"})

	for _, strategy := range Strategies() {
		t.Run(strategy.Label(), func(t *testing.T) {
			req := Request{Strategy: strategy, Category: core.Normal, WeightLobby: 1, WeightCar: 1}
			sel, err := newTestSelector().FindBestSlot(context.Background(), g, req)
			if err != nil {
				t.Fatal(err)
			}
			if !sel.Found() {
				t.Fatalf("no slot: %v", sel.Reason)
			}
			best := sel.Best
			if best.Slot != (core.Pos{Col: 4}) {
				t.Errorf("slot = %v, want (0,0,4)", best.Slot)
			}
			if len(best.CarPath) != 5 || len(best.LobbyPath) != 3 {
				t.Errorf("car path %d positions, lobby path %d, want 5 and 3",
					len(best.CarPath), len(best.LobbyPath))
			}
			if best.FloorPenalty != 0 || best.Score != 6 {
				t.Errorf("penalty %v score %v, want 0 and 6", best.FloorPenalty, best.Score)
			}
			if len(sel.Diagnostics.VisitedCar) == 0 || len(sel.Diagnostics.VisitedLobby) == 0 {
				t.Error("missing visited diagnostics")
			}
			if sel.Diagnostics.RunID == "" || sel.Diagnostics.Strategy != strategy.Label() {
				t.Errorf("diagnostics = %+v", sel.Diagnostics)
			}
		})
	}
}

func TestFindBestSlotVerticalConnector(t *testing.T) {
	g := createGrid(t, []string{"C.U#"}, []string{"pOE."})
	req := Request{Strategy: AStar, Category: core.Normal, DesiredFloor: intPtr(1), WeightLobby: 1, WeightCar: 1}

	sel, err := newTestSelector().FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatalf("no slot: %v / %v", err, sel)
	}
	best := sel.Best
	if best.Slot.Floor != 1 {
		t.Errorf("slot floor = %d, want 1", best.Slot.Floor)
	}
	if best.CarPath.VerticalSteps() != 1 {
		t.Errorf("car path has %d vertical steps, want 1", best.CarPath.VerticalSteps())
	}
	for i := 1; i < len(best.CarPath); i++ {
		if best.CarPath[i].Floor != best.CarPath[i-1].Floor && best.CarPath[i-1] != (core.Pos{Col: 2}) {
			t.Errorf("vertical step from %v, want the connector (0,0,2)", best.CarPath[i-1])
		}
	}
	if best.Score != 6 {
		t.Errorf("score = %v, want 6", best.Score)
	}
	if err := ValidatePath(g, best.CarPath, core.Pos{}, core.AtPosition(best.Slot), core.Vehicle); err != nil {
		t.Error(err)
	}
	if err := ValidatePath(g, best.LobbyPath, core.Pos{Floor: 1, Col: 1}, core.AtPosition(best.Slot), core.Pedestrian); err != nil {
		t.Error(err)
	}
}

func TestFindBestSlotDesiredFloorEmpty(t *testing.T) {
	g := createGrid(t, []string{"C.pO"}, []string{"...."})
	req := Request{Strategy: BFS, Category: core.Normal, DesiredFloor: intPtr(1), WeightLobby: 1, WeightCar: 1}

	sel, err := newTestSelector().FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatalf("expected a slot on another floor: %v / %v", err, sel)
	}
	if sel.Best.Slot != (core.Pos{Col: 2}) {
		t.Errorf("slot = %v, want (0,0,2)", sel.Best.Slot)
	}
	if sel.Best.FloorPenalty != 1000 || sel.Best.Score != 1003 {
		t.Errorf("penalty %v score %v, want 1000 and 1003", sel.Best.FloorPenalty, sel.Best.Score)
	}
	if len(sel.Warnings) != 1 || !errors.Is(sel.Warnings[0], core.ErrDesiredFloorEmpty) {
		t.Errorf("warnings = %v, want ErrDesiredFloorEmpty", sel.Warnings)
	}
}

func TestFindBestSlotMissingSymbol(t *testing.T) {
	tests := []struct {
		name     string
		floor    []string
		category core.SlotCategory
	}{
		{"no car start", []string{"..O.p"}, core.Normal},
		{"no slot of category", []string{"C.O.p"}, core.Ladies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := createGrid(t, tt.floor)
			req := Request{Strategy: AStar, Category: tt.category, WeightLobby: 1, WeightCar: 1}
			sel, err := newTestSelector().FindBestSlot(context.Background(), g, req)
			if err != nil {
				t.Fatalf("missing symbol must not be a fault: %v", err)
			}
			if sel.Found() || !errors.Is(sel.Reason, core.ErrMissingSymbol) {
				t.Errorf("got best=%v reason=%v, want ErrMissingSymbol", sel.Best, sel.Reason)
			}
		})
	}
}

func TestFindBestSlotNoReachableSlot(t *testing.T) {
	g := createGrid(t, []string{"C<<pO"})
	req := Request{Strategy: Dijkstra, Category: core.Normal, WeightLobby: 1, WeightCar: 1}

	sel, err := newTestSelector().FindBestSlot(context.Background(), g, req)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Found() || !errors.Is(sel.Reason, core.ErrNoReachableSlot) {
		t.Errorf("got best=%v reason=%v, want ErrNoReachableSlot", sel.Best, sel.Reason)
	}
}

func TestFindBestSlotUnreachableLobby(t *testing.T) {
	g := createGrid(t, []string{"C.p"})
	req := Request{Strategy: AStar, Category: core.Normal, WeightLobby: 1, WeightCar: 1}

	s := newTestSelector()
	sel, err := s.FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatalf("sentinel policy should keep the slot: %v / %v", err, sel)
	}
	if sel.Best.LobbyReachable || sel.Best.LobbyPath != nil {
		t.Error("lobby should be unreachable")
	}
	if sel.Best.Score != 2+DefaultUnreachableLobbyPenalty {
		t.Errorf("score = %v, want %v", sel.Best.Score, 2+DefaultUnreachableLobbyPenalty)
	}

	s.ExcludeUnreachableLobby = true
	sel, err = s.FindBestSlot(context.Background(), g, req)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Found() || !errors.Is(sel.Reason, core.ErrNoReachableSlot) {
		t.Errorf("exclusion policy: best=%v reason=%v", sel.Best, sel.Reason)
	}
}

func TestFindBestSlotTieGoesToScanOrder(t *testing.T) {
	g := createGrid(t, []string{"pO.C.Op"})
	req := Request{Strategy: BFS, Category: core.Normal, WeightLobby: 1, WeightCar: 1}

	sel, err := newTestSelector().FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatalf("no slot: %v", err)
	}
	if sel.Best.Slot != (core.Pos{}) || sel.Best.Score != 4 {
		t.Errorf("slot %v score %v, want (0,0,0) and 4", sel.Best.Slot, sel.Best.Score)
	}
	if sel.Diagnostics.CandidatesEvaluated != 2 {
		t.Errorf("evaluated %d candidates, want 2", sel.Diagnostics.CandidatesEvaluated)
	}
}

func TestFindBestSlotPreference(t *testing.T) {
	g := createGrid(t, []string{"p.C....Op"})

	wl, wc := PreferLobby.Weights()
	sel, err := newTestSelector().FindBestSlot(context.Background(), g,
		Request{Strategy: AStar, Category: core.Normal, WeightLobby: wl, WeightCar: wc})
	if err != nil || !sel.Found() {
		t.Fatal(err)
	}
	if sel.Best.Slot != (core.Pos{Col: 8}) || sel.Best.Score != 8 {
		t.Errorf("lobby preference: slot %v score %v", sel.Best.Slot, sel.Best.Score)
	}

	wl, wc = PreferCar.Weights()
	sel, err = newTestSelector().FindBestSlot(context.Background(), g,
		Request{Strategy: AStar, Category: core.Normal, WeightLobby: wl, WeightCar: wc})
	if err != nil || !sel.Found() {
		t.Fatal(err)
	}
	if sel.Best.Slot != (core.Pos{}) || sel.Best.Score != 11 {
		t.Errorf("car preference: slot %v score %v", sel.Best.Slot, sel.Best.Score)
	}
}

func TestFindBestSlotCandidateLimit(t *testing.T) {
	g := createGrid(t, []string{"C.p....Op", "........."})
	req := Request{Strategy: AStar, Category: core.Normal, WeightLobby: 5, WeightCar: 1}

	s := newTestSelector()
	sel, err := s.FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatal(err)
	}
	if sel.Best.Slot != (core.Pos{Col: 8}) || sel.Best.Score != 15 {
		t.Errorf("unlimited: slot %v score %v, want (0,0,8) and 15", sel.Best.Slot, sel.Best.Score)
	}

	s.CandidateLimit = 1
	sel, err = s.FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatal(err)
	}
	if sel.Best.Slot != (core.Pos{Col: 2}) || sel.Best.Score != 27 {
		t.Errorf("limited: slot %v score %v, want (0,0,2) and 27", sel.Best.Slot, sel.Best.Score)
	}
	if sel.Diagnostics.CandidatesEvaluated != 1 {
		t.Errorf("evaluated %d candidates, want 1", sel.Diagnostics.CandidatesEvaluated)
	}
}

func TestFindBestSlotParallelMatchesSequential(t *testing.T) {
	g := createGrid(t, garage...)

	for _, strategy := range Strategies() {
		for _, desired := range []*int{nil, intPtr(1)} {
			req := Request{Strategy: strategy, Category: core.Normal, DesiredFloor: desired, WeightLobby: 1, WeightCar: 1}

			seq := newTestSelector()
			want, err := seq.FindBestSlot(context.Background(), g, req)
			if err != nil || !want.Found() {
				t.Fatalf("%s sequential: %v", strategy, err)
			}

			par := newTestSelector()
			par.Workers = 4
			got, err := par.FindBestSlot(context.Background(), g, req)
			if err != nil || !got.Found() {
				t.Fatalf("%s parallel: %v", strategy, err)
			}

			if !reflect.DeepEqual(want.Best, got.Best) {
				t.Errorf("%s: parallel best %+v != sequential %+v", strategy, got.Best, want.Best)
			}
			if want.Diagnostics.NodesExpanded != got.Diagnostics.NodesExpanded {
				t.Errorf("%s: expanded %d != %d", strategy,
					got.Diagnostics.NodesExpanded, want.Diagnostics.NodesExpanded)
			}
			if desired != nil && got.Best.Slot.Floor != 1 {
				t.Errorf("%s: slot floor %d, want 1", strategy, got.Best.Slot.Floor)
			}
		}
	}
}

func TestFindBestSlotInvalidRequest(t *testing.T) {
	g := createGrid(t, []string{"C.O.p"})
	req := Request{Strategy: AStar, Category: core.Normal, WeightLobby: -1, WeightCar: 1}
	if _, err := newTestSelector().FindBestSlot(context.Background(), g, req); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestFindBestSlotCanceled(t *testing.T) {
	g := createGrid(t, garage...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{Strategy: AStar, Category: core.Normal, WeightLobby: 1, WeightCar: 1}
	for _, workers := range []int{1, 4} {
		s := newTestSelector()
		s.Workers = workers
		if _, err := s.FindBestSlot(ctx, g, req); !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestFindBestSlotExhausted(t *testing.T) {
	g := createGrid(t, garage...)
	s := newTestSelector()
	s.MaxExpansions = 1

	req := Request{Strategy: AStar, Category: core.Normal, WeightLobby: 1, WeightCar: 1}
	sel, err := s.FindBestSlot(context.Background(), g, req)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Found() || !errors.Is(sel.Reason, core.ErrSearchExhausted) {
		t.Errorf("got best=%v reason=%v, want ErrSearchExhausted", sel.Best, sel.Reason)
	}
	if errors.Is(sel.Reason, core.ErrNoReachableSlot) {
		t.Error("exhaustion must not be reported as unreachable")
	}
}

func TestCompareStrategies(t *testing.T) {
	g := createGrid(t, []string{"C.O.p"})
	req := Request{Category: core.Normal, WeightLobby: 1, WeightCar: 1}

	results, err := newTestSelector().CompareStrategies(context.Background(), g, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if !r.Selection.Found() || r.Selection.Best.Score != 6 {
			t.Errorf("%s: %+v", r.Strategy, r.Selection.Best)
		}
	}
}

func TestNearestSlot(t *testing.T) {
	g := createGrid(t,
		[]string{"C.pU", "...."},
		[]string{"p..E"},
	)
	s := newTestSelector()

	res, warnings, err := s.NearestSlot(g, Request{Strategy: BFS, Category: core.Normal, DesiredFloor: intPtr(1)})
	if err != nil || len(warnings) != 0 {
		t.Fatalf("err=%v warnings=%v", err, warnings)
	}
	if last, _ := res.Path.Last(); last.Floor != 1 {
		t.Errorf("nearest slot on floor %d, want 1", last.Floor)
	}

	res, warnings, err = s.NearestSlot(g, Request{Strategy: BFS, Category: core.Normal, DesiredFloor: intPtr(5)})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || !errors.Is(warnings[0], core.ErrDesiredFloorEmpty) {
		t.Errorf("warnings = %v, want ErrDesiredFloorEmpty", warnings)
	}
	if last, _ := res.Path.Last(); last != (core.Pos{Col: 2}) {
		t.Errorf("widened search found %v, want (0,0,2)", last)
	}

	if _, _, err := s.NearestSlot(g, Request{Category: core.Ladies}); !errors.Is(err, core.ErrMissingSymbol) {
		t.Errorf("expected ErrMissingSymbol, got %v", err)
	}
}

func TestFindBestSlotSharedTrace(t *testing.T) {
	g := createGrid(t, garage...)
	s := newTestSelector()
	s.Workers = 4
	s.Observer = NewTrace()

	req := Request{Strategy: Dijkstra, Category: core.Normal, WeightLobby: 1, WeightCar: 1}
	sel, err := s.FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatal(err)
	}
	trace := s.Observer.(*Trace)
	if trace.Total() != sel.Diagnostics.NodesExpanded {
		t.Errorf("trace saw %d expansions, diagnostics report %d", trace.Total(), sel.Diagnostics.NodesExpanded)
	}
}

func TestFindBestSlotLobbySearchExhausted(t *testing.T) {
	g := createGrid(t, []string{"C.p....O"})
	req := Request{Strategy: AStar, Category: core.Normal, WeightLobby: 1, WeightCar: 1}

	s := newTestSelector()
	sel, err := s.FindBestSlot(context.Background(), g, req)
	if err != nil || !sel.Found() {
		t.Fatalf("unbounded search should find the slot: %v / %v", err, sel)
	}
	if !sel.Best.LobbyReachable || sel.Best.Score != 7 {
		t.Fatalf("unbounded: reachable=%v score=%v, want true and 7", sel.Best.LobbyReachable, sel.Best.Score)
	}

	for _, exclude := range []bool{false, true} {
		s := newTestSelector()
		s.MaxExpansions = 4
		s.ExcludeUnreachableLobby = exclude

		sel, err := s.FindBestSlot(context.Background(), g, req)
		if err != nil {
			t.Fatal(err)
		}
		if sel.Found() {
			t.Errorf("exclude=%v: lobby search gave up but slot was scored: %+v", exclude, sel.Best)
		}
		if !errors.Is(sel.Reason, core.ErrSearchExhausted) {
			t.Errorf("exclude=%v: reason = %v, want ErrSearchExhausted", exclude, sel.Reason)
		}
		exhaustedWarning := false
		for _, w := range sel.Warnings {
			exhaustedWarning = exhaustedWarning || errors.Is(w, core.ErrSearchExhausted)
		}
		if !exhaustedWarning {
			t.Errorf("exclude=%v: missing exhaustion warning in %v", exclude, sel.Warnings)
		}
	}
}

func TestParsePreference(t *testing.T) {
	tests := []struct {
		in      string
		want    Preference
		wantErr bool
	}{
		{"lobby", PreferLobby, false},
		{" Car ", PreferCar, false},
		{"foo", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePreference(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("ParsePreference(%q): expected ErrInvalidRequest, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePreference(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
