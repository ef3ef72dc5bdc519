package entity

import (
	"testing"

	"FourEmpires/internal/game/entity/domain"
)

func TestResolveTurnResetsMovesAndAdvancesTurn(t *testing.T) {
	s := newFlatState(10, 10, "p1")
	scout := s.SpawnUnit("p1", domain.UnitScout, Coord{X: 5, Y: 5})
	scout.MovesLeft = 0

	result := s.ResolveTurn(nil)

	if result.Turn != 0 {
		t.Fatalf("result turn = %d, want 0", result.Turn)
	}
	if s.Turn != 1 {
		t.Fatalf("state turn = %d, want 1", s.Turn)
	}
	if scout.MovesLeft != scout.Stats().Moves {
		t.Fatalf("moves_left = %d, want reset to %d", scout.MovesLeft, scout.Stats().Moves)
	}
	if result.StateHash != s.Hash() {
		t.Fatal("result hash does not match post-turn state")
	}
	if len(result.PlayerActions["p1"]) != 0 {
		t.Fatalf("pass player got %d results", len(result.PlayerActions["p1"]))
	}
}

func TestResolveTurnEmptyTurnYieldsNothingWithoutCities(t *testing.T) {
	s := newFlatState(10, 10, "p1")
	s.Stockpiles["p1"] = domain.ResourceBag{Food: 50}

	s.ResolveTurn(nil)

	if got := s.Stockpiles["p1"]; got != (domain.ResourceBag{Food: 50}) {
		t.Fatalf("stockpile changed without cities: %+v", got)
	}
}

func TestResolveTurnPlayersResolveInListOrder(t *testing.T) {
	// p1、p2 的单位争抢同一个格子。Players 顺序固定，
	// 所以 p1 总是先走成功，p2 总是撞上占格失败。
	s := newFlatState(10, 10, "p1", "p2")
	u1 := s.SpawnUnit("p1", domain.UnitScout, Coord{X: 4, Y: 5})
	u2 := s.SpawnUnit("p2", domain.UnitScout, Coord{X: 6, Y: 5})
	contested := Coord{X: 5, Y: 5}

	result := s.ResolveTurn(map[PlayerID][]domain.Action{
		"p2": {domain.MoveAction{UnitID: u2.ID, To: contested}},
		"p1": {domain.MoveAction{UnitID: u1.ID, To: contested}},
	})

	if !result.PlayerActions["p1"][0].Success {
		t.Fatalf("p1 move failed: %s", result.PlayerActions["p1"][0].Message)
	}
	if result.PlayerActions["p2"][0].Success {
		t.Fatal("p2 move into occupied tile should fail")
	}
	if u1.Loc != contested || u2.Loc == contested {
		t.Fatalf("final positions u1=%v u2=%v", u1.Loc, u2.Loc)
	}
}

func TestCollectResourcesCityFood(t *testing.T) {
	s := newFlatState(10, 10, "p1")
	city := s.FoundCity("p1", Coord{X: 5, Y: 5})

	s.CollectResources()
	if got := s.Stockpiles["p1"].Food; got != 1 {
		t.Fatalf("plain city food = %d, want 1", got)
	}

	// 粮仓 +50%，但 int(1*1.5) 仍然是 1。
	city.Buildings = append(city.Buildings, domain.BuildingGranary)
	s.CollectResources()
	if got := s.Stockpiles["p1"].Food; got != 2 {
		t.Fatalf("granary city food = %d, want 2", got)
	}
}

func TestCollectResourcesImprovementYields(t *testing.T) {
	s := newFlatState(10, 10, "p1")

	farm := s.TileAt(Coord{X: 1, Y: 1})
	farm.Resource = domain.ResourceFood
	farm.Improvement = domain.ImprovementFarm
	farm.Owner = "p1"

	mine := s.TileAt(Coord{X: 2, Y: 1})
	mine.Resource = domain.ResourceOre
	mine.Improvement = domain.ImprovementMine
	mine.Owner = "p1"

	extractor := s.TileAt(Coord{X: 3, Y: 1})
	extractor.Resource = domain.ResourceCrystal
	extractor.Improvement = domain.ImprovementCrystalExtractor
	extractor.Owner = "p1"

	// 改良与资源不匹配：不产出。
	mismatched := s.TileAt(Coord{X: 4, Y: 1})
	mismatched.Resource = domain.ResourceWood
	mismatched.Improvement = domain.ImprovementFarm
	mismatched.Owner = "p1"

	// 无主的改良格：不产出。
	unowned := s.TileAt(Coord{X: 5, Y: 1})
	unowned.Resource = domain.ResourceFood
	unowned.Improvement = domain.ImprovementFarm

	s.CollectResources()

	want := domain.ResourceBag{Food: 2, Ore: 2, Crystal: 1}
	if got := s.Stockpiles["p1"]; got != want {
		t.Fatalf("yields = %+v, want %+v", got, want)
	}
}

func TestResolveTurnIsDeterministic(t *testing.T) {
	build := func() (*GameState, map[PlayerID][]domain.Action) {
		s := newFlatState(10, 10, "p1", "p2")
		u1 := s.SpawnUnit("p1", domain.UnitSoldier, Coord{X: 4, Y: 5})
		u2 := s.SpawnUnit("p2", domain.UnitSoldier, Coord{X: 5, Y: 5})
		s.FoundCity("p1", Coord{X: 1, Y: 1})
		actions := map[PlayerID][]domain.Action{
			"p1": {domain.AttackAction{AttackerID: u1.ID, TargetID: int(u2.ID), TargetType: domain.TargetUnit}},
			"p2": {domain.MoveAction{UnitID: u2.ID, To: Coord{X: 6, Y: 5}}},
		}
		return s, actions
	}

	s1, a1 := build()
	s2, a2 := build()
	r1 := s1.ResolveTurn(a1)
	r2 := s2.ResolveTurn(a2)

	if r1.StateHash != r2.StateHash {
		t.Fatalf("same input produced different hashes: %q vs %q", r1.StateHash, r2.StateHash)
	}
	for p, results := range r1.PlayerActions {
		other := r2.PlayerActions[p]
		if len(results) != len(other) {
			t.Fatalf("player %s result count differs", p)
		}
		for i := range results {
			if results[i].Success != other[i].Success || results[i].Message != other[i].Message {
				t.Fatalf("player %s result %d differs: %+v vs %+v", p, i, results[i], other[i])
			}
		}
	}
}
