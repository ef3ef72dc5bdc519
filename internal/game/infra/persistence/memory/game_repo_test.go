package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
	"FourEmpires/internal/game/service"
)

func newTestRecord(t *testing.T, id entity.GameID) *entity.GameRecord {
	t.Helper()
	rec, err := service.NewGame(service.Config{MapWidth: 10, MapHeight: 10}, id, []entity.PlayerID{"p1", "p2"}, 42)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestCreateAndGetGame(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	rec := newTestRecord(t, "g1")

	if err := repo.CreateGame(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateGame(ctx, rec); !errors.Is(err, entity.ErrGameExists) {
		t.Fatalf("duplicate create err = %v, want ErrGameExists", err)
	}

	got, err := repo.GetGame(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "g1" || got.State.Hash() != rec.State.Hash() {
		t.Fatalf("round trip mismatch: id=%s", got.ID)
	}

	if _, err := repo.GetGame(ctx, "missing"); !errors.Is(err, entity.ErrGameNotFound) {
		t.Fatalf("missing game err = %v, want ErrGameNotFound", err)
	}
}

func TestGetGameReturnsIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	rec := newTestRecord(t, "g1")
	if err := repo.CreateGame(ctx, rec); err != nil {
		t.Fatal(err)
	}

	first, _ := repo.GetGame(ctx, "g1")
	first.State.Turn = 99
	first.State.Stockpiles["p1"] = domain.ResourceBag{}

	second, _ := repo.GetGame(ctx, "g1")
	if second.State.Turn == 99 {
		t.Fatal("mutating a returned record leaked into storage")
	}
	if second.State.Stockpiles["p1"].Food != 50 {
		t.Fatal("mutating a returned stockpile leaked into storage")
	}
}

func TestReplaceStateUpdatesStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	rec := newTestRecord(t, "g1")
	if err := repo.CreateGame(ctx, rec); err != nil {
		t.Fatal(err)
	}

	next := rec.State.Clone()
	next.Turn = 5
	if err := repo.ReplaceState(ctx, "g1", next); err != nil {
		t.Fatal(err)
	}

	got, _ := repo.GetGame(ctx, "g1")
	if got.State.Turn != 5 || got.Status != entity.StatusActive {
		t.Fatalf("after replace: turn=%d status=%q", got.State.Turn, got.Status)
	}

	if err := repo.ReplaceState(ctx, "missing", next); !errors.Is(err, entity.ErrGameNotFound) {
		t.Fatalf("replace missing err = %v", err)
	}
}

func TestAppendTurnIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()

	first := &entity.TurnRecord{
		GameID:      "g1",
		Turn:        0,
		Result:      domain.TurnResult{Turn: 0, StateHash: "aaaa"},
		CompletedAt: time.Now().UTC(),
	}
	replay := &entity.TurnRecord{
		GameID: "g1",
		Turn:   0,
		Result: domain.TurnResult{Turn: 0, StateHash: "bbbb"},
	}

	if err := repo.AppendTurn(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendTurn(ctx, replay); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendTurn(ctx, &entity.TurnRecord{GameID: "g1", Turn: 1}); err != nil {
		t.Fatal(err)
	}

	history, err := repo.TurnHistory(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	// 重放不覆盖首次落库的记录。
	if history[0].Result.StateHash != "aaaa" {
		t.Fatalf("replay overwrote turn 0: hash=%q", history[0].Result.StateHash)
	}
	if history[0].Turn != 0 || history[1].Turn != 1 {
		t.Fatalf("history not ordered by turn: %d, %d", history[0].Turn, history[1].Turn)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	rec := newTestRecord(t, "g1")

	if _, err := repo.LatestSnapshot(ctx, "g1"); !errors.Is(err, entity.ErrSnapshotNotFound) {
		t.Fatalf("empty snapshot err = %v, want ErrSnapshotNotFound", err)
	}

	early := rec.State.BuildPersistSnapshot("g1", entity.SnapshotInitial)
	if err := repo.SaveSnapshot(ctx, early); err != nil {
		t.Fatal(err)
	}

	later := rec.State.Clone()
	later.Turn = 10
	if err := repo.SaveSnapshot(ctx, later.BuildPersistSnapshot("g1", entity.SnapshotPeriodic)); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LatestSnapshot(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Turn != 10 || got.Kind != entity.SnapshotPeriodic {
		t.Fatalf("latest snapshot turn=%d kind=%q", got.Turn, got.Kind)
	}
	if got.StateHash != got.State.Hash() {
		t.Fatal("snapshot hash does not match its state")
	}
}

func TestMarkEnded(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	rec := newTestRecord(t, "g1")
	if err := repo.CreateGame(ctx, rec); err != nil {
		t.Fatal(err)
	}

	if err := repo.MarkEnded(ctx, "g1", "p2", entity.VictoryDomination); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetGame(ctx, "g1")
	if got.Status != entity.StatusEnded || got.Winner != "p2" || got.VictoryType != entity.VictoryDomination {
		t.Fatalf("after MarkEnded: status=%q winner=%q victory=%q", got.Status, got.Winner, got.VictoryType)
	}
	if got.EndedAt.IsZero() {
		t.Fatal("EndedAt not set")
	}
}

func TestListGamesFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()

	base := time.Now().UTC()
	for i, id := range []entity.GameID{"g1", "g2", "g3"} {
		rec := newTestRecord(t, id)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.CreateGame(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.MarkEnded(ctx, "g2", "p1", entity.VictoryScore); err != nil {
		t.Fatal(err)
	}

	all, err := repo.ListGames(ctx, "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "g3" {
		t.Fatalf("all games = %d, first = %s (want newest first)", len(all), all[0].ID)
	}

	ended, err := repo.ListGames(ctx, entity.StatusEnded, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ended) != 1 || ended[0].ID != "g2" {
		t.Fatalf("ended filter = %v", ended)
	}

	page, err := repo.ListGames(ctx, "", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].ID != "g2" {
		t.Fatalf("page = %v, want [g2]", page)
	}

	empty, err := repo.ListGames(ctx, "", 10, 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("out of range page = %v err = %v", empty, err)
	}
}
