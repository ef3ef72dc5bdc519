package actor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"FourEmpires/internal/game/actors"
	"FourEmpires/internal/game/app/port"
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
	"FourEmpires/internal/game/infra/persistence/memory"
	"FourEmpires/internal/game/service"
	"FourEmpires/internal/shared/actor/messages"
	"FourEmpires/modules/kit/logx"
)

// recordingSink 串行记录广播事件，验证结算路径的事件顺序。
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) TurnStart(gameID entity.GameID, turn int) {
	s.record(fmt.Sprintf("turn_start:%d", turn))
}

func (s *recordingSink) TurnEnd(gameID entity.GameID, turn int) {
	s.record(fmt.Sprintf("turn_end:%d", turn))
}

func (s *recordingSink) PlayerAction(gameID entity.GameID, player entity.PlayerID, action domain.Action) {
	s.record(fmt.Sprintf("action:%s:%s", player, action.Kind()))
}

func (s *recordingSink) record(ev string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func newTestRuntime(t *testing.T, sink *recordingSink) *Runtime {
	t.Helper()
	deps := actors.Deps{
		Repo:     memory.NewGameRepository(),
		Defaults: service.Config{MapWidth: 10, MapHeight: 10, MaxTurns: 100, SnapshotEvery: 10},
	}
	if sink != nil {
		deps.Sink = sink
	}
	rt := NewRuntime(deps, 0)
	t.Cleanup(rt.Shutdown)
	return rt
}

func mustPayload[T any](t *testing.T, reply *messages.JSONReply) T {
	t.Helper()
	if !reply.Result.Ok {
		t.Fatalf("reply not ok: code=%s message=%s", reply.Result.Code, reply.Result.Message)
	}
	var out T
	if err := json.Unmarshal([]byte(reply.PayloadJSON), &out); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return out
}

func createGame(t *testing.T, rt *Runtime, gameID string, players ...string) actors.GameSummary {
	t.Helper()
	reply, err := rt.CreateGame(context.Background(), messages.CreateGame{
		GameBaseMessage: messages.GameBaseMessage{GameId: gameID},
		Players:         players,
		Seed:            42,
	})
	if err != nil {
		t.Fatal(err)
	}
	return mustPayload[actors.GameSummary](t, reply)
}

func TestCreateGameAndDuplicate(t *testing.T) {
	rt := newTestRuntime(t, nil)

	summary := createGame(t, rt, "g1", "p1", "p2")
	if summary.GameID != "g1" || summary.Turn != 0 || summary.Status != string(entity.StatusCreated) {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Players) != 2 || summary.StateHash == "" {
		t.Fatalf("summary players/hash: %+v", summary)
	}

	reply, err := rt.CreateGame(context.Background(), messages.CreateGame{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Players:         []string{"p1", "p2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Result.Ok || reply.Result.Code != string(service.CodeGameExists) {
		t.Fatalf("duplicate create reply = %+v", reply.Result)
	}
}

func TestCreateGameDeterministicSetup(t *testing.T) {
	rt := newTestRuntime(t, nil)

	// 同一 seed 的两局初始状态逐位一致。
	first := createGame(t, rt, "g1", "p1", "p2")
	second := createGame(t, rt, "g2", "p1", "p2")
	if first.StateHash != second.StateHash {
		t.Fatalf("same-seed hashes differ: %s vs %s", first.StateHash, second.StateHash)
	}

	stateReply, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	view := mustPayload[actors.StateView](t, stateReply)

	want := domain.ResourceBag{Food: 50, Wood: 20, Ore: 10}
	for _, p := range view.State.Players {
		if bag := view.State.Stockpiles[p]; bag != want {
			t.Fatalf("player %s starting stockpile = %+v", p, bag)
		}
	}

	// 每人一个初始工人，出生点间距达标。
	workers := make(map[entity.PlayerID]entity.Coord, 2)
	for _, u := range view.State.Units {
		if u.Type != domain.UnitWorker {
			t.Fatalf("starting unit type = %s", u.Type)
		}
		workers[u.Owner] = u.Loc
	}
	if len(workers) != 2 {
		t.Fatalf("starting workers for %d players, want 2", len(workers))
	}
	if d := workers["p1"].Distance(workers["p2"]); d < 5 {
		t.Fatalf("starting workers %d apart, want >= 5", d)
	}

	// 没有城就没有产出：空过一回合后库存不变。
	for _, p := range []string{"p1", "p2"} {
		if _, err := rt.SubmitActions(context.Background(), messages.SubmitActions{
			GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
			Player:          p,
		}); err != nil {
			t.Fatal(err)
		}
	}
	stateReply, err = rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	after := mustPayload[actors.StateView](t, stateReply)
	if after.Summary.Turn != 1 {
		t.Fatalf("turn after barrier = %d, want 1", after.Summary.Turn)
	}
	for _, p := range after.State.Players {
		if bag := after.State.Stockpiles[p]; bag != want {
			t.Fatalf("cityless player %s stockpile drifted to %+v", p, bag)
		}
	}
}

func TestSubmitBarrierResolvesWhenAllPlayersIn(t *testing.T) {
	sink := &recordingSink{}
	rt := newTestRuntime(t, sink)
	createGame(t, rt, "g1", "p1", "p2")

	// 第一个玩家提交：等人。
	reply, err := rt.SubmitActions(context.Background(), messages.SubmitActions{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Player:          "p1",
	})
	if err != nil {
		t.Fatal(err)
	}
	pending := mustPayload[actors.SubmitPending](t, reply)
	if pending.Status != "waiting" || pending.Turn != 0 || pending.Required != 2 {
		t.Fatalf("pending = %+v", pending)
	}
	if len(pending.Submitted) != 1 || pending.Submitted[0] != "p1" {
		t.Fatalf("submitted = %v", pending.Submitted)
	}

	// 第二个玩家到齐：屏障触发，回合 0 结算。
	reply, err = rt.SubmitActions(context.Background(), messages.SubmitActions{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Player:          "p2",
	})
	if err != nil {
		t.Fatal(err)
	}
	resolved := mustPayload[actors.TurnResolved](t, reply)
	if resolved.Status != "resolved" || resolved.Result.Turn != 0 || resolved.GameEnded {
		t.Fatalf("resolved = %+v", resolved)
	}

	// 状态推进到回合 1。
	stateReply, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	view := mustPayload[actors.StateView](t, stateReply)
	if view.Summary.Turn != 1 || len(view.Submitted) != 0 {
		t.Fatalf("after resolve: turn=%d submitted=%v", view.Summary.Turn, view.Submitted)
	}

	events := sink.snapshot()
	if len(events) != 2 || events[0] != "turn_start:0" || events[1] != "turn_end:0" {
		t.Fatalf("sink events = %v", events)
	}
}

func TestSubmitActionsValidation(t *testing.T) {
	rt := newTestRuntime(t, nil)
	createGame(t, rt, "g1", "p1", "p2")

	// 非对局成员。
	reply, err := rt.SubmitActions(context.Background(), messages.SubmitActions{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Player:          "intruder",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Result.Ok || reply.Result.Code != string(service.CodePlayerNotInGame) {
		t.Fatalf("intruder reply = %+v", reply.Result)
	}

	// 坏批次：未知动作标签。
	reply, err = rt.SubmitActions(context.Background(), messages.SubmitActions{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Player:          "p1",
		Actions:         []map[string]any{{"type": "TELEPORT"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Result.Ok || reply.Result.Code != string(service.CodeBadActionBatch) {
		t.Fatalf("bad batch reply = %+v", reply.Result)
	}
	// 拒绝文案要带上解码细节，方便客户端定位坏动作。
	if !strings.Contains(reply.Result.Message, "TELEPORT") {
		t.Fatalf("bad batch message = %q", reply.Result.Message)
	}

	// 不存在的对局。
	reply, err = rt.SubmitActions(context.Background(), messages.SubmitActions{
		GameBaseMessage: messages.GameBaseMessage{GameId: "nope"},
		Player:          "p1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Result.Ok || reply.Result.Code != string(service.CodeGameNotFound) {
		t.Fatalf("missing game reply = %+v", reply.Result)
	}
}

func TestGameStateRedactsForPlayer(t *testing.T) {
	rt := newTestRuntime(t, nil)
	createGame(t, rt, "g1", "p1", "p2")

	full, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	fullView := mustPayload[actors.StateView](t, full)

	mine, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Player:          "p1",
	})
	if err != nil {
		t.Fatal(err)
	}
	myView := mustPayload[actors.StateView](t, mine)

	if len(myView.State.Tiles) >= len(fullView.State.Tiles) {
		t.Fatalf("player view keeps %d of %d tiles", len(myView.State.Tiles), len(fullView.State.Tiles))
	}
	for _, u := range myView.State.Units {
		if u.Owner == "p1" {
			continue
		}
		// 出生点间距至少 5，超出工人视野 2，对手开局必不可见。
		t.Fatalf("enemy unit %d visible at game start", u.ID)
	}

	reply, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		Player:          "intruder",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Result.Ok || reply.Result.Code != string(service.CodePlayerNotInGame) {
		t.Fatalf("intruder state reply = %+v", reply.Result)
	}
}

func TestEndedGameRejectsSubmissions(t *testing.T) {
	rt := newTestRuntime(t, nil)
	createGame(t, rt, "g1", "p1", "p2")

	// 双方工人建城后互相夺城太慢；直接用回合上限触发终局。
	submit := func(player string, actions []map[string]any) *messages.JSONReply {
		reply, err := rt.SubmitActions(context.Background(), messages.SubmitActions{
			GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
			Player:          player,
			Actions:         actions,
		})
		if err != nil {
			t.Fatal(err)
		}
		return reply
	}

	// p1 建城：一旦城主唯一，统治胜利立即判定。
	stateReply, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	view := mustPayload[actors.StateView](t, stateReply)
	var workerID entity.UnitID
	for _, u := range view.State.Units {
		if u.Owner == "p1" {
			workerID = u.ID
		}
	}

	submit("p1", []map[string]any{{"type": "FOUND_CITY", "worker_id": int(workerID)}})
	reply := submit("p2", nil)
	resolved := mustPayload[actors.TurnResolved](t, reply)
	if !resolved.GameEnded || resolved.Winner != "p1" || resolved.VictoryType != string(entity.VictoryDomination) {
		t.Fatalf("resolved = %+v", resolved)
	}

	reply = submit("p1", nil)
	if reply.Result.Ok || reply.Result.Code != string(service.CodeGameEnded) {
		t.Fatalf("post-game submit reply = %+v", reply.Result)
	}

	// 终局元信息可查。
	afterReply, err := rt.GameState(context.Background(), messages.GetGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	after := mustPayload[actors.StateView](t, afterReply)
	if after.Summary.Status != string(entity.StatusEnded) || after.Summary.Winner != "p1" {
		t.Fatalf("ended summary = %+v", after.Summary)
	}
}

func TestTurnHistory(t *testing.T) {
	rt := newTestRuntime(t, nil)
	createGame(t, rt, "g1", "p1", "p2")

	pass := func(player string) {
		if _, err := rt.SubmitActions(context.Background(), messages.SubmitActions{
			GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
			Player:          player,
		}); err != nil {
			t.Fatal(err)
		}
	}
	for turn := 0; turn < 3; turn++ {
		pass("p1")
		pass("p2")
	}

	reply, err := rt.TurnHistory(context.Background(), messages.GetTurnHistory{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	history := mustPayload[actors.TurnHistoryView](t, reply)
	if len(history.Turns) != 3 {
		t.Fatalf("history length = %d, want 3", len(history.Turns))
	}
	for i, rec := range history.Turns {
		if rec.Turn != i {
			t.Fatalf("history[%d].Turn = %d", i, rec.Turn)
		}
	}

	reply, err = rt.TurnHistory(context.Background(), messages.GetTurnHistory{
		GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
		FromTurn:        1,
		Limit:           1,
	})
	if err != nil {
		t.Fatal(err)
	}
	page := mustPayload[actors.TurnHistoryView](t, reply)
	if len(page.Turns) != 1 || page.Turns[0].Turn != 1 {
		t.Fatalf("paged history = %+v", page.Turns)
	}
}

// capturingLogger 只收集 ERROR 文案，验证 sys 错误上报路径。
type capturingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *capturingLogger) Info(msg string, fields ...zap.Field)  {}
func (l *capturingLogger) Debug(msg string, fields ...zap.Field) {}
func (l *capturingLogger) Warn(msg string, fields ...zap.Field)  {}

func (l *capturingLogger) Error(msg string, fields ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *capturingLogger) WithContext(ctx context.Context) logx.Logger { return l }

func (l *capturingLogger) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

// faultRepo 可开关地让回合落库失败。
type faultRepo struct {
	port.GameRepository
	failTurns bool
}

func (r *faultRepo) AppendTurn(ctx context.Context, record *entity.TurnRecord) error {
	if r.failTurns {
		return errors.New("disk full")
	}
	return r.GameRepository.AppendTurn(ctx, record)
}

func TestPersistFailureReportsAndKeepsBarrier(t *testing.T) {
	logger := &capturingLogger{}
	repo := &faultRepo{GameRepository: memory.NewGameRepository()}
	rt := NewRuntime(actors.Deps{
		Repo:     repo,
		Logger:   logger,
		Defaults: service.Config{MapWidth: 10, MapHeight: 10, MaxTurns: 100, SnapshotEvery: 10},
	}, 0)
	t.Cleanup(rt.Shutdown)

	createGame(t, rt, "g1", "p1", "p2")

	submit := func(player string) *messages.JSONReply {
		reply, err := rt.SubmitActions(context.Background(), messages.SubmitActions{
			GameBaseMessage: messages.GameBaseMessage{GameId: "g1"},
			Player:          player,
		})
		if err != nil {
			t.Fatal(err)
		}
		return reply
	}

	submit("p1")
	repo.failTurns = true
	reply := submit("p2")
	if reply.Result.Ok || reply.Result.Code != string(service.CodeUnavailable) {
		t.Fatalf("persist failure reply = %+v", reply.Result)
	}

	// 落库失败走 logx sys 通道，文案带 action 名。
	var reported bool
	for _, msg := range logger.snapshot() {
		if strings.Contains(msg, "game.turn.persist") {
			reported = true
		}
	}
	if !reported {
		t.Fatalf("sys error not reported, got %v", logger.snapshot())
	}

	// 屏障保留：存储恢复后任一玩家补交即重放同一回合。
	repo.failTurns = false
	resolved := mustPayload[actors.TurnResolved](t, submit("p2"))
	if resolved.Status != "resolved" || resolved.Result.Turn != 0 {
		t.Fatalf("replayed resolve = %+v", resolved)
	}
}

func TestManagerRequiresGameID(t *testing.T) {
	rt := newTestRuntime(t, nil)

	reply, err := rt.GameState(context.Background(), messages.GetGameState{})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Result.Ok || reply.Result.Code != "GAME_ID_REQUIRED" {
		t.Fatalf("empty game id reply = %+v", reply.Result)
	}
}

func TestListGames(t *testing.T) {
	rt := newTestRuntime(t, nil)
	createGame(t, rt, "g1", "p1", "p2")
	createGame(t, rt, "g2", "p1", "p2")

	games, err := rt.ListGames(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("game count = %d, want 2", len(games))
	}
}
