package actors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"FourEmpires/internal/game/dc"
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
	"FourEmpires/internal/game/service"
	"FourEmpires/internal/shared/actor/messages"
	"FourEmpires/modules/kit/errx"
)

type GameHandler struct{}

var GH = &GameHandler{}

// GameSummary 对局元信息视图，建局与状态查询共用。
type GameSummary struct {
	GameID      string   `json:"game_id"`
	Status      string   `json:"status"`
	Turn        int      `json:"turn"`
	Players     []string `json:"players"`
	MapWidth    int      `json:"map_width"`
	MapHeight   int      `json:"map_height"`
	MaxTurns    int      `json:"max_turns"`
	Winner      string   `json:"winner,omitempty"`
	VictoryType string   `json:"victory_type,omitempty"`
	StateHash   string   `json:"state_hash"`
}

// SubmitPending 屏障未满时的应答：谁已交、还差几个。
type SubmitPending struct {
	Status    string   `json:"status"` // waiting
	Turn      int      `json:"turn"`
	Submitted []string `json:"submitted"`
	Required  int      `json:"required"`
}

// TurnResolved 屏障触发、回合结算完成后的应答。
type TurnResolved struct {
	Status      string            `json:"status"` // resolved
	Result      domain.TurnResult `json:"result"`
	GameEnded   bool              `json:"game_ended"`
	Winner      string            `json:"winner,omitempty"`
	VictoryType string            `json:"victory_type,omitempty"`
}

// StateView 状态查询应答。Player 非空时 State 已按视野裁剪。
type StateView struct {
	Summary   GameSummary       `json:"summary"`
	State     *entity.GameState `json:"state"`
	Submitted []string          `json:"submitted"`
}

// TurnHistoryView 回合历史应答。
type TurnHistoryView struct {
	GameID string               `json:"game_id"`
	Turns  []*entity.TurnRecord `json:"turns"`
}

func (h *GameHandler) HandleCreateGame(ctx actor.Context, p *GameActor, req messages.CreateGame) {
	if p.rec != nil {
		ctx.Respond(failErr(service.ErrGameExists))
		return
	}

	players := make([]entity.PlayerID, 0, len(req.Players))
	for _, id := range req.Players {
		players = append(players, entity.PlayerID(id))
	}

	cfg := p.defaults
	if req.MapWidth > 0 {
		cfg.MapWidth = req.MapWidth
	}
	if req.MapHeight > 0 {
		cfg.MapHeight = req.MapHeight
	}
	if req.MaxTurns > 0 {
		cfg.MaxTurns = req.MaxTurns
	}
	if req.SnapshotEvery > 0 {
		cfg.SnapshotEvery = req.SnapshotEvery
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 建局方指定了快照周期则跟着这一局走。
	if cfg.SnapshotEvery != p.dc.SnapshotEvery() {
		p.dc = dc.NewGameDC(p.repo, cfg.SnapshotEvery)
	}

	rec, err := service.NewGame(cfg, p.gameID, players, seed)
	if err != nil {
		ctx.Respond(failErr(err))
		return
	}
	if err := p.dc.CreateGame(context.TODO(), rec); err != nil {
		if errors.Is(err, entity.ErrGameExists) {
			ctx.Respond(failErr(service.ErrGameExists))
			return
		}
		p.reportSys("game.create.persist", err)
		ctx.Respond(fail(string(service.CodeUnavailable), "failed to persist game"))
		return
	}

	p.rec = rec
	p.state = Online
	ctx.Respond(ok(summaryOf(rec)))
}

func (h *GameHandler) HandleSubmitActions(ctx actor.Context, p *GameActor, req messages.SubmitActions) {
	if p.rec == nil || p.rec.State == nil {
		ctx.Respond(failErr(service.ErrGameNotFound))
		return
	}
	if p.rec.Status == entity.StatusEnded {
		ctx.Respond(failErr(service.ErrGameEnded))
		return
	}
	player := entity.PlayerID(req.Player)
	if !slices.Contains(p.rec.Players, player) {
		ctx.Respond(failErr(service.ErrPlayerNotInGame))
		return
	}

	actions, err := domain.DecodeActions(req.Actions)
	if err != nil {
		ctx.Respond(failErr(service.ErrBadActionBatch.WithCause(err)))
		return
	}

	if err := p.dc.AppendPlayerActions(context.TODO(), p.gameID, p.rec.State.Turn, player, actions); err != nil {
		p.reportSys("game.submit.append_actions", err, zap.String("player", string(player)))
		ctx.Respond(fail(string(service.CodeUnavailable), "failed to record actions"))
		return
	}

	// 重复提交覆盖旧批次；屏障在全员到齐那一刻触发。
	p.pending[player] = actions
	if len(p.pending) < len(p.rec.Players) {
		ctx.Respond(ok(SubmitPending{
			Status:    "waiting",
			Turn:      p.rec.State.Turn,
			Submitted: submittedPlayers(p),
			Required:  len(p.rec.Players),
		}))
		return
	}

	h.resolvePendingTurn(ctx, p)
}

// resolvePendingTurn 全员提交后的结算路径。结算在状态副本上进行，
// 落库成功才切换内存态；失败则保留 pending，任一玩家补交即可重触发，
// 结算是确定性的，幂等落库保证重放安全。
func (h *GameHandler) resolvePendingTurn(ctx actor.Context, p *GameActor) {
	turn := p.rec.State.Turn
	p.sink.TurnStart(p.gameID, turn)
	for _, player := range p.rec.State.Players {
		for _, a := range p.pending[player] {
			p.sink.PlayerAction(p.gameID, player, a)
		}
	}

	prev := p.rec.State
	next := prev.Clone()
	result := next.ResolveTurn(p.pending)

	p.rec.State = next
	if err := p.dc.PersistTurn(context.TODO(), p.rec, &result, p.pending); err != nil {
		p.rec.State = prev
		p.reportSys("game.turn.persist", err, zap.Int("turn", turn))
		ctx.Respond(fail(string(service.CodeUnavailable), "failed to persist turn"))
		return
	}

	reply := TurnResolved{
		Status: "resolved",
		Result: result,
	}
	winner, victory, ended := next.CheckVictory()
	if ended {
		if err := p.dc.MarkEnded(context.TODO(), p.rec, winner, victory); err != nil {
			// 回合数据已幂等落库，回滚内存态后重交会重放到同一结果。
			p.rec.State = prev
			p.reportSys("game.turn.mark_ended", err, zap.Int("turn", turn))
			ctx.Respond(fail(string(service.CodeUnavailable), "failed to persist game end"))
			return
		}
		now := time.Now().UTC()
		p.rec.Status = entity.StatusEnded
		p.rec.Winner = winner
		p.rec.VictoryType = victory
		p.rec.EndedAt = now
		p.rec.UpdatedAt = now
		reply.GameEnded = true
		reply.Winner = string(winner)
		reply.VictoryType = string(victory)
	} else {
		p.rec.Status = entity.StatusActive
		p.rec.UpdatedAt = time.Now().UTC()
	}

	p.pending = make(map[entity.PlayerID][]domain.Action)
	p.sink.TurnEnd(p.gameID, turn)
	ctx.Respond(ok(reply))
}

func (h *GameHandler) HandleGetGameState(ctx actor.Context, p *GameActor, req messages.GetGameState) {
	if p.rec == nil || p.rec.State == nil {
		ctx.Respond(failErr(service.ErrGameNotFound))
		return
	}

	player := entity.PlayerID(req.Player)
	if req.Player != "" && !slices.Contains(p.rec.Players, player) {
		ctx.Respond(failErr(service.ErrPlayerNotInGame))
		return
	}

	ctx.Respond(ok(StateView{
		Summary:   summaryOf(p.rec),
		State:     p.rec.State.Redact(player),
		Submitted: submittedPlayers(p),
	}))
}

func (h *GameHandler) HandleGetTurnHistory(ctx actor.Context, p *GameActor, req messages.GetTurnHistory) {
	if p.rec == nil {
		ctx.Respond(failErr(service.ErrGameNotFound))
		return
	}

	records, err := p.dc.TurnHistory(context.TODO(), p.gameID)
	if err != nil {
		p.reportSys("game.turn_history.load", err)
		ctx.Respond(fail(string(service.CodeUnavailable), "failed to load turn history"))
		return
	}

	filtered := make([]*entity.TurnRecord, 0, len(records))
	for _, rec := range records {
		if rec.Turn < req.FromTurn {
			continue
		}
		filtered = append(filtered, rec)
		if req.Limit > 0 && len(filtered) >= req.Limit {
			break
		}
	}

	ctx.Respond(ok(TurnHistoryView{
		GameID: string(p.gameID),
		Turns:  filtered,
	}))
}

func summaryOf(rec *entity.GameRecord) GameSummary {
	players := make([]string, 0, len(rec.Players))
	for _, p := range rec.Players {
		players = append(players, string(p))
	}
	summary := GameSummary{
		GameID:      string(rec.ID),
		Status:      string(rec.Status),
		Players:     players,
		MapWidth:    rec.MapWidth,
		MapHeight:   rec.MapHeight,
		MaxTurns:    rec.MaxTurns,
		Winner:      string(rec.Winner),
		VictoryType: string(rec.VictoryType),
	}
	if rec.State != nil {
		summary.Turn = rec.State.Turn
		summary.StateHash = rec.State.Hash()
	}
	return summary
}

func submittedPlayers(p *GameActor) []string {
	out := make([]string, 0, len(p.pending))
	for _, player := range p.rec.Players {
		if _, submitted := p.pending[player]; submitted {
			out = append(out, string(player))
		}
	}
	return out
}

func ok(payload any) *messages.JSONReply {
	data, err := json.Marshal(payload)
	if err != nil {
		return fail(string(errx.CodeInternal), "failed to encode reply payload")
	}
	return &messages.JSONReply{
		Result:      messages.BizResult{Ok: true},
		PayloadJSON: string(data),
	}
}

func fail(code, message string) *messages.JSONReply {
	return &messages.JSONReply{
		Result: messages.BizResult{
			Ok:      false,
			Code:    code,
			Reason:  code,
			Message: message,
		},
	}
}

// failErr 从 errx 错误提取码与文案；带 cause 时拼接底层细节。
func failErr(err error) *messages.JSONReply {
	var xe *errx.Error
	if errors.As(err, &xe) {
		msg := xe.Msg()
		if cause := xe.Unwrap(); cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, cause)
		}
		return fail(string(xe.Code()), msg)
	}
	return fail(string(errx.CodeInternal), err.Error())
}
