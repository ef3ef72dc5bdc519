package actors

import (
	"context"
	"errors"

	"github.com/asynkron/protoactor-go/actor"

	"go.uber.org/zap"

	"FourEmpires/internal/game/app/port"
	"FourEmpires/internal/game/dc"
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
	"FourEmpires/internal/game/service"
	"FourEmpires/internal/shared/actor/messages"
	"FourEmpires/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
)

// GameActor 承载一局游戏的全部内存状态。所有写路径都经过它的邮箱，
// 回合屏障（全员提交才结算）因此不需要额外的锁。
type GameActor struct {
	state    State
	gameID   GameID
	repo     port.GameRepository
	dc       *dc.GameDC
	sink     port.BroadcastSink
	logger   logx.Logger
	defaults service.Config

	rec *entity.GameRecord
	// pending 本回合各玩家已提交未结算的行动；重复提交覆盖。
	pending    map[entity.PlayerID][]domain.Action
	dispatcher *Dispatcher
}

func NewGameActor(gameID GameID, deps Deps) *GameActor {
	sink := deps.Sink
	if sink == nil {
		sink = port.NopSink{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = logx.NewZapLogger(nil)
	}
	return &GameActor{
		state:      None,
		gameID:     gameID,
		repo:       deps.Repo,
		dc:         dc.NewGameDC(deps.Repo, deps.Defaults.SnapshotEvery),
		sink:       sink,
		logger:     logger,
		defaults:   deps.Defaults,
		pending:    make(map[entity.PlayerID][]domain.Action),
		dispatcher: NewDispatcher(),
	}
}

func (p *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.load(ctx)
		return
	case *actor.Stopping:
		p.state = Offline
		return
	case *actor.Stopped:
		p.state = Offline
		return
	case *actor.Restarting:
		// 重启后下一条消息前重新从库里加载，内存态不可信。
		p.state = Init
		p.rec = nil
		p.pending = make(map[entity.PlayerID][]domain.Action)
		p.load(ctx)
		return
	case messages.GameMessage:
		if p.state != Init && p.state != Online {
			ctx.Respond(fail(string(service.CodeUnavailable), "game actor not ready"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

// load 启动/重启时从持久层恢复。没有记录不是错误：这局可能正等待 CreateGame。
func (p *GameActor) load(ctx actor.Context) {
	rec, err := p.dc.Load(context.TODO(), p.gameID)
	if err != nil {
		if errors.Is(err, entity.ErrGameNotFound) {
			return
		}
		p.reportSys("game.load", err)
		p.state = Offline
		ctx.Stop(ctx.Self())
		return
	}
	p.rec = rec
	p.state = Online
}

// reportSys 技术错误统一走 logx 的 sys 通道，带错误码与因果链。
func (p *GameActor) reportSys(action string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("game_id", string(p.gameID)))
	logx.ReportSysErrorWithLoggerContext(context.TODO(), p.logger, logx.NewSysLog(action, err), fields...)
}

func (p *GameActor) GameID() GameID {
	return p.gameID
}

func (p *GameActor) Record() *entity.GameRecord {
	return p.rec
}

func (p *GameActor) DC() *dc.GameDC {
	return p.dc
}
