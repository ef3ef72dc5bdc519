package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"FourEmpires/internal/game/app/port"
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/service"
	"FourEmpires/internal/shared/actor/messages"
	"FourEmpires/modules/kit/logx"
)

type GameID = entity.GameID

// Deps 对局 actor 的外部依赖，由进程入口装配。
type Deps struct {
	Repo     port.GameRepository
	Sink     port.BroadcastSink
	Logger   logx.Logger
	Defaults service.Config
}

// ManagerActor 按 GameID 路由：每局一个子 actor，邮箱天然串行化
// 同一对局的创建/提交/查询。
type ManagerActor struct {
	deps       Deps
	gameActors map[GameID]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	if deps.Sink == nil {
		deps.Sink = port.NopSink{}
	}
	return &ManagerActor{
		deps:       deps,
		gameActors: make(map[GameID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	req, ok := ctx.Message().(messages.GameMessage)
	if !ok {
		return
	}
	if req == nil || req.TargetGameID() == "" {
		ctx.Respond(fail("GAME_ID_REQUIRED", "game id is required"))
		return
	}

	ctx.Forward(m.getOrSpawn(ctx, GameID(req.TargetGameID())))
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, gameID GameID) *actor.PID {
	if pid, ok := m.gameActors[gameID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(gameID, m.deps)
	})
	pid := ctx.Spawn(props)
	m.gameActors[gameID] = pid
	return pid
}
