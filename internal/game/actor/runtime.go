package actor

import (
	"context"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"FourEmpires/internal/game/actors"
	"FourEmpires/internal/game/app/port"
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/shared/actor/messages"
	"FourEmpires/modules/kit/errx"
)

const defaultAskTimeout = 3 * time.Second

// Runtime 是对局 actor 体系的同步门面：上层拿它当普通服务用，
// 不感知 PID、邮箱和 Future。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	repo    port.GameRepository
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		repo:    deps.Repo,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		r.root.Stop(r.manager)
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) CreateGame(ctx context.Context, req messages.CreateGame) (*messages.JSONReply, error) {
	return r.ask(ctx, req)
}

func (r *Runtime) SubmitActions(ctx context.Context, req messages.SubmitActions) (*messages.JSONReply, error) {
	return r.ask(ctx, req)
}

func (r *Runtime) GameState(ctx context.Context, req messages.GetGameState) (*messages.JSONReply, error) {
	return r.ask(ctx, req)
}

func (r *Runtime) TurnHistory(ctx context.Context, req messages.GetTurnHistory) (*messages.JSONReply, error) {
	return r.ask(ctx, req)
}

// ListGames 跨对局查询不归单局 actor 管，直接走仓储。
func (r *Runtime) ListGames(ctx context.Context, status entity.GameStatus, limit, offset int) ([]*entity.GameRecord, error) {
	if r == nil || r.repo == nil {
		return nil, errx.ErrUnavailable.WithData("component", "game repository")
	}
	return r.repo.ListGames(ctx, status, limit, offset)
}

func (r *Runtime) ask(ctx context.Context, msg messages.GameMessage) (*messages.JSONReply, error) {
	if r == nil || r.root == nil {
		return nil, errx.ErrUnavailable.WithData("component", "actor runtime")
	}

	future := r.root.RequestFuture(r.manager, msg, r.timeoutFromContext(ctx))
	res, err := future.Result()
	if err != nil {
		return nil, errx.ErrTimeout.WithCause(err).WithData("game_id", msg.TargetGameID())
	}
	reply, ok := res.(*messages.JSONReply)
	if !ok {
		return nil, errx.ErrInternal.WithData("reply_type", "unexpected")
	}
	return reply, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}
