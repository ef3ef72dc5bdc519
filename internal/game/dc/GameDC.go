package dc

import (
	"context"
	"errors"
	"time"

	"FourEmpires/internal/game/app/port"
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
	"FourEmpires/internal/game/errs"
)

type GameID = entity.GameID

const defaultSnapshotEvery = 10

// GameDC 对局持久化控制器：回合结果同步落库后才算结算完成，
// 快照只在回合边界上生成。
type GameDC struct {
	repo          port.GameRepository
	snapshotEvery int
}

func NewGameDC(repo port.GameRepository, snapshotEvery int) *GameDC {
	if snapshotEvery <= 0 {
		snapshotEvery = defaultSnapshotEvery
	}
	return &GameDC{
		repo:          repo,
		snapshotEvery: snapshotEvery,
	}
}

func (d *GameDC) SnapshotEvery() int {
	return d.snapshotEvery
}

// Load 读取对局主记录。主记录缺失或状态损坏时回退到最近快照恢复。
func (d *GameDC) Load(ctx context.Context, id GameID) (*entity.GameRecord, error) {
	if d == nil || d.repo == nil {
		return nil, errors.New("game repository is nil")
	}

	rec, err := d.repo.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrGameNotFound) {
			return nil, err
		}
		return nil, errs.Wrap("dc.game.Load", errs.KindInfra, err, map[string]any{"game_id": id})
	}
	if rec.State != nil {
		if verr := rec.State.Validate(); verr == nil {
			return rec, nil
		}
	}

	// 主记录状态缺失/损坏：用最近快照恢复。
	snap, err := d.repo.LatestSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrSnapshotNotFound) {
			return nil, errs.Wrap("dc.game.Load", errs.KindInfra,
				errors.New("game state corrupted and no snapshot available"),
				map[string]any{"game_id": id})
		}
		return nil, errs.Wrap("dc.game.Load", errs.KindInfra, err, map[string]any{"game_id": id})
	}
	rec.State = snap.State
	return rec, nil
}

// CreateGame 写主记录并落初始快照（turn 0）。
func (d *GameDC) CreateGame(ctx context.Context, rec *entity.GameRecord) error {
	if d == nil || d.repo == nil {
		return errors.New("game repository is nil")
	}
	if err := d.repo.CreateGame(ctx, rec); err != nil {
		if errors.Is(err, entity.ErrGameExists) {
			return err
		}
		return errs.Wrap("dc.game.CreateGame", errs.KindInfra, err, map[string]any{"game_id": rec.ID})
	}
	snap := rec.State.BuildPersistSnapshot(rec.ID, entity.SnapshotInitial)
	if err := d.repo.SaveSnapshot(ctx, snap); err != nil {
		return errs.Wrap("dc.game.CreateGame", errs.KindInfra, err, map[string]any{"game_id": rec.ID})
	}
	return nil
}

// AppendPlayerActions 提交即追加的原始行动日志。
func (d *GameDC) AppendPlayerActions(ctx context.Context, id GameID, turn int, player entity.PlayerID, actions []domain.Action) error {
	if len(actions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	records := make([]*entity.PlayerActionRecord, 0, len(actions))
	for _, a := range actions {
		records = append(records, &entity.PlayerActionRecord{
			GameID:      id,
			Turn:        turn,
			Player:      player,
			Action:      a,
			SubmittedAt: now,
		})
	}
	if err := d.repo.AppendPlayerActions(ctx, records); err != nil {
		return errs.Wrap("dc.game.AppendPlayerActions", errs.KindInfra, err,
			map[string]any{"game_id": id, "player": player})
	}
	return nil
}

// PersistTurn 回合结算后的落库序列：先替换当前状态，再追加回合历史，
// 最后按快照周期落快照。任何一步失败都向上返回，调用方负责回滚内存态。
func (d *GameDC) PersistTurn(ctx context.Context, rec *entity.GameRecord, result *domain.TurnResult, raw map[entity.PlayerID][]domain.Action) error {
	if d == nil || d.repo == nil {
		return errors.New("game repository is nil")
	}

	if err := d.repo.ReplaceState(ctx, rec.ID, rec.State); err != nil {
		return errs.Wrap("dc.game.PersistTurn", errs.KindInfra, err,
			map[string]any{"game_id": rec.ID, "turn": result.Turn})
	}

	turnRec := &entity.TurnRecord{
		GameID:      rec.ID,
		Turn:        result.Turn,
		Result:      *result,
		RawActions:  raw,
		CompletedAt: time.Now().UTC(),
	}
	if err := d.repo.AppendTurn(ctx, turnRec); err != nil {
		return errs.Wrap("dc.game.PersistTurn", errs.KindInfra, err,
			map[string]any{"game_id": rec.ID, "turn": result.Turn})
	}

	if d.snapshotEvery > 0 && rec.State.Turn%d.snapshotEvery == 0 {
		snap := rec.State.BuildPersistSnapshot(rec.ID, entity.SnapshotPeriodic)
		if err := d.repo.SaveSnapshot(ctx, snap); err != nil {
			return errs.Wrap("dc.game.PersistTurn", errs.KindInfra, err,
				map[string]any{"game_id": rec.ID, "turn": result.Turn})
		}
	}
	return nil
}

// MarkEnded 终局：标记胜者并落最终快照。
func (d *GameDC) MarkEnded(ctx context.Context, rec *entity.GameRecord, winner entity.PlayerID, victory entity.VictoryType) error {
	if d == nil || d.repo == nil {
		return errors.New("game repository is nil")
	}
	if err := d.repo.MarkEnded(ctx, rec.ID, winner, victory); err != nil {
		return errs.Wrap("dc.game.MarkEnded", errs.KindInfra, err, map[string]any{"game_id": rec.ID})
	}
	snap := rec.State.BuildPersistSnapshot(rec.ID, entity.SnapshotFinal)
	if err := d.repo.SaveSnapshot(ctx, snap); err != nil {
		return errs.Wrap("dc.game.MarkEnded", errs.KindInfra, err, map[string]any{"game_id": rec.ID})
	}
	return nil
}

func (d *GameDC) TurnHistory(ctx context.Context, id GameID) ([]*entity.TurnRecord, error) {
	if d == nil || d.repo == nil {
		return nil, errors.New("game repository is nil")
	}
	records, err := d.repo.TurnHistory(ctx, id)
	if err != nil {
		return nil, errs.Wrap("dc.game.TurnHistory", errs.KindInfra, err, map[string]any{"game_id": id})
	}
	return records, nil
}
