package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/infra/persistence/model"
	"FourEmpires/internal/shared/utils"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// AutoMigrate 建表。只在启动时调用一次。
func (r *GameRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&model.Game{},
		&model.GameTurn{},
		&model.GameActionLog{},
		&model.GameSnapshot{},
	)
}

func (r *GameRepository) CreateGame(ctx context.Context, rec *entity.GameRecord) error {
	m, err := model.GameRecordToModel(rec)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entity.ErrGameExists
	}
	return err
}

func (r *GameRepository) GetGame(ctx context.Context, id entity.GameID) (*entity.GameRecord, error) {
	var m model.Game
	err := r.db.WithContext(ctx).Where("id = ?", string(id)).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.GameModelToRecord(&m)
}

func (r *GameRepository) ListGames(ctx context.Context, status entity.GameStatus, limit, offset int) ([]*entity.GameRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.Game{}).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []model.Game
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.GameRecord, 0, len(rows))
	for i := range rows {
		rec, err := model.GameModelToRecord(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *GameRepository) ReplaceState(ctx context.Context, id entity.GameID, state *entity.GameState) error {
	m, err := model.GameRecordToModel(&entity.GameRecord{State: state})
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.Game{}).
		Where("id = ?", string(id)).
		Updates(map[string]any{
			"state_json": m.StateJSON,
			"status":     string(entity.StatusActive),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *GameRepository) AppendTurn(ctx context.Context, rec *entity.TurnRecord) error {
	resultJSON, err := model.MarshalTurnResult(rec.Result)
	if err != nil {
		return err
	}
	rawJSON, err := model.MarshalRawActions(rec.RawActions)
	if err != nil {
		return err
	}
	id, err := utils.NextSnowflakeID()
	if err != nil {
		return err
	}
	row := &model.GameTurn{
		ID:             id,
		GameID:         string(rec.GameID),
		Turn:           rec.Turn,
		ResultJSON:     resultJSON,
		RawActionsJSON: rawJSON,
		CompletedAt:    rec.CompletedAt,
	}
	// (game_id, turn) 唯一；崩溃后的回合重放落成幂等写。
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "turn"}},
		DoNothing: true,
	}).Create(row).Error
}

func (r *GameRepository) AppendPlayerActions(ctx context.Context, records []*entity.PlayerActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]*model.GameActionLog, 0, len(records))
	for _, rec := range records {
		actionJSON, err := model.MarshalAction(rec.Action)
		if err != nil {
			return err
		}
		id, err := utils.NextSnowflakeID()
		if err != nil {
			return err
		}
		rows = append(rows, &model.GameActionLog{
			ID:          id,
			GameID:      string(rec.GameID),
			Turn:        rec.Turn,
			Player:      string(rec.Player),
			ActionJSON:  actionJSON,
			SubmittedAt: rec.SubmittedAt,
		})
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *GameRepository) TurnHistory(ctx context.Context, id entity.GameID) ([]*entity.TurnRecord, error) {
	var rows []model.GameTurn
	err := r.db.WithContext(ctx).
		Where("game_id = ?", string(id)).
		Order("turn ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.TurnRecord, 0, len(rows))
	for i := range rows {
		result, err := model.UnmarshalTurnResult(rows[i].ResultJSON)
		if err != nil {
			return nil, err
		}
		raw, err := model.UnmarshalRawActions(rows[i].RawActionsJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.TurnRecord{
			GameID:      entity.GameID(rows[i].GameID),
			Turn:        rows[i].Turn,
			Result:      result,
			RawActions:  raw,
			CompletedAt: rows[i].CompletedAt,
		})
	}
	return out, nil
}

func (r *GameRepository) SaveSnapshot(ctx context.Context, snapshot *entity.GamePersistSnapshot) error {
	if snapshot == nil {
		return nil
	}
	row, err := model.SnapshotToModel(snapshot)
	if err != nil {
		return err
	}
	row.ID, err = utils.NextSnowflakeID()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GameRepository) LatestSnapshot(ctx context.Context, id entity.GameID) (*entity.GamePersistSnapshot, error) {
	var row model.GameSnapshot
	err := r.db.WithContext(ctx).
		Where("game_id = ?", string(id)).
		Order("turn DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.SnapshotModelToEntity(&row)
}

func (r *GameRepository) MarkEnded(ctx context.Context, id entity.GameID, winner entity.PlayerID, victory entity.VictoryType) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Game{}).
		Where("id = ?", string(id)).
		Updates(map[string]any{
			"status":       string(entity.StatusEnded),
			"winner":       string(winner),
			"victory_type": string(victory),
			"updated_at":   now,
			"ended_at":     now,
		}).Error
}
