package port

import (
	"context"

	"FourEmpires/internal/game/entity"
)

// GameRepository 游戏持久层契约。找不到对应记录时返回
// entity.ErrGameNotFound / entity.ErrSnapshotNotFound，不吞错。
type GameRepository interface {
	// CreateGame 新建主记录；game_id 已存在时返回 entity.ErrGameExists。
	CreateGame(ctx context.Context, record *entity.GameRecord) error
	GetGame(ctx context.Context, id entity.GameID) (*entity.GameRecord, error)
	ListGames(ctx context.Context, status entity.GameStatus, limit, offset int) ([]*entity.GameRecord, error)

	// ReplaceState 整体替换游戏的当前逻辑状态。
	ReplaceState(ctx context.Context, id entity.GameID, state *entity.GameState) error

	// AppendTurn / AppendPlayerActions 追加不可变历史，永不回改。
	AppendTurn(ctx context.Context, record *entity.TurnRecord) error
	AppendPlayerActions(ctx context.Context, records []*entity.PlayerActionRecord) error
	TurnHistory(ctx context.Context, id entity.GameID) ([]*entity.TurnRecord, error)

	// SaveSnapshot 按 (game_id, turn) 写快照；LatestSnapshot 按回合号取最新。
	SaveSnapshot(ctx context.Context, snapshot *entity.GamePersistSnapshot) error
	LatestSnapshot(ctx context.Context, id entity.GameID) (*entity.GamePersistSnapshot, error)

	MarkEnded(ctx context.Context, id entity.GameID, winner entity.PlayerID, victory entity.VictoryType) error
}
