package entity

import (
	"time"

	"FourEmpires/internal/game/entity/domain"
)

type GameStatus string

const (
	StatusCreated GameStatus = "created"
	StatusActive  GameStatus = "active"
	StatusEnded   GameStatus = "ended"
)

type VictoryType string

const (
	VictoryNone       VictoryType = "none"
	VictoryDomination VictoryType = "domination"
	VictoryScore      VictoryType = "score"
)

// GameRecord 游戏的持久化主记录：元信息 + 当前逻辑状态。
type GameRecord struct {
	ID        GameID
	Seed      int64
	Players   []PlayerID
	MaxTurns  int
	MapWidth  int
	MapHeight int

	Status      GameStatus
	Winner      PlayerID
	VictoryType VictoryType

	State *GameState

	CreatedAt time.Time
	UpdatedAt time.Time
	EndedAt   time.Time
}

type SnapshotKind string

const (
	SnapshotInitial  SnapshotKind = "initial"
	SnapshotPeriodic SnapshotKind = "periodic"
	SnapshotFinal    SnapshotKind = "final"
)

// GamePersistSnapshot 回合边界上的全量状态快照，只用于崩溃恢复。
type GamePersistSnapshot struct {
	GameID    GameID
	Turn      int
	State     *GameState
	StateHash string
	Kind      SnapshotKind
	TakenAt   time.Time
}

// BuildPersistSnapshot 以当前状态构造快照。State 为深拷贝，
// 落盘期间继续演进的内存状态不会污染它。
func (s *GameState) BuildPersistSnapshot(gameID GameID, kind SnapshotKind) *GamePersistSnapshot {
	clone := s.Clone()
	return &GamePersistSnapshot{
		GameID:    gameID,
		Turn:      s.Turn,
		State:     clone,
		StateHash: clone.Hash(),
		Kind:      kind,
		TakenAt:   time.Now().UTC(),
	}
}

// TurnRecord 一个已结算回合的落库记录：结果 + 当回合原始提交。
type TurnRecord struct {
	GameID      GameID
	Turn        int
	Result      domain.TurnResult
	RawActions  map[PlayerID][]domain.Action
	CompletedAt time.Time
}

// PlayerActionRecord 玩家单条原始行动日志，提交即追加。
type PlayerActionRecord struct {
	GameID      GameID
	Turn        int
	Player      PlayerID
	Action      domain.Action
	SubmittedAt time.Time
}
