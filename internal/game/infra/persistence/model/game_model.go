package model

import (
	"encoding/json"
	"time"

	"FourEmpires/internal/game/entity"
)

// gorm model。mysql 把状态和历史都存成 JSON 文本列，
// 复杂查询只依赖 game_id / turn / status 这些标量列。

type Game struct {
	ID          string    `gorm:"column:id;type:varchar(64);primaryKey;not null;" json:"id"`
	Seed        int64     `gorm:"column:seed;type:bigint;not null;" json:"seed"`
	PlayersJSON string    `gorm:"column:players_json;type:varchar(1024);not null;" json:"players_json"`
	MaxTurns    int       `gorm:"column:max_turns;type:int;not null;" json:"max_turns"`
	MapWidth    int       `gorm:"column:map_width;type:int;not null;" json:"map_width"`
	MapHeight   int       `gorm:"column:map_height;type:int;not null;" json:"map_height"`
	Status      string    `gorm:"column:status;type:varchar(16);index;not null;" json:"status"`
	Winner      string    `gorm:"column:winner;type:varchar(64);" json:"winner"`
	VictoryType string    `gorm:"column:victory_type;type:varchar(16);" json:"victory_type"`
	StateJSON   string    `gorm:"column:state_json;type:longtext;" json:"state_json"`
	CreatedAt   time.Time `gorm:"column:created_at;type:datetime(3);not null;" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:datetime(3);not null;" json:"updated_at"`
	EndedAt     time.Time `gorm:"column:ended_at;type:datetime(3);" json:"ended_at"`
}

func (m *Game) TableName() string {
	return "game"
}

type GameTurn struct {
	ID             int64     `gorm:"column:id;type:bigint;primaryKey;not null;" json:"id"` // snowflake
	GameID         string    `gorm:"column:game_id;type:varchar(64);uniqueIndex:uk_game_turn;not null;" json:"game_id"`
	Turn           int       `gorm:"column:turn;type:int;uniqueIndex:uk_game_turn;not null;" json:"turn"`
	ResultJSON     string    `gorm:"column:result_json;type:longtext;" json:"result_json"`
	RawActionsJSON string    `gorm:"column:raw_actions_json;type:longtext;" json:"raw_actions_json"`
	CompletedAt    time.Time `gorm:"column:completed_at;type:datetime(3);not null;" json:"completed_at"`
}

func (m *GameTurn) TableName() string {
	return "game_turn"
}

type GameActionLog struct {
	ID          int64     `gorm:"column:id;type:bigint;primaryKey;not null;" json:"id"` // snowflake
	GameID      string    `gorm:"column:game_id;type:varchar(64);index;not null;" json:"game_id"`
	Turn        int       `gorm:"column:turn;type:int;not null;" json:"turn"`
	Player      string    `gorm:"column:player;type:varchar(64);not null;" json:"player"`
	ActionJSON  string    `gorm:"column:action_json;type:text;" json:"action_json"`
	SubmittedAt time.Time `gorm:"column:submitted_at;type:datetime(3);not null;" json:"submitted_at"`
}

func (m *GameActionLog) TableName() string {
	return "game_action_log"
}

type GameSnapshot struct {
	ID        int64     `gorm:"column:id;type:bigint;primaryKey;not null;" json:"id"` // snowflake
	GameID    string    `gorm:"column:game_id;type:varchar(64);index;not null;" json:"game_id"`
	Turn      int       `gorm:"column:turn;type:int;not null;" json:"turn"`
	Kind      string    `gorm:"column:kind;type:varchar(16);not null;" json:"kind"`
	StateJSON string    `gorm:"column:state_json;type:longtext;" json:"state_json"`
	StateHash string    `gorm:"column:state_hash;type:varchar(32);not null;" json:"state_hash"`
	TakenAt   time.Time `gorm:"column:taken_at;type:datetime(3);not null;" json:"taken_at"`
}

func (m *GameSnapshot) TableName() string {
	return "game_snapshot"
}

func GameRecordToModel(rec *entity.GameRecord) (*Game, error) {
	playersJSON, err := json.Marshal(rec.Players)
	if err != nil {
		return nil, err
	}
	var stateJSON []byte
	if rec.State != nil {
		stateJSON, err = json.Marshal(rec.State)
		if err != nil {
			return nil, err
		}
	}
	return &Game{
		ID:          string(rec.ID),
		Seed:        rec.Seed,
		PlayersJSON: string(playersJSON),
		MaxTurns:    rec.MaxTurns,
		MapWidth:    rec.MapWidth,
		MapHeight:   rec.MapHeight,
		Status:      string(rec.Status),
		Winner:      string(rec.Winner),
		VictoryType: string(rec.VictoryType),
		StateJSON:   string(stateJSON),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		EndedAt:     rec.EndedAt,
	}, nil
}

func GameModelToRecord(m *Game) (*entity.GameRecord, error) {
	var players []entity.PlayerID
	if m.PlayersJSON != "" {
		if err := json.Unmarshal([]byte(m.PlayersJSON), &players); err != nil {
			return nil, err
		}
	}
	var state *entity.GameState
	if m.StateJSON != "" {
		state = &entity.GameState{}
		if err := json.Unmarshal([]byte(m.StateJSON), state); err != nil {
			return nil, err
		}
	}
	return &entity.GameRecord{
		ID:          entity.GameID(m.ID),
		Seed:        m.Seed,
		Players:     players,
		MaxTurns:    m.MaxTurns,
		MapWidth:    m.MapWidth,
		MapHeight:   m.MapHeight,
		Status:      entity.GameStatus(m.Status),
		Winner:      entity.PlayerID(m.Winner),
		VictoryType: entity.VictoryType(m.VictoryType),
		State:       state,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		EndedAt:     m.EndedAt,
	}, nil
}

func SnapshotToModel(s *entity.GamePersistSnapshot) (*GameSnapshot, error) {
	stateJSON, err := json.Marshal(s.State)
	if err != nil {
		return nil, err
	}
	return &GameSnapshot{
		GameID:    string(s.GameID),
		Turn:      s.Turn,
		Kind:      string(s.Kind),
		StateJSON: string(stateJSON),
		StateHash: s.StateHash,
		TakenAt:   s.TakenAt,
	}, nil
}

func SnapshotModelToEntity(m *GameSnapshot) (*entity.GamePersistSnapshot, error) {
	var state *entity.GameState
	if m.StateJSON != "" {
		state = &entity.GameState{}
		if err := json.Unmarshal([]byte(m.StateJSON), state); err != nil {
			return nil, err
		}
	}
	return &entity.GamePersistSnapshot{
		GameID:    entity.GameID(m.GameID),
		Turn:      m.Turn,
		State:     state,
		StateHash: m.StateHash,
		Kind:      entity.SnapshotKind(m.Kind),
		TakenAt:   m.TakenAt,
	}, nil
}
