package model

import (
	"time"

	"FourEmpires/internal/game/entity"
)

// mongo 文档。GameState 自带 bson 标签，直接内嵌；
// 含行动接口的部分（回合结果/原始提交）以 JSON 字符串落库。

type GameDoc struct {
	ID        string   `bson:"_id"`
	Seed      int64    `bson:"seed"`
	Players   []string `bson:"players"`
	MaxTurns  int      `bson:"max_turns"`
	MapWidth  int      `bson:"map_width"`
	MapHeight int      `bson:"map_height"`

	Status      string `bson:"status"`
	Winner      string `bson:"winner,omitempty"`
	VictoryType string `bson:"victory_type,omitempty"`

	State *entity.GameState `bson:"state"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	EndedAt   time.Time `bson:"ended_at,omitempty"`
}

type TurnDoc struct {
	GameID         string    `bson:"game_id"`
	Turn           int       `bson:"turn"`
	ResultJSON     string    `bson:"result_json"`
	RawActionsJSON string    `bson:"raw_actions_json"`
	CompletedAt    time.Time `bson:"completed_at"`
}

type ActionLogDoc struct {
	GameID      string    `bson:"game_id"`
	Turn        int       `bson:"turn"`
	Player      string    `bson:"player"`
	ActionJSON  string    `bson:"action_json"`
	SubmittedAt time.Time `bson:"submitted_at"`
}

type SnapshotDoc struct {
	GameID    string            `bson:"game_id"`
	Turn      int               `bson:"turn"`
	Kind      string            `bson:"kind"`
	State     *entity.GameState `bson:"state"`
	StateHash string            `bson:"state_hash"`
	TakenAt   time.Time         `bson:"taken_at"`
}

func GameRecordToDoc(rec *entity.GameRecord) GameDoc {
	players := make([]string, 0, len(rec.Players))
	for _, p := range rec.Players {
		players = append(players, string(p))
	}
	return GameDoc{
		ID:          string(rec.ID),
		Seed:        rec.Seed,
		Players:     players,
		MaxTurns:    rec.MaxTurns,
		MapWidth:    rec.MapWidth,
		MapHeight:   rec.MapHeight,
		Status:      string(rec.Status),
		Winner:      string(rec.Winner),
		VictoryType: string(rec.VictoryType),
		State:       rec.State,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		EndedAt:     rec.EndedAt,
	}
}

func GameDocToRecord(doc GameDoc) *entity.GameRecord {
	players := make([]entity.PlayerID, 0, len(doc.Players))
	for _, p := range doc.Players {
		players = append(players, entity.PlayerID(p))
	}
	return &entity.GameRecord{
		ID:          entity.GameID(doc.ID),
		Seed:        doc.Seed,
		Players:     players,
		MaxTurns:    doc.MaxTurns,
		MapWidth:    doc.MapWidth,
		MapHeight:   doc.MapHeight,
		Status:      entity.GameStatus(doc.Status),
		Winner:      entity.PlayerID(doc.Winner),
		VictoryType: entity.VictoryType(doc.VictoryType),
		State:       doc.State,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		EndedAt:     doc.EndedAt,
	}
}

func TurnRecordToDoc(rec *entity.TurnRecord) (TurnDoc, error) {
	resultJSON, err := MarshalTurnResult(rec.Result)
	if err != nil {
		return TurnDoc{}, err
	}
	rawJSON, err := MarshalRawActions(rec.RawActions)
	if err != nil {
		return TurnDoc{}, err
	}
	return TurnDoc{
		GameID:         string(rec.GameID),
		Turn:           rec.Turn,
		ResultJSON:     resultJSON,
		RawActionsJSON: rawJSON,
		CompletedAt:    rec.CompletedAt,
	}, nil
}

func TurnDocToRecord(doc TurnDoc) (*entity.TurnRecord, error) {
	result, err := UnmarshalTurnResult(doc.ResultJSON)
	if err != nil {
		return nil, err
	}
	raw, err := UnmarshalRawActions(doc.RawActionsJSON)
	if err != nil {
		return nil, err
	}
	return &entity.TurnRecord{
		GameID:      entity.GameID(doc.GameID),
		Turn:        doc.Turn,
		Result:      result,
		RawActions:  raw,
		CompletedAt: doc.CompletedAt,
	}, nil
}

func ActionRecordToDoc(rec *entity.PlayerActionRecord) (ActionLogDoc, error) {
	actionJSON, err := MarshalAction(rec.Action)
	if err != nil {
		return ActionLogDoc{}, err
	}
	return ActionLogDoc{
		GameID:      string(rec.GameID),
		Turn:        rec.Turn,
		Player:      string(rec.Player),
		ActionJSON:  actionJSON,
		SubmittedAt: rec.SubmittedAt,
	}, nil
}

func SnapshotToDoc(s *entity.GamePersistSnapshot) SnapshotDoc {
	return SnapshotDoc{
		GameID:    string(s.GameID),
		Turn:      s.Turn,
		Kind:      string(s.Kind),
		State:     s.State,
		StateHash: s.StateHash,
		TakenAt:   s.TakenAt,
	}
}

func SnapshotDocToEntity(doc SnapshotDoc) *entity.GamePersistSnapshot {
	return &entity.GamePersistSnapshot{
		GameID:    entity.GameID(doc.GameID),
		Turn:      doc.Turn,
		State:     doc.State,
		StateHash: doc.StateHash,
		Kind:      entity.SnapshotKind(doc.Kind),
		TakenAt:   doc.TakenAt,
	}
}
