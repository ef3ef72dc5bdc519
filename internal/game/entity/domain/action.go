package domain

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

type ActionKind string

const (
	ActionMove             ActionKind = "MOVE"
	ActionAttack           ActionKind = "ATTACK"
	ActionFoundCity        ActionKind = "FOUND_CITY"
	ActionTrainUnit        ActionKind = "TRAIN_UNIT"
	ActionBuildImprovement ActionKind = "BUILD_IMPROVEMENT"
	ActionBuildBuilding    ActionKind = "BUILD_BUILDING"
)

// Action 六种行动的封闭联合。外部输入只能经 DecodeAction 进来，
// 结算侧对 Kind 穷举，未知类型只存在于反序列化失败这一条路径。
type Action interface {
	Kind() ActionKind
	sealed()
}

type MoveAction struct {
	UnitID UnitID `json:"unit_id" mapstructure:"unit_id"`
	To     Coord  `json:"to" mapstructure:"to"`
}

func (MoveAction) Kind() ActionKind { return ActionMove }
func (MoveAction) sealed()          {}

const (
	TargetUnit = "unit"
	TargetCity = "city"
)

type AttackAction struct {
	AttackerID UnitID `json:"attacker_id" mapstructure:"attacker_id"`
	TargetID   int    `json:"target_id" mapstructure:"target_id"`
	TargetType string `json:"target_type" mapstructure:"target_type"` // unit | city
}

func (AttackAction) Kind() ActionKind { return ActionAttack }
func (AttackAction) sealed()          {}

type FoundCityAction struct {
	WorkerID UnitID `json:"worker_id" mapstructure:"worker_id"`
}

func (FoundCityAction) Kind() ActionKind { return ActionFoundCity }
func (FoundCityAction) sealed()          {}

type TrainUnitAction struct {
	CityID   CityID   `json:"city_id" mapstructure:"city_id"`
	UnitType UnitType `json:"unit_type" mapstructure:"unit_type"`
}

func (TrainUnitAction) Kind() ActionKind { return ActionTrainUnit }
func (TrainUnitAction) sealed()          {}

type BuildImprovementAction struct {
	WorkerID    UnitID          `json:"worker_id" mapstructure:"worker_id"`
	Improvement ImprovementType `json:"improvement" mapstructure:"improvement"`
}

func (BuildImprovementAction) Kind() ActionKind { return ActionBuildImprovement }
func (BuildImprovementAction) sealed()          {}

type BuildBuildingAction struct {
	CityID       CityID       `json:"city_id" mapstructure:"city_id"`
	BuildingType BuildingType `json:"building_type" mapstructure:"building_type"`
}

func (BuildBuildingAction) Kind() ActionKind { return ActionBuildBuilding }
func (BuildBuildingAction) sealed()          {}

// DecodeAction 把带 type 标签的原始记录还原成具体行动。
// 未知标签返回错误而不是落进结算层。
func DecodeAction(raw map[string]any) (Action, error) {
	tag, _ := raw["type"].(string)
	switch ActionKind(tag) {
	case ActionMove:
		return decodeInto[MoveAction](raw)
	case ActionAttack:
		return decodeInto[AttackAction](raw)
	case ActionFoundCity:
		return decodeInto[FoundCityAction](raw)
	case ActionTrainUnit:
		return decodeInto[TrainUnitAction](raw)
	case ActionBuildImprovement:
		return decodeInto[BuildImprovementAction](raw)
	case ActionBuildBuilding:
		return decodeInto[BuildBuildingAction](raw)
	default:
		return nil, fmt.Errorf("unknown action type: %q", tag)
	}
}

// DecodeActions 按提交顺序整批解码，空批次是合法的“过”。
func DecodeActions(raws []map[string]any) ([]Action, error) {
	actions := make([]Action, 0, len(raws))
	for i, raw := range raws {
		a, err := DecodeAction(raw)
		if err != nil {
			return nil, fmt.Errorf("action[%d]: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// EncodeAction 反向编码成带 type 标签的记录，落库和广播共用。
func EncodeAction(a Action) map[string]any {
	out := map[string]any{}
	if a != nil {
		_ = mapstructure.Decode(a, &out)
		out["type"] = string(a.Kind())
	}
	return out
}

func decodeInto[T Action](raw map[string]any) (Action, error) {
	var a T
	// json.Unmarshal 过来的数字是 float64，放开弱类型转换。
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &a,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return a, nil
}

// ActionResult 单条行动的结算结果，失败不打断批次。
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Action  Action `json:"-"`
}

func (r ActionResult) MarshalJSON() ([]byte, error) {
	type alias struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Action  map[string]any `json:"action"`
	}
	return json.Marshal(alias{
		Success: r.Success,
		Message: r.Message,
		Action:  EncodeAction(r.Action),
	})
}

func (r *ActionResult) UnmarshalJSON(data []byte) error {
	var alias struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Action  map[string]any `json:"action"`
	}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	r.Success = alias.Success
	r.Message = alias.Message
	if len(alias.Action) > 0 {
		a, err := DecodeAction(alias.Action)
		if err != nil {
			return err
		}
		r.Action = a
	}
	return nil
}

// TurnResult 一个已结算回合的不可变记录。Turn 是结算前的回合号。
type TurnResult struct {
	Turn          int                         `json:"turn"`
	PlayerActions map[PlayerID][]ActionResult `json:"player_actions"`
	StateHash     string                      `json:"state_hash"`
}
