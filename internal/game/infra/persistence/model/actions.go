package model

import (
	"encoding/json"

	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
)

// 行动是封闭接口，落库前统一转成带 type 标签的记录再序列化，
// mongo 和 mysql 两条链路共用这组编解码。

func MarshalRawActions(raw map[entity.PlayerID][]domain.Action) (string, error) {
	if raw == nil {
		return "{}", nil
	}
	out := make(map[string][]map[string]any, len(raw))
	for player, actions := range raw {
		encoded := make([]map[string]any, 0, len(actions))
		for _, a := range actions {
			encoded = append(encoded, domain.EncodeAction(a))
		}
		out[string(player)] = encoded
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UnmarshalRawActions(data string) (map[entity.PlayerID][]domain.Action, error) {
	if data == "" {
		return nil, nil
	}
	var decoded map[string][]map[string]any
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		return nil, err
	}
	out := make(map[entity.PlayerID][]domain.Action, len(decoded))
	for player, raws := range decoded {
		actions, err := domain.DecodeActions(raws)
		if err != nil {
			return nil, err
		}
		out[entity.PlayerID(player)] = actions
	}
	return out, nil
}

func MarshalTurnResult(result domain.TurnResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UnmarshalTurnResult(data string) (domain.TurnResult, error) {
	var result domain.TurnResult
	if data == "" {
		return result, nil
	}
	err := json.Unmarshal([]byte(data), &result)
	return result, err
}

func MarshalAction(a domain.Action) (string, error) {
	data, err := json.Marshal(domain.EncodeAction(a))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UnmarshalAction(data string) (domain.Action, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, err
	}
	return domain.DecodeAction(raw)
}
