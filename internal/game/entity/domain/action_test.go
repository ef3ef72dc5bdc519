package domain

import (
	"encoding/json"
	"testing"
)

func TestDecodeActionAllKinds(t *testing.T) {
	cases := []struct {
		raw  map[string]any
		want Action
	}{
		{
			map[string]any{"type": "MOVE", "unit_id": 3, "to": map[string]any{"x": 4, "y": 5}},
			MoveAction{UnitID: 3, To: Coord{X: 4, Y: 5}},
		},
		{
			map[string]any{"type": "ATTACK", "attacker_id": 1, "target_id": 2, "target_type": "city"},
			AttackAction{AttackerID: 1, TargetID: 2, TargetType: TargetCity},
		},
		{
			map[string]any{"type": "FOUND_CITY", "worker_id": 7},
			FoundCityAction{WorkerID: 7},
		},
		{
			map[string]any{"type": "TRAIN_UNIT", "city_id": 1, "unit_type": "archer"},
			TrainUnitAction{CityID: 1, UnitType: UnitArcher},
		},
		{
			map[string]any{"type": "BUILD_IMPROVEMENT", "worker_id": 2, "improvement": "farm"},
			BuildImprovementAction{WorkerID: 2, Improvement: ImprovementFarm},
		},
		{
			map[string]any{"type": "BUILD_BUILDING", "city_id": 1, "building_type": "walls"},
			BuildBuildingAction{CityID: 1, BuildingType: BuildingWalls},
		},
	}

	for _, tc := range cases {
		got, err := DecodeAction(tc.raw)
		if err != nil {
			t.Fatalf("decode %v: %v", tc.raw["type"], err)
		}
		if got != tc.want {
			t.Fatalf("decode %v = %+v, want %+v", tc.raw["type"], got, tc.want)
		}
	}
}

func TestDecodeActionWeaklyTypedNumbers(t *testing.T) {
	// json.Unmarshal 还原出来的数字是 float64，解码必须容忍。
	var raw map[string]any
	if err := json.Unmarshal([]byte(`{"type":"MOVE","unit_id":3,"to":{"x":4,"y":5}}`), &raw); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeAction(raw)
	if err != nil {
		t.Fatalf("decode json numbers: %v", err)
	}
	if got != (MoveAction{UnitID: 3, To: Coord{X: 4, Y: 5}}) {
		t.Fatalf("decoded %+v", got)
	}
}

func TestDecodeActionUnknownTag(t *testing.T) {
	if _, err := DecodeAction(map[string]any{"type": "TELEPORT"}); err == nil {
		t.Fatal("unknown action tag should error")
	}
	if _, err := DecodeAction(map[string]any{}); err == nil {
		t.Fatal("missing action tag should error")
	}
}

func TestDecodeActionsIndexesErrors(t *testing.T) {
	_, err := DecodeActions([]map[string]any{
		{"type": "FOUND_CITY", "worker_id": 1},
		{"type": "NOPE"},
	})
	if err == nil {
		t.Fatal("bad batch should error")
	}

	actions, err := DecodeActions(nil)
	if err != nil || len(actions) != 0 {
		t.Fatalf("empty batch: actions=%v err=%v", actions, err)
	}
}

func TestEncodeDecodeActionRoundTrip(t *testing.T) {
	original := AttackAction{AttackerID: 9, TargetID: 4, TargetType: TargetUnit}

	raw := EncodeAction(original)
	if raw["type"] != string(ActionAttack) {
		t.Fatalf("encoded type = %v", raw["type"])
	}

	back, err := DecodeAction(raw)
	if err != nil {
		t.Fatalf("round trip decode: %v", err)
	}
	if back != original {
		t.Fatalf("round trip = %+v, want %+v", back, original)
	}
}

func TestActionResultJSONRoundTrip(t *testing.T) {
	original := ActionResult{
		Success: true,
		Message: "unit 3 moved to (4,5)",
		Action:  MoveAction{UnitID: 3, To: Coord{X: 4, Y: 5}},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	var back ActionResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Success != original.Success || back.Message != original.Message {
		t.Fatalf("round trip = %+v", back)
	}
	if back.Action != original.Action {
		t.Fatalf("action round trip = %+v, want %+v", back.Action, original.Action)
	}
}
