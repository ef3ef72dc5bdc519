package entity

import (
	"fmt"

	"FourEmpires/internal/game/entity/domain"
)

// Resolve 校验并执行一条行动：成功原地修改状态，失败保持状态不变。
// 失败只会以 ActionResult 形式返回，绝不 panic，也不打断同批次后续行动。
// Action 是封闭联合，这里的 type switch 穷举了全部六种。
func Resolve(s *GameState, action domain.Action) domain.ActionResult {
	switch a := action.(type) {
	case domain.MoveAction:
		return resolveMove(s, a)
	case domain.AttackAction:
		return resolveAttack(s, a)
	case domain.FoundCityAction:
		return resolveFoundCity(s, a)
	case domain.TrainUnitAction:
		return resolveTrainUnit(s, a)
	case domain.BuildImprovementAction:
		// 刻意未实现：响亮地失败，让调用方能区分“被拒绝”和“尚未支持”。
		return fail(a, "improvement building not implemented yet")
	case domain.BuildBuildingAction:
		return fail(a, "building construction not implemented yet")
	default:
		return fail(action, "unknown action type: %T", action)
	}
}

func ok(a domain.Action, format string, args ...any) domain.ActionResult {
	return domain.ActionResult{Success: true, Message: fmt.Sprintf(format, args...), Action: a}
}

func fail(a domain.Action, format string, args ...any) domain.ActionResult {
	return domain.ActionResult{Success: false, Message: fmt.Sprintf(format, args...), Action: a}
}

func resolveMove(s *GameState, a domain.MoveAction) domain.ActionResult {
	unit := s.GetUnit(a.UnitID)
	if unit == nil {
		return fail(a, "unit %d not found", a.UnitID)
	}

	distance := unit.Loc.Distance(a.To)
	if distance > unit.MovesLeft {
		return fail(a, "unit %d has %d moves left, need %d", unit.ID, unit.MovesLeft, distance)
	}
	target := s.TileAt(a.To)
	if target == nil {
		return fail(a, "target location %v is invalid", a.To)
	}
	if target.Terrain == domain.TerrainWater {
		return fail(a, "cannot move into water")
	}
	if target.Terrain == domain.TerrainMountain {
		return fail(a, "cannot move into mountains")
	}
	if target.UnitID != 0 && target.UnitID != unit.ID {
		return fail(a, "another unit %d is on target tile", target.UnitID)
	}

	s.MoveUnit(unit, a.To)
	unit.MovesLeft -= distance
	return ok(a, "unit %d moved to %v", unit.ID, a.To)
}

func resolveAttack(s *GameState, a domain.AttackAction) domain.ActionResult {
	attacker := s.GetUnit(a.AttackerID)
	if attacker == nil {
		return fail(a, "attacker %d not found", a.AttackerID)
	}

	switch a.TargetType {
	case domain.TargetUnit:
		return resolveUnitAttack(s, a, attacker)
	case domain.TargetCity:
		return resolveCityAttack(s, a, attacker)
	default:
		return fail(a, "invalid target type: %q", a.TargetType)
	}
}

func resolveUnitAttack(s *GameState, a domain.AttackAction, attacker *Unit) domain.ActionResult {
	target := s.GetUnit(UnitID(a.TargetID))
	if target == nil {
		return fail(a, "target unit %d not found", a.TargetID)
	}
	if !attacker.CanAttack(target.Loc) {
		return fail(a, "unit %d cannot attack unit %d at range", attacker.ID, target.ID)
	}
	if s.DiplomaticState(attacker.Owner, target.Owner) == domain.DiplomacyAlliance {
		return fail(a, "cannot attack allied unit %d", target.ID)
	}

	attackStrength := attacker.Stats().Attack
	defendStrength := target.Stats().Attack
	damage := max(1, attackStrength-defendStrength/2)
	target.HP -= damage
	msg := fmt.Sprintf("unit %d attacks unit %d for %d damage", attacker.ID, target.ID, damage)

	// 幸存且够得着才有反击。
	if target.HP > 0 && target.CanAttack(attacker.Loc) {
		counter := max(1, defendStrength-attackStrength/2)
		attacker.HP -= counter
		msg += fmt.Sprintf(", unit %d counters for %d damage", target.ID, counter)
	}

	if target.HP <= 0 {
		s.RemoveUnit(target.ID)
		msg += fmt.Sprintf(", unit %d destroyed", target.ID)
	}
	if attacker.HP <= 0 {
		s.RemoveUnit(attacker.ID)
		msg += fmt.Sprintf(", unit %d destroyed", attacker.ID)
	}
	return ok(a, "%s", msg)
}

func resolveCityAttack(s *GameState, a domain.AttackAction, attacker *Unit) domain.ActionResult {
	city := s.GetCity(CityID(a.TargetID))
	if city == nil {
		return fail(a, "target city %d not found", a.TargetID)
	}
	if !attacker.CanAttack(city.Loc) {
		return fail(a, "unit %d cannot attack city %d at range", attacker.ID, city.ID)
	}
	if s.DiplomaticState(attacker.Owner, city.Owner) == domain.DiplomacyAlliance {
		return fail(a, "cannot attack allied city %d", city.ID)
	}

	attackStrength := attacker.Stats().Attack
	if attacker.Type == domain.UnitSoldier {
		// 士兵攻城 +25%，向下取整。
		attackStrength = int(float64(attackStrength) * 1.25)
	}
	damage := max(1, attackStrength)
	city.HP -= damage
	msg := fmt.Sprintf("unit %d attacks city %d for %d damage", attacker.ID, city.ID, damage)

	if city.HasWalls() && city.HP > 0 {
		attacker.HP -= domain.WallCounterDamage
		msg += fmt.Sprintf(", city %d counters for %d damage", city.ID, domain.WallCounterDamage)
	}

	if attacker.HP <= 0 {
		s.RemoveUnit(attacker.ID)
		msg += fmt.Sprintf(", unit %d destroyed", attacker.ID)
	}

	// 城池不会消失：打光耐久即易主，留 1 点 HP。
	if city.HP <= 0 {
		city.Owner = attacker.Owner
		city.HP = 1
		msg += fmt.Sprintf(", city %d captured by %s", city.ID, attacker.Owner)
	}
	return ok(a, "%s", msg)
}

func resolveFoundCity(s *GameState, a domain.FoundCityAction) domain.ActionResult {
	worker := s.GetUnit(a.WorkerID)
	if worker == nil {
		return fail(a, "worker %d not found", a.WorkerID)
	}
	if worker.Type != domain.UnitWorker {
		return fail(a, "unit %d is not a worker", worker.ID)
	}

	cost := domain.ResourceBag{Food: domain.FoundCityFoodCost}
	stockpile := s.Stockpile(worker.Owner)
	if !stockpile.CanAfford(cost) {
		return fail(a, "player %s cannot afford city (need %d food)", worker.Owner, domain.FoundCityFoodCost)
	}

	tile := s.TileAt(worker.Loc)
	if tile == nil {
		return fail(a, "invalid location for city")
	}
	if tile.CityID != 0 {
		return fail(a, "city already exists at %v", worker.Loc)
	}
	if !tile.Terrain.Passable() {
		return fail(a, "cannot found city on %s", tile.Terrain)
	}

	city := s.FoundCity(worker.Owner, worker.Loc)
	s.Stockpiles[worker.Owner] = stockpile.Sub(cost)
	s.RemoveUnit(worker.ID) // 建城消耗掉工人
	return ok(a, "city %d founded at %v", city.ID, city.Loc)
}

func resolveTrainUnit(s *GameState, a domain.TrainUnitAction) domain.ActionResult {
	city := s.GetCity(a.CityID)
	if city == nil {
		return fail(a, "city %d not found", a.CityID)
	}
	baseStats, known := domain.StatsOf(a.UnitType)
	if !known {
		return fail(a, "invalid unit type: %q", a.UnitType)
	}

	cost := baseStats.Cost.Scale(city.UnitCostMultiplier())
	stockpile := s.Stockpile(city.Owner)
	if !stockpile.CanAfford(cost) {
		return fail(a, "player %s cannot afford %s", city.Owner, a.UnitType)
	}

	cityTile := s.TileAt(city.Loc)
	if cityTile != nil && cityTile.UnitID != 0 {
		return fail(a, "city %d tile is occupied", city.ID)
	}

	unit := s.SpawnUnit(city.Owner, a.UnitType, city.Loc)
	s.Stockpiles[city.Owner] = stockpile.Sub(cost)
	return ok(a, "unit %d (%s) trained in city %d", unit.ID, a.UnitType, city.ID)
}
