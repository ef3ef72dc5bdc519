package entity

import "FourEmpires/internal/game/entity/domain"

// ResetUnitMoves 回合开始时把所有单位行动力恢复到兵种基础值。
func (s *GameState) ResetUnitMoves() {
	for _, u := range s.Units {
		u.MovesLeft = u.Stats().Moves
	}
}

// CollectResources 回合结束结算产出：
// 每座城按粮仓倍率产粮（向下取整）；带匹配改良设施的资源格给格主加成。
func (s *GameState) CollectResources() {
	for _, city := range s.Cities {
		food := int(1 * city.FoodMultiplier())
		bag := s.Stockpiles[city.Owner]
		bag.Food += food
		s.Stockpiles[city.Owner] = bag
	}

	for _, tile := range s.Tiles {
		if tile.Improvement == "" || tile.Owner == "" {
			continue
		}
		var yield domain.ResourceBag
		switch {
		case tile.Improvement == domain.ImprovementFarm && tile.Resource == domain.ResourceFood:
			yield.Food = 2
		case tile.Improvement == domain.ImprovementMine && tile.Resource == domain.ResourceOre:
			yield.Ore = 2
		case tile.Improvement == domain.ImprovementCrystalExtractor && tile.Resource == domain.ResourceCrystal:
			yield.Crystal = 1
		}
		if !yield.IsZero() {
			s.Stockpiles[tile.Owner] = s.Stockpiles[tile.Owner].Add(yield)
		}
	}
}

// ResolveTurn 结算一个完整回合：
//  1. 恢复行动力；
//  2. 严格按 Players 列表顺序（而不是 map 迭代顺序）逐玩家、按提交顺序逐条结算，
//     没提交的玩家视作“过”，得到空结果列表；
//  3. 回合末资源结算；
//  4. 回合数 +1；
//  5. 返回携带结算前回合号与新状态哈希的 TurnResult。
//
// 相同输入必然产生相同的结果序列与哈希。
func (s *GameState) ResolveTurn(playerActions map[PlayerID][]domain.Action) domain.TurnResult {
	s.ResetUnitMoves()

	results := make(map[PlayerID][]domain.ActionResult, len(s.Players))
	for _, player := range s.Players {
		actions := playerActions[player]
		playerResults := make([]domain.ActionResult, 0, len(actions))
		for _, action := range actions {
			playerResults = append(playerResults, Resolve(s, action))
		}
		results[player] = playerResults
	}

	s.CollectResources()

	resolvedTurn := s.Turn
	s.Turn++

	return domain.TurnResult{
		Turn:          resolvedTurn,
		PlayerActions: results,
		StateHash:     s.Hash(),
	}
}
