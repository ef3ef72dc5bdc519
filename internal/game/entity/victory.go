package entity

// Score 回合上限终局的记分：城 5 分、单位 1 分、四类资源合计每 50 点 1 分。
func (s *GameState) Score(player PlayerID) int {
	score := 0
	for _, c := range s.Cities {
		if c.Owner == player {
			score += 5
		}
	}
	for _, u := range s.Units {
		if u.Owner == player {
			score++
		}
	}
	score += s.Stockpiles[player].Total() / 50
	return score
}

// CheckVictory 每回合结算后调用：
//   - 统治胜利：场上有城且城主只剩一位；
//   - 回合上限：按 Score 计分取最高，平分时按玩家列表顺序取先者（显式决定的平局规则）。
func (s *GameState) CheckVictory() (winner PlayerID, victory VictoryType, ended bool) {
	owners := s.PlayersWithCities()
	if len(s.Cities) > 0 && len(owners) <= 1 {
		if len(owners) == 1 {
			winner = owners[0]
		}
		return winner, VictoryDomination, true
	}

	if s.Turn >= s.MaxTurns {
		best := -1
		for _, p := range s.Players {
			if score := s.Score(p); score > best {
				best = score
				winner = p
			}
		}
		return winner, VictoryScore, true
	}

	return "", VictoryNone, false
}
