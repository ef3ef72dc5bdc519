package entity

import "FourEmpires/internal/game/entity/domain"

// VisibleTiles 计算玩家的可见坐标集：
// 自己与同盟玩家的单位（按兵种视野）和城池（固定半径 3）的并集。
// 同盟只做成对判断，不做三方传递闭包。
func (s *GameState) VisibleTiles(player PlayerID) map[Coord]bool {
	visible := make(map[Coord]bool)

	addSources := func(owner PlayerID) {
		for _, u := range s.Units {
			if u.Owner != owner {
				continue
			}
			for _, c := range u.Loc.TilesInRange(u.Stats().Sight, s.MapWidth, s.MapHeight) {
				visible[c] = true
			}
		}
		for _, city := range s.Cities {
			if city.Owner != owner {
				continue
			}
			for _, c := range city.Loc.TilesInRange(domain.CitySightRange, s.MapWidth, s.MapHeight) {
				visible[c] = true
			}
		}
	}

	addSources(player)
	for _, other := range s.Players {
		if other == player {
			continue
		}
		if s.DiplomaticState(player, other) == domain.DiplomacyAlliance {
			addSources(other)
		}
	}
	return visible
}

// Redact 返回套了战争迷雾的深拷贝：只保留可见格子及其上的单位与城池。
// player 为空表示观察者/管理视角，返回未裁剪的完整拷贝。
func (s *GameState) Redact(player PlayerID) *GameState {
	redacted := s.Clone()
	if player == "" {
		return redacted
	}

	visible := s.VisibleTiles(player)

	tiles := redacted.Tiles[:0]
	for _, t := range redacted.Tiles {
		if visible[t.Loc] {
			tiles = append(tiles, t)
		}
	}
	redacted.Tiles = tiles

	for id, u := range redacted.Units {
		if !visible[u.Loc] {
			delete(redacted.Units, id)
		}
	}
	for id, c := range redacted.Cities {
		if !visible[c.Loc] {
			delete(redacted.Cities, id)
		}
	}
	return redacted
}
