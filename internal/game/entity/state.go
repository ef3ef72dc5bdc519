package entity

import (
	"fmt"
	"sort"
	"strings"

	"FourEmpires/internal/game/entity/domain"
)

type GameID string

type PlayerID = domain.PlayerID
type UnitID = domain.UnitID
type CityID = domain.CityID
type Coord = domain.Coord
type Tile = domain.Tile
type Unit = domain.Unit
type City = domain.City
type ResourceBag = domain.ResourceBag

// GameState 单局游戏的聚合根。
// Tile 上的 UnitID/CityID 与 Units/Cities 表互为引用，
// 所有落子/移动/移除必须走下面的辅助方法，禁止散落手工维护。
type GameState struct {
	Turn       int                                `json:"turn" bson:"turn"`
	RngState   int64                              `json:"rng_state" bson:"rng_state"`
	MapWidth   int                                `json:"map_width" bson:"map_width"`
	MapHeight  int                                `json:"map_height" bson:"map_height"`
	Tiles      []*Tile                            `json:"tiles" bson:"tiles"`
	Units      map[UnitID]*Unit                   `json:"units" bson:"units"`
	Cities     map[CityID]*City                   `json:"cities" bson:"cities"`
	Players    []PlayerID                         `json:"players" bson:"players"`
	Diplomacy  map[string]domain.DiplomaticState  `json:"diplomacy" bson:"diplomacy"`
	Stockpiles map[PlayerID]domain.ResourceBag    `json:"stockpiles" bson:"stockpiles"`
	NextUnitID UnitID                             `json:"next_unit_id" bson:"next_unit_id"`
	NextCityID CityID                             `json:"next_city_id" bson:"next_city_id"`
	MaxTurns   int                                `json:"max_turns" bson:"max_turns"`

	tileByLoc map[Coord]*Tile
}

func NewGameState(seed int64, width, height, maxTurns int, players []PlayerID) *GameState {
	return &GameState{
		RngState:   seed,
		MapWidth:   width,
		MapHeight:  height,
		Units:      make(map[UnitID]*Unit),
		Cities:     make(map[CityID]*City),
		Players:    append([]PlayerID(nil), players...),
		Diplomacy:  make(map[string]domain.DiplomaticState),
		Stockpiles: make(map[PlayerID]domain.ResourceBag),
		NextUnitID: 1,
		NextCityID: 1,
		MaxTurns:   maxTurns,
	}
}

// TileAt 按坐标查格子。索引懒构建，反序列化回来第一次访问时重建。
func (s *GameState) TileAt(loc Coord) *Tile {
	if s.tileByLoc == nil {
		s.tileByLoc = make(map[Coord]*Tile, len(s.Tiles))
		for _, t := range s.Tiles {
			s.tileByLoc[t.Loc] = t
		}
	}
	return s.tileByLoc[loc]
}

func (s *GameState) GetUnit(id UnitID) *Unit {
	return s.Units[id]
}

func (s *GameState) GetCity(id CityID) *City {
	return s.Cities[id]
}

func (s *GameState) HasPlayer(p PlayerID) bool {
	for _, id := range s.Players {
		if id == p {
			return true
		}
	}
	return false
}

// diploKey 归一化的无序玩家对，字典序小者在前。
func diploKey(a, b PlayerID) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "|" + string(b)
}

// DiplomaticState 玩家与自己永远视作同盟；未登记的对子默认和平。
func (s *GameState) DiplomaticState(a, b PlayerID) domain.DiplomaticState {
	if a == b {
		return domain.DiplomacyAlliance
	}
	if st, ok := s.Diplomacy[diploKey(a, b)]; ok {
		return st
	}
	return domain.DiplomacyPeace
}

func (s *GameState) SetDiplomacy(a, b PlayerID, st domain.DiplomaticState) {
	if a == b {
		return
	}
	s.Diplomacy[diploKey(a, b)] = st
}

func (s *GameState) Stockpile(p PlayerID) domain.ResourceBag {
	return s.Stockpiles[p]
}

// SpawnUnit 在目标格生成单位并登记双向引用。调用方保证目标格可用。
func (s *GameState) SpawnUnit(owner PlayerID, t domain.UnitType, loc Coord) *Unit {
	stats, _ := domain.StatsOf(t)
	u := &Unit{
		ID:        s.NextUnitID,
		Owner:     owner,
		Type:      t,
		HP:        stats.HP,
		MovesLeft: stats.Moves,
		Loc:       loc,
	}
	s.NextUnitID++
	s.Units[u.ID] = u
	if tile := s.TileAt(loc); tile != nil {
		tile.UnitID = u.ID
	}
	return u
}

// MoveUnit 同步搬迁两侧引用。
func (s *GameState) MoveUnit(u *Unit, to Coord) {
	if old := s.TileAt(u.Loc); old != nil && old.UnitID == u.ID {
		old.UnitID = 0
	}
	if next := s.TileAt(to); next != nil {
		next.UnitID = u.ID
	}
	u.Loc = to
}

// RemoveUnit 从实体表删除并清空所在格引用。
func (s *GameState) RemoveUnit(id UnitID) {
	u, ok := s.Units[id]
	if !ok {
		return
	}
	if tile := s.TileAt(u.Loc); tile != nil && tile.UnitID == id {
		tile.UnitID = 0
	}
	delete(s.Units, id)
}

// FoundCity 建城并标记格子归属。
func (s *GameState) FoundCity(owner PlayerID, loc Coord) *City {
	c := &City{
		ID:    s.NextCityID,
		Owner: owner,
		Loc:   loc,
		HP:    domain.CityBaseHP,
	}
	s.NextCityID++
	s.Cities[c.ID] = c
	if tile := s.TileAt(loc); tile != nil {
		tile.CityID = c.ID
		tile.Owner = owner
	}
	return c
}

// Validate 校验格子与实体表的双向一致性，测试与恢复路径使用。
func (s *GameState) Validate() error {
	for _, t := range s.Tiles {
		if t.UnitID != 0 {
			u, ok := s.Units[t.UnitID]
			if !ok {
				return fmt.Errorf("tile %v references missing unit %d", t.Loc, t.UnitID)
			}
			if u.Loc != t.Loc {
				return fmt.Errorf("unit %d loc %v != tile %v", u.ID, u.Loc, t.Loc)
			}
		}
		if t.CityID != 0 {
			c, ok := s.Cities[t.CityID]
			if !ok {
				return fmt.Errorf("tile %v references missing city %d", t.Loc, t.CityID)
			}
			if c.Loc != t.Loc {
				return fmt.Errorf("city %d loc %v != tile %v", c.ID, c.Loc, t.Loc)
			}
		}
	}
	for _, u := range s.Units {
		tile := s.TileAt(u.Loc)
		if tile == nil || tile.UnitID != u.ID {
			return fmt.Errorf("unit %d not referenced back by tile %v", u.ID, u.Loc)
		}
	}
	for _, c := range s.Cities {
		tile := s.TileAt(c.Loc)
		if tile == nil || tile.CityID != c.ID {
			return fmt.Errorf("city %d not referenced back by tile %v", c.ID, c.Loc)
		}
	}
	return nil
}

// Clone 深拷贝，迷雾裁剪和快照落盘共用。
func (s *GameState) Clone() *GameState {
	next := &GameState{
		Turn:       s.Turn,
		RngState:   s.RngState,
		MapWidth:   s.MapWidth,
		MapHeight:  s.MapHeight,
		Tiles:      make([]*Tile, 0, len(s.Tiles)),
		Units:      make(map[UnitID]*Unit, len(s.Units)),
		Cities:     make(map[CityID]*City, len(s.Cities)),
		Players:    append([]PlayerID(nil), s.Players...),
		Diplomacy:  make(map[string]domain.DiplomaticState, len(s.Diplomacy)),
		Stockpiles: make(map[PlayerID]domain.ResourceBag, len(s.Stockpiles)),
		NextUnitID: s.NextUnitID,
		NextCityID: s.NextCityID,
		MaxTurns:   s.MaxTurns,
	}
	for _, t := range s.Tiles {
		c := *t
		next.Tiles = append(next.Tiles, &c)
	}
	for id, u := range s.Units {
		c := *u
		next.Units[id] = &c
	}
	for id, city := range s.Cities {
		c := *city
		c.Buildings = append([]domain.BuildingType(nil), city.Buildings...)
		if city.BuildQueue != nil {
			bq := *city.BuildQueue
			c.BuildQueue = &bq
		}
		next.Cities[id] = &c
	}
	for k, v := range s.Diplomacy {
		next.Diplomacy[k] = v
	}
	for k, v := range s.Stockpiles {
		next.Stockpiles[k] = v
	}
	return next
}

// PlayersWithCities 城主去重集合，按玩家列表顺序返回。
func (s *GameState) PlayersWithCities() []PlayerID {
	owners := make(map[PlayerID]bool, len(s.Players))
	for _, c := range s.Cities {
		owners[c.Owner] = true
	}
	out := make([]PlayerID, 0, len(owners))
	for _, p := range s.Players {
		if owners[p] {
			out = append(out, p)
		}
	}
	// 城主可能已不在玩家列表里（理论上不会发生），兜底补齐。
	if len(out) != len(owners) {
		extra := make([]string, 0)
		for p := range owners {
			if !s.HasPlayer(p) {
				extra = append(extra, string(p))
			}
		}
		sort.Strings(extra)
		for _, p := range extra {
			out = append(out, PlayerID(p))
		}
	}
	return out
}

func (s *GameState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "turn=%d players=%d units=%d cities=%d", s.Turn, len(s.Players), len(s.Units), len(s.Cities))
	return b.String()
}
