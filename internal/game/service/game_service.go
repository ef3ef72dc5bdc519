package service

import (
	"math/rand"
	"time"

	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
)

const (
	MinPlayers = 2
	MaxPlayers = 8

	// startSpacing 初始工人之间要求的最小曼哈顿间距。
	startSpacing = 5
	// startPlacementAttempts 随机选点尝试上限，用完落到“第一块可用地”。
	startPlacementAttempts = 100
)

// Config 单局规则参数，零值回退到默认。
type Config struct {
	MapWidth      int
	MapHeight     int
	MaxTurns      int
	SnapshotEvery int
}

func (c Config) WithDefaults() Config {
	if c.MapWidth <= 0 {
		c.MapWidth = 20
	}
	if c.MapHeight <= 0 {
		c.MapHeight = 20
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = 100
	}
	if c.SnapshotEvery <= 0 {
		c.SnapshotEvery = 10
	}
	return c
}

// startingStockpile 开局库存。
func startingStockpile() domain.ResourceBag {
	return domain.ResourceBag{Food: 50, Wood: 20, Ore: 10}
}

// NewGame 构建一局新游戏：生成地图、开局库存、逐玩家放置初始工人。
// 纯内存计算，完全由 (players, seed, cfg) 决定；持久化由调用方负责。
func NewGame(cfg Config, id entity.GameID, players []entity.PlayerID, seed int64) (*entity.GameRecord, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, ErrPlayerCount.WithData("players", len(players))
	}
	cfg = cfg.WithDefaults()

	state := entity.NewGameState(seed, cfg.MapWidth, cfg.MapHeight, cfg.MaxTurns, players)
	state.Tiles = entity.GenerateMap(cfg.MapWidth, cfg.MapHeight, seed)

	for _, p := range players {
		state.Stockpiles[p] = startingStockpile()
	}

	rng := rand.New(rand.NewSource(seed))
	for _, p := range players {
		placeStartingWorker(state, p, rng)
	}

	now := time.Now().UTC()
	return &entity.GameRecord{
		ID:        id,
		Seed:      seed,
		Players:   append([]entity.PlayerID(nil), players...),
		MaxTurns:  cfg.MaxTurns,
		MapWidth:  cfg.MapWidth,
		MapHeight: cfg.MapHeight,
		Status:    entity.StatusCreated,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// placeStartingWorker 随机挑一块离其他出生点至少 startSpacing 的平原/森林；
// 尝试用尽后退回“第一块没被占的平原/森林”。
func placeStartingWorker(state *entity.GameState, player entity.PlayerID, rng *rand.Rand) {
	for attempt := 0; attempt < startPlacementAttempts; attempt++ {
		loc := entity.Coord{
			X: randBetween(rng, 2, state.MapWidth-3),
			Y: randBetween(rng, 2, state.MapHeight-3),
		}
		tile := state.TileAt(loc)
		if tile == nil || !tile.Terrain.Passable() || tile.UnitID != 0 {
			continue
		}
		if tooCloseToStart(state, loc) {
			continue
		}
		state.SpawnUnit(player, domain.UnitWorker, loc)
		return
	}

	for _, tile := range state.Tiles {
		if tile.Terrain.Passable() && tile.UnitID == 0 {
			state.SpawnUnit(player, domain.UnitWorker, tile.Loc)
			return
		}
	}
	// 整张地图都不可用只会出现在病态参数下；保持无工人而不是 panic。
}

func tooCloseToStart(state *entity.GameState, loc entity.Coord) bool {
	for _, u := range state.Units {
		if loc.Distance(u.Loc) < startSpacing {
			return true
		}
	}
	return false
}

// randBetween 闭区间 [lo, hi]；区间畸形时收缩到地图内。
func randBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
