package domain

// UnitStats 兵种基础属性表（出厂配置，运行期只读）。
type UnitStats struct {
	Cost        ResourceBag
	Moves       int
	HP          int
	Sight       int
	Attack      int
	AttackRange int
}

var unitStats = map[UnitType]UnitStats{
	UnitScout: {
		Cost:        ResourceBag{Food: 20},
		Moves:       3,
		HP:          2,
		Sight:       3,
		Attack:      1,
		AttackRange: 1,
	},
	UnitWorker: {
		Cost:        ResourceBag{Food: 30},
		Moves:       2,
		HP:          2,
		Sight:       2,
		Attack:      0,
		AttackRange: 0,
	},
	UnitSoldier: {
		Cost:        ResourceBag{Food: 30, Ore: 10},
		Moves:       2,
		HP:          4,
		Sight:       2,
		Attack:      2,
		AttackRange: 1,
	},
	UnitArcher: {
		Cost:        ResourceBag{Food: 30, Wood: 10},
		Moves:       2,
		HP:          3,
		Sight:       3,
		Attack:      2,
		AttackRange: 2,
	},
}

func StatsOf(t UnitType) (UnitStats, bool) {
	s, ok := unitStats[t]
	return s, ok
}

// BuildingStats 建筑基础属性表。
type BuildingStats struct {
	Cost ResourceBag
	HP   int
}

var buildingStats = map[BuildingType]BuildingStats{
	BuildingGranary:  {Cost: ResourceBag{Wood: 40}, HP: 10},
	BuildingBarracks: {Cost: ResourceBag{Wood: 50}, HP: 10},
	BuildingWalls:    {Cost: ResourceBag{Ore: 40}, HP: 15},
}

func BuildingStatsOf(t BuildingType) (BuildingStats, bool) {
	s, ok := buildingStats[t]
	return s, ok
}

const (
	// FoundCityFoodCost 工人建城固定消耗。
	FoundCityFoodCost = 30

	// CityBaseHP 新建城池耐久。
	CityBaseHP = 10

	// CitySightRange 城池视野半径。
	CitySightRange = 3

	// WallCounterDamage 城墙反击固定伤害。
	WallCounterDamage = 2
)
