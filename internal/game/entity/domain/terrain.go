package domain

type Terrain string

const (
	TerrainPlains   Terrain = "plains"
	TerrainForest   Terrain = "forest"
	TerrainMountain Terrain = "mountain"
	TerrainWater    Terrain = "water"
)

// Passable 水和山不可进入（移动、建城共用）。
func (t Terrain) Passable() bool {
	return t != TerrainWater && t != TerrainMountain
}

type Resource string

const (
	ResourceFood    Resource = "food"
	ResourceWood    Resource = "wood"
	ResourceOre     Resource = "ore"
	ResourceCrystal Resource = "crystal"
)

type UnitType string

const (
	UnitScout   UnitType = "scout"
	UnitWorker  UnitType = "worker"
	UnitSoldier UnitType = "soldier"
	UnitArcher  UnitType = "archer"
)

type BuildingType string

const (
	BuildingGranary  BuildingType = "granary"
	BuildingBarracks BuildingType = "barracks"
	BuildingWalls    BuildingType = "walls"
)

type ImprovementType string

const (
	ImprovementFarm             ImprovementType = "farm"
	ImprovementMine             ImprovementType = "mine"
	ImprovementCrystalExtractor ImprovementType = "crystal_extractor"
)

type DiplomaticState string

const (
	DiplomacyPeace    DiplomaticState = "peace"
	DiplomacyAlliance DiplomaticState = "alliance"
	DiplomacyWar      DiplomaticState = "war"
)
