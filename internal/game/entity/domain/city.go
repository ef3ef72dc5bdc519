package domain

// BuildJob 城内在建任务（建筑/单位生产队列占位）。
type BuildJob struct {
	Type      string `json:"type" bson:"type"` // "unit" | "building"
	Target    string `json:"target" bson:"target"`
	Progress  int    `json:"progress" bson:"progress"`
	TotalCost int    `json:"total_cost" bson:"total_cost"`
}

// City 城池实体。城池只会易主，永远不会被摧毁删除。
type City struct {
	ID         CityID         `json:"id" bson:"id"`
	Owner      PlayerID       `json:"owner" bson:"owner"`
	Loc        Coord          `json:"loc" bson:"loc"`
	HP         int            `json:"hp" bson:"hp"`
	Buildings  []BuildingType `json:"buildings,omitempty" bson:"buildings,omitempty"`
	BuildQueue *BuildJob      `json:"build_queue,omitempty" bson:"build_queue,omitempty"`
}

func (c *City) HasBuilding(t BuildingType) bool {
	for _, b := range c.Buildings {
		if b == t {
			return true
		}
	}
	return false
}

func (c *City) HasWalls() bool {
	return c.HasBuilding(BuildingWalls)
}

// FoodMultiplier 粮仓 +50% 产出。
func (c *City) FoodMultiplier() float64 {
	if c.HasBuilding(BuildingGranary) {
		return 1.5
	}
	return 1.0
}

// UnitCostMultiplier 兵营训练费 -25%。
func (c *City) UnitCostMultiplier() float64 {
	if c.HasBuilding(BuildingBarracks) {
		return 0.75
	}
	return 1.0
}
