package domain

// Tile 地图格。id/loc/terrain/resource 生成后不变；
// owner/city/unit/improvement 随回合演进。
// UnitID/CityID 只允许经 GameState 的落子辅助方法修改，保证与实体表双向一致。
type Tile struct {
	ID          TileID          `json:"id" bson:"id"`
	Loc         Coord           `json:"loc" bson:"loc"`
	Terrain     Terrain         `json:"terrain" bson:"terrain"`
	Resource    Resource        `json:"resource,omitempty" bson:"resource,omitempty"`
	Owner       PlayerID        `json:"owner,omitempty" bson:"owner,omitempty"`
	CityID      CityID          `json:"city_id,omitempty" bson:"city_id,omitempty"`
	UnitID      UnitID          `json:"unit_id,omitempty" bson:"unit_id,omitempty"`
	Improvement ImprovementType `json:"improvement,omitempty" bson:"improvement,omitempty"`
}

func (t *Tile) HasUnit() bool {
	return t.UnitID != 0
}

func (t *Tile) HasCity() bool {
	return t.CityID != 0
}
