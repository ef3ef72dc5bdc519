package entity

import (
	"math/rand"

	"FourEmpires/internal/game/entity/domain"
)

// GenerateMap 由 (width, height, seed) 完全决定的程序化地形。
// 同一输入两次调用必须得到逐格相同的地形与资源；抽签顺序固定：
// 每格先掷地形，再掷一次资源。
func GenerateMap(width, height int, seed int64) []*Tile {
	rng := rand.New(rand.NewSource(seed))
	tiles := make([]*Tile, 0, width*height)
	tileID := domain.TileID(0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var terrain domain.Terrain
			switch roll := rng.Float64(); {
			case roll < 0.4:
				terrain = domain.TerrainPlains
			case roll < 0.6:
				terrain = domain.TerrainForest
			case roll < 0.8:
				terrain = domain.TerrainMountain
			default:
				terrain = domain.TerrainWater
			}

			// 每种地形一次专属掷签；没中的格子再补一次 5% 稀有水晶签。
			var resource domain.Resource
			switch {
			case terrain == domain.TerrainPlains && rng.Float64() < 0.3:
				resource = domain.ResourceFood
			case terrain == domain.TerrainForest && rng.Float64() < 0.4:
				resource = domain.ResourceWood
			case terrain == domain.TerrainMountain && rng.Float64() < 0.5:
				resource = domain.ResourceOre
			case rng.Float64() < 0.05:
				resource = domain.ResourceCrystal
			}

			tiles = append(tiles, &Tile{
				ID:       tileID,
				Loc:      Coord{X: x, Y: y},
				Terrain:  terrain,
				Resource: resource,
			})
			tileID++
		}
	}
	return tiles
}
