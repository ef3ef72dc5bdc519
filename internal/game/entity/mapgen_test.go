package entity

import (
	"testing"

	"FourEmpires/internal/game/entity/domain"
)

func TestGenerateMapIsDeterministic(t *testing.T) {
	a := GenerateMap(20, 20, 42)
	b := GenerateMap(20, 20, 42)

	if len(a) != 400 || len(b) != 400 {
		t.Fatalf("tile counts = %d/%d, want 400", len(a), len(b))
	}
	for i := range a {
		if *a[i] != *b[i] {
			t.Fatalf("tile %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateMapDifferentSeedsDiffer(t *testing.T) {
	a := GenerateMap(20, 20, 42)
	b := GenerateMap(20, 20, 43)

	diff := 0
	for i := range a {
		if a[i].Terrain != b[i].Terrain {
			diff++
		}
	}
	if diff == 0 {
		t.Fatal("different seeds produced identical terrain")
	}
}

func TestGenerateMapTileIdentity(t *testing.T) {
	tiles := GenerateMap(4, 3, 7)
	if len(tiles) != 12 {
		t.Fatalf("tile count = %d, want 12", len(tiles))
	}
	// 行优先：id 连续，坐标与 id 对应。
	for i, tile := range tiles {
		if int(tile.ID) != i {
			t.Fatalf("tile %d id = %d", i, tile.ID)
		}
		want := Coord{X: i % 4, Y: i / 4}
		if tile.Loc != want {
			t.Fatalf("tile %d loc = %v, want %v", i, tile.Loc, want)
		}
	}
}

func TestGenerateMapResourceMatchesTerrain(t *testing.T) {
	tiles := GenerateMap(30, 30, 99)
	for _, tile := range tiles {
		switch tile.Resource {
		case domain.ResourceFood:
			if tile.Terrain != domain.TerrainPlains {
				t.Fatalf("food on %s at %v", tile.Terrain, tile.Loc)
			}
		case domain.ResourceWood:
			if tile.Terrain != domain.TerrainForest {
				t.Fatalf("wood on %s at %v", tile.Terrain, tile.Loc)
			}
		case domain.ResourceOre:
			if tile.Terrain != domain.TerrainMountain {
				t.Fatalf("ore on %s at %v", tile.Terrain, tile.Loc)
			}
		}
		// crystal 不限地形
	}
}
