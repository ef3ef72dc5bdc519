package domain

import "fmt"

type PlayerID string

type UnitID int
type CityID int
type TileID int

// Coord 地图坐标，值语义。
type Coord struct {
	X int `json:"x" bson:"x" mapstructure:"x"`
	Y int `json:"y" bson:"y" mapstructure:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Distance 曼哈顿距离。移动、攻击射程、视野全部用它。
func (c Coord) Distance(other Coord) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// Neighbors 返回四方向邻居，超出地图边界的丢弃（平面拓扑，不环绕）。
func (c Coord) Neighbors(width, height int) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range [...]Coord{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
		n := Coord{X: c.X + d.X, Y: c.Y + d.Y}
		if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
			continue
		}
		out = append(out, n)
	}
	return out
}

// TilesInRange 返回曼哈顿半径 r 内的所有界内坐标（含自身）。
func (c Coord) TilesInRange(r, width, height int) []Coord {
	out := make([]Coord, 0, 2*r*r+2*r+1)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if abs(dx)+abs(dy) > r {
				continue
			}
			n := Coord{X: c.X + dx, Y: c.Y + dy}
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
