package domain

// ResourceBag 单个玩家的四类资源库存。
type ResourceBag struct {
	Food    int `json:"food" bson:"food" mapstructure:"food"`
	Wood    int `json:"wood" bson:"wood" mapstructure:"wood"`
	Ore     int `json:"ore" bson:"ore" mapstructure:"ore"`
	Crystal int `json:"crystal" bson:"crystal" mapstructure:"crystal"`
}

func (b ResourceBag) Add(other ResourceBag) ResourceBag {
	return ResourceBag{
		Food:    b.Food + other.Food,
		Wood:    b.Wood + other.Wood,
		Ore:     b.Ore + other.Ore,
		Crystal: b.Crystal + other.Crystal,
	}
}

func (b ResourceBag) Sub(other ResourceBag) ResourceBag {
	return ResourceBag{
		Food:    b.Food - other.Food,
		Wood:    b.Wood - other.Wood,
		Ore:     b.Ore - other.Ore,
		Crystal: b.Crystal - other.Crystal,
	}
}

// CanAfford 四项全部足够才算付得起。
func (b ResourceBag) CanAfford(cost ResourceBag) bool {
	return b.Food >= cost.Food &&
		b.Wood >= cost.Wood &&
		b.Ore >= cost.Ore &&
		b.Crystal >= cost.Crystal
}

func (b ResourceBag) IsZero() bool {
	return b == ResourceBag{}
}

// Scale 按比例缩放（向下取整），兵营训练折扣用。
func (b ResourceBag) Scale(factor float64) ResourceBag {
	return ResourceBag{
		Food:    int(float64(b.Food) * factor),
		Wood:    int(float64(b.Wood) * factor),
		Ore:     int(float64(b.Ore) * factor),
		Crystal: int(float64(b.Crystal) * factor),
	}
}

// Total 四项求和，回合上限记分用。
func (b ResourceBag) Total() int {
	return b.Food + b.Wood + b.Ore + b.Crystal
}
