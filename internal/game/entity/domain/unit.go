package domain

// Unit 单位实体。id 由 GameState 的单调计数器分配，进程内唯一。
type Unit struct {
	ID        UnitID   `json:"id" bson:"id"`
	Owner     PlayerID `json:"owner" bson:"owner"`
	Type      UnitType `json:"type" bson:"type"`
	HP        int      `json:"hp" bson:"hp"`
	MovesLeft int      `json:"moves_left" bson:"moves_left"`
	Loc       Coord    `json:"loc" bson:"loc"`
}

func (u *Unit) Stats() UnitStats {
	s, _ := StatsOf(u.Type)
	return s
}

// CanAttack 射程覆盖目标且攻击力大于 0。
func (u *Unit) CanAttack(target Coord) bool {
	s := u.Stats()
	return u.Loc.Distance(target) <= s.AttackRange && s.Attack > 0
}
