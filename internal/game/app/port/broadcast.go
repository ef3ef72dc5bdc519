package port

import (
	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
)

// BroadcastSink 纯观察性的事件出口。实现必须不阻塞结算路径，
// 调用方容忍其缺席（nil 安全由 NopSink 兜底）。
type BroadcastSink interface {
	TurnStart(gameID entity.GameID, turn int)
	TurnEnd(gameID entity.GameID, turn int)
	PlayerAction(gameID entity.GameID, player entity.PlayerID, action domain.Action)
}

type NopSink struct{}

func (NopSink) TurnStart(entity.GameID, int)                               {}
func (NopSink) TurnEnd(entity.GameID, int)                                 {}
func (NopSink) PlayerAction(entity.GameID, entity.PlayerID, domain.Action) {}
