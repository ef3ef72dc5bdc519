package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"FourEmpires/internal/game/entity"
	"FourEmpires/internal/game/entity/domain"
	"FourEmpires/modules/kit/logx"
)

// Event 推给观战端的 JSON 事件。
type Event struct {
	Type   string         `json:"type"` // turn_start / player_action / turn_end
	GameID string         `json:"game_id"`
	Turn   int            `json:"turn,omitempty"`
	Player string         `json:"player,omitempty"`
	Action map[string]any `json:"action,omitempty"`
}

// Hub 按对局分组的观战广播器。实现 port.BroadcastSink：
// 发送永不阻塞结算路径，慢订阅者直接掉线。
type Hub struct {
	mu     sync.RWMutex
	closed bool
	// gameID -> 订阅该局的客户端集合
	games  map[string]map[*Client]struct{}
	logger logx.Logger
}

func NewHub(logger logx.Logger) *Hub {
	if logger == nil {
		logger = logx.NewZapLogger(nil)
	}
	return &Hub{
		games:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) TurnStart(gameID entity.GameID, turn int) {
	h.broadcast(Event{Type: "turn_start", GameID: string(gameID), Turn: turn})
}

func (h *Hub) TurnEnd(gameID entity.GameID, turn int) {
	h.broadcast(Event{Type: "turn_end", GameID: string(gameID), Turn: turn})
}

func (h *Hub) PlayerAction(gameID entity.GameID, player entity.PlayerID, action domain.Action) {
	h.broadcast(Event{
		Type:   "player_action",
		GameID: string(gameID),
		Player: string(player),
		Action: domain.EncodeAction(action),
	})
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode ws event failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := h.games[ev.GameID]
	stale := make([]*Client, 0)
	for c := range clients {
		if !c.trySend(data) {
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	// 发送缓冲打满说明客户端跟不上，踢掉而不是拖慢结算。
	for _, c := range stale {
		h.Unsubscribe(c)
		c.close()
	}
}

func (h *Hub) Subscribe(gameID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		c.close()
		return
	}
	set, ok := h.games[gameID]
	if !ok {
		set = make(map[*Client]struct{})
		h.games[gameID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.games[c.gameID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.games, c.gameID)
	}
}

// Close 踢掉所有订阅者；之后的 Subscribe 直接拒绝。
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.games {
		for c := range set {
			c.close()
		}
	}
	h.games = make(map[string]map[*Client]struct{})
}
