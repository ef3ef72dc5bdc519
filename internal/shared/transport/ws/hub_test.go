package ws

import (
	"encoding/json"
	"testing"

	"FourEmpires/internal/game/entity/domain"
)

func newTestClient(gameID string, buffer int) *Client {
	return &Client{
		gameID: gameID,
		send:   make(chan []byte, buffer),
	}
}

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		return ev
	default:
		t.Fatal("no event in send buffer")
		return Event{}
	}
}

func TestHubBroadcastRoutesByGame(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient("g1", 4)
	b := newTestClient("g2", 4)
	hub.Subscribe("g1", a)
	hub.Subscribe("g2", b)

	hub.TurnStart("g1", 3)

	ev := recv(t, a)
	if ev.Type != "turn_start" || ev.GameID != "g1" || ev.Turn != 3 {
		t.Fatalf("event = %+v", ev)
	}
	if len(b.send) != 0 {
		t.Fatal("event leaked to another game's subscriber")
	}
}

func TestHubPlayerActionCarriesEncodedAction(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient("g1", 4)
	hub.Subscribe("g1", c)

	hub.PlayerAction("g1", "p1", domain.MoveAction{UnitID: 7, To: domain.Coord{X: 2, Y: 3}})

	ev := recv(t, c)
	if ev.Type != "player_action" || ev.Player != "p1" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Action["type"] != string(domain.ActionMove) {
		t.Fatalf("action tag = %v", ev.Action["type"])
	}
}

func TestHubKicksSlowSubscriber(t *testing.T) {
	hub := NewHub(nil)
	slow := newTestClient("g1", 1)
	hub.Subscribe("g1", slow)

	// 第一条填满缓冲，第二条发不进去：慢订阅者被踢、通道被关。
	hub.TurnStart("g1", 0)
	hub.TurnEnd("g1", 0)

	if _, open := <-slow.send; !open {
		t.Fatal("buffered event lost")
	}
	if _, open := <-slow.send; open {
		t.Fatal("slow subscriber's channel not closed")
	}

	// 被踢之后的广播不再投递。
	hub.TurnStart("g1", 1)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient("g1", 4)
	hub.Subscribe("g1", c)
	hub.Unsubscribe(c)

	hub.TurnStart("g1", 0)
	if len(c.send) != 0 {
		t.Fatal("unsubscribed client still receives events")
	}
}

func TestHubCloseRejectsNewSubscribers(t *testing.T) {
	hub := NewHub(nil)
	existing := newTestClient("g1", 4)
	hub.Subscribe("g1", existing)

	hub.Close()
	if _, open := <-existing.send; open {
		t.Fatal("existing client not closed on hub shutdown")
	}

	late := newTestClient("g1", 4)
	hub.Subscribe("g1", late)
	if _, open := <-late.send; open {
		t.Fatal("post-close subscribe not rejected")
	}
}
