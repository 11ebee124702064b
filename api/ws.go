package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"wordguess/logic"
	"wordguess/models"
)

// wsMessage is the format of every websocket frame, in both directions.
type wsMessage struct {
	RoundID string               `json:"round_id"`
	Action  string               `json:"action"`            // "guess", "state" or "error"
	Payload string               `json:"payload,omitempty"` // guessed letter or error text
	Outcome *models.GuessOutcome `json:"outcome,omitempty"`
	State   interface{}          `json:"state,omitempty"`
	Cues    []logic.Cue          `json:"cues,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer
}

func (c *client) send(msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// hub tracks the connections watching each round.
type hub struct {
	mu      sync.Mutex
	clients map[string][]*client
}

func newHub() *hub {
	return &hub{clients: make(map[string][]*client)}
}

func (h *hub) add(roundID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[roundID] = append(h.clients[roundID], c)
}

func (h *hub) remove(roundID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.clients[roundID]
	for i, x := range list {
		if x == c {
			h.clients[roundID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(h.clients[roundID]) == 0 {
		delete(h.clients, roundID)
	}
}

// broadcast sends msg to every connection on the round, dropping the ones
// that fail.
func (h *hub) broadcast(roundID string, msg wsMessage) {
	h.mu.Lock()
	targets := append([]*client(nil), h.clients[roundID]...)
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(msg); err != nil {
			log.Println("Error writing WS message, closing conn:", err)
			c.conn.Close()
			h.remove(roundID, c)
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades the connection and plays guesses on the round
// named by the round_id cookie.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		http.Error(w, errNoRound.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	c := &client{conn: conn}
	s.clients.add(sess.id, c)
	defer func() {
		s.clients.remove(sess.id, c)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Println("Invalid WS message:", err)
			continue
		}

		switch msg.Action {
		case "state":
			sess.mu.Lock()
			view := sess.view()
			sess.mu.Unlock()
			c.send(wsMessage{RoundID: sess.id, Action: "state", State: view})

		case "guess":
			resp, err := s.applyGuess(context.Background(), sess, msg.Payload)
			if errors.Is(err, errRoundFinished) {
				// Only the sender hears about it.
				c.send(wsMessage{RoundID: sess.id, Action: "error", Payload: err.Error(), State: resp.State})
				continue
			}
			s.clients.broadcast(sess.id, wsMessage{
				RoundID: sess.id,
				Action:  "state",
				Outcome: &resp.Outcome,
				State:   resp.State,
				Cues:    resp.Cues,
			})

		default:
			c.send(wsMessage{RoundID: sess.id, Action: "error", Payload: "unknown action " + msg.Action})
		}
	}
}
