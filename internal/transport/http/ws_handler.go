package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quizpulse/internal/app"
	"quizpulse/internal/domain"
)

// WSHandler drives one quiz session per websocket connection. The connection
// is the presentation surface: it forwards user intents into the session and
// streams state snapshots back out.
type WSHandler struct {
	source   app.QuestionSource
	store    app.QuestionStore
	scores   app.ScoreReporter
	amount   int
	upgrader websocket.Upgrader
}

func NewWSHandler(source app.QuestionSource, store app.QuestionStore, scores app.ScoreReporter, amount int) *WSHandler {
	return &WSHandler{
		source: source,
		store:  store,
		scores: scores,
		amount: amount,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

type selectPayload struct {
	Option string `json:"option"`
}

type resultPayload struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the session loop until the client
// disconnects. User identity arrives as an opaque userId query parameter;
// an absent one means an anonymous session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := app.NewSession(h.source, h.store, h.scores, userID)
	session.SetAmount(h.amount)
	defer session.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var loads sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid start payload")
				continue
			}
			difficulty, err := domain.ParseDifficulty(payload.Difficulty)
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			// Load blocks on the network; run it off the read loop so the
			// client can still reset or disconnect mid-fetch.
			loads.Add(1)
			go func(category string, difficulty domain.Difficulty) {
				defer loads.Done()
				if err := session.Load(r.Context(), category, difficulty); err != nil {
					select {
					case send <- errorMessage(err.Error()):
					case <-closeSignals:
					}
				}
			}(payload.Category, difficulty)
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid select payload")
				continue
			}
			if err := session.SelectAnswer(payload.Option); err != nil {
				send <- errorMessage(err.Error())
			}
		case "submit":
			correct, err := session.Submit()
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "result", Payload: resultPayload{
				Correct: correct,
				Score:   session.Snapshot().Score,
			}}
		case "next":
			if err := session.Advance(); err != nil {
				send <- errorMessage(err.Error())
			}
		case "reset":
			session.Reset()
		default:
			send <- errorMessage("unsupported message type")
		}
	}

	close(closeSignals)
	<-updatesDone
	loads.Wait()
	close(send)
	<-writerDone
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
