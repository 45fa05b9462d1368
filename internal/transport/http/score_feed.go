package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"discord-quiz-bot/internal/app"
)

// ScoreFeed streams running-score snapshots of an active quiz run to
// websocket spectators. Clients connect with ?quiz=<name> and receive one
// message per closed round plus a final message when the run ends.
type ScoreFeed struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewScoreFeed(service *app.QuizService, log *slog.Logger) *ScoreFeed {
	if log == nil {
		log = slog.Default()
	}
	return &ScoreFeed{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and relays score updates until the run ends
// or the client disconnects.
func (h *ScoreFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	quiz := r.URL.Query().Get("quiz")
	if quiz == "" {
		http.Error(w, "missing quiz", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.SubscribeScores(quiz)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	done := make(chan struct{})
	// Reader goroutine only notices client disconnects; the feed is one-way.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				// Run finalized; the engine closed the subscription.
				return
			}
			if err := conn.WriteJSON(outboundMessage[app.ScoreUpdate]{Type: "scores", Payload: update}); err != nil {
				h.log.Debug("ws write failed", "quiz", quiz, "error", err)
				return
			}
		case <-done:
			return
		}
	}
}

// Handler returns the mux serving the feed and a health endpoint.
func (h *ScoreFeed) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}
