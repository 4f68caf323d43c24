package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/lectoquiz/internal/domain"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type clientMsg struct {
	Action string `json:"action"`
}

type eventMsg struct {
	LectureID        string `json:"lectureId"`
	Stage            string `json:"stage"`
	QuestionsCreated int    `json:"questionsCreated"`
}

// GET /ws?lectureID=...
// ctx bounds analyze runs started from the socket; main passes the server lifetime.
func WSHandler(ctx context.Context, hub *Hub, lectures ports.LectureProcessor, log *logger.ZapLogger) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		lectureID := r.URL.Query().Get("lectureID")
		if lectureID == "" {
			http.Error(w, "missing lectureID", http.StatusBadRequest)
			return
		}

		if _, err := lectures.GetLecture(r.Context(), lectureID); err != nil {
			if errors.Is(err, domain.ErrLectureNotFound) {
				http.Error(w, "lecture not found", http.StatusNotFound)
				return
			}
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade уже ответил клиенту
			return
		}

		hub.Register(lectureID, conn)
		defer hub.Unregister(lectureID, conn)

		// не больше одного анализа на соединение
		var busy atomic.Bool

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg clientMsg
			if err := json.Unmarshal(raw, &msg); err != nil || msg.Action != "analyze" {
				hub.SendTo(lectureID, conn, []byte(`{"status":"error"}`))
				continue
			}

			if !busy.CompareAndSwap(false, true) {
				hub.SendTo(lectureID, conn, []byte(`{"status":"busy"}`))
				continue
			}

			go func() {
				defer busy.Store(false)
				// результат уходит в комнату через поток событий
				if _, err := lectures.Analyze(ctx, lectureID); err != nil {
					log.Log(logger.LogEntry{
						Level:   "error",
						Message: "ws analyze failed",
						Error:   err,
						Fields:  map[string]any{"lectureID": lectureID},
					})
				}
			}()
		}
	}
}

// Broadcast fans analyze events out to lecture rooms until ctx is done or
// the channel closes.
func Broadcast(ctx context.Context, hub *Hub, events <-chan ports.AnalyzeEvent, log *logger.ZapLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			payload, err := json.Marshal(eventMsg{
				LectureID:        ev.LectureID,
				Stage:            string(ev.Stage),
				QuestionsCreated: ev.QuestionsCreated,
			})
			if err != nil {
				log.Log(logger.LogEntry{Level: "error", Message: "[SEND] json marshal failed", Error: err})
				continue
			}

			hub.SendToRoom(ev.LectureID, payload)
		}
	}
}
