package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Vovarama1992/lectoquiz/internal/domain"
	"github.com/Vovarama1992/lectoquiz/internal/domain/stations"
	"github.com/Vovarama1992/lectoquiz/internal/infra"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

const lectureText = "Photosynthesis converts sunlight into chemical energy through chlorophyll molecules inside chloroplasts organelles"

type fixture struct {
	svc    *domain.LectureService
	hub    *Hub
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newFixtureWithServerCtx(t, ctx)
}

// newFixtureWithServerCtx wires the handler with serverCtx while broadcast
// keeps running for the whole test.
func newFixtureWithServerCtx(t *testing.T, serverCtx context.Context) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := infra.OpenSQLite(ctx, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	files, err := infra.NewFSFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	log := logger.NewZapLogger(zap.NewNop().Sugar())
	s2 := stations.NewS2ExtractText(map[string]ports.TextExtractor{
		".txt": infra.NewPlainTextExtractor(),
	}, log)
	svc := domain.NewLectureService(infra.NewSQLiteLectureRepo(db), files, s2, stations.NewS5Synthesize(""), log)

	hub := NewHub(log)
	go Broadcast(ctx, hub, svc.Events(), log)

	mux := http.NewServeMux()
	mux.Handle("/ws", WSHandler(serverCtx, hub, svc, log))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &fixture{svc: svc, hub: hub, server: server}
}

func (f *fixture) upload(t *testing.T) string {
	t.Helper()
	l, err := f.svc.Upload(context.Background(), ports.UploadInput{
		FileName: "bio.txt",
		Body:     bytes.NewBufferString(lectureText),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return l.ID
}

func (f *fixture) dial(t *testing.T, lectureID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?lectureID=" + lectureID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) eventMsg {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev eventMsg
	if err := json.Unmarshal(raw, &ev); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return ev
}

func TestAnalyzeOverWebsocket(t *testing.T) {
	f := newFixture(t)
	id := f.upload(t)
	conn := f.dial(t, id)

	if err := conn.WriteJSON(clientMsg{Action: "analyze"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	started := readEvent(t, conn)
	if started.LectureID != id || started.Stage != string(ports.StageStarted) {
		t.Fatalf("unexpected first event: %+v", started)
	}

	done := readEvent(t, conn)
	if done.Stage != string(ports.StageDone) || done.QuestionsCreated != 5 {
		t.Fatalf("unexpected second event: %+v", done)
	}

	qs, err := f.svc.ListQuestions(context.Background(), id)
	if err != nil || len(qs) != 5 {
		t.Fatalf("questions = %d, err = %v", len(qs), err)
	}
}

func TestEventsGoToOwnRoomOnly(t *testing.T) {
	f := newFixture(t)
	first := f.upload(t)
	second := f.upload(t)

	watcher := f.dial(t, second)
	trigger := f.dial(t, first)

	if err := trigger.WriteJSON(clientMsg{Action: "analyze"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ev := readEvent(t, trigger); ev.LectureID != first {
		t.Fatalf("event for %s leaked into room %s", ev.LectureID, first)
	}

	_ = watcher.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, raw, err := watcher.ReadMessage(); err == nil {
		t.Fatalf("watcher of %s got %s", second, raw)
	}
}

func TestUnknownActionRepliesToSenderOnly(t *testing.T) {
	f := newFixture(t)
	id := f.upload(t)
	sender := f.dial(t, id)
	peer := f.dial(t, id)
	waitRoom(t, f.hub, id, 2)

	if err := sender.WriteMessage(websocket.TextMessage, []byte(`{"action":"dance"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = sender.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := sender.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != `{"status":"error"}` {
		t.Fatalf("got %s", raw)
	}

	_ = peer.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, raw, err := peer.ReadMessage(); err == nil {
		t.Fatalf("peer received %s", raw)
	}
}

func TestAnalyzeStopsWithServerContext(t *testing.T) {
	serverCtx, stop := context.WithCancel(context.Background())
	stop()

	f := newFixtureWithServerCtx(t, serverCtx)
	id := f.upload(t)
	conn := f.dial(t, id)

	if err := conn.WriteJSON(clientMsg{Action: "analyze"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Fatalf("analyze ran after shutdown, got %s", raw)
	}

	qs, err := f.svc.ListQuestions(context.Background(), id)
	if err != nil || len(qs) != 0 {
		t.Fatalf("questions = %d, err = %v", len(qs), err)
	}
}

func TestSendDropsBrokenConn(t *testing.T) {
	log := logger.NewZapLogger(zap.NewNop().Sugar())
	hub := NewHub(log)

	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register("room", conn)
		// соединение закрыто в обход хаба: следующая запись упадёт
		conn.UnderlyingConn().Close()
		close(registered)
	}))
	defer server.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	<-registered

	hub.SendToRoom("room", []byte(`{"stage":"done"}`))
	if n := hub.roomSize("room"); n != 0 {
		t.Fatalf("room size = %d after failed write, want 0", n)
	}
}

func TestHandshakeRejections(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"missing id", "", http.StatusBadRequest},
		{"unknown lecture", "?lectureID=nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(f.server.URL + "/ws" + tc.query)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestUnregisterOnDisconnect(t *testing.T) {
	f := newFixture(t)
	id := f.upload(t)
	conn := f.dial(t, id)

	waitRoom(t, f.hub, id, 1)
	conn.Close()
	waitRoom(t, f.hub, id, 0)
}

func waitRoom(t *testing.T, hub *Hub, id string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.roomSize(id) != want {
		if time.Now().After(deadline) {
			t.Fatalf("room %s size = %d, want %d", id, hub.roomSize(id), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
