package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/testutil"
)

type testServer struct {
	*httptest.Server
	session *board.Session
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger, _ := testutil.NewLogger()
	hub := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	s := board.New(testutil.NewTestStore(t), board.WithBridge(hub), board.WithLogger(logger))
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(NewHandler(s, hub, nil, logger)))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		s.Close()
	})
	return &testServer{Server: srv, session: s}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateAndFetchBoard(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, "POST", "/api/lists", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	l := decodeBody[model.List](t, resp)
	assert.Equal(t, model.DefaultListName, l.Name)
	assert.Equal(t, 0, l.Position)

	resp = ts.do(t, "POST", "/api/lists/"+l.ID+"/tasks", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decodeBody[model.Task](t, resp)
	assert.Equal(t, model.StatusNormal, task.Status)

	resp = ts.do(t, "GET", "/api/board", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b := decodeBody[model.Board](t, resp)
	require.Len(t, b.Lists, 1)
	require.Len(t, b.Lists[0].Tasks, 1)
	assert.Equal(t, task.ID, b.Lists[0].Tasks[0].ID)
}

func TestRenameAndPatchTask(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	l, err := ts.session.CreateList(ctx)
	require.NoError(t, err)
	task, err := ts.session.CreateTask(ctx, l.ID)
	require.NoError(t, err)

	resp := ts.do(t, "PATCH", "/api/lists/"+l.ID, map[string]string{"name": "Errands"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Errands", decodeBody[model.List](t, resp).Name)

	resp = ts.do(t, "PATCH", "/api/tasks/"+task.ID, map[string]string{
		"task":       "buy milk",
		"resolution": "corner shop",
		"status":     "high",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[model.Task](t, resp)
	assert.Equal(t, "buy milk", got.Description)
	assert.Equal(t, "corner shop", got.Resolution)
	assert.Equal(t, model.StatusHigh, got.Status)
}

func TestInvalidStatusLeavesTaskUntouched(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	l, err := ts.session.CreateList(ctx)
	require.NoError(t, err)
	task, err := ts.session.CreateTask(ctx, l.ID)
	require.NoError(t, err)

	resp := ts.do(t, "PATCH", "/api/tasks/"+task.ID, map[string]string{
		"task":   "changed",
		"status": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	b, err := ts.session.Board(ctx)
	require.NoError(t, err)
	assert.Empty(t, b.Lists[0].Tasks[0].Description)
}

func TestErrorStatusCodes(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	l, err := ts.session.CreateList(ctx)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown list", "DELETE", "/api/lists/Z9", nil, http.StatusNotFound},
		{"unknown task", "DELETE", "/api/tasks/Z9", nil, http.StatusNotFound},
		{"task in unknown list", "POST", "/api/lists/Z9/tasks", nil, http.StatusNotFound},
		{"bad list order", "PUT", "/api/lists/order", map[string][]string{"order": {"Z9"}}, http.StatusBadRequest},
		{"bad task order", "PUT", "/api/lists/" + l.ID + "/order", map[string][]string{"order": {l.ID}}, http.StatusBadRequest},
		{"empty patch", "PATCH", "/api/tasks/Z9", map[string]string{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestReorderAndDelete(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	a, err := ts.session.CreateList(ctx)
	require.NoError(t, err)
	b, err := ts.session.CreateList(ctx)
	require.NoError(t, err)
	c, err := ts.session.CreateList(ctx)
	require.NoError(t, err)

	resp := ts.do(t, "PUT", "/api/lists/order", map[string][]string{"order": {c.ID, a.ID, b.ID}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, "DELETE", "/api/lists/"+a.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, err := ts.session.Board(ctx)
	require.NoError(t, err)
	require.Len(t, got.Lists, 2)
	assert.Equal(t, c.ID, got.Lists[0].List.ID)
	assert.Equal(t, 0, got.Lists[0].List.Position)
	assert.Equal(t, b.ID, got.Lists[1].List.ID)
	assert.Equal(t, 1, got.Lists[1].List.Position)
}

func TestWebSocketReceivesEvents(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	// A pong proves the client is registered with the hub.
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "pong", msg.Type)

	resp := ts.do(t, "POST", "/api/lists", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	l := decodeBody[model.List](t, resp)

	var ev struct {
		Type string      `json:"type"`
		Data board.Event `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, string(board.EventListCreated), ev.Type)
	require.NotNil(t, ev.Data.List)
	assert.Equal(t, l.ID, ev.Data.List.ID)
	assert.Equal(t, ts.session.ID(), ev.Data.Session)
}

func TestCrossOriginUpgradeRejected(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	header := http.Header{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPublishNeverBlocks(t *testing.T) {
	logger, buf := testutil.NewLogger()
	hub := NewHub(logger)

	// Nothing drains the hub, so the queue fills and the rest are dropped.
	for i := 0; i < broadcastSize+5; i++ {
		hub.Publish(board.Event{Kind: board.EventTaskEdited})
	}
	assert.Contains(t, buf.String(), "dropped task.edited")
}
