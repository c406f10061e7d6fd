package realtime_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/dalemusser/taskhub/internal/app/features/realtime"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
)

// frame mirrors the wire envelope for test clients.
type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newWSServer(t *testing.T) (*httptest.Server, *auth.TokenManager, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	tokens, err := auth.NewTokenManager("ws-test-secret-0123456789-0123456789", time.Hour, userstore.New(db), zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}

	r := chi.NewRouter()
	r.Mount("/ws", realtime.Routes(realtime.NewHandler(db, zap.NewNop(), tokens)))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, tokens, testutil.NewFixtures(t, db)
}

func dialWS(t *testing.T, srv *httptest.Server, tokens *auth.TokenManager, u models.User) *websocket.Conn {
	t.Helper()
	token, err := tokens.Issue(u.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?access_token=" + token
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := websocket.JSON.Send(conn, frame{Event: event, Payload: raw}); err != nil {
		t.Fatalf("send %s: %v", event, err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f frame
	if err := websocket.JSON.Receive(conn, &f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func openProject(t *testing.T, conn *websocket.Conn, projectID string) {
	t.Helper()
	sendFrame(t, conn, "open-project", map[string]string{"project": projectID})
	got := readFrame(t, conn)
	if got.Event != "project-opened" {
		t.Fatalf("event: got %q (%s), want project-opened", got.Event, got.Payload)
	}
}

func TestServeWS_RequiresToken(t *testing.T) {
	srv, _, _ := newWSServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if _, err := websocket.Dial(wsURL, "", srv.URL); err == nil {
		t.Fatal("expected handshake to fail without a token")
	}
}

func TestOpenProject(t *testing.T) {
	srv, tokens, f := newWSServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@example.com")
	project := f.CreateProject(ctx, "Live", owner.ID)

	conn := dialWS(t, srv, tokens, owner)
	openProject(t, conn, project.ID.Hex())
}

func TestOpenProject_StrangerGetsError(t *testing.T) {
	srv, tokens, f := newWSServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@example.com")
	stranger := f.CreateUser(ctx, "Stranger", "stranger@example.com")
	project := f.CreateProject(ctx, "Private", owner.ID)

	conn := dialWS(t, srv, tokens, stranger)
	sendFrame(t, conn, "open-project", map[string]string{"project": project.ID.Hex()})

	got := readFrame(t, conn)
	if got.Event != "error" {
		t.Fatalf("event: got %q, want error", got.Event)
	}
	var payload struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("parse error payload: %v", err)
	}
	// Same answer as a project that does not exist.
	if payload.Msg != "project not found" {
		t.Errorf("msg: got %q", payload.Msg)
	}
}

func TestTaskEvent_BroadcastToRoom(t *testing.T) {
	srv, tokens, f := newWSServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@example.com")
	helper := f.CreateUser(ctx, "Helper", "helper@example.com")
	outsider := f.CreateUser(ctx, "Outsider", "outsider@example.com")
	project := f.CreateProject(ctx, "Shared", owner.ID, helper.ID)
	otherProject := f.CreateProject(ctx, "Elsewhere", outsider.ID)

	ownerConn := dialWS(t, srv, tokens, owner)
	helperConn := dialWS(t, srv, tokens, helper)
	outsiderConn := dialWS(t, srv, tokens, outsider)
	openProject(t, ownerConn, project.ID.Hex())
	openProject(t, helperConn, project.ID.Hex())
	openProject(t, outsiderConn, otherProject.ID.Hex())

	sendFrame(t, ownerConn, "task-created", map[string]string{
		"project": project.ID.Hex(),
		"name":    "Fresh task",
	})

	got := readFrame(t, helperConn)
	if got.Event != "task-created-broadcast" {
		t.Fatalf("event: got %q, want task-created-broadcast", got.Event)
	}
	var payload struct {
		Project string `json:"project"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.Name != "Fresh task" {
		t.Errorf("payload should be relayed untouched, got %q", payload.Name)
	}

	// The sender gets no echo; the next read on its connection times out.
	_ = ownerConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var echo frame
	if err := websocket.JSON.Receive(ownerConn, &echo); err == nil {
		t.Errorf("sender should not receive its own broadcast, got %q", echo.Event)
	}

	// A peer in another room hears nothing either.
	_ = outsiderConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var stray frame
	if err := websocket.JSON.Receive(outsiderConn, &stray); err == nil {
		t.Errorf("other rooms must not receive the broadcast, got %q", stray.Event)
	}
}

func TestTaskEvent_RequiresOpenProject(t *testing.T) {
	srv, tokens, f := newWSServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@example.com")
	project := f.CreateProject(ctx, "Unopened", owner.ID)

	conn := dialWS(t, srv, tokens, owner)
	sendFrame(t, conn, "task-created", map[string]string{"project": project.ID.Hex()})

	got := readFrame(t, conn)
	if got.Event != "error" {
		t.Fatalf("event: got %q, want error", got.Event)
	}
	var payload struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(got.Payload, &payload); err != nil {
		t.Fatalf("parse error payload: %v", err)
	}
	if payload.Msg != "project not opened" {
		t.Errorf("msg: got %q", payload.Msg)
	}
}

func TestUnsupportedEvent(t *testing.T) {
	srv, tokens, f := newWSServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := f.CreateUser(ctx, "Owner", "owner@example.com")
	conn := dialWS(t, srv, tokens, owner)

	sendFrame(t, conn, "make-coffee", map[string]string{})

	got := readFrame(t, conn)
	if got.Event != "error" {
		t.Fatalf("event: got %q, want error", got.Event)
	}
}
