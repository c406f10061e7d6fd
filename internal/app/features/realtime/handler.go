// internal/app/features/realtime/handler.go
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"

	"github.com/dalemusser/taskhub/internal/app/policy/projectpolicy"
	projectstore "github.com/dalemusser/taskhub/internal/app/store/projects"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

// Handler is the shared dependency container for the realtime feature.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Tokens *auth.TokenManager
	Hub    *Hub
}

func NewHandler(db *mongo.Database, logger *zap.Logger, tokens *auth.TokenManager) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Tokens: tokens,
		Hub:    NewHub(),
	}
}

// ServeWS authenticates the upgrade request and hands the connection to
// the frame loop. Browsers cannot set websocket headers, so the token may
// also arrive in the access_token query parameter.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user, err := h.Tokens.ResolveUser(r.Context(), r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "valid token required")
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.handleConn(conn, user)
	}).ServeHTTP(w, r)
}

// handleConn runs one connection's frame loop until the peer goes away.
// A connection may sit in several rooms at once; closing leaves them all.
func (h *Handler) handleConn(conn *websocket.Conn, user models.User) {
	defer func() {
		_ = conn.Close()
	}()

	connID := uuid.NewString()
	log := h.Log.With(zap.String("conn_id", connID), zap.String("user_id", user.ID.Hex()))
	log.Debug("websocket connected")

	decoder := json.NewDecoder(conn)
	peer := newWSPeer(json.NewEncoder(conn))
	joined := make(map[string]struct{})

	defer func() {
		for projectID := range joined {
			h.Hub.leaveRoom(projectID, peer)
		}
		log.Debug("websocket disconnected")
	}()

	decodeErrors := 0
	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = peer.writeFrame(errorFrame("invalid frame"))
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = peer.writeFrame(errorFrame("payload too large"))
			continue
		}

		switch frame.Event {
		case eventOpenProject:
			h.handleOpenProject(peer, user, frame, joined, log)
		case eventTaskCreated, eventTaskDeleted, eventTaskUpdated, eventTaskStateChanged:
			h.handleTaskEvent(peer, frame, joined)
		default:
			_ = peer.writeFrame(errorFrame("unsupported event"))
		}
	}
}

// handleOpenProject joins the connection to a project room after checking
// that the user may read the project. Joining twice is harmless.
func (h *Handler) handleOpenProject(peer *wsPeer, user models.User, frame wsFrame, joined map[string]struct{}, log *zap.Logger) {
	var payload openPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil || !inputval.IsValidObjectID(payload.Project) {
		_ = peer.writeFrame(errorFrame("project not found"))
		return
	}
	projectID, err := primitive.ObjectIDFromHex(payload.Project)
	if err != nil {
		_ = peer.writeFrame(errorFrame("project not found"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	project, err := projectstore.New(h.DB).GetByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, projectstore.ErrNotFound) {
			log.Warn("load project for join", zap.Error(err))
		}
		_ = peer.writeFrame(errorFrame("project not found"))
		return
	}
	if !projectpolicy.CanRead(user.ID, project) {
		_ = peer.writeFrame(errorFrame("project not found"))
		return
	}

	key := project.ID.Hex()
	h.Hub.room(key).join(peer)
	joined[key] = struct{}{}
	_ = peer.writeFrame(joinedFrame(key))
}

// handleTaskEvent relays a task mutation to everyone else in the task's
// project room. The sender must have opened the project first; that join
// carried the authorization check.
func (h *Handler) handleTaskEvent(peer *wsPeer, frame wsFrame, joined map[string]struct{}) {
	var payload taskPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil || payload.Project == "" {
		_ = peer.writeFrame(errorFrame("invalid frame"))
		return
	}
	if _, ok := joined[payload.Project]; !ok {
		_ = peer.writeFrame(errorFrame("project not opened"))
		return
	}

	rm, ok := h.Hub.lookup(payload.Project)
	if !ok {
		return
	}
	rm.broadcast(wsFrame{
		Event:   frame.Event + broadcastSuffix,
		Payload: frame.Payload,
	}, peer)
}
