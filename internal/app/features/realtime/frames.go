// internal/app/features/realtime/frames.go
package realtime

import "encoding/json"

// Frame events a client may send.
const (
	eventOpenProject      = "open-project"
	eventTaskCreated      = "task-created"
	eventTaskDeleted      = "task-deleted"
	eventTaskUpdated      = "task-updated"
	eventTaskStateChanged = "task-state-changed"
)

// broadcastSuffix distinguishes server fan-out frames from client frames,
// so a client never mistakes its own echo for a remote mutation.
const broadcastSuffix = "-broadcast"

const (
	eventError  = "error"
	eventJoined = "project-opened"
)

// maxFramePayloadBytes bounds a single frame's payload. Task documents are
// far smaller than this.
const maxFramePayloadBytes = 64 * 1024

// maxDecodeErrorsPerConn is how many malformed frames a connection may send
// before it is dropped.
const maxDecodeErrorsPerConn = 5

// wsFrame is the envelope for every message in either direction.
type wsFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// openPayload is the payload of an open-project frame.
type openPayload struct {
	Project string `json:"project"`
}

// taskPayload is the slice of a task-event payload the server inspects;
// the rest of the task JSON is relayed untouched.
type taskPayload struct {
	Project string `json:"project"`
}

type errorPayload struct {
	Msg string `json:"msg"`
}

func errorFrame(msg string) wsFrame {
	payload, _ := json.Marshal(errorPayload{Msg: msg})
	return wsFrame{Event: eventError, Payload: payload}
}

func joinedFrame(projectID string) wsFrame {
	payload, _ := json.Marshal(openPayload{Project: projectID})
	return wsFrame{Event: eventJoined, Payload: payload}
}
