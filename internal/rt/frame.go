package rt

import "encoding/json"

// Frame is the wire envelope for every realtime message in both directions:
// a JSON object carrying the event name and its payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Server→client event names.
const (
	EvAllUsers   = "presence:all-users"
	EvOnline     = "presence:online"
	EvOffline    = "presence:offline"
	EvBulkOnline = "presence:bulk-online"
	EvTypingOn   = "typing:start"
	EvTypingOff  = "typing:stop"
	EvMsgNew     = "message:new"
	EvMsgSent    = "message:sent"
	EvMsgSeen    = "message:seen"
	EvMsgDeleted = "message:deleted"
)

// Client→server event names. Typing and seen share names with the
// server→client direction.
const (
	EvUsersRequest = "users:request"
	EvMsgSend      = "message:send"
	EvMsgDelete    = "message:delete"
)

func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: data})
}
