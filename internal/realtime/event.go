package realtime

import (
	"encoding/json"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

// Event names on the channel. Inbound events carry mutation or read
// intents; outbound events carry canonical state or scoped failures.
const (
	EventAddTodo          = "addTodo"
	EventDeleteTodo       = "deleteTodo"
	EventRetrieveComments = "retrieveComments"
	EventAddComment       = "addComment"

	EventTodos           = "todos"
	EventDisplayComments = "displayComments"
	EventError           = "error"
)

// Envelope is the JSON frame exchanged on the event channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type addCommentPayload struct {
	TodoID  string `json:"todo_id"`
	Comment string `json:"comment"`
}

type displayCommentsPayload struct {
	Comments []domain.Comment `json:"comments"`
	TodoID   string           `json:"todo_id"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// encode marshals an outbound frame.
func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
