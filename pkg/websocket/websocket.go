package websocketPkg

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	EventTypeTranscript       = "transcript"
	EventTypeAnalysisComplete = "analysis_complete"
)

type Event struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversation_id"`
	Speaker        string    `json:"speaker,omitempty"`
	Text           string    `json:"text,omitempty"`
	Outcome        string    `json:"outcome,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// IEventHub fans conversation events out to dashboard subscribers.
// Delivery is best effort: a subscriber that cannot keep up is dropped and
// must reconnect.
type IEventHub interface {
	Register(conversationID string, conn *websocket.Conn)
	Unregister(conversationID string, conn *websocket.Conn)
	PublishTranscript(conversationID, speaker, text string)
	PublishAnalysisComplete(conversationID, outcome string)
}

type eventHub struct {
	mu           sync.Mutex
	subscribers  map[string]map[*websocket.Conn]bool
	writeTimeout time.Duration
	log          *logrus.Logger
}

func NewEventHub(log *logrus.Logger) IEventHub {
	return &eventHub{
		subscribers:  make(map[string]map[*websocket.Conn]bool),
		writeTimeout: 5 * time.Second,
		log:          log,
	}
}

func (h *eventHub) Register(conversationID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[conversationID] == nil {
		h.subscribers[conversationID] = make(map[*websocket.Conn]bool)
	}
	h.subscribers[conversationID][conn] = true

	h.log.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"subscribers":     len(h.subscribers[conversationID]),
	}).Debug("Subscriber registered for conversation events")
}

func (h *eventHub) Unregister(conversationID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.subscribers[conversationID]
	if !ok {
		return
	}

	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.subscribers, conversationID)
	}
}

func (h *eventHub) PublishTranscript(conversationID, speaker, text string) {
	h.publish(Event{
		Type:           EventTypeTranscript,
		ConversationID: conversationID,
		Speaker:        speaker,
		Text:           text,
		Timestamp:      time.Now(),
	})
}

func (h *eventHub) PublishAnalysisComplete(conversationID, outcome string) {
	h.publish(Event{
		Type:           EventTypeAnalysisComplete,
		ConversationID: conversationID,
		Outcome:        outcome,
		Timestamp:      time.Now(),
	})
}

func (h *eventHub) publish(event Event) {
	payload, err := jsoniter.Marshal(event)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"conversation_id": event.ConversationID,
			"error":           err.Error(),
		}).Error("Failed to marshal conversation event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subscribers[event.ConversationID]
	for conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.WithFields(logrus.Fields{
				"conversation_id": event.ConversationID,
				"error":           err.Error(),
			}).Warn("Dropping dead event subscriber")
			conn.Close()
			delete(conns, conn)
		}
	}

	if len(conns) == 0 {
		delete(h.subscribers, event.ConversationID)
	}
}
