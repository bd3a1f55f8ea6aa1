package analysisHandler

import (
	"TrattoriaGolang/internal/api/analysis"
	"TrattoriaGolang/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func (h *AnalysisHandler) UpgradeConversationEvents(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ConversationEvents keeps one socket per dashboard viewer. Messages sent
// by the client are transcript turns from the live call and fan out to
// every other subscriber of the same conversation.
func (h *AnalysisHandler) ConversationEvents(conn *websocket.Conn) {
	conversationID := conn.Params("conversation_id")
	if conversationID == "" {
		conn.Close()
		return
	}

	h.eventHub.Register(conversationID, conn)
	defer func() {
		h.eventHub.Unregister(conversationID, conn)
		conn.Close()
	}()

	h.log.WithFields(log.Fields{
		"conversation_id": conversationID,
	}).Debug("Conversation event subscriber connected")

	for {
		var turn analysis.TranscriptTurn
		if err := conn.ReadJSON(&turn); err != nil {
			return
		}

		if turn.Speaker == "" || turn.Text == "" {
			continue
		}

		h.eventHub.PublishTranscript(conversationID, turn.Speaker, turn.Text)
	}
}
