package openai

import (
	"TrattoriaGolang/pkg/menu"
	"TrattoriaGolang/pkg/nlp"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("no completion returned from ChatGPT")

type IChatGPT interface {
	ExtractIntent(ctx context.Context, transcript string, conversationDate string) (string, error)
}

type chatGPTService struct {
	client  *openai.Client
	model   string
	catalog *menu.Catalog
}

func NewChatGPT(catalog *menu.Catalog) IChatGPT {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")

	if model == "" {
		model = openai.GPT4oMini
	}

	return &chatGPTService{
		client:  openai.NewClient(apiKey),
		model:   model,
		catalog: catalog,
	}
}

// ExtractIntent runs a single JSON-mode completion over the flattened
// transcript and returns the raw JSON payload. The caller validates it;
// this layer only owns the transport.
func (c *chatGPTService) ExtractIntent(
	ctx context.Context,
	transcript string,
	conversationDate string,
) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: nlp.ExtractionInstruction(c.catalog.Items(), conversationDate),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: transcript,
		},
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.1,
			MaxTokens:   600,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)

	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
