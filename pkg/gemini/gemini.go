package gemini

import (
	"TrattoriaGolang/pkg/menu"
	"TrattoriaGolang/pkg/nlp"
	"context"
	"errors"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyCompletion = errors.New("no response from Gemini API")

type IGemini interface {
	ExtractIntent(ctx context.Context, transcript string, conversationDate string) (string, error)
}

type geminiClient struct {
	modelName string
	client    *genai.Client
	catalog   *menu.Catalog
}

func NewGeminiClient(catalog *menu.Catalog) (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
		catalog:   catalog,
	}, nil
}

func (g *geminiClient) ExtractIntent(ctx context.Context, transcript string, conversationDate string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(nlp.ExtractionInstruction(g.catalog.Items(), conversationDate))},
	}

	res, err := model.GenerateContent(ctx, genai.Text(transcript))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
