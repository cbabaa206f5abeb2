package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const generationModel = "gemini-1.5-flash"

// geminiGenerator adapts a Gemini client to the Generator interface
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGeminiGenerator(client *genai.Client) *geminiGenerator {
	return &geminiGenerator{
		client: client,
		model:  generationModel,
	}
}

// Generate sends the system instruction and user prompt as a two-turn
// exchange and concatenates the returned text parts
func (g *geminiGenerator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("model returned empty content")
	}

	return sb.String(), nil
}
