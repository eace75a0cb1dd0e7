package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core"
	"github.com/DanielSedell02/AI-spr-kapp/internal/models"
)

// GeminiLLM backs core.LLMProvider with the Gemini API in JSON-constrained
// mode: every completion is requested as an application/json response.
type GeminiLLM struct {
	client          *genai.Client
	modelName       string
	maxOutputTokens int32
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string, maxOutputTokens int) (*GeminiLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if maxOutputTokens <= 0 {
		maxOutputTokens = 500
	}
	return &GeminiLLM{client: cl, modelName: modelName, maxOutputTokens: int32(maxOutputTokens)}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiLLM) Generate(ctx context.Context, systemPrompt string, history []core.ChatMessage, userPrompt string, temperature float32) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(temperature)
	m.SetMaxOutputTokens(g.maxOutputTokens)
	m.ResponseMIMEType = "application/json"
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	cs := m.StartChat()
	for _, msg := range history {
		cs.History = append(cs.History, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: empty candidate")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

// geminiRole maps our turn roles onto the two roles the Gemini chat API
// accepts.
func geminiRole(role string) string {
	if role == models.RoleAssistant {
		return "model"
	}
	return "user"
}

var _ core.LLMProvider = (*GeminiLLM)(nil)
