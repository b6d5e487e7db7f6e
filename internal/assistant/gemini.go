package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.4)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Reply answers a renter's question with marketplace context injected.
func (p *GeminiProvider) Reply(ctx context.Context, message string, contextMap map[string]string) (string, error) {
	prompt := buildPrompt(message, contextMap)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			reply.WriteString(string(txt))
		}
	}

	return strings.TrimSpace(reply.String()), nil
}

// buildPrompt injects pricing policy and per-request context so answers match
// what the booking flow will actually charge.
func buildPrompt(message string, contextMap map[string]string) string {
	var b strings.Builder

	b.WriteString("You are the help assistant of a car-rental marketplace.\n")
	b.WriteString("Pricing policy: base cost is the car's daily rate times rental days, ")
	b.WriteString("plus 10% tax on the base and a flat $10 service fee per booking. ")
	b.WriteString("A same-day rental counts as one day.\n")
	b.WriteString("Answer briefly and only about renting cars on this marketplace.\n")

	if len(contextMap) > 0 {
		b.WriteString("\nContext:\n")
		keys := make([]string, 0, len(contextMap))
		for k := range contextMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, contextMap[k])
		}
	}

	b.WriteString("\nUser Message: ")
	b.WriteString(message)

	return b.String()
}
