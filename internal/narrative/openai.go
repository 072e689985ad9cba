package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"

	openai "github.com/sashabaranov/go-openai"
)

// GenerativeConfig configures the LLM-backed renderer. Any
// OpenAI-compatible endpoint works via BaseURL.
type GenerativeConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// GenerativeRenderer produces narrative text with a chat-completion
// model. It honors the same input and output shapes as the template
// renderer, so selecting it is purely a configuration change.
type GenerativeRenderer struct {
	client *openai.Client
	model  string
	temp   float32
	tokens int
}

func NewGenerativeRenderer(cfg GenerativeConfig) *GenerativeRenderer {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	tokens := cfg.MaxTokens
	if tokens <= 0 {
		tokens = 600
	}
	return &GenerativeRenderer{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		temp:   cfg.Temperature,
		tokens: tokens,
	}
}

const generativeSystemPrompt = `You are a market commentary writer for a retail investing dashboard.
Write factual, measured prose. Never invent prices or events beyond the supplied data.
Respond with a JSON object: {"headline": "...", "text": "..."}.
The headline follows the pattern "<Adjective> <Bias> Outlook with <Risk> Risk".
The text is 5-7 sentences covering trend, signal alignment, news sentiment, volatility,
goal-specific guidance and an action hint matching the requested tone.`

type generativeResult struct {
	Headline string `json:"headline"`
	Text     string `json:"text"`
}

func (r *GenerativeRenderer) Render(ctx context.Context, in domsvc.RenderInput) (models.NarrativeOutput, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temp,
		MaxTokens:   r.tokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(in)},
		},
	})
	if err != nil {
		return models.NarrativeOutput{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.NarrativeOutput{}, fmt.Errorf("chat completion: empty response")
	}

	var parsed generativeResult
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return models.NarrativeOutput{}, fmt.Errorf("parse completion: %w", err)
	}
	if parsed.Headline == "" || parsed.Text == "" {
		return models.NarrativeOutput{}, fmt.Errorf("parse completion: missing headline or text")
	}

	return models.NarrativeOutput{
		Headline:     parsed.Headline,
		Text:         parsed.Text,
		InvestorType: string(in.Profile.Type),
	}, nil
}

func buildPrompt(in domsvc.RenderInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n", in.Symbol)
	fmt.Fprintf(&b, "Market bias: %s, signal strength: %s, conflicting signals: %v\n", in.Bias, in.Strength, in.Conflicting)
	fmt.Fprintf(&b, "Trend: %s (%.0f%% confidence), risk level: %s, volatility: %s, news sentiment: %s\n",
		in.State.Trend, in.State.Confidence, in.State.RiskLevel, in.State.Volatility, in.State.NewsSentiment)
	fmt.Fprintf(&b, "Investor: %s, horizon: %s, primary goal: %s\n", in.Profile.Type, in.Profile.TimeHorizon, in.Profile.PrimaryGoal)
	fmt.Fprintf(&b, "Requested tone: %s\n", in.Intensity)
	return b.String()
}

var _ domsvc.NarrativeRenderer = (*GenerativeRenderer)(nil)
var _ domsvc.NarrativeRenderer = (*TemplateRenderer)(nil)
