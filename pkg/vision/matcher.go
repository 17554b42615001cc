// Package vision implements the AI fallback matcher. It sends a screenshot
// and the extracted element list to an OpenAI-compatible chat model and
// asks for the coordinates of the best match from that list.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/hierarchy"
	"github.com/devicelab-dev/screenmatch/pkg/locator"
	"github.com/devicelab-dev/screenmatch/pkg/logger"
)

// Defaults
const (
	DefaultModel     = openai.GPT4o
	DefaultMaxTokens = 256
)

// ElementUnknown is what the model reports when nothing matched.
const ElementUnknown locator.ElementType = "unknown"

// completer is the part of *openai.Client the matcher uses.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures a Matcher.
type Options struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string // for OpenAI-compatible gateways
}

// Matcher asks a vision model to pick an element.
type Matcher struct {
	client    completer
	model     string
	maxTokens int
}

var _ locator.VisionMatcher = (*Matcher)(nil)

// New creates a Matcher. An API key is required.
func New(opts Options) (*Matcher, error) {
	if opts.APIKey == "" {
		return nil, core.ErrMissingRequired.WithMessage("OPENAI_API_KEY is not set")
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return newMatcher(openai.NewClientWithConfig(cfg), opts), nil
}

func newMatcher(c completer, opts Options) *Matcher {
	m := &Matcher{client: c, model: opts.Model, maxTokens: opts.MaxTokens}
	if m.model == "" {
		m.model = DefaultModel
	}
	if m.maxTokens <= 0 {
		m.maxTokens = DefaultMaxTokens
	}
	return m
}

// Match implements locator.VisionMatcher.
func (m *Matcher) Match(ctx context.Context, screenshot []byte, description string, tuples []hierarchy.Tuple) (locator.Result, error) {
	prompt := BuildPrompt(description, tuples)
	logger.L().Debug("vision request",
		zap.String("model", m.model),
		zap.Int("elements", len(tuples)),
		zap.Int("screenshot_bytes", len(screenshot)))

	parts := []openai.ChatMessagePart{}
	if len(screenshot) > 0 {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(screenshot),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
	})
	if err != nil {
		return locator.NotFound("AI request failed"), fmt.Errorf("vision request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return locator.NotFound("AI returned no choices"), fmt.Errorf("vision request: empty response")
	}

	res, err := ParseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return locator.NotFound("AI reply not understood"), err
	}
	logger.L().Info("vision result",
		zap.Bool("found", res.Found),
		zap.Uint32("x", res.X),
		zap.Uint32("y", res.Y),
		zap.Float32("confidence", res.Confidence))
	return res, nil
}

// BuildPrompt renders the instruction text for description and tuples.
func BuildPrompt(description string, tuples []hierarchy.Tuple) string {
	lines := make([]string, 0, len(tuples))
	for _, t := range tuples {
		if t.Label == "" {
			continue
		}
		lines = append(lines, t.String())
	}
	elements := "No UI elements detected from device."
	if len(lines) > 0 {
		elements = strings.Join(lines, "\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Find the UI element matching: %q\n\n", description)
	sb.WriteString("These are the elements extracted from the device with their EXACT center coordinates:\n\n")
	sb.WriteString(elements)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Use the screenshot to understand the screen, pick the listed element that best matches %q ", description)
	sb.WriteString("in meaning, and return its coordinates exactly as listed. Do not estimate coordinates.\n\n")
	sb.WriteString(`Equivalent wording counts as a match: "Login" matches "Sign In" or "Log In", "Submit" matches "Send", "Confirm" or "Done", `)
	sb.WriteString(`"Skip" matches "Not Now" or "Later", "Continue" matches "Next" or "Proceed", "Back" matches "Return" or "Cancel". `)
	sb.WriteString("Single digits refer to keypad buttons.\n\n")
	sb.WriteString("Respond with ONLY a JSON object, no markdown:\n")
	sb.WriteString(`{"found": true, "x": <x from list>, "y": <y from list>, "element_type": "button", "confidence": 0.95, "description": "Matched '<label from list>'"}`)
	sb.WriteString("\n\nIf nothing matches:\n")
	sb.WriteString(`{"found": false, "x": 0, "y": 0, "element_type": "unknown", "confidence": 0, "description": "No matching element found"}`)
	return sb.String()
}

// ParseReply decodes the model's JSON answer, tolerating a markdown fence.
func ParseReply(content string) (locator.Result, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var res locator.Result
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return locator.Result{}, fmt.Errorf("parse vision reply %q: %w", s, err)
	}
	if res.Confidence < 0 {
		res.Confidence = 0
	}
	if res.Confidence > 1 {
		res.Confidence = 1
	}
	if !res.Found {
		res.X, res.Y = 0, 0
	}
	if res.ElementType == "" {
		res.ElementType = ElementUnknown
	}
	return res, nil
}
