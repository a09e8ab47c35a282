// Package advisor asks Gemini for the next move on a puzzle.
package advisor

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/n4ze3m/num-shift/internal/engine"
	"github.com/n4ze3m/num-shift/internal/models"
)

//go:embed prompts/suggest_move.txt
var suggestMovePrompt string

var suggestMoveTmpl = template.Must(template.New("suggest_move").Parse(suggestMovePrompt))

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// historyWindow is how many recent moves the prompt shows.
const historyWindow = 8

var (
	// ErrNoContent means the model returned nothing usable.
	ErrNoContent = errors.New("no content returned from Gemini")
	// ErrUnusableMove means the suggested move cannot be played.
	ErrUnusableMove = errors.New("suggested move is not playable")
)

// Suggestion is a proposed move with the model's one-line reason.
type Suggestion struct {
	Move   models.Mutation `yaml:"move"`
	Reason string          `yaml:"reason"`
}

type Advisor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

// New connects to Gemini. An empty modelName selects DefaultModel.
func New(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Advisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	model := client.GenerativeModel(modelName)
	return &Advisor{
		client: client,
		model:  model,
		logger: logger.With("component", "advisor", "model", modelName),
	}, nil
}

func (a *Advisor) Close() error {
	return a.client.Close()
}

// Suggest asks for one move on s. The move is checked against the session
// before it is returned, so callers can play it directly.
func (a *Advisor) Suggest(ctx context.Context, s *engine.Session) (*Suggestion, error) {
	prompt, err := BuildPrompt(s)
	if err != nil {
		return nil, err
	}

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoContent
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}

	sug, err := ParseSuggestion(string(text))
	if err != nil {
		a.logger.Warn("unparseable suggestion", "error", err, "reply", string(text))
		return nil, err
	}
	if err := Check(s, sug.Move); err != nil {
		a.logger.Warn("rejected suggestion", "error", err, "move", sug.Move)
		return nil, err
	}
	a.logger.Debug("suggestion", "move", sug.Move, "reason", sug.Reason)
	return sug, nil
}

// BuildPrompt renders the suggestion prompt for s.
func BuildPrompt(s *engine.Session) (string, error) {
	var history strings.Builder
	entries := s.History
	if len(entries) > historyWindow {
		fmt.Fprintf(&history, "(%d earlier moves omitted)\n", len(entries)-historyWindow)
		entries = entries[len(entries)-historyWindow:]
	}
	for _, h := range entries {
		fmt.Fprintf(&history, "%s: %s -> %s\n", Describe(h.Mutation), h.Before, h.After)
	}

	allowed := make([]string, 0, len(s.Config.AvailableMutations))
	for _, k := range s.Config.AvailableMutations {
		allowed = append(allowed, string(k))
	}

	data := struct {
		Target            string
		Current           string
		AttemptsRemaining int
		Pool              []string
		Locked            []int
		Allowed           []string
		History           string
	}{
		Target:            s.Config.TargetNumber,
		Current:           s.Current,
		AttemptsRemaining: s.AttemptsRemaining,
		Pool:              s.Config.MutationPool,
		Locked:            s.Config.LockedPositions,
		Allowed:           allowed,
		History:           strings.TrimRight(history.String(), "\n"),
	}

	var buf bytes.Buffer
	if err := suggestMoveTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// ParseSuggestion reads the model's YAML reply, tolerating a code fence.
func ParseSuggestion(text string) (*Suggestion, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var sug Suggestion
	if err := yaml.Unmarshal([]byte(clean), &sug); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion YAML: %w", err)
	}
	if sug.Move.Type == "" {
		return nil, fmt.Errorf("%w: reply has no move", ErrUnusableMove)
	}
	sug.Reason = strings.TrimSpace(sug.Reason)
	return &sug, nil
}

// Check reports whether m is offered by the session's config and applies
// cleanly to its current number.
func Check(s *engine.Session, m models.Mutation) error {
	if err := s.Offered(m); err != nil {
		return fmt.Errorf("%w: %v", ErrUnusableMove, err)
	}
	if _, err := engine.Apply(s.Current, m); err != nil {
		return fmt.Errorf("%w: %v", ErrUnusableMove, err)
	}
	return nil
}

// Describe renders m the way a player would type it.
func Describe(m models.Mutation) string {
	switch m.Type {
	case models.KindSwap:
		if len(m.Positions) == 2 {
			return fmt.Sprintf("swap %d %d", m.Positions[0], m.Positions[1])
		}
	case models.KindFlip, models.KindReplace:
		return fmt.Sprintf("%s %d %s", m.Type, m.Position, m.Value)
	case models.KindShift, models.KindBump:
		return fmt.Sprintf("%s %d %s", m.Type, m.Position, m.Direction)
	}
	return string(m.Type)
}
