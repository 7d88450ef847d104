// Package debrief generates a short narrative flight summary from parsed
// IGC data via the OpenAI chat-completions API. Entirely optional: when
// disabled the rest of the service is unaffected.
package debrief

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/yegors/flightlog/internal/igc"
	"github.com/yegors/flightlog/pkg/logger"
)

const systemPrompt = "You are a flight instructor reviewing a glider or paraglider " +
	"tracklog. Write a short, factual debrief of the flight in plain prose. " +
	"Do not invent details that are not in the data."

// Config represents the debrief service configuration
type Config struct {
	Model          string
	TimeoutSeconds int
}

// Service generates flight debriefs
type Service struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

// NewService creates a new debrief service
func NewService(apiKey string, cfg Config, logger *logger.Logger) *Service {
	return &Service{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logger.Named("debrief"),
	}
}

// Generate produces a narrative summary for a parsed flight.
func (s *Service) Generate(ctx context.Context, meta igc.FlightMetadata, fixes []igc.Fix) (string, error) {
	if len(fixes) == 0 {
		return "", fmt.Errorf("debrief: flight has no fixes")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildPrompt(meta, fixes)

	s.logger.Debug("Requesting flight debrief",
		logger.String("model", s.model),
		logger.Int("fix_count", len(fixes)))

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("debrief request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("debrief request returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// buildPrompt condenses the track into the few statistics the model needs.
func buildPrompt(meta igc.FlightMetadata, fixes []igc.Fix) string {
	first, last := fixes[0], fixes[len(fixes)-1]

	maxAltitude := 0
	totalClimb := 0
	prevAltitude := -1
	for _, fix := range fixes {
		altitude := 0
		if fix.PressureAltitude != nil {
			altitude = *fix.PressureAltitude
		} else if fix.GPSAltitude != nil {
			altitude = *fix.GPSAltitude
		}
		if altitude > maxAltitude {
			maxAltitude = altitude
		}
		if prevAltitude >= 0 && altitude > prevAltitude {
			totalClimb += altitude - prevAltitude
		}
		prevAltitude = altitude
	}

	var b strings.Builder
	if meta.Pilot != nil {
		fmt.Fprintf(&b, "Pilot: %s\n", *meta.Pilot)
	}
	if meta.GliderModel != nil {
		fmt.Fprintf(&b, "Glider: %s\n", *meta.GliderModel)
	}
	if meta.Date != nil {
		fmt.Fprintf(&b, "Date: %s\n", meta.Date.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Takeoff: %s\n", first.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Landing: %s\n", last.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n", last.Timestamp.Sub(first.Timestamp).Round(time.Second))
	fmt.Fprintf(&b, "Fixes: %d\n", len(fixes))
	fmt.Fprintf(&b, "Max altitude: %d m\n", maxAltitude)
	fmt.Fprintf(&b, "Total climb: %d m\n", totalClimb)

	return b.String()
}
