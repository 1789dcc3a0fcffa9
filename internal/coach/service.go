package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/ai"
	"github.com/tritonlifts/api/internal/config"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/services"
	"github.com/tritonlifts/api/internal/speech"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
	"github.com/tritonlifts/api/internal/telemetry/tracing"
)

var ErrBlankQuestion = errors.New("question is blank")

type profileReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type volumeReader interface {
	Dashboard(ctx context.Context, userID int64) (services.VolumeSummary, error)
}

type historyStore interface {
	Create(ctx context.Context, userID int64, prompt string, response string) (*models.ChatExchange, error)
	ListByUser(ctx context.Context, userID int64, limit int, offset int) ([]models.ChatExchange, int, error)
}

// Answer is what the coach says back. Failed marks a fallback text.
type Answer struct {
	Question string `json:"question"`
	Text     string `json:"text"`
	Failed   bool   `json:"failed"`
}

type HeatmapResult struct {
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Message     string `json:"message,omitempty"`
	Failed      bool   `json:"failed"`
}

type Service struct {
	generator ai.Generator
	users     profileReader
	volumes   volumeReader
	history   historyStore
	speaker   speech.Speaker
	settings  config.CoachSettings
	metrics   *metrics.Manager
}

type Params struct {
	Generator ai.Generator
	Users     profileReader
	Volumes   volumeReader
	History   historyStore
	Speaker   speech.Speaker
	Settings  config.CoachSettings
	Metrics   *metrics.Manager
}

func NewService(params Params) *Service {
	speaker := params.Speaker
	if speaker == nil {
		speaker = speech.NopSpeaker{}
	}
	return &Service{
		generator: params.Generator,
		users:     params.Users,
		volumes:   params.Volumes,
		history:   params.History,
		speaker:   speaker,
		settings:  params.Settings,
		metrics:   params.Metrics,
	}
}

func (s *Service) Settings() config.CoachSettings {
	return s.settings
}

// Ask answers a fitness question using the user's profile and lifted volume
// as context. Only a blank question is reported as an error; every other
// failure turns into a fallback answer.
func (s *Service) Ask(ctx context.Context, userID int64, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrBlankQuestion
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "coachService.ask")
	defer span.End()

	prompt := AskPrompt(
		s.loadProfile(ctx, userID),
		s.loadVolumes(ctx, userID),
		s.settings.HighlightedGroups,
		s.settings.WordBudget,
		question,
	)

	reply, err := s.generate(ctx, metrics.CoachModeAsk, prompt, ai.GenerationConfig{
		Temperature:     s.settings.AskTemperature,
		MaxOutputTokens: s.settings.AskMaxTokens,
	})

	answer := Answer{Question: question}
	switch {
	case err != nil:
		logrus.WithError(err).WithField("user_id", userID).Error("coach: generation failed")
		answer.Text = s.settings.AskFailureText
		answer.Failed = true
	case strings.TrimSpace(reply) == "":
		answer.Text = s.settings.NoResponseText
		answer.Failed = true
	default:
		answer.Text = TruncateWords(reply, s.settings.WordBudget)
	}
	s.countOutcome(metrics.CoachModeAsk, answer.Failed)

	if !answer.Failed && s.history != nil {
		if _, err := s.history.Create(ctx, userID, question, answer.Text); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("coach: saving chat history failed")
		}
	}

	s.speaker.Speak(ctx, answer.Text)
	return answer, nil
}

// Heatmap asks the model for an image description and turns it into an
// image URL. Any failure yields the single heatmap failure message.
func (s *Service) Heatmap(ctx context.Context, userID int64) HeatmapResult {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coachService.heatmap")
	defer span.End()

	prompt := HeatmapPrompt(s.loadProfile(ctx, userID), s.settings.HighlightedGroups)
	description, err := s.generate(ctx, metrics.CoachModeHeatmap, prompt, ai.GenerationConfig{
		Temperature:     s.settings.HeatmapTemperature,
		MaxOutputTokens: s.settings.HeatmapMaxTokens,
	})
	description = strings.TrimSpace(description)

	if err != nil || description == "" {
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("coach: heatmap generation failed")
		}
		s.countOutcome(metrics.CoachModeHeatmap, true)
		return HeatmapResult{Message: s.settings.HeatmapFailureText, Failed: true}
	}

	s.countOutcome(metrics.CoachModeHeatmap, false)
	return HeatmapResult{
		Description: description,
		ImageURL:    ImageURL(s.settings.ImageServiceURL, description),
	}
}

func (s *Service) History(ctx context.Context, userID int64, limit, offset int) ([]models.ChatExchange, int, error) {
	exchanges, total, err := s.history.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("coach: listing chat history failed")
		return nil, 0, fmt.Errorf("list chat history: %w", err)
	}
	return exchanges, total, nil
}

func (s *Service) generate(ctx context.Context, mode, prompt string, cfg ai.GenerationConfig) (string, error) {
	if s.generator == nil {
		return "", errors.New("no generator configured")
	}

	started := time.Now()
	text, err := s.generator.Generate(ctx, prompt, cfg)
	if s.metrics != nil {
		s.metrics.HistogramCoachDuration.WithLabelValues(mode).Observe(time.Since(started).Seconds())
	}
	return text, err
}

// loadProfile falls back to an unknown profile when the lookup fails.
func (s *Service) loadProfile(ctx context.Context, userID int64) Profile {
	if s.users == nil {
		return Profile{}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("coach: profile unavailable")
		return Profile{}
	}
	return Profile{Height: user.Height, Weight: user.Weight}
}

func (s *Service) loadVolumes(ctx context.Context, userID int64) map[string]float64 {
	if s.volumes == nil {
		return nil
	}
	summary, err := s.volumes.Dashboard(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("coach: volume unavailable")
		return nil
	}
	return summary.Volumes()
}

func (s *Service) countOutcome(mode string, failed bool) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.CoachOutcomeOK
	if failed {
		outcome = metrics.CoachOutcomeFallback
	}
	s.metrics.CounterCoachRequests.WithLabelValues(mode, outcome).Inc()
}
