package coach

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tritonlifts/api/internal/ai"
	"github.com/tritonlifts/api/internal/config"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/services"
	"github.com/tritonlifts/api/internal/telemetry/metrics"
)

type stubGenerator struct {
	text       string
	err        error
	lastPrompt string
	lastConfig ai.GenerationConfig
	calls      int
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, cfg ai.GenerationConfig) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	g.lastConfig = cfg
	return g.text, g.err
}

type stubUsers struct {
	user *models.User
	err  error
}

func (u *stubUsers) GetByID(_ context.Context, _ int64) (*models.User, error) {
	return u.user, u.err
}

type stubVolumes struct {
	summary services.VolumeSummary
	err     error
}

func (v *stubVolumes) Dashboard(_ context.Context, _ int64) (services.VolumeSummary, error) {
	return v.summary, v.err
}

type stubHistory struct {
	created   []models.ChatExchange
	createErr error
}

func (h *stubHistory) Create(_ context.Context, userID int64, prompt, response string) (*models.ChatExchange, error) {
	if h.createErr != nil {
		return nil, h.createErr
	}
	exchange := models.ChatExchange{ID: int64(len(h.created) + 1), UserID: userID, Prompt: prompt, Response: response}
	h.created = append(h.created, exchange)
	return &exchange, nil
}

func (h *stubHistory) ListByUser(_ context.Context, _ int64, limit, offset int) ([]models.ChatExchange, int, error) {
	end := offset + limit
	if end > len(h.created) {
		end = len(h.created)
	}
	if offset > end {
		offset = end
	}
	return h.created[offset:end], len(h.created), nil
}

type recordingSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
}

func floatPtr(v float64) *float64 { return &v }

func newTestService(gen *stubGenerator, history *stubHistory, speaker *recordingSpeaker, m *metrics.Manager) *Service {
	return NewService(Params{
		Generator: gen,
		Users:     &stubUsers{user: &models.User{ID: 1, Height: floatPtr(180), Weight: nil}},
		Volumes: &stubVolumes{summary: services.AggregateVolume([]models.WorkoutRecord{
			{MuscleGroup: "Chest", Volume: 800},
			{MuscleGroup: "Chest", Volume: 400},
			{MuscleGroup: "Biceps", Volume: 150.5},
		})},
		History:  history,
		Speaker:  speaker,
		Settings: config.DefaultCoachSettings(),
		Metrics:  m,
	})
}

func TestAskBuildsPromptAndTruncates(t *testing.T) {
	gen := &stubGenerator{text: "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty " +
		"one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty " +
		"one two three four five six seven eight nine ten eleven twelve"}
	history := &stubHistory{}
	speaker := &recordingSpeaker{}
	m := metrics.NewTestManager()
	service := newTestService(gen, history, speaker, m)

	answer, err := service.Ask(context.Background(), 1, "  How much should I bench?  ")
	require.NoError(t, err)

	want := "Hey, my height is 180 and my weight is unknown.\n" +
		"Till today I lifted 1200 on Chest, 150.5 on Biceps, and 0 on Shoulders.\n" +
		"Answer this in under 50 words: \"How much should I bench?\""
	assert.Equal(t, want, gen.lastPrompt)
	assert.InDelta(t, 0.7, gen.lastConfig.Temperature, 1e-9)
	assert.Equal(t, 1024, gen.lastConfig.MaxOutputTokens)

	assert.False(t, answer.Failed)
	assert.Len(t, splitWords(answer.Text), 50)

	require.Len(t, history.created, 1)
	assert.Equal(t, "How much should I bench?", history.created[0].Prompt)
	assert.Equal(t, answer.Text, history.created[0].Response)
	assert.Equal(t, []string{answer.Text}, speaker.spoken)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CounterCoachRequests.WithLabelValues(metrics.CoachModeAsk, metrics.CoachOutcomeOK)), 1e-9)
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	gen := &stubGenerator{text: "hi"}
	service := newTestService(gen, &stubHistory{}, &recordingSpeaker{}, nil)

	_, err := service.Ask(context.Background(), 1, "   ")
	require.ErrorIs(t, err, ErrBlankQuestion)
	assert.Zero(t, gen.calls)
}

func TestAskFallbacks(t *testing.T) {
	settings := config.DefaultCoachSettings()

	t.Run("transport failure", func(t *testing.T) {
		history := &stubHistory{}
		service := newTestService(&stubGenerator{err: errors.New("dial tcp: refused")}, history, &recordingSpeaker{}, nil)

		answer, err := service.Ask(context.Background(), 1, "help")
		require.NoError(t, err)
		assert.True(t, answer.Failed)
		assert.Equal(t, settings.AskFailureText, answer.Text)
		assert.Equal(t, "❌ Could not connect to Gemini API.", answer.Text)
		assert.Empty(t, history.created)
	})

	t.Run("empty reply", func(t *testing.T) {
		service := newTestService(&stubGenerator{text: "  "}, &stubHistory{}, &recordingSpeaker{}, nil)

		answer, err := service.Ask(context.Background(), 1, "help")
		require.NoError(t, err)
		assert.True(t, answer.Failed)
		assert.Equal(t, "⚠️ No AI response.", answer.Text)
	})
}

func TestAskSurvivesContextFailures(t *testing.T) {
	gen := &stubGenerator{text: "rest more"}
	service := NewService(Params{
		Generator: gen,
		Users:     &stubUsers{err: pgx.ErrNoRows},
		Volumes:   &stubVolumes{err: errors.New("timeout")},
		History:   &stubHistory{createErr: errors.New("insert failed")},
		Settings:  config.DefaultCoachSettings(),
	})

	answer, err := service.Ask(context.Background(), 1, "tired?")
	require.NoError(t, err)
	assert.Equal(t, "rest more", answer.Text)
	assert.Contains(t, gen.lastPrompt, "my height is unknown and my weight is unknown")
	assert.Contains(t, gen.lastPrompt, "0 on Chest, 0 on Biceps, and 0 on Shoulders")
}

func TestHeatmap(t *testing.T) {
	gen := &stubGenerator{text: " A glowing red chest & biceps! "}
	service := newTestService(gen, &stubHistory{}, &recordingSpeaker{}, nil)

	result := service.Heatmap(context.Background(), 1)
	assert.False(t, result.Failed)
	assert.Equal(t, "A glowing red chest & biceps!", result.Description)
	assert.Equal(t, "https://image.pollinations.ai/prompt/A%20glowing%20red%20chest%20%26%20biceps!", result.ImageURL)
	assert.Contains(t, gen.lastPrompt, "Emphasize chest, biceps, and shoulders as high intensity. User height: 180, weight: unknown.")
	assert.InDelta(t, 0.5, gen.lastConfig.Temperature, 1e-9)
	assert.Equal(t, 100, gen.lastConfig.MaxOutputTokens)
}

func TestHeatmapFailureCollapses(t *testing.T) {
	for _, gen := range []*stubGenerator{{err: errors.New("boom")}, {text: ""}} {
		service := newTestService(gen, &stubHistory{}, &recordingSpeaker{}, nil)
		result := service.Heatmap(context.Background(), 1)
		assert.True(t, result.Failed)
		assert.Equal(t, "❌ Image generation failed.", result.Message)
		assert.Empty(t, result.ImageURL)
	}
}

func TestHistoryPages(t *testing.T) {
	history := &stubHistory{}
	service := newTestService(&stubGenerator{text: "ok"}, history, &recordingSpeaker{}, nil)
	for i := 0; i < 3; i++ {
		_, err := service.Ask(context.Background(), 1, "q")
		require.NoError(t, err)
	}

	page, total, err := service.History(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestAskWithoutGeneratorFallsBack(t *testing.T) {
	service := NewService(Params{Settings: config.DefaultCoachSettings()})
	answer, err := service.Ask(context.Background(), 1, "anyone?")
	require.NoError(t, err)
	assert.True(t, answer.Failed)
}
