package ai

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type GenerationConfig struct {
	Temperature     float64
	MaxOutputTokens int
}

// Generator turns a prompt into text. An empty string with a nil error means
// the provider answered without any text.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

// NewTracedHTTPClient returns a client whose transport records spans for
// outgoing requests.
func NewTracedHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
