package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSpeakTimeout = 10 * time.Second

// Speaker reads text aloud. Calls return immediately and never report errors
// to the caller.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

type NopSpeaker struct{}

func (NopSpeaker) Speak(context.Context, string) {}

// HTTPSpeaker hands text to a text-to-speech endpoint that accepts {"text": ...}.
type HTTPSpeaker struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewHTTPSpeaker(url string, httpClient *http.Client) *HTTPSpeaker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPSpeaker{
		url:        url,
		httpClient: httpClient,
		timeout:    defaultSpeakTimeout,
	}
}

func (s *HTTPSpeaker) Speak(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		speakCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.send(speakCtx, text); err != nil {
			logrus.WithError(err).Warn("speech: synthesis request failed")
		}
	}()
}

// Wait blocks until every pending Speak call has finished.
func (s *HTTPSpeaker) Wait() {
	s.wg.Wait()
}

func (s *HTTPSpeaker) send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("tts status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
