package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/internal/middleware"
	"github.com/tritonlifts/api/internal/session"
)

func testSession() *session.Session {
	now := time.Now().UTC()
	return &session.Session{
		ID:        "sess-1",
		UserID:    42,
		Email:     "lifter@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func withSession(sess *session.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalSession, sess)
		c.Locals(middleware.LocalUserID, sess.UserID)
		c.Locals(middleware.LocalSessionID, sess.ID)
		return c.Next()
	}
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		switch v := body.(type) {
		case string:
			reader = bytes.NewBufferString(v)
		default:
			payload, _ := json.Marshal(v)
			reader = bytes.NewReader(payload)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
