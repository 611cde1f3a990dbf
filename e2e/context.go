// Package e2e runs the feature files in features/ against a live server.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

// TestContext carries HTTP state across the steps of one scenario.
type TestContext struct {
	baseURL string
	client  *http.Client
	runID   string
	ip      string

	lastStatus int
	lastBody   []byte
	lastHeader http.Header

	tokens  map[string]string
	userIDs map[string]string
	drains  map[string]string
	names   map[string]string
}

// NewTestContext returns a context with a fresh client IP so rate limit
// windows do not leak between scenarios.
func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		runID:   fmt.Sprintf("%x", rand.Uint64()),
		ip:      fmt.Sprintf("10.%d.%d.%d", rand.IntN(256), rand.IntN(256), 1+rand.IntN(254)),
		tokens:  map[string]string{},
		userIDs: map[string]string{},
		drains:  map[string]string{},
		names:   map[string]string{},
	}
}

// Do sends a request as the named user. An empty user sends no token.
func (tc *TestContext) Do(method, path, user string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Forwarded-For", tc.ip)
	if user != "" {
		token, ok := tc.tokens[user]
		if !ok {
			return fmt.Errorf("no session for user %q", user)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastHeader = resp.Header
	return nil
}

func (tc *TestContext) LastStatus() int  { return tc.lastStatus }
func (tc *TestContext) LastBody() []byte { return tc.lastBody }

func (tc *TestContext) LastHeader(name string) string {
	if tc.lastHeader == nil {
		return ""
	}
	return tc.lastHeader.Get(name)
}

// ResponseField returns a top-level field of the last JSON object response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var obj map[string]any
	if err := json.Unmarshal(tc.lastBody, &obj); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, tc.lastBody)
	}
	return v, nil
}

// Unique scopes a scenario-level name to this run so scenarios never
// collide on a server that outlives them.
func (tc *TestContext) Unique(name string) string {
	if real, ok := tc.names[name]; ok {
		return real
	}
	real := name + " " + tc.runID
	tc.names[name] = real
	return real
}

// Email derives a run-scoped address for a scenario user.
func (tc *TestContext) Email(user string) string {
	local := strings.ToLower(strings.ReplaceAll(user, " ", "."))
	return fmt.Sprintf("%s.%s@e2e.test", local, tc.runID)
}

func (tc *TestContext) SetSession(user, userID, token string) {
	tc.userIDs[user] = userID
	tc.tokens[user] = token
}

func (tc *TestContext) UserID(user string) (string, error) {
	v, ok := tc.userIDs[user]
	if !ok {
		return "", fmt.Errorf("unknown user %q", user)
	}
	return v, nil
}

func (tc *TestContext) SetDrain(name, drainID string) { tc.drains[name] = drainID }

func (tc *TestContext) DrainID(name string) (string, error) {
	v, ok := tc.drains[name]
	if !ok {
		return "", fmt.Errorf("unknown drain %q", name)
	}
	return v, nil
}
