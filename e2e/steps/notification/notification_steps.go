package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, user string, body any) error
	LastStatus() int
	LastBody() []byte
	ResponseField(field string) (any, error)
	Unique(name string) string
	DrainID(name string) (string, error)
}

// RegisterSteps registers comment and notification feed step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &notificationSteps{tc: tc}

	ctx.Step(`^"([^"]*)" comments "([^"]*)" on the drain "([^"]*)"$`, steps.commentsOnDrain)
	ctx.Step(`^the drain "([^"]*)" should have (\d+) comments?$`, steps.drainShouldHaveComments)
	ctx.Step(`^the latest notification should be "([^"]*)" for the drain "([^"]*)"$`, steps.latestNotificationShouldBe)
	ctx.Step(`^the latest notification message should be "([^"]*)" on the drain "([^"]*)"$`, steps.latestMessageShouldBe)
	ctx.Step(`^the latest notification is marked read$`, steps.markLatestRead)
	ctx.Step(`^all notifications are marked read$`, steps.markAllRead)
	ctx.Step(`^the unread count should be (\d+)$`, steps.unreadCountShouldBe)
}

type notificationSteps struct {
	tc TestContext
}

type notificationView struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	DrainID string `json:"drainId"`
	Read    bool   `json:"read"`
}

func (s *notificationSteps) commentsOnDrain(ctx context.Context, user, text, name string) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	return s.tc.Do("POST", "/api/drains/"+drainID+"/comments", user, map[string]string{"text": text})
}

func (s *notificationSteps) drainShouldHaveComments(ctx context.Context, name string, expected int) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	if err := s.tc.Do("GET", "/api/drains/"+drainID+"/comments", "", nil); err != nil {
		return err
	}
	var comments []map[string]any
	if err := json.Unmarshal(s.tc.LastBody(), &comments); err != nil {
		return fmt.Errorf("decode comments: %w", err)
	}
	if len(comments) != expected {
		return fmt.Errorf("expected %d comments on %q, got %d", expected, name, len(comments))
	}
	return nil
}

func (s *notificationSteps) latestNotificationShouldBe(ctx context.Context, typ, name string) error {
	latest, err := s.latest()
	if err != nil {
		return err
	}
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	if latest.Type != typ || latest.DrainID != drainID {
		return fmt.Errorf("latest notification is %s for drain %s, want %s for %s", latest.Type, latest.DrainID, typ, drainID)
	}
	if latest.Read {
		return fmt.Errorf("latest notification %s is already read", latest.ID)
	}
	return nil
}

// latestMessageShouldBe compares against a message whose trailing drain
// name is scoped to this run.
func (s *notificationSteps) latestMessageShouldBe(ctx context.Context, prefix, name string) error {
	latest, err := s.latest()
	if err != nil {
		return err
	}
	want := strings.TrimSpace(prefix) + " " + s.tc.Unique(name)
	if latest.Message != want {
		return fmt.Errorf("latest notification message is %q, want %q", latest.Message, want)
	}
	return nil
}

func (s *notificationSteps) markLatestRead(ctx context.Context) error {
	latest, err := s.latest()
	if err != nil {
		return err
	}
	return s.tc.Do("PUT", "/api/notifications/"+latest.ID+"/read", "", nil)
}

func (s *notificationSteps) markAllRead(ctx context.Context) error {
	if err := s.tc.Do("PUT", "/api/notifications/mark-all-read", "", nil); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("mark all read returned %d: %s", s.tc.LastStatus(), s.tc.LastBody())
	}
	return nil
}

func (s *notificationSteps) unreadCountShouldBe(ctx context.Context, expected int) error {
	if err := s.tc.Do("GET", "/api/notifications/unread-count", "", nil); err != nil {
		return err
	}
	count, err := s.tc.ResponseField("count")
	if err != nil {
		return err
	}
	// JSON numbers decode as float64.
	if got, _ := count.(float64); int(got) != expected {
		return fmt.Errorf("expected %d unread notifications, got %v", expected, count)
	}
	return nil
}

func (s *notificationSteps) latest() (*notificationView, error) {
	if err := s.tc.Do("GET", "/api/notifications", "", nil); err != nil {
		return nil, err
	}
	var list []notificationView
	if err := json.Unmarshal(s.tc.LastBody(), &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no notifications recorded")
	}
	return &list[0], nil
}
