package adoption

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, user string, body any) error
	LastStatus() int
	LastBody() []byte
	ResponseField(field string) (any, error)
	Unique(name string) string
	UserID(user string) (string, error)
	SetDrain(name, drainID string)
	DrainID(name string) (string, error)
}

// RegisterSteps registers drain catalog and adoption step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adoptionSteps{tc: tc}

	ctx.Step(`^"([^"]*)" creates a drain "([^"]*)" at ([-\d.]+), ([-\d.]+)$`, steps.createsDrainAt)
	ctx.Step(`^"([^"]*)" creates a drain "([^"]*)"$`, steps.createsDrain)
	ctx.Step(`^"([^"]*)" renames the drain "([^"]*)" to "([^"]*)"$`, steps.renamesDrain)
	ctx.Step(`^"([^"]*)" deletes the drain "([^"]*)"$`, steps.deletesDrain)
	ctx.Step(`^"([^"]*)" adopts the drain "([^"]*)"$`, steps.adoptsDrain)
	ctx.Step(`^"([^"]*)" adopts the drain "([^"]*)" for "([^"]*)"$`, steps.adoptsDrainFor)
	ctx.Step(`^the drain "([^"]*)" should be adopted by "([^"]*)"$`, steps.drainShouldBeAdoptedBy)
	ctx.Step(`^the drain "([^"]*)" should not be adopted$`, steps.drainShouldNotBeAdopted)
	ctx.Step(`^"([^"]*)" should have adopted the drain "([^"]*)"$`, steps.userShouldHaveAdopted)
	ctx.Step(`^"([^"]*)" should not have adopted a drain$`, steps.userShouldNotHaveAdopted)
}

type adoptionSteps struct {
	tc TestContext
}

func (s *adoptionSteps) createsDrain(ctx context.Context, user, name string) error {
	return s.createsDrainAt(ctx, user, name, 52.52, 13.405)
}

func (s *adoptionSteps) createsDrainAt(ctx context.Context, user, name string, lat, lng float64) error {
	err := s.tc.Do("POST", "/api/drains", user, map[string]any{
		"name":      s.tc.Unique(name),
		"latitude":  lat,
		"longitude": lng,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != 201 {
		return nil
	}
	drainID, err := s.tc.ResponseField("id")
	if err != nil {
		return err
	}
	s.tc.SetDrain(name, fmt.Sprint(drainID))
	return nil
}

func (s *adoptionSteps) renamesDrain(ctx context.Context, user, name, newName string) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	if err := s.tc.Do("PUT", "/api/drains/"+drainID, user, map[string]any{"name": s.tc.Unique(newName)}); err != nil {
		return err
	}
	s.tc.SetDrain(newName, drainID)
	return nil
}

func (s *adoptionSteps) deletesDrain(ctx context.Context, user, name string) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	return s.tc.Do("DELETE", "/api/drains/"+drainID, user, nil)
}

func (s *adoptionSteps) adoptsDrain(ctx context.Context, user, name string) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	return s.tc.Do("POST", "/api/drains/"+drainID+"/adopt", user, nil)
}

func (s *adoptionSteps) adoptsDrainFor(ctx context.Context, actor, name, user string) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	userID, err := s.tc.UserID(user)
	if err != nil {
		return err
	}
	return s.tc.Do("POST", "/api/drains/"+drainID+"/adopt?userId="+userID, actor, nil)
}

func (s *adoptionSteps) drainShouldBeAdoptedBy(ctx context.Context, name, user string) error {
	adopter, err := s.drainField(name, "adoptedByUserId")
	if err != nil {
		return err
	}
	userID, err := s.tc.UserID(user)
	if err != nil {
		return err
	}
	if adopter != userID {
		return fmt.Errorf("drain %q adopted by %v, want %s", name, adopter, userID)
	}
	return nil
}

func (s *adoptionSteps) drainShouldNotBeAdopted(ctx context.Context, name string) error {
	adopter, err := s.drainField(name, "adoptedByUserId")
	if err != nil {
		return err
	}
	if adopter != nil {
		return fmt.Errorf("drain %q is adopted by %v", name, adopter)
	}
	return nil
}

func (s *adoptionSteps) userShouldHaveAdopted(ctx context.Context, user, name string) error {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return err
	}
	adopted, err := s.userField(user, "adoptedDrainId")
	if err != nil {
		return err
	}
	if adopted != drainID {
		return fmt.Errorf("%q adopted %v, want %s", user, adopted, drainID)
	}
	return nil
}

func (s *adoptionSteps) userShouldNotHaveAdopted(ctx context.Context, user string) error {
	adopted, err := s.userField(user, "adoptedDrainId")
	if err != nil {
		return err
	}
	if adopted != nil {
		return fmt.Errorf("%q still holds drain %v", user, adopted)
	}
	return nil
}

func (s *adoptionSteps) drainField(name, field string) (any, error) {
	drainID, err := s.tc.DrainID(name)
	if err != nil {
		return nil, err
	}
	if err := s.tc.Do("GET", "/api/drains/"+drainID, "", nil); err != nil {
		return nil, err
	}
	if s.tc.LastStatus() != 200 {
		return nil, fmt.Errorf("get drain %q returned %d: %s", name, s.tc.LastStatus(), s.tc.LastBody())
	}
	return s.tc.ResponseField(field)
}

func (s *adoptionSteps) userField(user, field string) (any, error) {
	userID, err := s.tc.UserID(user)
	if err != nil {
		return nil, err
	}
	if err := s.tc.Do("GET", "/api/users/"+userID, "", nil); err != nil {
		return nil, err
	}
	if s.tc.LastStatus() != 200 {
		return nil, fmt.Errorf("get user %q returned %d: %s", user, s.tc.LastStatus(), s.tc.LastBody())
	}
	return s.tc.ResponseField(field)
}
