package auth

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
	Email(user string) string
	SetSession(user, userID, token string)
	UserID(user string) (string, error)
}

// Admin holds the credentials of the server's first admin. The first admin
// can only be created once per server, so every run shares one.
type Admin struct {
	Email    string
	Password string
}

const userPassword = "correct horse battery staple"

// RegisterSteps registers account and session step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext, admin Admin) {
	steps := &authSteps{tc: tc, admin: admin}

	ctx.Step(`^an admin "([^"]*)" is signed in$`, steps.adminIsSignedIn)
	ctx.Step(`^a user "([^"]*)" is registered$`, steps.userIsRegistered)
	ctx.Step(`^"([^"]*)" registers again with the same email$`, steps.registersAgain)
	ctx.Step(`^"([^"]*)" signs in$`, steps.signsIn)
	ctx.Step(`^"([^"]*)" signs in with a wrong password$`, steps.signsInWithWrongPassword)
	ctx.Step(`^"([^"]*)" promotes "([^"]*)" to admin$`, steps.promotes)
	ctx.Step(`^"([^"]*)" should have the role "([^"]*)"$`, steps.shouldHaveRole)
}

type authSteps struct {
	tc    TestContext
	admin Admin
}

func (s *authSteps) adminIsSignedIn(ctx context.Context, name string) error {
	err := s.tc.Do("POST", "/api/admin/create-first-admin", "", map[string]string{
		"name":     name,
		"email":    s.admin.Email,
		"password": s.admin.Password,
	})
	if err != nil {
		return err
	}
	// Any status is fine here: a later run finds the admin already present.
	return s.login(name, s.admin.Email, s.admin.Password)
}

func (s *authSteps) userIsRegistered(ctx context.Context, name string) error {
	if err := s.register(name); err != nil {
		return err
	}
	if s.tc.LastStatus() != 201 {
		return fmt.Errorf("register %q returned %d: %s", name, s.tc.LastStatus(), s.tc.LastBody())
	}
	return s.storeSession(name)
}

func (s *authSteps) registersAgain(ctx context.Context, name string) error {
	return s.register(name)
}

func (s *authSteps) signsIn(ctx context.Context, name string) error {
	return s.login(name, s.tc.Email(name), userPassword)
}

func (s *authSteps) signsInWithWrongPassword(ctx context.Context, name string) error {
	return s.tc.Do("POST", "/api/auth/login", "", map[string]string{
		"email":    s.tc.Email(name),
		"password": "not-" + userPassword,
	})
}

func (s *authSteps) promotes(ctx context.Context, actor, target string) error {
	targetID, err := s.tc.UserID(target)
	if err != nil {
		return err
	}
	return s.tc.Do("PUT", "/api/admin/promote/"+targetID, actor, nil)
}

func (s *authSteps) shouldHaveRole(ctx context.Context, name, role string) error {
	userID, err := s.tc.UserID(name)
	if err != nil {
		return err
	}
	if err := s.tc.Do("GET", "/api/users/"+userID, "", nil); err != nil {
		return err
	}
	got, err := s.tc.ResponseField("role")
	if err != nil {
		return err
	}
	if got != role {
		return fmt.Errorf("expected %q to have role %q, got %v", name, role, got)
	}
	return nil
}

func (s *authSteps) register(name string) error {
	return s.tc.Do("POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    s.tc.Email(name),
		"password": userPassword,
	})
}

func (s *authSteps) login(name, email, password string) error {
	err := s.tc.Do("POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("login as %q returned %d: %s", name, s.tc.LastStatus(), s.tc.LastBody())
	}
	return s.storeSession(name)
}

func (s *authSteps) storeSession(name string) error {
	token, err := s.tc.ResponseField("token")
	if err != nil {
		return err
	}
	userID, err := s.tc.ResponseField("userId")
	if err != nil {
		return err
	}
	s.tc.SetSession(name, fmt.Sprint(userID), fmt.Sprint(token))
	return nil
}
