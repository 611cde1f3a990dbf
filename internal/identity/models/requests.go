package models

import (
	"strings"

	dErrors "drainadopt/pkg/domain-errors"
)

// RegisterRequest is the body of POST /auth/register and create-first-admin.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	switch {
	case r.Name == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case r.Email == "" || !strings.Contains(r.Email, "@"):
		return dErrors.New(dErrors.CodeValidation, "a valid email is required")
	case r.Password == "":
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}
