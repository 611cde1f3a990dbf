package models

import "time"

// EndpointClass groups endpoints that share a limit.
type EndpointClass string

const (
	// ClassAuth covers registration, login and admin bootstrap.
	ClassAuth EndpointClass = "auth"
	// ClassWrite covers every other mutation.
	ClassWrite EndpointClass = "write"
)

func (c EndpointClass) IsValid() bool {
	return c == ClassAuth || c == ClassWrite
}

// Limit is a number of requests allowed per sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, set only when denied
}

// Key scopes a bucket to a class and client IP.
func Key(class EndpointClass, ip string) string {
	return "ratelimit:" + string(class) + ":ip:" + ip
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
