package e2e

import (
	"github.com/cucumber/godog"

	"drainadopt/e2e/steps/adoption"
	"drainadopt/e2e/steps/auth"
	"drainadopt/e2e/steps/common"
	"drainadopt/e2e/steps/notification"
	"drainadopt/e2e/steps/ratelimit"
)

// RegisterSteps wires every step package to one scenario's context.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext, admin auth.Admin) {
	common.RegisterSteps(ctx, tc)
	auth.RegisterSteps(ctx, tc, admin)
	adoption.RegisterSteps(ctx, tc)
	notification.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
