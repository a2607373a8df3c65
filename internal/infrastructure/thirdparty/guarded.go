package thirdparty

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/pkg/breaker"
)

// GuardedEmailValidator runs email validation through a circuit breaker.
// It never returns an error: provider failures, timeouts and an open circuit
// all answer false, so an email is never accepted unverified.
type GuardedEmailValidator struct {
	Inner   application.EmailValidator
	Breaker *breaker.Breaker
	Logger  *logrus.Logger
}

func NewGuardedEmailValidator(inner application.EmailValidator, b *breaker.Breaker, logger *logrus.Logger) *GuardedEmailValidator {
	return &GuardedEmailValidator{Inner: inner, Breaker: b, Logger: logger}
}

func (g *GuardedEmailValidator) ValidateEmail(ctx context.Context, email string) (bool, error) {
	var valid bool
	err := g.Breaker.Execute(ctx, func(c context.Context) error {
		ok, err := g.Inner.ValidateEmail(c, email)
		if err != nil {
			return err
		}
		valid = ok
		return nil
	})
	if err == nil {
		return valid, nil
	}

	entry := g.Logger.WithError(err).WithFields(logrus.Fields{
		"breaker": g.Breaker.Name(),
		"state":   g.Breaker.State().String(),
	})
	if errors.Is(err, breaker.ErrOpen) {
		entry.Warnf("Circuit breaker triggered for email validation. Using fallback for email: %s", email)
	} else {
		entry.Warnf("Error calling third-party email validation service, rejecting email: %s", email)
	}
	return false, nil
}

var _ application.EmailValidator = (*GuardedEmailValidator)(nil)
