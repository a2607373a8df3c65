package thirdparty

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Checker asks one remote endpoint whether a value is acceptable.
type Checker interface {
	Check(ctx context.Context, value string) (bool, error)
}

// HTTPChecker calls GET <URL>?<Param>=<value> and expects {"isValid": bool}.
type HTTPChecker struct {
	Client *http.Client
	URL    string
	Param  string
	Logger *logrus.Logger
}

func (h HTTPChecker) Check(ctx context.Context, value string) (bool, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return false, fmt.Errorf("parse provider url: %w", err)
	}
	q := u.Query()
	q.Set(h.Param, value)
	u.RawQuery = q.Encode()

	if h.Logger != nil {
		h.Logger.WithField("provider", u.Host).Infof("Calling third-party %s validation API at: %s", h.Param, u.String())
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return false, fmt.Errorf("%s validation provider returned %d: %s", h.Param, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body struct {
		IsValid *bool `json:"isValid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode %s validation response: %w", h.Param, err)
	}
	if body.IsValid == nil {
		return false, fmt.Errorf("%s validation response has no isValid field", h.Param)
	}
	return *body.IsValid, nil
}

// StubChecker accepts everything. It logs the call it would have made so the
// request flow stays observable without a real provider.
type StubChecker struct {
	URL    string
	Param  string
	Logger *logrus.Logger
}

func (s StubChecker) Check(_ context.Context, value string) (bool, error) {
	if s.Logger != nil {
		s.Logger.Infof("Calling third-party %s validation API at: %s?%s=%s", s.Param, s.URL, s.Param, url.QueryEscape(value))
	}
	return true, nil
}

// EmailService adapts a Checker to application.EmailValidator.
type EmailService struct {
	Checker Checker
}

func (s EmailService) ValidateEmail(ctx context.Context, email string) (bool, error) {
	return s.Checker.Check(ctx, email)
}

// DepartmentService adapts a Checker to application.DepartmentValidator.
type DepartmentService struct {
	Checker Checker
}

func (s DepartmentService) ValidateDepartment(ctx context.Context, department string) (bool, error) {
	return s.Checker.Check(ctx, department)
}
