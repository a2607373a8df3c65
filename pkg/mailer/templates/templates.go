package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines the fields available to every template.
type EmailData struct {
	Name           string `json:"Name"`
	FirstName      string `json:"FirstName"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`
	SupportURL     string `json:"SupportURL"`

	EmployeeID string  `json:"EmployeeID"`
	Department string  `json:"Department"`
	Salary     float64 `json:"Salary"`
	SalaryText string  `json:"SalaryText"`

	Time   string    `json:"Time"`
	TimeAt time.Time `json:"TimeAt"`
}

// ToMap converts EmailData to the map carried in EmailJob.Data, so queued
// jobs and in-process jobs render from the same shape.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// EmployeeCreated is the welcome message sent after an employee is stored.
const EmployeeCreated = "employee_created"

// Known reports whether a template set with this base name is embedded.
func Known(name string) bool {
	_, err := FS.Open(name + ".subject.tmpl")
	return err == nil
}

// orDefault backs {{ .Value | default "Fallback" }}. Values that come back
// from a JSON round trip are strings, numbers, bools or nil.
func orDefault(fallback, value any) any {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(v) == "" {
			return fallback
		}
	case float64:
		if v == 0 {
			return fallback
		}
	case bool:
		if !v {
			return fallback
		}
	}
	return value
}

var funcs = map[string]any{
	"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
	"money":      FormatMoney,
	"default":    orDefault,
}

// set is one parsed subject/text/html triple.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*set{}
)

func load(name string) (*set, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if s, ok := cache[name]; ok {
		return s, nil
	}

	subject, err := texttpl.New(name + ".subject.tmpl").Funcs(funcs).ParseFS(FS, name+".subject.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse %s subject: %w", name, err)
	}
	text, err := texttpl.New(name + ".text.tmpl").Funcs(funcs).ParseFS(FS, name+".text.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse %s text: %w", name, err)
	}
	html, err := htmpl.New(name + ".html.tmpl").Funcs(htmpl.FuncMap(funcs)).ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse %s html: %w", name, err)
	}

	s := &set{subject: subject, text: text, html: html}
	cache[name] = s
	return s, nil
}

func execText(t *texttpl.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// Render produces the subject, text and html bodies of template set name
// (<name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl). Parsed sets are
// cached for the life of the process.
func Render(name string, data any) (subject, text, html string, err error) {
	s, err := load(name)
	if err != nil {
		return "", "", "", err
	}
	if subject, err = execText(s.subject, data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(s.text, data); err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err = s.html.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %q: %w", s.html.Name(), err)
	}
	return strings.TrimSpace(subject), text, buf.String(), nil
}
