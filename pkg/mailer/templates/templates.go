package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for account notification templates.
type EmailData struct {
	Name  string `json:"Name"`
	Email string `json:"Email"`
	Type  string `json:"Type"`

	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`
	SupportURL  string `json:"SupportURL"`
	ProfileURL  string `json:"ProfileURL"`

	IP        string            `json:"IP"`
	UserAgent string            `json:"UserAgent"`
	Time      string            `json:"Time"`
	Changes   map[string]string `json:"Changes"`
	OldPhone  string            `json:"OldPhone"`
	NewPhone  string            `json:"NewPhone"`
}

// ToMap flattens d into the JSON-friendly shape carried by an EmailJob.
func ToMap(d EmailData) map[string]any {
	m := map[string]any{}
	b, err := json.Marshal(d)
	if err == nil {
		_ = json.Unmarshal(b, &m)
	}
	return m
}

// defaultFn backs {{ .Value | default "Fallback" }}: blank strings and zero
// values yield the fallback.
func defaultFn(fallback, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if reflect.ValueOf(value).IsZero() {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"now":     func() string { return time.Now().UTC().Format(timeLayout) },
	"upper":   strings.ToUpper,
	"default": defaultFn,
}

// Template names. Each has <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl in FS.
const (
	LoginNotification = "login_notification"
	ProfileUpdated    = "profile_updated"
	PhoneChanged      = "phone_changed"
)

// Parsed once; a broken template fails at startup rather than per email.
var (
	textSet = texttpl.Must(texttpl.New("text").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("html").Funcs(funcs).ParseFS(FS, "*.html.tmpl"))
)

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func execute(set executor, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Render produces the subject (trimmed), plain text and HTML bodies of name.
func Render(name string, data any) (subject, text, html string, err error) {
	if subject, err = execute(textSet, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execute(textSet, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execute(htmlSet, name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
