package events

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// MessageTemplateEngine renders human-readable descriptions of events.
// Templates are Go text/templates with the sprig function map; they receive
// the Event as their data.
type MessageTemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		templates: make(map[string]*template.Template),
	}
	engine.loadDefaultTemplates()
	return engine
}

func (e *MessageTemplateEngine) loadDefaultTemplates() {
	defaults := map[string]string{
		ChannelLoggingIn: "Session authentication starting",
		ChannelLoggedIn:  "Session authenticated{{if .Payload}} ({{ printf \"%T\" .Payload }}){{end}}",
		ChannelLoggedOut: "Session signed out",
		ChannelCheck:     "Session check requested{{with .Payload}}: {{ . }}{{end}}",
	}
	for channel, text := range defaults {
		// Default templates are static; a parse failure is a programming error.
		if err := e.SetTemplate(channel, text); err != nil {
			panic(err)
		}
	}
}

// SetTemplate replaces the template used for channel.
func (e *MessageTemplateEngine) SetTemplate(channel, text string) error {
	tmpl, err := template.New(channel).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template for %s: %w", channel, err)
	}

	e.mu.Lock()
	e.templates[channel] = tmpl
	e.mu.Unlock()
	return nil
}

// HasTemplate reports whether a template is registered for channel.
func (e *MessageTemplateEngine) HasTemplate(channel string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.templates[channel]
	return ok
}

// Render describes event. Channels without a template, and templates that
// fail to execute, fall back to a generic description.
func (e *MessageTemplateEngine) Render(event Event) string {
	e.mu.RLock()
	tmpl, ok := e.templates[event.Channel]
	e.mu.RUnlock()

	fallback := fmt.Sprintf("Event on channel %s", event.Channel)
	if !ok {
		return fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, event); err != nil {
		return fallback
	}
	return buf.String()
}
