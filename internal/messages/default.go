package messages

import (
	"strings"

	"github.com/slackrelay/slackrelay/internal/formatting"
	"github.com/slackrelay/slackrelay/pkg/types"
)

const defaultMessageTemplate = "[RenderedMessage]"

// specialProperties are shown as short fields next to the level rather than
// in the property listing.
var specialProperties = []string{"Id", "Host"}

const stackTraceProperty = "StackTrace"

type defaultLayout struct {
	baseURI   string
	template  string
	formatter *formatting.PropertyFormatter
	included  map[string]struct{}
}

// NewDefault returns the builder for ordinary log events.
func NewDefault(opts Options) Builder {
	tmpl := opts.MessageTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = defaultMessageTemplate
	}

	included := make(map[string]struct{}, len(opts.IncludedProperties))
	for _, name := range opts.IncludedProperties {
		if name = strings.TrimSpace(name); name != "" {
			included[name] = struct{}{}
		}
	}

	return &builder{
		opts: opts,
		layout: &defaultLayout{
			baseURI:   opts.BaseURI,
			template:  tmpl,
			formatter: formatting.NewPropertyFormatter(opts.MaxPropertyLength),
			included:  included,
		},
	}
}

func (l *defaultLayout) viewLink(evt *types.Event) string {
	return formatting.Hyperlink(formatting.LinkToID(l.baseURI, evt.ID), "View this event in Seq")
}

func (l *defaultLayout) text(evt *types.Event) string {
	msg := formatting.Escape(formatting.SubstitutePlaceholders(l.template, evt, true))
	return msg + " (" + l.viewLink(evt) + ")"
}

func (l *defaultLayout) necessary(m *Message, evt *types.Event, color string) {
	m.Attach(newAttachment(color, l.viewLink(evt), "", false))
}

func (l *defaultLayout) optional(m *Message, evt *types.Event, color string) {
	special := newAttachment(color, "", "", false)
	special.AddField("Level", evt.Level.String(), true)
	for _, key := range specialProperties {
		if v, ok := evt.Properties.Get(key); ok {
			special.AddField(key, formatting.DisplayString(v), true)
		}
	}
	m.Attach(special)

	if evt.Exception != "" {
		m.Attach(newAttachment(color, formatting.Preformatted(evt.Exception), "Exception Details", true))
	}

	if st, ok := evt.Properties.Get(stackTraceProperty); ok {
		if stackTrace, ok := st.(string); ok {
			m.Attach(newAttachment(color, formatting.Preformatted(stackTrace), "Stack Trace", true))
		}
	}

	props := newAttachment(color, "", "Properties", false)
	for _, p := range evt.Properties {
		if isSpecial(p.Name) || p.Name == stackTraceProperty {
			continue
		}
		if len(l.included) > 0 {
			if _, ok := l.included[p.Name]; !ok {
				continue
			}
		}
		props.AddField(p.Name, l.formatter.Format(p.Value), false)
	}
	m.Attach(props)
}

func isSpecial(name string) bool {
	for _, s := range specialProperties {
		if s == name {
			return true
		}
	}
	return false
}
