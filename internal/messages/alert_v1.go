package messages

import (
	"github.com/slackrelay/slackrelay/internal/formatting"
	"github.com/slackrelay/slackrelay/pkg/types"
)

// alertV1Layout renders dashboard-chart alerts.
type alertV1Layout struct {
	template string
}

// NewAlertV1 returns the builder for first-generation alert notifications.
func NewAlertV1(opts Options) Builder {
	return &builder{opts: opts, layout: &alertV1Layout{template: opts.MessageTemplate}}
}

func (l *alertV1Layout) text(evt *types.Event) string {
	dashboardURL := formatting.SafeGetProperty(evt, "DashboardUrl", false)
	condition := formatting.SafeGetProperty(evt, "Condition", true)
	dashboardTitle := formatting.SafeGetProperty(evt, "DashboardTitle", false)
	chartTitle := formatting.SafeGetProperty(evt, "ChartTitle", false)

	owner := ""
	if v, ok := evt.Properties.Get("OwnerUsername"); ok {
		if s, ok := v.(string); ok && s != "" {
			owner = formatting.Escape(s) + "/"
		}
	}

	caption := owner + dashboardTitle + "/" + chartTitle
	return "Alert condition " + formatting.Code(condition) +
		" detected on " + formatting.Hyperlink(dashboardURL, caption) + "."
}

func (l *alertV1Layout) necessary(m *Message, evt *types.Event, color string) {
	m.Attach(resultsLink(formatting.SafeGetProperty(evt, "ResultsUrl", false), color))
}

func (l *alertV1Layout) optional(m *Message, _ *types.Event, color string) {
	m.Attach(newAttachment(color, l.template, "", true))
}
