package messages

import (
	"strings"

	"github.com/slackrelay/slackrelay/internal/formatting"
	"github.com/slackrelay/slackrelay/pkg/types"
)

// reservedAlertProperties carry the alert structure itself and are not
// listed as fields.
var reservedAlertProperties = map[string]struct{}{
	"NamespacedAlertTitle": {},
	"Alert":                {},
	"Source":               {},
	"SuppressedUntil":      {},
	"Failures":             {},
}

// alertV2Layout renders notifications from the query-based alerting system.
type alertV2Layout struct {
	baseURI   string
	template  string
	formatter *formatting.PropertyFormatter
}

// NewAlertV2 returns the builder for second-generation alert notifications.
func NewAlertV2(opts Options) Builder {
	return &builder{
		opts: opts,
		layout: &alertV2Layout{
			baseURI:   opts.BaseURI,
			template:  opts.MessageTemplate,
			formatter: formatting.NewPropertyFormatter(opts.MaxPropertyLength),
		},
	}
}

func (l *alertV2Layout) text(evt *types.Event) string {
	title := formatting.SafeGetProperty(evt, "NamespacedAlertTitle", false)
	alertURL := formatting.SafeGetProperty(evt, "Alert.Url", false)
	return "Alert condition triggered by " + formatting.Hyperlink(alertURL, title)
}

func (l *alertV2Layout) necessary(m *Message, evt *types.Event, color string) {
	m.Attach(resultsLink(formatting.SafeGetProperty(evt, "Source.ResultsUrl", false), color))
	m.Attach(newAttachment(color, l.template, "", true))

	if v, ok := evt.Properties.Get("Failures"); ok {
		if failures, ok := v.([]any); ok {
			for _, f := range failures {
				text := ""
				if f != nil {
					text = formatting.Escape(formatting.DisplayString(f))
				}
				m.Attach(newAttachment(color, text, "Alert Processing Failed", false))
			}
		}
	}
}

func (l *alertV2Layout) optional(m *Message, evt *types.Event, color string) {
	props := newAttachment(color, "", "", false)
	for _, p := range evt.Properties {
		if _, reserved := reservedAlertProperties[p.Name]; reserved {
			continue
		}
		props.AddField(p.Name, l.formatter.Format(p.Value), false)
	}
	m.Attach(props)

	if rows := contributingEvents(evt); len(rows) > 0 {
		var sb strings.Builder
		for _, row := range rows {
			id, ts, msg := row[0], row[1], row[2]
			sb.WriteString(formatting.Code(ts))
			sb.WriteString(" ")
			sb.WriteString(formatting.Hyperlink(formatting.LinkToID(l.baseURI, id), formatting.Escape(msg)))
			sb.WriteString("\n")
		}
		m.Attach(newAttachment(color, sb.String(), "Contributing Events", false))
	}
}

// contributingEvents returns the rows of Source.ContributingEvents after the
// first, which is the event that triggered the alert itself. Each row is
// [id, timestamp, message]; rows that are not lists are dropped and short
// rows are padded with empty cells.
func contributingEvents(evt *types.Event) [][3]string {
	v, ok := evt.Properties.Get("Source")
	if !ok {
		return nil
	}
	source, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	table, ok := source["ContributingEvents"].([]any)
	if !ok || len(table) < 2 {
		return nil
	}

	rows := make([][3]string, 0, len(table)-1)
	for _, r := range table[1:] {
		cells, ok := r.([]any)
		if !ok {
			continue
		}
		var row [3]string
		for i := 0; i < len(row) && i < len(cells); i++ {
			row[i] = formatting.DisplayString(cells[i])
		}
		rows = append(rows, row)
	}
	return rows
}
