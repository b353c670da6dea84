package formatting

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/slackrelay/slackrelay/pkg/types"
)

var placeholderPattern = regexp.MustCompile(`\[([^\[\]]+?)(?::([^\[\]]+?))?\]`)

// nullMarker is substituted for properties that are present but null.
var nullMarker = Code("null")

// SubstitutePlaceholders expands [Key] and [Key:Format] tokens in template
// using evt's properties. Keys match case-insensitively. Tokens whose key is
// not found are left untouched.
//
// When includeDerived is true the lookup is seeded with Level, EventType,
// RenderedMessage and Exception from the event itself, unless a property of
// the same name already exists.
func SubstitutePlaceholders(template string, evt *types.Event, includeDerived bool) string {
	values := make(map[string]any, len(evt.Properties)+4)
	for _, p := range evt.Properties {
		values[strings.ToLower(p.Name)] = p.Value
	}

	if includeDerived {
		var exception any
		if evt.Exception != "" {
			exception = evt.Exception
		}
		addIfAbsent(values, "Level", evt.Level)
		addIfAbsent(values, "EventType", evt.EventType)
		addIfAbsent(values, "RenderedMessage", evt.RenderedMessage)
		addIfAbsent(values, "Exception", exception)
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		m := placeholderPattern.FindStringSubmatch(token)
		value, ok := values[strings.ToLower(m[1])]
		if !ok {
			return token
		}
		return formatValue(value, m[2])
	})
}

func addIfAbsent(values map[string]any, key string, value any) {
	key = strings.ToLower(key)
	if _, ok := values[key]; !ok {
		values[key] = value
	}
}

// formatValue renders a placeholder value, applying format when given.
// A format that cannot be applied is logged and the plain value is used.
func formatValue(value any, format string) string {
	raw := nullMarker
	if value != nil {
		raw = DisplayString(value)
	}

	if strings.TrimSpace(format) == "" {
		return raw
	}

	formatted, err := formatComposite(format, raw)
	if err != nil {
		slog.Error("formatting: could not format placeholder",
			"value", raw,
			"format", format,
			"err", err,
		)
		return raw
	}
	return Escape(formatted)
}

// SafeGetProperty resolves a dotted property path such as "Alert.Url"
// against evt. Each step except the last must be a nested map. A missing
// step yields "", a null leaf yields the inline-code null marker, and any
// other leaf is returned escaped unless raw is set.
func SafeGetProperty(evt *types.Event, path string, raw bool) string {
	if evt.Properties == nil {
		return ""
	}

	get := evt.Properties.Get
	steps := strings.Split(path, ".")
	for i, step := range steps {
		next, ok := get(step)
		if !ok {
			return ""
		}

		if i == len(steps)-1 {
			if next == nil {
				return nullMarker
			}
			s := DisplayString(next)
			if raw {
				return s
			}
			return Escape(s)
		}

		m, ok := next.(map[string]any)
		if !ok {
			return ""
		}
		get = func(name string) (any, bool) {
			v, ok := m[name]
			return v, ok
		}
	}
	return ""
}

// LinkToID returns the host UI URL that shows the event with the given ID.
func LinkToID(baseURI, eventID string) string {
	return strings.TrimRight(baseURI, "/") +
		"/#/events?filter=@Id%20%3D%3D%20%22" + url.QueryEscape(eventID) + "%22&show=expanded"
}
