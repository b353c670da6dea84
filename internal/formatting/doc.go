// Package formatting turns event data into Slack message text.
//
// syntax.go holds the Slack mrkdwn primitives: Escape (&, <, > entities),
// Hyperlink (<url|caption>), Code and Preformatted.
//
// properties.go provides PropertyFormatter, which renders an arbitrary
// property value as display text: nil becomes "", maps and lists become JSON
// (null map members omitted) and everything else uses its natural string
// form. An optional maximum length truncates the result and appends "...".
//
// placeholders.go expands [Key] and [Key:Format] tokens against a
// case-insensitive view of the event's properties (SubstitutePlaceholders)
// and resolves dotted paths such as "Source.ResultsUrl" (SafeGetProperty).
// Format strings use positional composite syntax ({0}, {0,-8}, {{ }}) with
// the property value as the only argument; see composite.go.
//
// colors.go maps event levels to attachment colors.
package formatting
