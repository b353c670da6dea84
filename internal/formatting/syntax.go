package formatting

import "strings"

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape replaces the three characters Slack treats as control sequences
// with their HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Hyperlink returns a Slack link with the given caption. The caption is
// used as-is; callers escape user-supplied text first.
func Hyperlink(url, caption string) string {
	return "<" + url + "|" + caption + ">"
}

// Preformatted wraps s in a fenced code block. Carriage returns are dropped.
func Preformatted(s string) string {
	return "```\n" + strings.ReplaceAll(s, "\r", "") + "\n```"
}

// Code wraps s in inline code markers.
func Code(s string) string {
	return "`" + s + "`"
}
