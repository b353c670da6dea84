package formatting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errFormat = errors.New("malformed format string")

// maxWidth bounds the alignment of a format item.
const maxWidth = 1_000_000

// formatComposite applies a positional composite format string to a single
// argument. Supported items are {0}, {0,width} (negative width left-aligns)
// and {0:fmt}; the fmt part is accepted but has no effect on text values.
// Literal braces are written as {{ and }}.
func formatComposite(format, arg string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return "", errFormat
			}
			item := format[i+1 : i+1+end]
			formatted, err := formatItem(item, arg)
			if err != nil {
				return "", err
			}
			b.WriteString(formatted)
			i += end + 1
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errFormat
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// formatItem renders the contents of one {index[,width][:fmt]} item.
func formatItem(item, arg string) (string, error) {
	if colon := strings.IndexByte(item, ':'); colon >= 0 {
		item = item[:colon]
	}

	width := 0
	if comma := strings.IndexByte(item, ','); comma >= 0 {
		w, err := strconv.Atoi(strings.TrimSpace(item[comma+1:]))
		if err != nil || w >= maxWidth || w <= -maxWidth {
			return "", errFormat
		}
		width = w
		item = item[:comma]
	}

	index, err := strconv.Atoi(strings.TrimSpace(item))
	if err != nil {
		return "", errFormat
	}
	if index != 0 {
		return "", fmt.Errorf("index %d out of range: only one argument is available", index)
	}

	pad := abs(width) - utf8.RuneCountInString(arg)
	if pad <= 0 {
		return arg, nil
	}
	if width < 0 {
		return arg + strings.Repeat(" ", pad), nil
	}
	return strings.Repeat(" ", pad) + arg, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
