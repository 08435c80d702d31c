package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// strftime tokens accepted in the output path, mapped to Go layouts.
var dateTokens = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
}

// resolveDate replaces strftime tokens with values from t. Unknown tokens
// are kept literally and %% yields a single percent sign. Go's time.Format
// is only applied per token so literal path characters are never read as
// layout elements.
func resolveDate(format string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}
		next := format[i+1]
		switch layout, ok := dateTokens[next]; {
		case next == '%':
			b.WriteByte('%')
			i++
		case ok:
			b.WriteString(t.Format(layout))
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// expandRefs replaces {{name}} placeholders with values from vars.
func expandRefs(s string, vars map[string]string) string {
	for name, val := range vars {
		s = strings.ReplaceAll(s, "{{"+name+"}}", val)
	}
	return s
}

// deviceTag names the device set for {{device}}: base names joined by "+".
func deviceTag(devices []string) string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = filepath.Base(d)
	}
	return strings.Join(names, "+")
}

// ResolveLogPath expands {{device}}, {{host}} and date tokens in template.
func ResolveLogPath(template string, devices []string, now time.Time) string {
	host, _ := os.Hostname()
	vars := map[string]string{
		"device": deviceTag(devices),
		"host":   host,
	}
	return resolveDate(expandRefs(template, vars), now)
}
