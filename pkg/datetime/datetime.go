package datetime

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the only date-time format accepted at the chat boundary:
// DD.MM.YYYY, HH:mm with a 24-hour clock. Seconds are always zero.
const Layout = "02.01.2006, 15:04"

// Parse parses user input strictly against Layout. Anything that does not
// round-trip back to the exact canonical form is rejected, so lenient forms
// like "1.07.2025, 18:00" are errors rather than best-effort guesses.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if t.Format(Layout) != s {
		return time.Time{}, fmt.Errorf("parse %q: not in canonical form %s", s, Layout)
	}
	return t, nil
}

// Format renders t in the boundary format, dropping seconds.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}
