package notes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
)

// RenderHTML converts note content (markdown) to HTML. Raw HTML in the
// content is dropped, so the result is safe to embed.
func RenderHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render note: %w", err)
	}
	return buf.String(), nil
}

// RelativeTime formats t the way note cards show it.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Local().Format("2006-01-02")
	}
}
