package pipeline

import (
	"bufio"
	"strings"
)

// Result line prefixes printed by stage processes on stdout.
const (
	AudioPathPrefix = "GENERATED_AUDIO_PATH:"
	VideoURLPrefix  = "FINAL_VIDEO_URL:"
)

// FormatLine renders a result line, e.g. "FINAL_VIDEO_URL: /static/x.mp4".
func FormatLine(prefix, value string) string {
	return prefix + " " + value
}

// ParseLine returns the value of the last line in output starting with
// prefix. Empty values do not count.
func ParseLine(output, prefix string) (string, bool) {
	var (
		value string
		found bool
	)
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		v := strings.TrimSpace(strings.TrimPrefix(line, prefix))
		if v == "" {
			continue
		}
		value, found = v, true
	}
	return value, found
}
