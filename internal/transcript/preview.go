package transcript

import "unicode/utf8"

const previewLineMax = 80

// Preview returns up to n leading messages, each cut to previewLineMax runes
// with a "..." marker.
func Preview(messages []string, n int) []string {
	if n <= 0 || len(messages) == 0 {
		return nil
	}
	if n > len(messages) {
		n = len(messages)
	}

	lines := make([]string, 0, n)
	for _, m := range messages[:n] {
		lines = append(lines, truncate(m, previewLineMax))
	}
	return lines
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}
