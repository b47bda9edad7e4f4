package ipc

import "strings"

// Highlight wraps every case-insensitive occurrence of keyword in text using
// mark. Empty keywords return the text unchanged.
func Highlight(text, keyword string, mark func(string) string) string {
	if keyword == "" || text == "" {
		return text
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(keyword)

	var sb strings.Builder
	i := 0
	for {
		j := strings.Index(lower[i:], needle)
		if j < 0 {
			sb.WriteString(text[i:])
			return sb.String()
		}
		j += i
		sb.WriteString(text[i:j])
		sb.WriteString(mark(text[j : j+len(needle)]))
		i = j + len(needle)
	}
}
