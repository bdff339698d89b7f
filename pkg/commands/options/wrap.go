package options

import "strings"

func Wrap80(text string) string {
	return Wrap(text, 80)
}

// Wrap breaks text on word boundaries so no line exceeds width, unless a
// single word is longer.
func Wrap(text string, width int) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(words[0])
	left := width - len(words[0])
	for _, word := range words[1:] {
		if len(word)+1 > left {
			b.WriteString("\n")
			left = width
		} else {
			b.WriteString(" ")
			left--
		}
		b.WriteString(word)
		left -= len(word)
	}
	return b.String()
}
