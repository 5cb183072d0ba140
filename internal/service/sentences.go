package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text after '.', '!' or '?' when the mark follows a
// word character and is itself followed by whitespace. The whitespace run
// between sentences is dropped.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	var prev rune
	for i, r := range text {
		if isSentenceEnd(r) && isWordRune(prev) {
			end := i + utf8.RuneLen(r)
			next, _ := utf8.DecodeRuneInString(text[end:])
			if end < len(text) && unicode.IsSpace(next) {
				sentences = append(sentences, text[start:end])
				start = end
			}
		}
		prev = r
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}

	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return sentences
}

// TruncateSentences keeps at most max sentences of text, joined by a single space.
func TruncateSentences(text string, max int) string {
	sentences := SplitSentences(text)
	if max > 0 && len(sentences) > max {
		sentences = sentences[:max]
	}
	return strings.Join(sentences, " ")
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
