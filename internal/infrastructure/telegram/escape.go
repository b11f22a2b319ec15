package telegram

import "strings"

// MarkdownV2 special characters that must be backslash-escaped in message
// text, per the Bot API formatting rules. The backslash itself is in the
// set; without it, escaping is not invertible for text like regex literals
// where a backslash precedes another special.
const markdownV2Specials = "_*[]()~`>#+-=|{}.!\\"

// EscapeMarkdownV2 escapes text so the Bot API MarkdownV2 renderer treats
// it literally. All extracted and candidate text passes through here
// before it is embedded in a payload.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x80 && strings.ContainsRune(markdownV2Specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeMarkdownV2 reverses EscapeMarkdownV2.
func UnescapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	escaped := false
	for _, r := range text {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		if escaped && !(r < 0x80 && strings.ContainsRune(markdownV2Specials, r)) {
			b.WriteByte('\\')
		}
		escaped = false
		b.WriteRune(r)
	}
	if escaped {
		b.WriteByte('\\')
	}
	return b.String()
}
