package yamusic

import "strings"

// RepairQuotes normalizes a loosely quoted object literal to strict
// double-quoted form so it can be fed to the JSON decoder.
//
// The fragment pages embed record data as JavaScript object literals in
// onclick attributes, quoting strings with either single or double
// quotes. The scanner walks the text span by span, consuming content one
// escaped-or-plain character at a time so an escaped quote of the span's
// own style never terminates it. For every quoted span found:
//   - single-quoted spans are rewritten with double quotes, embedded
//     \' escapes are unescaped, and embedded " characters are escaped
//   - double-quoted spans are emitted unchanged
//
// Repairing already strict input yields the input itself, so applying
// RepairQuotes twice equals applying it once.
//
// A span that never closes is emitted as-is; the stray quote makes the
// downstream JSON parse fail, which callers treat as a malformed record
// and skip without aborting the rest of the page.
func RepairQuotes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	i := 0
	for i < len(text) {
		ch := text[i]
		if ch != '\'' && ch != '"' {
			sb.WriteByte(ch)
			i++
			continue
		}

		content, end, ok := scanSpan(text, i+1, ch)
		if !ok {
			// Unclosed span: leave the remainder untouched.
			sb.WriteString(text[i:])
			break
		}

		sb.WriteByte('"')
		if ch == '\'' {
			sb.WriteString(requote(content))
		} else {
			sb.WriteString(content)
		}
		sb.WriteByte('"')
		i = end
	}

	return sb.String()
}

// scanSpan scans a quoted span opened with quote at text[start-1]. It
// returns the raw span content, the index just past the closing quote,
// and whether the span closed at all. Escaped characters count as a
// single content unit, so \' does not close a single-quoted span.
func scanSpan(text string, start int, quote byte) (content string, end int, ok bool) {
	i := start
	for i < len(text) {
		switch text[i] {
		case '\\':
			if i+1 >= len(text) {
				return "", 0, false
			}
			i += 2
		case quote:
			return text[start:i], i + 1, true
		default:
			i++
		}
	}
	return "", 0, false
}

// requote converts single-quote span content to double-quote form:
// \' escapes are no longer needed, raw " characters now are.
func requote(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for i := 0; i < len(content); i++ {
		switch c := content[i]; c {
		case '\\':
			if i+1 < len(content) && content[i+1] == '\'' {
				sb.WriteByte('\'')
				i++
				continue
			}
			sb.WriteByte(c)
			if i+1 < len(content) {
				sb.WriteByte(content[i+1])
				i++
			}
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
