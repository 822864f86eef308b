package lineindex

import "strings"

const (
	carriageReturn = '\r'
	lineFeed       = '\n'
)

// nextDelimiter finds the first line delimiter in s at or after position from.
// It returns the position and length of the delimiter, which is 2 for `\r\n`
// and 1 for a lone `\r` or `\n`.
func nextDelimiter(s string, from int) (pos int, length int, found bool) {
	if from >= len(s) {
		return -1, 0, false
	}
	k := strings.IndexAny(s[from:], "\r\n")
	if k < 0 {
		return -1, 0, false
	}
	pos = from + k
	if s[pos] == carriageReturn && pos+1 < len(s) && s[pos+1] == lineFeed {
		return pos, 2, true
	}
	return pos, 1, true
}

// DelimiterKind classifies the line delimiter of a line.
type DelimiterKind int8

// Kinds of line delimiters.
const (
	NoDelimiter DelimiterKind = iota // final line without delimiter
	LF                               // `\n`
	CR                               // `\r`
	CRLF                             // `\r\n`
)

func (k DelimiterKind) String() string {
	switch k {
	case LF:
		return `\n`
	case CR:
		return `\r`
	case CRLF:
		return `\r\n`
	}
	return "none"
}

// Len returns the number of bytes of the delimiter.
func (k DelimiterKind) Len() int {
	switch k {
	case NoDelimiter:
		return 0
	case CRLF:
		return 2
	}
	return 1
}
