// Package durationparse implements the project file's duration grammar:
// a sequence of "number unit" pairs joined by whitespace or the word
// "and" — e.g. "1h 30m", "2 days", "1 week and 2 days".
//
// It is a pure function, string → whole seconds (int64), with no knowledge of
// the rest of the project description. internal/config calls it while
// decoding task durations.
package durationparse

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationParseError reports a malformed duration expression.
type DurationParseError struct {
	Input  string
	Offset int // byte offset where parsing failed
	Reason string
}

func (e *DurationParseError) Error() string {
	return fmt.Sprintf("parse duration %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// unitSeconds maps every accepted unit spelling (lowercased) to its
// length in seconds. "month"/"months" has no calendar semantics — the
// lexer approximates a month as 30 days, same as the source grammar.
var unitSeconds = map[string]float64{
	"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1,
	"m": 60, "min": 60, "mins": 60, "minute": 60, "minutes": 60,
	"h": 3600, "hour": 3600, "hours": 3600,
	"d": 86400, "day": 86400, "days": 86400,
	"w": 604800, "week": 604800, "weeks": 604800,
	"month": 30 * 86400, "months": 30 * 86400,
}

// Parse converts a duration expression into whole seconds. It returns
// *DurationParseError for any input that doesn't match
// "(number whitespace* unit)+", joined by whitespace or "and".
func Parse(s string) (seconds int64, err error) {
	i := 0
	n := len(s)
	var total float64
	matched := false

	for i < n {
		i = skipSpace(s, i)
		if i >= n {
			break
		}
		if rest := s[i:]; strings.HasPrefix(strings.ToLower(rest), "and") && wordBoundary(rest, 3) {
			i += 3
			continue
		}

		start := i
		for i < n && (isDigit(s[i]) || s[i] == '.') {
			i++
		}
		if i == start {
			return 0, &DurationParseError{Input: s, Offset: i, Reason: "expected a number"}
		}
		num, perr := strconv.ParseFloat(s[start:i], 64)
		if perr != nil {
			return 0, &DurationParseError{Input: s, Offset: start, Reason: "invalid number: " + perr.Error()}
		}

		i = skipSpace(s, i)

		start = i
		for i < n && isAlpha(s[i]) {
			i++
		}
		if i == start {
			return 0, &DurationParseError{Input: s, Offset: i, Reason: "expected a unit"}
		}
		unit := strings.ToLower(s[start:i])
		mult, ok := unitSeconds[unit]
		if !ok {
			return 0, &DurationParseError{Input: s, Offset: start, Reason: "unknown unit " + strconv.Quote(unit)}
		}

		total += num * mult
		matched = true
	}

	if !matched {
		return 0, &DurationParseError{Input: s, Offset: 0, Reason: "empty duration expression"}
	}
	return int64(total), nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// wordBoundary reports whether rest[:n] is followed by a non-letter
// (or end of string) — guards against treating "android" as "and" + "roid".
func wordBoundary(rest string, n int) bool {
	if n >= len(rest) {
		return true
	}
	return !isAlpha(rest[n])
}
