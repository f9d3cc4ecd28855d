package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rating bounds accepted from clients.
const (
	minRating     = 1
	maxRating     = 5
	defaultRating = 1
)

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeText normalizes user text for consistent storage:
//   - NFC normalization so visually identical text compares equal,
//   - CRLF/CR to LF,
//   - runs of 3+ LFs collapsed to exactly two,
//   - surrounding whitespace trimmed.
func sanitizeText(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// sanitizeLine is sanitizeText for single-line fields: inner newlines become
// spaces.
func sanitizeLine(raw string) string {
	s := sanitizeText(raw)
	return strings.Join(strings.Fields(s), " ")
}

// fieldError names the first invalid field of a request.
type fieldError struct {
	Field  string
	Reason string
}

func (e *fieldError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Reason) }

func required(field, v string) error {
	if v == "" {
		return &fieldError{Field: field, Reason: "must not be blank"}
	}
	return nil
}

// parseRating accepts a JSON number or a numeric string. A missing, null or
// unparseable value falls back to 1; a parsed value outside 1..5 is an error.
func parseRating(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return defaultRating, nil
	}

	var n int
	var num float64
	var str string
	switch {
	case json.Unmarshal(raw, &num) == nil:
		if num != math.Trunc(num) || math.Abs(num) > math.MaxInt32 {
			return defaultRating, nil
		}
		n = int(num)
	case json.Unmarshal(raw, &str) == nil:
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return defaultRating, nil
		}
		n = v
	default:
		return defaultRating, nil
	}

	if n < minRating || n > maxRating {
		return 0, &fieldError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return n, nil
}
