package timer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformed is matched by every ParseError.
var ErrMalformed = errors.New("malformed duration")

// ParseError reports a selection that is not of the form "<digits> <unit>".
type ParseError struct {
	Selection string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid duration %q: %s", e.Selection, e.Reason)
}

// Is makes errors.Is(err, ErrMalformed) hold for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

// ParsedDuration is the result of ParseDuration.
type ParsedDuration struct {
	Seconds int
}

var durationPattern = regexp.MustCompile(`^(\d+)\s*([a-z]+)$`)

var unitSeconds = map[string]int{
	"sec": 1,
	"min": 60,
	"hr":  3600,
	"hrs": 3600,
}

// ParseDuration converts a selection such as "90 min" or "2 hrs ★" into
// seconds. Trailing decoration is ignored and units are matched
// case-insensitively. The value must lead, so signed input like "-5 min" is
// malformed. A zero duration parses fine; deciding whether it can be started
// is up to the caller.
func ParseDuration(selection string) (ParsedDuration, error) {
	trimmed := strings.TrimRightFunc(strings.TrimSpace(selection), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	m := durationPattern.FindStringSubmatch(strings.ToLower(trimmed))
	if m == nil {
		return ParsedDuration{}, &ParseError{Selection: selection, Reason: "expected <duration> <unit>"}
	}

	mult, ok := unitSeconds[m[2]]
	if !ok {
		return ParsedDuration{}, &ParseError{Selection: selection, Reason: fmt.Sprintf("unknown unit %q", m[2])}
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n > math.MaxInt32/mult {
		return ParsedDuration{}, &ParseError{Selection: selection, Reason: "duration out of range"}
	}

	return ParsedDuration{Seconds: n * mult}, nil
}
