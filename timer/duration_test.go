package timer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		selection string
		want      int
	}{
		{"10 sec", 10},
		{"15 min", 900},
		{"1 hr", 3600},
		{"2 hrs", 7200},
		{"90min", 5400},
		{"3   HRS", 10800},
		{"45 Min", 2700},
		{"90 min ★", 5400},
		{"  30 sec  ", 30},
		{"0 min", 0},
		{"007 sec", 7},
		{"5 min.", 300},
	}

	for _, tt := range tests {
		t.Run(tt.selection, func(t *testing.T) {
			d, err := ParseDuration(tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Seconds)
		})
	}
}

func TestParseDuration_Malformed(t *testing.T) {
	for _, selection := range []string{
		"",
		"min",
		"ten min",
		"10",
		"10 days",
		"10 minutes",
		"1.5 hrs",
		"10 min 5 sec",
		"99999999999999999999 sec",
		"999999999 hrs",
		"-5 min",
		"+2 hr",
		"#3 hrs",
		"(10) sec",
	} {
		t.Run(selection, func(t *testing.T) {
			_, err := ParseDuration(selection)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, selection, perr.Selection)
		})
	}
}
