package timer

import (
	"fmt"
)

// SplitSeconds breaks a number of seconds into hours, minutes and seconds.
func SplitSeconds(sec int) (int, int, int) {
	if sec < 0 {
		sec = 0
	}
	return sec / 3600, (sec % 3600) / 60, sec % 60
}

// FormatTime converts a number of seconds into a hh:mm:ss string format.
func FormatTime(sec int) string {
	h, m, s := SplitSeconds(sec)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
