package runner

import (
	"regexp"
	"strconv"
	"strings"
)

var scoreLine = regexp.MustCompile(`^Score = (-?[0-9]+)$`)

// ExtractScore scans log text from the last line backwards and returns the
// value of the first line matching "Score = <integer>", so the last score
// the judge logged wins. A log with no score line counts as a zero-scoring
// run, not a failure.
func ExtractScore(logText string) int64 {
	lines := strings.Split(logText, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		m := scoreLine.FindStringSubmatch(strings.TrimRight(lines[i], "\r"))
		if m == nil {
			continue
		}
		score, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return score
	}
	return 0
}
