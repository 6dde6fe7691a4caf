package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelbytessier/nativepath-promotions-sub000/internal/qa"
)

func f(severity string, passed bool) qa.Finding {
	return qa.Finding{Severity: severity, Passed: passed, NeedsReview: passed}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]qa.Finding{
		f("critical", false),
		f("critical", false),
		f("warning", false),
		f("info", false),
		f("unknown", false), // unrecognized severity counts as info
		f("critical", true), // passed-with-review counts as advisory, not critical
	})
	assert.Equal(t, Summary{Critical: 2, Warning: 1, Info: 2, Advisory: 1}, s)
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100.0, Score(nil))
	assert.Equal(t, 75.0, Score([]qa.Finding{f("critical", false)}))
	assert.Equal(t, 90.0, Score([]qa.Finding{f("warning", false)}))
	assert.Equal(t, 97.0, Score([]qa.Finding{f("info", false)}))
	assert.Equal(t, 98.0, Score([]qa.Finding{f("warning", true)}))

	mixed := []qa.Finding{
		f("critical", false),
		f("warning", false),
		f("info", false),
		f("info", true),
	}
	assert.Equal(t, 100.0-25-10-3-2, Score(mixed))
}

func TestScoreFloor(t *testing.T) {
	var pile []qa.Finding
	for i := 0; i < 10; i++ {
		pile = append(pile, f("critical", false))
	}
	assert.Equal(t, 0.0, Score(pile))
}
