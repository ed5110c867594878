// Package generator builds demo sleep histories.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/sleepdial/internal/dial"
)

// weekHours are the demo durations from six days ago up to today.
var weekHours = []float64{7.0, 6.5, 8.0, 7.5, 7.8, 7.2, 9.0}

const (
	minHours = 0.0
	maxHours = 24.0
)

// Generator produces randomized sleep samples.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Week returns the fixed seven-night demo history ending at now.
func Week(now time.Time) []dial.SleepSample {
	out := make([]dial.SleepSample, 0, len(weekHours))
	for i, hours := range weekHours {
		ago := len(weekHours) - 1 - i
		out = append(out, dial.NewSample(now.AddDate(0, 0, -ago), hours))
	}
	return out
}

// Random returns one sample per day for the last days days, ending at now.
// Durations are drawn from a normal distribution around mean and clamped to
// a single day.
func (g *Generator) Random(now time.Time, days int, mean, spread float64) []dial.SleepSample {
	if days <= 0 {
		return nil
	}
	out := make([]dial.SleepSample, 0, days)
	for ago := days - 1; ago >= 0; ago-- {
		hours := mean + g.rnd.NormFloat64()*spread
		if hours < minHours {
			hours = minHours
		}
		if hours > maxHours {
			hours = maxHours
		}
		// Quarter-hour resolution reads better in tables.
		hours = float64(int(hours*4+0.5)) / 4
		out = append(out, dial.NewSample(now.AddDate(0, 0, -ago), hours))
	}
	return out
}
