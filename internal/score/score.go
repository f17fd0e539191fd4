// Package score keeps the running counters of a fire rescue session and
// turns them into a graded report with achievements.
package score

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Axis weights of the final score.
const (
	weightTime     = 0.30
	weightWater    = 0.25
	weightAccuracy = 0.25
	weightFires    = 0.20
)

// Time and water scoring bands.
const (
	parResponse   = 30 * time.Second  // full marks at or under
	slowResponse  = 180 * time.Second // zero marks at or over
	parWaterFire  = 40.0              // water units per fire for full marks
	wastefulWater = 200.0             // water units per fire for zero marks
	defaultGoal   = 3
)

// Stats are the raw counters of one session.
type Stats struct {
	FiresExtinguished int
	FireGoal          int // fires the level started with
	WaterUsed         float64
	WaterShots        int
	SuccessfulShots   int
	ResponseTime      time.Duration
	Completed         bool

	// LifetimeFires counts fires put out in earlier sessions.
	LifetimeFires int
}

// Accuracy is the share of shots that hit a fire, as a whole percentage.
func (s Stats) Accuracy() int {
	if s.WaterShots == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.SuccessfulShots) / float64(s.WaterShots)))
}

// TotalFires is the lifetime fire count including this session.
func (s Stats) TotalFires() int {
	return s.LifetimeFires + s.FiresExtinguished
}

// Grade is the letter mapped from a final score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
)

// GradeFor maps a 0..100 score to a letter.
func GradeFor(total int) Grade {
	switch {
	case total >= 90:
		return GradeAPlus
	case total >= 80:
		return GradeA
	case total >= 70:
		return GradeB
	case total >= 60:
		return GradeC
	default:
		return GradeD
	}
}

// Report is the end-of-session summary.
type Report struct {
	Stats

	TimeScore     int
	WaterScore    int
	AccuracyScore int
	FireScore     int
	Total         int
	Grade         Grade

	Achievements []Achievement
}

// Evaluate scores a set of counters. It is pure.
func Evaluate(s Stats) Report {
	r := Report{
		Stats:         s,
		TimeScore:     timeScore(s),
		WaterScore:    waterScore(s),
		AccuracyScore: s.Accuracy(),
		FireScore:     fireScore(s),
	}
	total := weightTime*float64(r.TimeScore) +
		weightWater*float64(r.WaterScore) +
		weightAccuracy*float64(r.AccuracyScore) +
		weightFires*float64(r.FireScore)
	r.Total = int(math.Round(total))
	r.Grade = GradeFor(r.Total)
	r.Achievements = Earned(r)
	return r
}

func timeScore(s Stats) int {
	if !s.Completed {
		return 0
	}
	return band(s.ResponseTime.Seconds(), parResponse.Seconds(), slowResponse.Seconds())
}

func waterScore(s Stats) int {
	if s.FiresExtinguished == 0 {
		return 0
	}
	return band(s.WaterUsed/float64(s.FiresExtinguished), parWaterFire, wastefulWater)
}

func fireScore(s Stats) int {
	goal := s.FireGoal
	if goal <= 0 {
		goal = defaultGoal
	}
	return int(math.Min(100, math.Round(100*float64(s.FiresExtinguished)/float64(goal))))
}

// band gives 100 at or below good, 0 at or above bad, linear between.
func band(v, good, bad float64) int {
	if v <= good {
		return 100
	}
	if v >= bad {
		return 0
	}
	return int(math.Round(100 * (bad - v) / (bad - good)))
}

// Format renders the report as plain text for the clipboard and the
// headless report.
func (r Report) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grade %s (%d/100)\n", r.Grade, r.Total)
	fmt.Fprintf(&sb, "  fires     %d/%d  score %d\n", r.FiresExtinguished, goalOrDefault(r.FireGoal), r.FireScore)
	fmt.Fprintf(&sb, "  time      %s  score %d\n", r.ResponseTime.Round(time.Second), r.TimeScore)
	fmt.Fprintf(&sb, "  water     %.0f  score %d\n", r.WaterUsed, r.WaterScore)
	fmt.Fprintf(&sb, "  accuracy  %d/%d shots  score %d\n", r.SuccessfulShots, r.WaterShots, r.AccuracyScore)
	for _, a := range r.Achievements {
		fmt.Fprintf(&sb, "  * %s: %s\n", a.Name, a.Description)
	}
	return sb.String()
}

func goalOrDefault(g int) int {
	if g <= 0 {
		return defaultGoal
	}
	return g
}
