package score

import "time"

// Achievement is a badge earned when its predicate holds for a report.
// Only badges that stay earned as counters grow may skip the Completed
// check; the tracker announces them mid-level.
type Achievement struct {
	ID          string
	Name        string
	Description string
	earned      func(Report) bool
}

// Earned reports whether a holds for r.
func (a Achievement) Earned(r Report) bool {
	return a.earned != nil && a.earned(r)
}

// QuickResponse is the response time under which Quick Responder is earned.
const QuickResponse = 60 * time.Second

// Achievements is the fixed badge list, in display order.
var Achievements = []Achievement{
	{
		ID: "first_alarm", Name: "First Alarm",
		Description: "Put out your first fire",
		earned:      func(r Report) bool { return r.FiresExtinguished >= 1 },
	},
	{
		ID: "quick_responder", Name: "Quick Responder",
		Description: "Finish in under a minute",
		earned:      func(r Report) bool { return r.Completed && QuickResponder(r.ResponseTime) },
	},
	{
		ID: "sharpshooter", Name: "Sharpshooter",
		Description: "Finish with 90% of at least 5 shots on target",
		earned:      func(r Report) bool { return r.Completed && r.WaterShots >= 5 && r.Accuracy() >= 90 },
	},
	{
		ID: "water_saver", Name: "Water Saver",
		Description: "Finish without wasting water",
		earned:      func(r Report) bool { return r.Completed && r.WaterScore >= 80 },
	},
	{
		ID: "fire_chief", Name: "Fire Chief",
		Description: "Put out 10 fires",
		earned:      func(r Report) bool { return r.TotalFires() >= 10 },
	},
	{
		ID: "perfect_shift", Name: "Perfect Shift",
		Description: "Earn an A+",
		earned:      func(r Report) bool { return r.Completed && r.Grade == GradeAPlus },
	},
}

// QuickResponder is the Quick Responder predicate on its own.
func QuickResponder(responseTime time.Duration) bool {
	return responseTime < QuickResponse
}

// Earned lists the achievements r qualifies for.
func Earned(r Report) []Achievement {
	var out []Achievement
	for _, a := range Achievements {
		if a.Earned(r) {
			out = append(out, a)
		}
	}
	return out
}
