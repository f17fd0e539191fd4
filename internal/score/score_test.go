package score

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestAccuracy_NineOfTen(t *testing.T) {
	s := Stats{WaterShots: 10, SuccessfulShots: 9}
	if s.Accuracy() != 90 {
		t.Fatalf("expected accuracy 90, got %d", s.Accuracy())
	}
}

func TestAccuracy_Rounds(t *testing.T) {
	s := Stats{WaterShots: 3, SuccessfulShots: 2}
	if s.Accuracy() != 67 {
		t.Fatalf("expected 67, got %d", s.Accuracy())
	}
	if (Stats{}).Accuracy() != 0 {
		t.Fatal("no shots should score 0")
	}
}

func TestQuickResponder_FortyFiveSeconds(t *testing.T) {
	if !QuickResponder(45 * time.Second) {
		t.Fatal("45s should earn Quick Responder")
	}
	if QuickResponder(60 * time.Second) {
		t.Fatal("60s is not under a minute")
	}
	r := Evaluate(Stats{FiresExtinguished: 1, ResponseTime: 45 * time.Second, Completed: true})
	if !hasAchievement(r, "quick_responder") {
		t.Fatalf("report should include quick_responder, got %v", ids(r))
	}
}

func TestGradeThresholds(t *testing.T) {
	cases := map[int]Grade{100: GradeAPlus, 90: GradeAPlus, 89: GradeA, 80: GradeA, 79: GradeB, 70: GradeB, 69: GradeC, 60: GradeC, 59: GradeD, 0: GradeD}
	for total, want := range cases {
		if got := GradeFor(total); got != want {
			t.Fatalf("GradeFor(%d) = %s, want %s", total, got, want)
		}
	}
}

func TestEvaluate_WeightedTotal(t *testing.T) {
	r := Evaluate(Stats{
		FiresExtinguished: 3,
		FireGoal:          3,
		WaterUsed:         120, // 40 per fire
		WaterShots:        10,
		SuccessfulShots:   9,
		ResponseTime:      45 * time.Second,
		Completed:         true,
	})
	// time 90, water 100, accuracy 90, fires 100
	// 0.3*90 + 0.25*100 + 0.25*90 + 0.2*100 = 94.5
	if r.TimeScore != 90 || r.WaterScore != 100 || r.AccuracyScore != 90 || r.FireScore != 100 {
		t.Fatalf("axis scores time=%d water=%d acc=%d fire=%d", r.TimeScore, r.WaterScore, r.AccuracyScore, r.FireScore)
	}
	if r.Total != 95 || r.Grade != GradeAPlus {
		t.Fatalf("expected 95 A+, got %d %s", r.Total, r.Grade)
	}
	for _, id := range []string{"first_alarm", "quick_responder", "sharpshooter", "water_saver", "perfect_shift"} {
		if !hasAchievement(r, id) {
			t.Fatalf("missing %s in %v", id, ids(r))
		}
	}
	if hasAchievement(r, "fire_chief") {
		t.Fatal("3 fires should not earn fire_chief")
	}
}

func TestEvaluate_IncompleteSessionScoresNoTime(t *testing.T) {
	r := Evaluate(Stats{FiresExtinguished: 1, WaterUsed: 500})
	if r.TimeScore != 0 || r.WaterScore != 0 {
		t.Fatalf("expected zero time and water scores, got %d %d", r.TimeScore, r.WaterScore)
	}
	if hasAchievement(r, "water_saver") || hasAchievement(r, "quick_responder") {
		t.Fatal("completion badges need a finished level")
	}
}

func TestSharpshooter_NeedsFiveShots(t *testing.T) {
	r := Evaluate(Stats{WaterShots: 4, SuccessfulShots: 4, Completed: true})
	if hasAchievement(r, "sharpshooter") {
		t.Fatal("4 shots should not earn sharpshooter")
	}
	r = Evaluate(Stats{WaterShots: 5, SuccessfulShots: 5, Completed: true})
	if !hasAchievement(r, "sharpshooter") {
		t.Fatal("5 of 5 should earn sharpshooter")
	}
	r = Evaluate(Stats{WaterShots: 5, SuccessfulShots: 5})
	if hasAchievement(r, "sharpshooter") {
		t.Fatal("sharpshooter is judged on the finished level")
	}
}

func TestFireChief_CountsLifetime(t *testing.T) {
	r := Evaluate(Stats{FiresExtinguished: 3, LifetimeFires: 7})
	if !hasAchievement(r, "fire_chief") {
		t.Fatal("7 earlier + 3 now should earn fire_chief")
	}
}

// --- Tracker ---

type toneCount struct{ n int }

func (c *toneCount) Tone(float64, time.Duration) { c.n++ }

type lines struct{ said []string }

func (l *lines) Say(s string) { l.said = append(l.said, s) }

func TestTracker_RecordsAndAnnouncesOnce(t *testing.T) {
	snd := &toneCount{}
	voice := &lines{}
	tr := NewTracker(snd, voice, zerolog.Nop())
	tr.Begin(3, 0)

	tr.RecordWaterUsed(30)
	tr.RecordShot(true)
	tr.RecordFireExtinguished()
	tr.RecordFireExtinguished()

	s := tr.Stats()
	if s.FiresExtinguished != 2 || s.WaterUsed != 30 || s.WaterShots != 1 || s.SuccessfulShots != 1 {
		t.Fatalf("unexpected counters %+v", s)
	}
	if got := tr.Unlocked(); len(got) != 1 || got[0].ID != "first_alarm" {
		t.Fatalf("expected only first_alarm unlocked, got %v", got)
	}
	if snd.n != 1 || len(voice.said) != 1 {
		t.Fatalf("expected one announcement, tones=%d lines=%d", snd.n, len(voice.said))
	}
}

func TestTracker_NilCollaborators(t *testing.T) {
	tr := NewTracker(nil, nil, zerolog.Nop())
	tr.Begin(1, 0)
	tr.RecordFireExtinguished()
	tr.RecordLevelComplete(10 * time.Second)
	if !tr.Report().Completed {
		t.Fatal("completion should be recorded")
	}
}

func TestTracker_BeginResets(t *testing.T) {
	tr := NewTracker(nil, nil, zerolog.Nop())
	tr.Begin(3, 0)
	tr.RecordFireExtinguished()
	tr.Begin(3, 1)
	if tr.Stats().FiresExtinguished != 0 || len(tr.Unlocked()) != 0 {
		t.Fatal("Begin should clear the level counters")
	}
	if tr.Stats().LifetimeFires != 1 {
		t.Fatal("lifetime fires should carry over")
	}
}

func TestReportFormat(t *testing.T) {
	r := Evaluate(Stats{FiresExtinguished: 3, FireGoal: 3, Completed: true, ResponseTime: 40 * time.Second})
	out := r.Format()
	if out == "" || out[:5] != "Grade" {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func hasAchievement(r Report, id string) bool {
	for _, a := range r.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

func ids(r Report) []string {
	var out []string
	for _, a := range r.Achievements {
		out = append(out, a.ID)
	}
	return out
}

func TestTracker_AnnouncesOnlyWhatTheReportKeeps(t *testing.T) {
	voice := &lines{}
	tr := NewTracker(nil, voice, zerolog.Nop())
	tr.Begin(1, 0)

	for i := 0; i < 5; i++ {
		tr.RecordShot(true)
	}
	for i := 0; i < 5; i++ {
		tr.RecordShot(false)
	}
	tr.RecordFireExtinguished()
	tr.RecordLevelComplete(45 * time.Second)

	final := tr.Report()
	if final.Accuracy() != 50 {
		t.Fatalf("expected 50%% accuracy, got %d", final.Accuracy())
	}
	if hasAchievement(final, "sharpshooter") {
		t.Fatal("sharpshooter should not survive a 50% finish")
	}

	var unlocked []string
	for _, a := range tr.Unlocked() {
		unlocked = append(unlocked, a.ID)
		if !hasAchievement(final, a.ID) {
			t.Fatalf("announced %s but the final report has %v", a.ID, ids(final))
		}
	}
	if len(unlocked) != len(final.Achievements) {
		t.Fatalf("unlocked %v, final report %v", unlocked, ids(final))
	}
	if len(voice.said) != len(final.Achievements) {
		t.Fatalf("narrated %q, final report %v", voice.said, ids(final))
	}
	for _, line := range voice.said {
		if strings.Contains(line, "Sharpshooter") {
			t.Fatalf("child was told %q", line)
		}
	}
}

func TestTracker_FrozenAfterCompletion(t *testing.T) {
	tr := NewTracker(nil, nil, zerolog.Nop())
	tr.Begin(1, 0)
	tr.RecordShot(true)
	tr.RecordFireExtinguished()
	tr.RecordLevelComplete(20 * time.Second)
	before := tr.Stats()

	tr.RecordShot(false)
	tr.RecordWaterUsed(500)
	tr.RecordLevelComplete(90 * time.Second)

	if after := tr.Stats(); after != before {
		t.Fatalf("counters moved after completion: %+v vs %+v", before, after)
	}
}
