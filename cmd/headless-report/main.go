package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/Garsondee/fire-rescue/internal/logging"
	"github.com/Garsondee/fire-rescue/internal/score"
	"github.com/Garsondee/fire-rescue/internal/sim"
)

type runOptions struct {
	frames int
	fires  int
	spread bool
	hold   int
}

type runStats struct {
	runIndex int
	seed     int64

	completeFrame   int
	entranceFrame   int
	readyFrame      int
	firstSpawnFrame int
	firstOutFrame   int

	spawns       int
	spreads      int
	extinguished int
	releases     int
	stageChanges int

	report score.Report
	events string
}

func main() {
	fs := pflag.NewFlagSet("headless-report", pflag.ContinueOnError)
	runs := fs.Int("runs", 5, "number of headless level runs")
	frames := fs.Int("frames", 120*sim.TPS, "frame limit per run")
	seedBase := fs.Int64("seed-base", 42, "RNG seed for run 1")
	seedStep := fs.Int64("seed-step", 1, "seed increment between runs")
	fires := fs.Int("fires", 3, "fires per level")
	spread := fs.Bool("spread", false, "let fires spread")
	hold := fs.Int("hold", 0, "frames per spray before re-aiming, 0 to hold until out")
	copyOut := fs.Bool("copy", false, "also copy the report to the clipboard")
	events := fs.Bool("events", false, "print each run's event log")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Println("error:", err)
		os.Exit(2)
	}
	log := logging.New(os.Stderr, "warn", true)

	if *runs <= 0 {
		fmt.Println("error: --runs must be > 0")
		return
	}
	if *frames <= 0 {
		fmt.Println("error: --frames must be > 0")
		return
	}
	if *fires <= 0 {
		fmt.Println("error: --fires must be > 0")
		return
	}

	var buf strings.Builder
	out := io.MultiWriter(os.Stdout, &buf)
	opts := runOptions{frames: *frames, fires: *fires, spread: *spread, hold: *hold}

	base, step := *seedBase, *seedStep
	fmt.Fprintf(out, "=== Headless Fire Rescue Report ===\n")
	fmt.Fprintf(out, "runs=%d frames=%d fires=%d spread=%v hold=%d seed_base=%d seed_step=%d\n\n",
		*runs, *frames, *fires, *spread, *hold, base, step)

	all := make([]runStats, 0, *runs)
	for i := 0; i < *runs; i++ {
		seed := base + int64(i)*step
		rs := runLevel(i+1, seed, opts)
		all = append(all, rs)
		printRun(out, rs, *events)
	}
	printAggregate(out, all)

	if *copyOut {
		copyReport(buf.String(), clipboard.WriteAll, log)
	}
}

// runLevel plays one seeded level with the autopilot and collects its
// event markers and score.
func runLevel(runIndex int, seed int64, o runOptions) runStats {
	tracker := score.NewTracker(nil, nil, zerolog.Nop())
	tracker.Begin(o.fires, 0)

	l := sim.NewFireRescueLevel(&sim.Context{Recorder: tracker, Log: zerolog.Nop()},
		sim.WithSeed(seed),
		sim.WithFires(o.fires, o.fires),
		sim.WithSpread(o.spread),
	)
	l.Start()
	ap := sim.Autopilot{Hold: o.hold}
	done := ap.RunUntil(l, (*sim.FireRescueLevel).Complete, o.frames)

	ev := l.Events()
	entries := ev.Entries()
	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		completeFrame:   done,
		entranceFrame:   firstFrame(entries, "level", "entrance_done", ""),
		readyFrame:      firstFrame(entries, "stage", "advance", "→ ready_to_spray"),
		firstSpawnFrame: firstFrame(entries, "fire", "spawn", ""),
		firstOutFrame:   firstFrame(entries, "fire", "extinguished", ""),
		spawns:          ev.Count("fire", "spawn"),
		spreads:         ev.Count("fire", "spread"),
		extinguished:    ev.Count("fire", "extinguished"),
		releases:        ev.Count("stage", "release"),
		stageChanges:    ev.Count("stage", "advance"),
		report:          tracker.Report(),
		events:          ev.Format(),
	}
}

func firstFrame(entries []sim.Event, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Frame
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats, events bool) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(w, "phase_markers: entrance=%d ready=%d first_spawn=%d first_out=%d complete=%d\n",
		rs.entranceFrame, rs.readyFrame, rs.firstSpawnFrame, rs.firstOutFrame, rs.completeFrame)
	fmt.Fprintf(w, "event_totals: spawn=%d spread=%d extinguished=%d stage_advance=%d release=%d\n",
		rs.spawns, rs.spreads, rs.extinguished, rs.stageChanges, rs.releases)
	fmt.Fprint(w, rs.report.Format())
	if events {
		fmt.Fprint(w, rs.events)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	totalSpawn := 0
	totalSpread := 0
	totalOut := 0
	totalScore := 0
	totalAccuracy := 0
	completed := 0
	totalWater := 0.0

	completeFrames := make([]int, 0, len(all))
	readyFrames := make([]int, 0, len(all))
	firstOutFrames := make([]int, 0, len(all))
	badges := map[string]int{}

	for _, rs := range all {
		totalSpawn += rs.spawns
		totalSpread += rs.spreads
		totalOut += rs.extinguished
		totalScore += rs.report.Total
		totalAccuracy += rs.report.Accuracy()
		totalWater += rs.report.WaterUsed
		if rs.completeFrame >= 0 {
			completed++
			completeFrames = append(completeFrames, rs.completeFrame)
		}
		if rs.readyFrame >= 0 {
			readyFrames = append(readyFrames, rs.readyFrame)
		}
		if rs.firstOutFrame >= 0 {
			firstOutFrames = append(firstOutFrames, rs.firstOutFrame)
		}
		for _, a := range rs.report.Achievements {
			badges[a.Name]++
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d completed=%d\n", n, completed)
	fmt.Fprintf(w, "avg_events_per_run: spawn=%.1f spread=%.1f extinguished=%.1f\n",
		avg(totalSpawn, n), avg(totalSpread, n), avg(totalOut, n))
	fmt.Fprintf(w, "avg_score=%.1f avg_accuracy=%.1f avg_water=%.1f\n",
		avg(totalScore, n), avg(totalAccuracy, n), totalWater/float64(max(n, 1)))
	fmt.Fprintf(w, "phase_marker_avg_frames: ready=%s first_out=%s complete=%s\n",
		avgFrameString(readyFrames), avgFrameString(firstOutFrames), avgFrameString(completeFrames))
	fmt.Fprintf(w, "grades: %s\n", gradeLine(all))
	fmt.Fprintf(w, "achievements: %s\n", countLine(badges))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// gradeLine counts grades in fixed best-to-worst order.
func gradeLine(all []runStats) string {
	counts := map[score.Grade]int{}
	for _, rs := range all {
		counts[rs.report.Grade]++
	}
	var parts []string
	for _, g := range []score.Grade{score.GradeAPlus, score.GradeA, score.GradeB, score.GradeC, score.GradeD} {
		if counts[g] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", g, counts[g]))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func countLine(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s(%d)", k, counts[k])
	}
	return strings.Join(parts, ",")
}

func copyReport(text string, write func(string) error, log zerolog.Logger) bool {
	if err := write(text); err != nil {
		log.Warn().Err(err).Msg("copy to clipboard failed")
		return false
	}
	return true
}
