// Package telemetry exports gameplay counters through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Garsondee/fire-rescue/internal/telemetry"

// Totals mirrors what has been reported since the recorder was created.
type Totals struct {
	Fires    int64
	Water    float64
	Shots    int64
	Hits     int64
	Levels   int64
	LastTime time.Duration
}

// Recorder implements sim.Recorder on top of a metric.Meter. With no
// provider configured the global meter is a no-op and only Totals moves.
type Recorder struct {
	fires    metric.Int64Counter
	water    metric.Float64Counter
	shots    metric.Int64Counter
	levels   metric.Int64Counter
	response metric.Float64Histogram

	totals Totals
}

// NewGlobal creates a recorder on the global meter provider.
func NewGlobal() (*Recorder, error) {
	return New(otel.Meter(instrumentationName))
}

// New creates a recorder on m.
func New(m metric.Meter) (*Recorder, error) {
	r := &Recorder{}
	var err error

	r.fires, err = m.Int64Counter(
		"firerescue.fires.extinguished",
		metric.WithDescription("Fires put out"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fires counter: %w", err)
	}

	r.water, err = m.Float64Counter(
		"firerescue.water.used",
		metric.WithDescription("Water sprayed, in drop units"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating water counter: %w", err)
	}

	r.shots, err = m.Int64Counter(
		"firerescue.shots",
		metric.WithDescription("Spray shots, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}

	r.levels, err = m.Int64Counter(
		"firerescue.levels.completed",
		metric.WithDescription("Levels finished"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating levels counter: %w", err)
	}

	r.response, err = m.Float64Histogram(
		"firerescue.response.time",
		metric.WithDescription("Time from first fire to all fires out"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating response histogram: %w", err)
	}

	return r, nil
}

func (r *Recorder) RecordFireExtinguished() {
	r.totals.Fires++
	r.fires.Add(context.Background(), 1)
}

func (r *Recorder) RecordWaterUsed(amount float64) {
	r.totals.Water += amount
	r.water.Add(context.Background(), amount)
}

func (r *Recorder) RecordShot(hit bool) {
	r.totals.Shots++
	if hit {
		r.totals.Hits++
	}
	r.shots.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}

func (r *Recorder) RecordLevelComplete(d time.Duration) {
	r.totals.Levels++
	r.totals.LastTime = d
	r.levels.Add(context.Background(), 1)
	r.response.Record(context.Background(), d.Seconds())
}

// Totals returns the running totals.
func (r *Recorder) Totals() Totals { return r.totals }
