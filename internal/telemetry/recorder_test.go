package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type int64Counter struct {
	noop.Int64Counter
	sum  int64
	hits int64
}

func (c *int64Counter) Add(_ context.Context, v int64, opts ...metric.AddOption) {
	c.sum += v
	attrs := metric.NewAddConfig(opts).Attributes()
	if hit, ok := attrs.Value(attribute.Key("hit")); ok && hit.AsBool() {
		c.hits += v
	}
}

type float64Counter struct {
	noop.Float64Counter
	sum float64
}

func (c *float64Counter) Add(_ context.Context, v float64, _ ...metric.AddOption) { c.sum += v }

type histogram struct {
	noop.Float64Histogram
	values []float64
}

func (h *histogram) Record(_ context.Context, v float64, _ ...metric.RecordOption) {
	h.values = append(h.values, v)
}

// recordingMeter hands out instruments the test can inspect.
type recordingMeter struct {
	noop.Meter
	ints   map[string]*int64Counter
	floats map[string]*float64Counter
	hist   *histogram
}

func newRecordingMeter() *recordingMeter {
	return &recordingMeter{
		ints:   map[string]*int64Counter{},
		floats: map[string]*float64Counter{},
		hist:   &histogram{},
	}
}

func (m *recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	c := &int64Counter{}
	m.ints[name] = c
	return c, nil
}

func (m *recordingMeter) Float64Counter(name string, _ ...metric.Float64CounterOption) (metric.Float64Counter, error) {
	c := &float64Counter{}
	m.floats[name] = c
	return c, nil
}

func (m *recordingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return m.hist, nil
}

func TestRecorder_ExportsCounters(t *testing.T) {
	m := newRecordingMeter()
	r, err := New(m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.RecordFireExtinguished()
	r.RecordFireExtinguished()
	r.RecordWaterUsed(12.5)
	r.RecordShot(true)
	r.RecordShot(false)
	r.RecordShot(true)
	r.RecordLevelComplete(42 * time.Second)

	if got := m.ints["firerescue.fires.extinguished"].sum; got != 2 {
		t.Fatalf("fires: expected 2, got %d", got)
	}
	shots := m.ints["firerescue.shots"]
	if shots.sum != 3 || shots.hits != 2 {
		t.Fatalf("shots: expected 3 with 2 hits, got %d/%d", shots.sum, shots.hits)
	}
	if got := m.floats["firerescue.water.used"].sum; got != 12.5 {
		t.Fatalf("water: expected 12.5, got %f", got)
	}
	if len(m.hist.values) != 1 || m.hist.values[0] != 42 {
		t.Fatalf("response: expected [42], got %v", m.hist.values)
	}
}

func TestRecorder_TotalsWithNoopMeter(t *testing.T) {
	r, err := New(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.RecordShot(true)
	r.RecordShot(false)
	r.RecordWaterUsed(3)
	r.RecordLevelComplete(time.Minute)

	tot := r.Totals()
	if tot.Shots != 2 || tot.Hits != 1 || tot.Water != 3 || tot.Levels != 1 || tot.LastTime != time.Minute {
		t.Fatalf("unexpected totals %+v", tot)
	}
}

func TestNewGlobal(t *testing.T) {
	if _, err := NewGlobal(); err != nil {
		t.Fatalf("global meter should always work: %v", err)
	}
}
