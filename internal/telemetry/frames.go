// Package telemetry tracks how the render loop keeps up with its refresh
// budget and optionally exports per-window summaries as CSV.
package telemetry

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/seascape/internal/engine/frameloop"
)

// DefaultBudget is one refresh at 60 Hz.
const DefaultBudget = 16666 * time.Microsecond

// Summary describes one window of frames.
type Summary struct {
	Window     int     `csv:"window"`
	Frames     int     `csv:"frames"`
	EndTime    float32 `csv:"end_time_s"`
	MeanMS     float64 `csv:"mean_ms"`
	StdDevMS   float64 `csv:"stddev_ms"`
	P50MS      float64 `csv:"p50_ms"`
	P99MS      float64 `csv:"p99_ms"`
	MaxMS      float64 `csv:"max_ms"`
	OverBudget int     `csv:"over_budget"`
	DrawErrors int     `csv:"draw_errors"`
	BudgetMS   float64 `csv:"budget_ms"`
}

// Sink receives completed summaries.
type Sink interface {
	WriteSummary(s Summary) error
}

// Recorder collects frame durations and summarises them every Window frames.
// It implements frameloop.Observer.
type Recorder struct {
	budget time.Duration
	window int
	sink   Sink
	log    *zap.Logger

	samples []float64
	errors  int
	windows int
	last    Summary
}

// NewRecorder returns a recorder. sink and log may be nil.
func NewRecorder(budget time.Duration, window int, sink Sink, log *zap.Logger) *Recorder {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if window <= 0 {
		window = 120
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		budget:  budget,
		window:  window,
		sink:    sink,
		log:     log,
		samples: make([]float64, 0, window),
	}
}

// FrameDone records one frame.
func (r *Recorder) FrameDone(s frameloop.FrameStats) {
	r.samples = append(r.samples, float64(s.Duration)/float64(time.Millisecond))
	if s.Err != nil {
		r.errors++
	}
	if len(r.samples) >= r.window {
		r.flush(s.Elapsed)
	}
}

// Last returns the most recent summary.
func (r *Recorder) Last() Summary {
	return r.last
}

func (r *Recorder) flush(end float32) {
	r.windows++
	sum := Summarize(r.samples, r.budget)
	sum.Window = r.windows
	sum.EndTime = end
	sum.DrawErrors = r.errors
	r.last = sum

	r.samples = r.samples[:0]
	r.errors = 0

	fields := []zap.Field{
		zap.Int("frames", sum.Frames),
		zap.Float64("mean_ms", sum.MeanMS),
		zap.Float64("p99_ms", sum.P99MS),
		zap.Int("over_budget", sum.OverBudget),
	}
	if sum.OverBudget > sum.Frames/10 {
		r.log.Warn("frame budget exceeded", fields...)
	} else {
		r.log.Debug("frame timing", fields...)
	}

	if r.sink != nil {
		if err := r.sink.WriteSummary(sum); err != nil {
			r.log.Warn("writing frame telemetry", zap.Error(err))
		}
	}
}

// Summarize computes statistics over frame durations in milliseconds.
func Summarize(ms []float64, budget time.Duration) Summary {
	s := Summary{
		Frames:   len(ms),
		BudgetMS: float64(budget) / float64(time.Millisecond),
	}
	if len(ms) == 0 {
		return s
	}

	sorted := make([]float64, len(ms))
	copy(sorted, ms)
	sort.Float64s(sorted)

	s.MeanMS, s.StdDevMS = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		s.StdDevMS = 0
	}
	s.P50MS = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P99MS = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	s.MaxMS = sorted[len(sorted)-1]
	for _, v := range sorted {
		if v > s.BudgetMS {
			s.OverBudget++
		}
	}
	return s
}
