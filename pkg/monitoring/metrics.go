package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sevenseg/sevenseg/pkg/display"
)

const namespace = "sevenseg"

// Metrics of the running simulation.
type Metrics struct {
	fps      prometheus.Gauge
	frames   prometheus.Counter
	lit      prometheus.Gauge
	segments *prometheus.CounterVec
}

// NewMetrics registers the simulation metrics in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "fps",
			Help: "Processed frames during the last second.",
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_total",
			Help: "Processed frames.",
		}),
		lit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "lit_segments",
			Help: "Segments lit in the last frame.",
		}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "segment_lit_total",
			Help: "Lit segments by segment name.",
		}, []string{"segment"}),
	}
	reg.MustRegister(m.fps, m.frames, m.lit, m.segments)
	return m
}

func (m *Metrics) SetFPS(fps int) { m.fps.Set(float64(fps)) }

// ObserveFrame counts one frame with its segment states.
func (m *Metrics) ObserveFrame(states []display.State) {
	m.frames.Inc()
	var total int
	var per [display.Segments]int
	for _, s := range states {
		for seg := display.Segment(0); seg < display.Segments; seg++ {
			if s.On(seg) {
				per[seg]++
			}
		}
		total += s.Count()
	}
	m.lit.Set(float64(total))
	for seg, n := range per {
		if n > 0 {
			m.segments.WithLabelValues(display.Segment(seg).String()).Add(float64(n))
		}
	}
}
