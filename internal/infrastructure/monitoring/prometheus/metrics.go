package prometheus

import (
	"time"

	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// LayoutMetrics holds the metric families recorded by the depiction service.
type LayoutMetrics struct {
	DepictionsTotal    CounterVec
	DepictionDuration  HistogramVec
	MoleculeAtoms      HistogramVec
	RemainingOverlaps  HistogramVec
	TemplateHitsTotal  CounterVec
	RelaxedUnitsTotal  CounterVec
	OrphanUnitsTotal   CounterVec
	SanitizedAtomTotal CounterVec
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec
	ErrorsTotal        CounterVec
	InFlight           GaugeVec
}

var (
	DefaultLayoutDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultAtomCountBuckets      = []float64{1, 5, 10, 20, 50, 100, 200, 500}
	DefaultOverlapBuckets        = []float64{0, 1, 2, 5, 10, 25}
)

// NewLayoutMetrics registers every layout metric on collector.
func NewLayoutMetrics(collector MetricsCollector) *LayoutMetrics {
	m := &LayoutMetrics{}

	m.DepictionsTotal = collector.RegisterCounter("depictions_total", "Depictions produced", "shape", "status")
	m.DepictionDuration = collector.RegisterHistogram("depiction_duration_seconds", "Layout pipeline duration", DefaultLayoutDurationBuckets, "shape")
	m.MoleculeAtoms = collector.RegisterHistogram("molecule_atoms", "Atoms per depicted molecule", DefaultAtomCountBuckets, "shape")
	m.RemainingOverlaps = collector.RegisterHistogram("remaining_overlaps", "Atom pairs still closer than the minimum distance", DefaultOverlapBuckets, "shape")
	m.TemplateHitsTotal = collector.RegisterCounter("template_hits_total", "Bridged systems placed from the template catalogue", "template")
	m.RelaxedUnitsTotal = collector.RegisterCounter("relaxed_units_total", "Bridged ring systems relaxed by the force-directed pass")
	m.OrphanUnitsTotal = collector.RegisterCounter("orphan_units_total", "Disconnected fragments attached to the root unit")
	m.SanitizedAtomTotal = collector.RegisterCounter("sanitized_atoms_total", "Atoms whose coordinates were reset from a non-finite value")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Depiction cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Depiction cache misses", "cache")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Depiction errors", "component", "code")
	m.InFlight = collector.RegisterGauge("depictions_in_flight", "Depictions currently being computed", "service")

	return m
}

// RecordDepiction records the outcome of a successful layout.
func RecordDepiction(m *LayoutMetrics, d *mtypes.Depiction, duration time.Duration) {
	if m == nil || d == nil {
		return
	}
	status := "computed"
	if d.Cached {
		status = "cached"
	}
	m.DepictionsTotal.WithLabelValues(d.Shape, status).Inc()
	if d.Cached {
		return
	}
	m.DepictionDuration.WithLabelValues(d.Shape).Observe(duration.Seconds())
	m.MoleculeAtoms.WithLabelValues(d.Shape).Observe(float64(len(d.Atoms)))
	m.RemainingOverlaps.WithLabelValues(d.Shape).Observe(float64(d.Quality.OverlapCount))
	if d.Stats.TemplateUsed != "" {
		m.TemplateHitsTotal.WithLabelValues(d.Stats.TemplateUsed).Inc()
	}
	m.RelaxedUnitsTotal.WithLabelValues().Add(float64(d.Stats.RelaxedUnits))
	m.OrphanUnitsTotal.WithLabelValues().Add(float64(d.Stats.OrphanUnits))
	m.SanitizedAtomTotal.WithLabelValues().Add(float64(d.Stats.SanitizedAtoms))
}

func RecordCacheAccess(m *LayoutMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(m *LayoutMetrics, component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
