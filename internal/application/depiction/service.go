// Package depiction is the application service that turns a molecule into a
// 2D depiction.  It validates requests, consults the depiction cache, runs
// the layout engine and records metrics.
package depiction

import (
	"context"
	"sort"
	"time"

	"github.com/turtacn/KeyIP-Layout/internal/domain/layout"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Layout/pkg/errors"
	"github.com/turtacn/KeyIP-Layout/pkg/types/common"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// Service defines the depiction operations.
type Service interface {
	Depict(ctx context.Context, input *DepictInput) (*mtypes.Depiction, error)
	DepictBatch(ctx context.Context, inputs []*DepictInput) ([]*mtypes.Depiction, []error)
	Templates() []TemplateInfo
}

// DepictInput is one depiction request.
type DepictInput struct {
	Molecule *mtypes.Molecule
	// Options overrides the service defaults when non-nil.
	Options *layout.Options
	// NoCache bypasses the cache for both read and write.
	NoCache bool
}

// TemplateInfo describes one entry of the cage template catalogue.
type TemplateInfo struct {
	Name  string `json:"name"`
	Atoms int    `json:"atoms"`
	Bonds int    `json:"bonds"`
}

// Cache is the subset of the depiction cache the service needs.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (*mtypes.Depiction, error)) (*mtypes.Depiction, bool, error)
}

type serviceImpl struct {
	engine   *layout.Engine
	logger   logging.Logger
	cache    Cache
	cacheTTL time.Duration
	metrics  *prometheus.LayoutMetrics
	now      func() time.Time
}

// ServiceOption configures the service.
type ServiceOption func(*serviceImpl)

func WithCache(c Cache, ttl time.Duration) ServiceOption {
	return func(s *serviceImpl) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithMetrics(m *prometheus.LayoutMetrics) ServiceOption {
	return func(s *serviceImpl) { s.metrics = m }
}

// NewService builds a depiction service around engine.
func NewService(engine *layout.Engine, logger logging.Logger, opts ...ServiceOption) (Service, error) {
	if engine == nil {
		return nil, errors.InvalidParam("layout engine is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		engine: engine,
		logger: logger.Named("depiction"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *serviceImpl) Depict(ctx context.Context, input *DepictInput) (*mtypes.Depiction, error) {
	if input == nil || input.Molecule == nil {
		s.recordError("validation", errors.ErrCodeBadRequest)
		return nil, errors.InvalidParam("molecule is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "depiction cancelled")
	}

	engine := s.engine
	if input.Options != nil {
		e, err := layout.NewEngine(*input.Options, s.logger)
		if err != nil {
			s.recordError("validation", errors.GetCode(err))
			return nil, err
		}
		engine = e
	}

	if s.metrics != nil {
		s.metrics.InFlight.WithLabelValues("depiction").Inc()
		defer s.metrics.InFlight.WithLabelValues("depiction").Dec()
	}

	start := s.now()
	compute := func(context.Context) (*mtypes.Depiction, error) {
		return s.compute(engine, input.Molecule)
	}

	var (
		d   *mtypes.Depiction
		hit bool
		err error
	)
	if s.cache != nil && !input.NoCache {
		key := CacheKey(input.Molecule, engine.Options())
		d, hit, err = s.cache.GetOrCompute(ctx, key, s.cacheTTL, compute)
		prometheus.RecordCacheAccess(s.metrics, "redis", hit)
	} else {
		d, err = compute(ctx)
	}
	if err != nil {
		s.recordError("engine", errors.GetCode(err))
		s.logger.Warn("depiction failed", logging.String("molecule", input.Molecule.Name), logging.Err(err))
		return nil, err
	}

	// the cached value may be shared with concurrent callers
	out := *d
	out.ID = common.NewID()
	out.Name = input.Molecule.Name
	out.Cached = hit
	if hit {
		out.CreatedAt = common.Timestamp(s.now().UTC())
	}

	elapsed := s.now().Sub(start)
	prometheus.RecordDepiction(s.metrics, &out, elapsed)
	s.logger.Debug("depiction ready",
		logging.String("molecule", out.Name),
		logging.String("shape", out.Shape),
		logging.Int("atoms", len(out.Atoms)),
		logging.Bool("cached", hit),
		logging.Duration("elapsed", elapsed))
	return &out, nil
}

func (s *serviceImpl) compute(engine *layout.Engine, m *mtypes.Molecule) (*mtypes.Depiction, error) {
	res, err := engine.GenerateMolecule(m)
	if err != nil {
		return nil, err
	}
	if !res.Quality.Empty && !res.Quality.Finite {
		return nil, errors.New(errors.ErrCodeLayoutFailed, "layout produced non-finite coordinates")
	}

	symbols := make(map[int]string, len(m.Atoms))
	for _, a := range m.Atoms {
		symbols[a.ID] = a.Symbol
	}
	atoms := make([]mtypes.AtomPosition, 0, res.Coords.Len())
	for id, p := range res.Points() {
		atoms = append(atoms, mtypes.AtomPosition{ID: id, Symbol: symbols[id], X: p.X, Y: p.Y})
	}
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].ID < atoms[j].ID })

	d := &mtypes.Depiction{
		BondLength: engine.Options().BondLength,
		Shape:      string(res.Shape),
		Atoms:      atoms,
		Quality:    res.Quality,
		Stats:      res.Stats.ToDTO(),
		CreatedAt:  common.Timestamp(s.now().UTC()),
	}
	if box, ok := res.Coords.Bounds(nil); ok {
		d.Bounds = mtypes.BoundingBox{MinX: box.Min.X, MinY: box.Min.Y, MaxX: box.Max.X, MaxY: box.Max.Y}
	}
	return d, nil
}

// DepictBatch depicts every input in order.  errs[i] is nil when out[i] is
// set.  A cancelled context fails the remaining inputs.
func (s *serviceImpl) DepictBatch(ctx context.Context, inputs []*DepictInput) ([]*mtypes.Depiction, []error) {
	out := make([]*mtypes.Depiction, len(inputs))
	errs := make([]error, len(inputs))
	for i, in := range inputs {
		out[i], errs[i] = s.Depict(ctx, in)
	}
	return out, errs
}

func (s *serviceImpl) Templates() []TemplateInfo {
	ts := layout.Templates()
	out := make([]TemplateInfo, len(ts))
	for i := range ts {
		out[i] = TemplateInfo{Name: ts[i].Name, Atoms: ts[i].Size(), Bonds: len(ts[i].Bonds)}
	}
	return out
}

func (s *serviceImpl) recordError(component string, code errors.ErrorCode) {
	prometheus.RecordError(s.metrics, component, code.String())
}
