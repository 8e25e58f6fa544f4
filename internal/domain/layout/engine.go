package layout

import (
	"github.com/turtacn/KeyIP-Layout/internal/domain/geometry"
	"github.com/turtacn/KeyIP-Layout/internal/domain/molecule"
	"github.com/turtacn/KeyIP-Layout/internal/domain/ringsystem"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

// Stats reports what each stage did.
type Stats struct {
	RingSystems    int
	Units          int
	TemplateUsed   string
	RelaxedUnits   int
	OverlapPasses  int
	OrphanUnits    int
	MinimizerMoves int
	SanitizedAtoms []int
	Rotation       float64
}

// ToDTO converts s to its transport form.
func (s Stats) ToDTO() mtypes.LayoutStats {
	return mtypes.LayoutStats{
		RingSystems:    s.RingSystems,
		Units:          s.Units,
		TemplateUsed:   s.TemplateUsed,
		RelaxedUnits:   s.RelaxedUnits,
		OverlapPasses:  s.OverlapPasses,
		OrphanUnits:    s.OrphanUnits,
		MinimizerMoves: s.MinimizerMoves,
		SanitizedAtoms: len(s.SanitizedAtoms),
	}
}

// Result is the outcome of one layout run.
type Result struct {
	Coords  *geometry.Coords
	Rings   *ringsystem.Result
	Units   *UnitGraph
	Shape   Shape
	Stats   Stats
	Quality mtypes.QualityReport
}

// Points returns the coordinates keyed by atom id.
func (r *Result) Points() map[int]mtypes.Point {
	out := make(map[int]mtypes.Point, r.Coords.Len())
	for id := 0; id < r.Coords.Len(); id++ {
		p := r.Coords.At(id)
		out[id] = mtypes.Point{X: p.X, Y: p.Y}
	}
	return out
}

// Engine runs the layout pipeline.  It holds no per-molecule state and is
// safe for concurrent use.
type Engine struct {
	opts       Options
	logger     logging.Logger
	classifier *ringsystem.Classifier
}

// NewEngine validates opts and returns an Engine.
func NewEngine(opts Options, logger logging.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("layout")
	return &Engine{opts: opts, logger: logger, classifier: ringsystem.NewClassifier(logger)}, nil
}

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// GenerateMolecule builds the graph for m and lays it out using m.Rings.
func (e *Engine) GenerateMolecule(m *mtypes.Molecule) (*Result, error) {
	g, err := molecule.NewGraph(m)
	if err != nil {
		return nil, err
	}
	return e.Generate(g, m.Rings), nil
}

// Generate lays out g.  rings are ordered atom cycles; invalid ones are
// dropped.  The returned coordinates are always finite.
func (e *Engine) Generate(g *molecule.Graph, rings [][]int) *Result {
	n := g.NumAtoms()
	res := &Result{Coords: geometry.NewCoords(n), Shape: ShapeEmpty}
	if n == 0 {
		res.Quality = Assess(g, res.Coords, e.opts)
		res.Rings = &ringsystem.Result{}
		res.Units = &UnitGraph{Root: NoUnit}
		return res
	}
	c := res.Coords

	res.Rings = e.classifier.Classify(g, rings)
	res.Units = DetectUnits(g, res.Rings, e.opts)
	res.Stats.RingSystems = len(res.Rings.Systems)
	res.Stats.Units = len(res.Units.Units)
	res.Stats.OrphanUnits = len(res.Units.Orphans)
	if len(res.Units.Orphans) > 0 {
		e.logger.Warn("attached disconnected fragments to root", logging.Int("fragments", len(res.Units.Orphans)))
	}

	pl := &placer{g: g, rs: res.Rings, ug: res.Units, c: c, opts: e.opts, logger: e.logger, stats: &res.Stats}
	pl.place()

	en := &energy{g: g, ug: res.Units, c: c, opts: e.opts}
	mn := &minimizer{e: en, ug: res.Units, c: c, opts: e.opts, logger: e.logger}
	res.Stats.MinimizerMoves = mn.run()

	br := &bridgedRelaxer{g: g, ug: res.Units, c: c, opts: e.opts, logger: e.logger}
	res.Stats.RelaxedUnits = br.run()

	if e.opts.ResolveOverlaps {
		ov := &overlapResolver{g: g, c: c, opts: e.opts}
		for pass := 0; pass < e.opts.OverlapPasses && ov.count() > 0; pass++ {
			ov.resolve()
			res.Stats.OverlapPasses++
		}
	}

	ori := &orienter{g: g, rs: res.Rings, c: c, opts: e.opts}
	if e.opts.OptimizeOrientation {
		res.Shape, res.Stats.Rotation = ori.orient()
	} else {
		res.Shape = ori.classify()
	}

	if bad := c.Sanitize(); len(bad) > 0 {
		res.Stats.SanitizedAtoms = bad
		e.logger.Warn("reset non-finite coordinates", logging.Ints("atoms", bad))
	}
	res.Quality = Assess(g, c, e.opts)

	e.logger.Debug("generated layout",
		logging.Int("atoms", n),
		logging.Int("units", res.Stats.Units),
		logging.String("shape", string(res.Shape)),
		logging.Int("overlaps", res.Quality.OverlapCount))
	return res
}
