package depiction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Layout/internal/domain/layout"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Layout/internal/testutil"
	"github.com/turtacn/KeyIP-Layout/pkg/errors"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

type memCache struct {
	mu       sync.Mutex
	entries  map[string]*mtypes.Depiction
	computes int
	lastTTL  time.Duration
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*mtypes.Depiction)}
}

func (c *memCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) (*mtypes.Depiction, error)) (*mtypes.Depiction, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastTTL = ttl
	if d, ok := c.entries[key]; ok {
		return d, true, nil
	}
	c.computes++
	d, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	c.entries[key] = d
	return d, false, nil
}

func newTestService(t *testing.T, opts ...ServiceOption) (Service, *testutil.MockLogger) {
	t.Helper()
	log := testutil.NewMockLogger()
	engine, err := layout.NewEngine(layout.DefaultOptions(), log)
	require.NoError(t, err)
	svc, err := NewService(engine, log, opts...)
	require.NoError(t, err)
	return svc, log
}

func scrape(t *testing.T, c prometheus.MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewService_RequiresEngine(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestDepict_Benzene(t *testing.T) {
	svc, _ := newTestService(t)
	m := testutil.Benzene()

	d, err := svc.Depict(context.Background(), &DepictInput{Molecule: m})
	require.NoError(t, err)

	assert.NoError(t, d.ID.Validate())
	assert.Equal(t, m.Name, d.Name)
	assert.Equal(t, "single-ring", d.Shape)
	assert.Equal(t, 35.0, d.BondLength)
	assert.False(t, d.Cached)
	require.Len(t, d.Atoms, 6)
	for i, a := range d.Atoms {
		assert.Equal(t, i, a.ID)
		assert.Equal(t, "C", a.Symbol)
	}
	assert.True(t, d.Quality.Finite)
	assert.InDelta(t, 35.0, d.Quality.BondLengthMean, 0.5)
	assert.Zero(t, d.Quality.OverlapCount)
	assert.Equal(t, 1, d.Stats.RingSystems)

	// flat-top hexagon: two vertices on the vertical centre line, width 2L
	assert.InDelta(t, 70.0, d.Bounds.Width(), 0.5)
	assert.InDelta(t, 35*1.7320508, d.Bounds.Height(), 0.5)
}

func TestDepict_CoordinatesMatchEngine(t *testing.T) {
	svc, _ := newTestService(t)
	m := testutil.PhenylPentanol()

	engine, err := layout.NewEngine(layout.DefaultOptions(), nil)
	require.NoError(t, err)
	res, err := engine.GenerateMolecule(m)
	require.NoError(t, err)

	d, err := svc.Depict(context.Background(), &DepictInput{Molecule: m})
	require.NoError(t, err)
	pts := res.Points()
	for _, a := range d.Atoms {
		assert.Equal(t, pts[a.ID].X, a.X)
		assert.Equal(t, pts[a.ID].Y, a.Y)
	}
}

func TestDepict_EmptyMolecule(t *testing.T) {
	svc, _ := newTestService(t)
	d, err := svc.Depict(context.Background(), &DepictInput{Molecule: testutil.Empty()})
	require.NoError(t, err)
	assert.Equal(t, "empty", d.Shape)
	assert.Empty(t, d.Atoms)
	assert.True(t, d.Quality.Empty)
}

func TestDepict_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Depict(ctx, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = svc.Depict(ctx, &DepictInput{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	bad := layout.DefaultOptions()
	bad.BondLength = 0
	_, err = svc.Depict(ctx, &DepictInput{Molecule: testutil.Benzene(), Options: &bad})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOptions))

	broken := &mtypes.Molecule{
		Atoms: []mtypes.Atom{{ID: 0, Symbol: "C"}},
		Bonds: []mtypes.Bond{{Atom1: 0, Atom2: 5}},
	}
	_, err = svc.Depict(ctx, &DepictInput{Molecule: broken})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidFormat))
}

func TestDepict_CancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Depict(ctx, &DepictInput{Molecule: testutil.Benzene()})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestDepict_OptionsOverride(t *testing.T) {
	svc, _ := newTestService(t)
	opts := layout.DefaultOptions()
	opts.BondLength = 1.5

	d, err := svc.Depict(context.Background(), &DepictInput{Molecule: testutil.Naphthalene(), Options: &opts})
	require.NoError(t, err)
	assert.Equal(t, 1.5, d.BondLength)
	assert.InDelta(t, 1.5, d.Quality.BondLengthMean, 0.05)
}

func TestDepict_CacheHitReturnsSameLayout(t *testing.T) {
	cache := newMemCache()
	svc, _ := newTestService(t, WithCache(cache, 10*time.Minute))
	ctx := context.Background()

	first, err := svc.Depict(ctx, &DepictInput{Molecule: testutil.Adamantane()})
	require.NoError(t, err)
	renamed := testutil.Adamantane()
	renamed.Name = "tricyclodecane"
	second, err := svc.Depict(ctx, &DepictInput{Molecule: renamed})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.computes)
	assert.Equal(t, 10*time.Minute, cache.lastTTL)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Atoms, second.Atoms)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "tricyclodecane", second.Name)
	assert.Equal(t, "adamantane", first.Stats.TemplateUsed)
}

func TestDepict_NoCacheBypasses(t *testing.T) {
	cache := newMemCache()
	svc, _ := newTestService(t, WithCache(cache, time.Minute))

	_, err := svc.Depict(context.Background(), &DepictInput{Molecule: testutil.Benzene(), NoCache: true})
	require.NoError(t, err)
	assert.Zero(t, cache.computes)
	assert.Empty(t, cache.entries)
}

func TestDepict_RecordsMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "t"}, nil)
	require.NoError(t, err)
	metrics := prometheus.NewLayoutMetrics(collector)
	svc, _ := newTestService(t, WithCache(newMemCache(), 0), WithMetrics(metrics))
	ctx := context.Background()

	_, err = svc.Depict(ctx, &DepictInput{Molecule: testutil.Benzene()})
	require.NoError(t, err)
	_, err = svc.Depict(ctx, &DepictInput{Molecule: testutil.Benzene()})
	require.NoError(t, err)
	_, err = svc.Depict(ctx, nil)
	require.Error(t, err)

	out := scrape(t, collector)
	assert.Contains(t, out, `t_depictions_total{shape="single-ring",status="computed"} 1`)
	assert.Contains(t, out, `t_depictions_total{shape="single-ring",status="cached"} 1`)
	assert.Contains(t, out, `t_cache_hits_total{cache="redis"} 1`)
	assert.Contains(t, out, `t_cache_misses_total{cache="redis"} 1`)
	assert.Contains(t, out, `t_errors_total{code="COMMON_002",component="validation"} 1`)
	assert.Contains(t, out, `t_depictions_in_flight{service="depiction"} 0`)
}

func TestDepict_FailureIsLogged(t *testing.T) {
	svc, log := newTestService(t)
	broken := &mtypes.Molecule{Name: "broken", Atoms: []mtypes.Atom{{ID: 3, Symbol: "C"}}}

	_, err := svc.Depict(context.Background(), &DepictInput{Molecule: broken})
	require.Error(t, err)
	assert.True(t, log.HasMessage("warn", "depiction failed"))
}

func TestDepictBatch(t *testing.T) {
	svc, _ := newTestService(t)
	inputs := []*DepictInput{
		{Molecule: testutil.Toluene()},
		nil,
		{Molecule: testutil.Biphenyl()},
	}

	out, errs := svc.DepictBatch(context.Background(), inputs)
	require.Len(t, out, 3)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Nil(t, out[1])
	assert.NoError(t, errs[2])
	assert.Len(t, out[2].Atoms, 12)
}

func TestTemplates(t *testing.T) {
	svc, _ := newTestService(t)
	byName := make(map[string]TemplateInfo)
	for _, ti := range svc.Templates() {
		byName[ti.Name] = ti
	}
	require.Contains(t, byName, "adamantane")
	assert.Equal(t, 10, byName["adamantane"].Atoms)
	assert.Equal(t, 12, byName["adamantane"].Bonds)
	require.Contains(t, byName, "cubane")
	assert.Equal(t, 8, byName["cubane"].Atoms)
	assert.Equal(t, 12, byName["cubane"].Bonds)
}

func TestDepict_SameKeySameLayout(t *testing.T) {
	svc, _ := newTestService(t)
	build := func(oxygen ...mtypes.Bond) *mtypes.Molecule {
		m := testutil.Cyclohexane()
		m.Atoms = append(m.Atoms, mtypes.Atom{ID: 6, Symbol: "O"})
		m.Bonds = append(m.Bonds, oxygen...)
		return m
	}
	a := build(mtypes.Bond{Atom1: 0, Atom2: 6}, mtypes.Bond{Atom1: 3, Atom2: 6})
	b := build(mtypes.Bond{Atom1: 3, Atom2: 6}, mtypes.Bond{Atom1: 0, Atom2: 6})
	require.Equal(t, CacheKey(a, layout.DefaultOptions()), CacheKey(b, layout.DefaultOptions()))

	da, err := svc.Depict(context.Background(), &DepictInput{Molecule: a, NoCache: true})
	require.NoError(t, err)
	db, err := svc.Depict(context.Background(), &DepictInput{Molecule: b, NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, da.Atoms, db.Atoms)
}
