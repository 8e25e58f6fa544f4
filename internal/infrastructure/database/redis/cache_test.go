package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/KeyIP-Layout/internal/testutil"
	pkgerrors "github.com/turtacn/KeyIP-Layout/pkg/errors"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	log   *testutil.MockLogger
	cache DepictionCache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.log = testutil.NewMockLogger()
	client := newClient(db, &RedisConfig{}, s.log)
	s.cache = NewDepictionCache(client, s.log, WithPrefix("test:"), WithJitter(0), WithDefaultTTL(time.Minute))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func sampleDepiction() *mtypes.Depiction {
	return &mtypes.Depiction{
		ID:         "b6f1c1b2-0000-4000-8000-000000000001",
		Name:       "ethane",
		BondLength: 35,
		Shape:      "chain",
		Atoms: []mtypes.AtomPosition{
			{ID: 0, Symbol: "C", X: -17.5, Y: 0},
			{ID: 1, Symbol: "C", X: 17.5, Y: 0},
		},
		Bounds:  mtypes.BoundingBox{MinX: -17.5, MaxX: 17.5},
		Quality: mtypes.QualityReport{Finite: true, BondLengthMean: 35, BondLengthMin: 35, BondLengthMax: 35, AspectRatio: 1e6},
		Stats:   mtypes.LayoutStats{Units: 1},
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func (s *CacheTestSuite) TestGet_Hit() {
	want := sampleDepiction()
	s.mock.ExpectGet("test:k1").SetVal(string(mustJSON(s.T(), want)))

	got, err := s.cache.Get(context.Background(), "k1")
	s.Require().NoError(err)
	s.Equal(want.Atoms, got.Atoms)
	s.Equal(want.Shape, got.Shape)
	s.Equal(want.Quality, got.Quality)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k1").RedisNil()

	_, err := s.cache.Get(context.Background(), "k1")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheMiss))
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheTestSuite) TestGet_BackendError() {
	s.mock.ExpectGet("test:k1").SetErr(errors.New("connection reset"))

	_, err := s.cache.Get(context.Background(), "k1")
	s.Require().Error(err)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeLayoutCache))
}

func (s *CacheTestSuite) TestGet_CorruptPayload() {
	s.mock.ExpectGet("test:k1").SetVal("{not json")

	_, err := s.cache.Get(context.Background(), "k1")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestSet_DefaultTTL() {
	d := sampleDepiction()
	s.mock.ExpectSet("test:k1", mustJSON(s.T(), d), time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "k1", d, 0))
}

func (s *CacheTestSuite) TestSet_ExplicitTTL() {
	d := sampleDepiction()
	s.mock.ExpectSet("test:k1", mustJSON(s.T(), d), 10*time.Second).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "k1", d, 10*time.Second))
}

func (s *CacheTestSuite) TestSet_BackendError() {
	d := sampleDepiction()
	s.mock.ExpectSet("test:k1", mustJSON(s.T(), d), time.Minute).SetErr(errors.New("readonly"))

	err := s.cache.Set(context.Background(), "k1", d, 0)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeLayoutCache))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestExists() {
	s.mock.ExpectExists("test:a").SetVal(1)
	s.mock.ExpectExists("test:b").SetVal(0)

	ok, err := s.cache.Exists(context.Background(), "a")
	s.NoError(err)
	s.True(ok)
	ok, err = s.cache.Exists(context.Background(), "b")
	s.NoError(err)
	s.False(ok)
}

func (s *CacheTestSuite) TestTTL() {
	s.mock.ExpectTTL("test:a").SetVal(42 * time.Second)

	ttl, err := s.cache.TTL(context.Background(), "a")
	s.NoError(err)
	s.Equal(42*time.Second, ttl)
}

func (s *CacheTestSuite) TestGetOrCompute_Hit() {
	d := sampleDepiction()
	s.mock.ExpectGet("test:k1").SetVal(string(mustJSON(s.T(), d)))

	called := false
	got, hit, err := s.cache.GetOrCompute(context.Background(), "k1", 0, func(context.Context) (*mtypes.Depiction, error) {
		called = true
		return nil, nil
	})
	s.NoError(err)
	s.True(hit)
	s.False(called)
	s.Equal(d.Atoms, got.Atoms)
}

func (s *CacheTestSuite) TestGetOrCompute_MissStores() {
	d := sampleDepiction()
	s.mock.ExpectGet("test:k1").RedisNil()
	s.mock.ExpectSet("test:k1", mustJSON(s.T(), d), time.Minute).SetVal("OK")

	got, hit, err := s.cache.GetOrCompute(context.Background(), "k1", 0, func(context.Context) (*mtypes.Depiction, error) {
		return d, nil
	})
	s.NoError(err)
	s.False(hit)
	s.Same(d, got)
}

func (s *CacheTestSuite) TestGetOrCompute_ComputeError() {
	s.mock.ExpectGet("test:k1").RedisNil()
	boom := pkgerrors.New(pkgerrors.ErrCodeLayoutFailed, "boom")

	_, _, err := s.cache.GetOrCompute(context.Background(), "k1", 0, func(context.Context) (*mtypes.Depiction, error) {
		return nil, boom
	})
	s.ErrorIs(err, boom)
}

func (s *CacheTestSuite) TestGetOrCompute_BrokenCacheStillComputes() {
	d := sampleDepiction()
	s.mock.ExpectGet("test:k1").SetErr(errors.New("timeout"))
	s.mock.ExpectSet("test:k1", mustJSON(s.T(), d), time.Minute).SetErr(errors.New("timeout"))

	got, hit, err := s.cache.GetOrCompute(context.Background(), "k1", 0, func(context.Context) (*mtypes.Depiction, error) {
		return d, nil
	})
	s.NoError(err)
	s.False(hit)
	s.Same(d, got)
	s.True(s.log.HasMessage("warn", "depiction cache read failed"))
	s.True(s.log.HasMessage("warn", "depiction cache write failed"))
}

func (s *CacheTestSuite) TestPurge_ScansAllPages() {
	s.mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:a", "test:b"}, 7)
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.mock.ExpectScan(7, "test:*", 100).SetVal([]string{"test:c"}, 0)
	s.mock.ExpectDel("test:c").SetVal(1)

	n, err := s.cache.Purge(context.Background())
	s.NoError(err)
	s.Equal(int64(3), n)
}

func (s *CacheTestSuite) TestPurge_ScanError() {
	s.mock.ExpectScan(0, "test:*", 100).SetErr(errors.New("denied"))

	n, err := s.cache.Purge(context.Background())
	s.Error(err)
	s.Zero(n)
}

func (s *CacheTestSuite) TestPing() {
	s.mock.ExpectPing().SetVal("PONG")
	s.NoError(s.cache.Ping(context.Background()))
}

func TestTTLJitterStaysInBand(t *testing.T) {
	c := &depictionCache{defaultTTL: time.Hour, jitter: 0.1}
	for i := 0; i < 200; i++ {
		got := c.ttl(0)
		assert.GreaterOrEqual(t, got, 54*time.Minute)
		assert.LessOrEqual(t, got, 66*time.Minute)
	}
	c.jitter = 0
	assert.Equal(t, 5*time.Second, c.ttl(5*time.Second))
}
