package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/specs"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

type memCacheRepo struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	setErr error
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.data, key)
		}
	}
	return nil
}

func TestCacheServiceHitMissAndMetrics(t *testing.T) {
	repo := newMemCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, 0, zap.NewNop(), true)

	var out map[string]string
	assert.False(t, cache.Get(context.Background(), "k", &out))

	cache.Set(context.Background(), "k", map[string]string{"a": "b"}, 0)
	assert.Equal(t, 2*time.Minute, repo.ttls["k"])
	require.True(t, cache.Get(context.Background(), "k", &out))
	assert.Equal(t, "b", out["a"])

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("miss")))
}

func TestCacheServiceDisabledAndNil(t *testing.T) {
	repo := newMemCacheRepo()
	disabled := NewCacheService(repo, nil, time.Minute, nil, false)
	disabled.Set(context.Background(), "k", 1, 0)
	assert.Empty(t, repo.data)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	var out int
	assert.False(t, nilCache.Get(context.Background(), "k", &out))
	nilCache.Invalidate(context.Background(), "*")
}

func TestCacheServiceSwallowsWriteErrors(t *testing.T) {
	repo := newMemCacheRepo()
	repo.setErr = errors.New("redis down")
	cache := NewCacheService(repo, nil, time.Minute, nil, true)

	assert.NotPanics(t, func() { cache.Set(context.Background(), "k", 1, 0) })
}

func TestCacheKeyIsStable(t *testing.T) {
	city := "LA_PLATA"
	a, err := CacheKey("teachers:search", models.TeacherFilter{City: &city})
	require.NoError(t, err)
	b, err := CacheKey("teachers:search", models.TeacherFilter{City: &city})
	require.NoError(t, err)
	c, err := CacheKey("teachers:search", models.TeacherFilter{})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^teachers:search:[0-9a-f]{64}$`, a)
}

type countingTeacherRepo struct {
	*memTeacherRepo
	searches int
}

func (c *countingTeacherRepo) Search(ctx context.Context, spec specs.Spec, pageIndex, pageSize int) (*models.TeacherPage, error) {
	c.searches++
	return c.memTeacherRepo.Search(ctx, spec, pageIndex, pageSize)
}

func TestTeacherSearchIsCachedUntilWrite(t *testing.T) {
	f := newTeacherFixture(TeacherServiceConfig{})
	repo := &countingTeacherRepo{memTeacherRepo: f.teachers}
	repo.put(models.Teacher{ID: "t1", UserID: "x1"})
	metrics := NewMetricsService()
	cache := NewCacheService(newMemCacheRepo(), metrics, time.Minute, nil, true)
	validation := NewTeacherValidationService(repo, f.students, memProficiencies{
		"p1": {ID: "p1", Subject: models.Subject{Name: "Math"}, MasteryLevel: models.MasteryBeginner},
	}, memCharacteristics{}, nil)
	svc := NewTeacherService(repo, f.users, f.tx, validation, cache, metrics, nil, nil, TeacherServiceConfig{})

	for i := 0; i < 2; i++ {
		resp, err := svc.Search(context.Background(), models.TeacherFilter{})
		require.NoError(t, err)
		require.Len(t, resp.SearchResults, 1)
	}
	assert.Equal(t, 1, repo.searches)

	req := validCreateRequest("u1")
	req.ProficiencyIDs = []string{"p1"}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	resp, err := svc.Search(context.Background(), models.TeacherFilter{})
	require.NoError(t, err)
	assert.Len(t, resp.SearchResults, 2)
	assert.Equal(t, 2, repo.searches)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.profileWrites.WithLabelValues("teacher", "create")))
}
