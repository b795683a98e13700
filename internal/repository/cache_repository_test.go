package repository

import (
	"context"
	"errors"
	"net"
	"path"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

// fakeRedis answers the handful of commands CacheRepository issues from an
// in-memory map, short-circuiting go-redis before any connection is made.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	unlinks int
	failAll error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("fake redis does not dial")
	}
}

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failAll != nil {
			cmd.SetErr(f.failAll)
			return f.failAll
		}
		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := f.data[args[1].(string)]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			if cmd.Name() == "set" {
				key := args[1].(string)
				f.data[key] = string(args[2].([]byte))
				if len(args) > 4 {
					n, _ := args[4].(int64)
					unit := time.Second
					if args[3] == "px" {
						unit = time.Millisecond
					}
					f.ttls[key] = time.Duration(n) * unit
				}
				c.SetVal("OK")
				return nil
			}
			c.SetVal("PONG")
		case *redis.ScanCmd:
			var match string
			for i := 2; i+1 < len(args); i++ {
				if args[i] == "match" {
					match = args[i+1].(string)
				}
			}
			var page []string
			for key := range f.data {
				if ok, _ := path.Match(match, key); ok {
					page = append(page, key)
				}
			}
			sort.Strings(page)
			c.SetVal(page, 0)
		case *redis.IntCmd:
			if cmd.Name() == "incr" {
				key := args[1].(string)
				n, _ := strconv.ParseInt(f.data[key], 10, 64)
				n++
				f.data[key] = strconv.FormatInt(n, 10)
				c.SetVal(n)
				return nil
			}
			var n int64
			for _, arg := range args[1:] {
				if _, ok := f.data[arg.(string)]; ok {
					delete(f.data, arg.(string))
					n++
				}
			}
			f.unlinks++
			c.SetVal(n)
		default:
			return next(ctx, cmd)
		}
		return nil
	}
}

func newFakeCacheRepository(t *testing.T) (*CacheRepository, *fakeRedis) {
	t.Helper()
	fake := newFakeRedis()
	client := redis.NewClient(&redis.Options{Addr: "fake:6379", MaxRetries: -1})
	client.AddHook(fake)
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, nil), fake
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "sections:SPRING_2026", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "sections:SPRING_2026", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "sections:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositorySetThenGet(t *testing.T) {
	repo, fake := newFakeCacheRepository(t)
	ctx := context.Background()

	type snapshot struct {
		Session string `json:"session"`
		Open    bool   `json:"open"`
	}
	require.NoError(t, repo.Set(ctx, "sections:FALL_2025", snapshot{Session: "FALL_2025", Open: true}, 30*time.Second))
	assert.Equal(t, `{"session":"FALL_2025","open":true}`, fake.data["sections:FALL_2025"])
	assert.Equal(t, 30*time.Second, fake.ttls["sections:FALL_2025"])

	var got snapshot
	require.NoError(t, repo.Get(ctx, "sections:FALL_2025", &got))
	assert.Equal(t, snapshot{Session: "FALL_2025", Open: true}, got)

	assert.ErrorIs(t, repo.Get(ctx, "sections:SPRING_2026", &got), appErrors.ErrCacheMiss)
}

func TestCacheRepositorySetRejectsZeroTTL(t *testing.T) {
	repo, fake := newFakeCacheRepository(t)

	err := repo.Set(context.Background(), "sections:FALL_2025", []int{1}, 0)
	require.Error(t, err)
	assert.Empty(t, fake.data)
}

func TestCacheRepositoryUndecodableEntryIsAMiss(t *testing.T) {
	repo, fake := newFakeCacheRepository(t)
	fake.data["sections:FALL_2025"] = "not json"

	var dest []string
	assert.ErrorIs(t, repo.Get(context.Background(), "sections:FALL_2025", &dest), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	repo, fake := newFakeCacheRepository(t)
	fake.data["sections:FALL_2025"] = "[]"
	fake.data["sections:SPRING_2026"] = "[]"
	fake.data["settings:ACTIVE_SESSION"] = `"FALL_2025"`

	require.NoError(t, repo.DeleteByPattern(context.Background(), "sections:*"))
	assert.Equal(t, map[string]string{"settings:ACTIVE_SESSION": `"FALL_2025"`}, fake.data)
	assert.Equal(t, 1, fake.unlinks)

	require.NoError(t, repo.DeleteByPattern(context.Background(), "sections:*"))
	assert.Equal(t, 1, fake.unlinks, "nothing left to unlink")
}

func TestCacheRepositoryIncrSurvivesPurge(t *testing.T) {
	repo, _ := newFakeCacheRepository(t)
	ctx := context.Background()

	n, err := repo.Incr(ctx, "sections.gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.Incr(ctx, "sections.gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, repo.DeleteByPattern(ctx, "sections:*"))
	var gen int64
	require.NoError(t, repo.Get(ctx, "sections.gen", &gen))
	assert.Equal(t, int64(2), gen)

	n, err = NewCacheRepository(nil, nil).Incr(ctx, "sections.gen")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestCacheRepositoryWrapsRedisErrors(t *testing.T) {
	repo, fake := newFakeCacheRepository(t)
	fake.failAll = errors.New("connection refused")
	ctx := context.Background()

	var dest []string
	err := repo.Get(ctx, "sections:FALL_2025", &dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Contains(t, err.Error(), "redis get sections:FALL_2025")

	assert.ErrorContains(t, repo.Set(ctx, "sections:FALL_2025", dest, time.Second), "redis set")
	assert.ErrorContains(t, repo.DeleteByPattern(ctx, "sections:*"), "redis scan")
	assert.Error(t, repo.Ping(ctx))
}
