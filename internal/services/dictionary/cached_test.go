package dictionary

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/spellfight/internal/testutil"
)

type CachedCheckerSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *redis.Client
	calls   atomic.Int32
	checker *CachedChecker
	ctx     context.Context
}

func TestCachedCheckerSuite(t *testing.T) {
	suite.Run(t, new(CachedCheckerSuite))
}

func (s *CachedCheckerSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.calls.Store(0)

	next := CheckerFunc(func(ctx context.Context, word string) bool {
		s.calls.Add(1)
		return word == "cat"
	})
	s.checker = NewCachedChecker(next, s.client, time.Hour, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *CachedCheckerSuite) TearDownTest() {
	_ = s.client.Close()
	s.mini.Close()
}

func (s *CachedCheckerSuite) TestCachesPositiveAnswer() {
	s.True(s.checker.Exists(s.ctx, "CAT"))
	s.True(s.checker.Exists(s.ctx, "cat"))

	s.Equal(int32(1), s.calls.Load())
	s.True(s.mini.Exists(cacheKey("cat")))
	s.Equal(time.Hour, s.mini.TTL(cacheKey("cat")))
}

func (s *CachedCheckerSuite) TestDoesNotCacheNegativeAnswer() {
	s.False(s.checker.Exists(s.ctx, "dog"))
	s.False(s.checker.Exists(s.ctx, "dog"))

	s.Equal(int32(2), s.calls.Load())
	s.False(s.mini.Exists(cacheKey("dog")))
}

func (s *CachedCheckerSuite) TestFallsThroughWhenRedisDown() {
	s.mini.Close()

	s.True(s.checker.Exists(s.ctx, "cat"))
	s.False(s.checker.Exists(s.ctx, "dog"))
	s.Equal(int32(2), s.calls.Load())
}
