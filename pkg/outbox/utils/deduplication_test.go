package utils_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sakashimaa/shop-api/pkg/outbox/utils"
	"github.com/sakashimaa/shop-api/pkg/testsuite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type DeduplicationSuite struct {
	testsuite.BaseSuite
	dedup utils.Deduplicator
}

func (s *DeduplicationSuite) SetupSuite() {
	s.SetupRedis()
	s.dedup = utils.NewRedisDeduplicator(s.RedisClient, time.Hour, zap.NewNop())
}

func (s *DeduplicationSuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *DeduplicationSuite) SetupTest() {
	s.FlushRedis()
}

func TestDeduplicationSuite(t *testing.T) {
	suite.Run(t, new(DeduplicationSuite))
}

func (s *DeduplicationSuite) TestRunsOncePerEvent() {
	calls := 0
	action := func() error {
		calls++
		return nil
	}

	s.Require().NoError(s.dedup.Process(s.Ctx, "evt-1", action))
	s.Require().NoError(s.dedup.Process(s.Ctx, "evt-1", action))
	s.Require().NoError(s.dedup.Process(s.Ctx, "evt-2", action))

	s.Equal(2, calls)
}

func (s *DeduplicationSuite) TestFailureReleasesClaim() {
	calls := 0
	failing := func() error {
		calls++
		return errors.New("smtp down")
	}

	s.Require().Error(s.dedup.Process(s.Ctx, "evt-3", failing))
	s.Equal(3, calls)

	ok := false
	s.Require().NoError(s.dedup.Process(s.Ctx, "evt-3", func() error {
		ok = true
		return nil
	}))
	s.True(ok)
}
