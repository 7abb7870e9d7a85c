package testsuite

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BaseSuite struct {
	suite.Suite
	MongoContainer *mongodb.MongoDBContainer
	RedisContainer *tcredis.RedisContainer
	MongoClient    *mongo.Client
	DB             *mongo.Database
	RedisClient    *redis.Client
	Ctx            context.Context
}

// SetupMongo starts a MongoDB container and connects DB to a fresh database.
// The suite is skipped when no container runtime is reachable.
func (s *BaseSuite) SetupMongo() {
	testcontainers.SkipIfProviderIsNotHealthy(s.T())
	s.Ctx = context.Background()

	var err error
	s.MongoContainer, err = mongodb.Run(s.Ctx, "mongo:7")
	s.Require().NoError(err)

	uri, err := s.MongoContainer.ConnectionString(s.Ctx)
	s.Require().NoError(err)

	s.MongoClient, err = mongo.Connect(s.Ctx, options.Client().ApplyURI(uri))
	s.Require().NoError(err)
	s.Require().NoError(s.MongoClient.Ping(s.Ctx, nil))

	s.DB = s.MongoClient.Database("shop_test")
}

// SetupRedis starts a Redis container and connects RedisClient to it.
func (s *BaseSuite) SetupRedis() {
	testcontainers.SkipIfProviderIsNotHealthy(s.T())
	if s.Ctx == nil {
		s.Ctx = context.Background()
	}

	var err error
	s.RedisContainer, err = tcredis.Run(s.Ctx, "redis:7-alpine")
	s.Require().NoError(err)

	uri, err := s.RedisContainer.ConnectionString(s.Ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)

	s.RedisClient = redis.NewClient(opts)
	s.Require().NoError(s.RedisClient.Ping(s.Ctx).Err())
}

func (s *BaseSuite) TearDownInfrastructure() {
	if s.MongoClient != nil {
		if err := s.MongoClient.Disconnect(s.Ctx); err != nil {
			log.Printf("Failed to disconnect mongo client: %v", err)
		}
	}
	if s.MongoContainer != nil {
		if err := s.MongoContainer.Terminate(s.Ctx); err != nil {
			log.Printf("Failed to terminate mongo container: %v", err)
		}
	}
	if s.RedisClient != nil {
		_ = s.RedisClient.Close()
	}
	if s.RedisContainer != nil {
		if err := s.RedisContainer.Terminate(s.Ctx); err != nil {
			log.Printf("Failed to terminate redis container: %v", err)
		}
	}
}

// DropCollection empties a collection between tests. Indexes go with it.
func (s *BaseSuite) DropCollection(name string) {
	s.Require().NoError(s.DB.Collection(name).Drop(s.Ctx))
}

func (s *BaseSuite) FlushRedis() {
	s.Require().NoError(s.RedisClient.FlushAll(s.Ctx).Err())
}
