package session

//go:generate go run go.uber.org/mock/mockgen -source=./store.go -destination=./mocks/store_mock.go -package=mocks

import (
	"bookpay/config"
	"bookpay/infras/otel"
	"bookpay/shared"
	"bookpay/shared/cache"
	"bookpay/shared/constant"
	"context"
	"errors"
	"fmt"
)

const cacheKeyPrefix = "session"

var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Destroy(ctx context.Context, id string) error
}

type redisStore struct {
	cache cache.RedisCache
	otel  otel.Otel
	ttl   int
}

func NewStore(config *config.Config, redisCache cache.RedisCache, otel otel.Otel) Store {
	ttl := config.JWT.SessionExpireMin * constant.MinutesToSeconds
	if idle := config.App.Session.IdleTimeoutSeconds; ttl < idle {
		ttl = idle
	}

	return &redisStore{
		cache: redisCache,
		otel:  otel,
		ttl:   ttl,
	}
}

func key(id string) string {
	return shared.BuildCacheKey(cacheKeyPrefix, id)
}

func (s *redisStore) Load(ctx context.Context, id string) (*Session, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".session.Load")
	defer scope.End()

	var sess Session

	err := s.cache.Get(ctx, key(id), &sess)
	if cache.IsMiss(err) {
		return nil, ErrNotFound
	}

	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &sess, nil
}

func (s *redisStore) Save(ctx context.Context, sess *Session) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".session.Save")
	defer scope.End()

	if err := s.cache.Save(ctx, key(sess.ID), sess, s.ttl); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *redisStore) Destroy(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".session.Destroy")
	defer scope.End()

	if err := s.cache.Delete(ctx, key(id)); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to destroy session: %w", err)
	}

	return nil
}
