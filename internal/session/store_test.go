package session_test

import (
	"bookpay/config"
	"bookpay/infras/otel/mocks"
	"bookpay/internal/session"
	"bookpay/shared/cache"
	cacheMocks "bookpay/shared/cache/mocks"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newStore(t *testing.T) (session.Store, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.JWT.SessionExpireMin = 60
	cfg.App.Session.IdleTimeoutSeconds = 900

	return session.NewStore(cfg, redisCache, mocks.NewOtel()), redisCache
}

func TestStore_Load(t *testing.T) {
	customerID := int64(3)

	tests := []struct {
		name     string
		getErr   error
		stored   session.Session
		expected *session.Session
		wantErr  error
	}{
		{
			name:     "found",
			stored:   session.Session{ID: "abc", CustomerID: &customerID, PaymentInfo: &session.PaymentInfo{BookingID: 7}},
			expected: &session.Session{ID: "abc", CustomerID: &customerID, PaymentInfo: &session.PaymentInfo{BookingID: 7}},
		},
		{
			name:    "missing",
			getErr:  fmt.Errorf("failed to get cache value: %w", cache.Nil),
			wantErr: session.ErrNotFound,
		},
		{
			name:   "redis error",
			getErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, redisCache := newStore(t)

			redisCache.EXPECT().
				Get(gomock.Any(), "session:abc", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, value any) error {
					if tt.getErr != nil {
						return tt.getErr
					}

					*value.(*session.Session) = tt.stored

					return nil
				})

			got, err := store.Load(context.Background(), "abc")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.getErr != nil:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, session.ErrNotFound)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestStore_Save(t *testing.T) {
	store, redisCache := newStore(t)
	sess := &session.Session{ID: "abc"}

	redisCache.EXPECT().Save(gomock.Any(), "session:abc", sess, 3600).Return(nil)
	assert.NoError(t, store.Save(context.Background(), sess))

	redisCache.EXPECT().Save(gomock.Any(), "session:abc", sess, 3600).Return(errors.New("oom"))
	assert.Error(t, store.Save(context.Background(), sess))
}

func TestStore_Destroy(t *testing.T) {
	store, redisCache := newStore(t)

	redisCache.EXPECT().Delete(gomock.Any(), "session:abc").Return(nil)

	assert.NoError(t, store.Destroy(context.Background(), "abc"))
}
