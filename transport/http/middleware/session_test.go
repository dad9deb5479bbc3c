package middleware_test

import (
	"bookpay/config"
	"bookpay/infras/jwt"
	otelMocks "bookpay/infras/otel/mocks"
	"bookpay/internal/session"
	"bookpay/internal/session/mocks"
	"bookpay/transport/http/middleware"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const cookieName = "bookpay_session"

func newSessionConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "bookpay"
	cfg.App.Session.CookieName = cookieName
	cfg.App.Session.IdleTimeoutSeconds = 900
	cfg.JWT.SessionSecret = "secret"
	cfg.JWT.SessionExpireMin = 60

	return cfg
}

func TestSession(t *testing.T) {
	cfg := newSessionConfig()
	jwtService := jwt.New(cfg)
	customerID := int64(5)

	validToken, err := jwtService.SignSession("sess-1", &customerID)
	assert.NoError(t, err)

	tests := []struct {
		name        string
		cookie      string
		setupMock   func(store *mocks.MockStore)
		wantCode    int
		wantNext    bool
		checkCookie func(t *testing.T, cookie *http.Cookie)
		checkSess   func(t *testing.T, sess *session.Session)
	}{
		{
			name: "no cookie starts a fresh session",
			setupMock: func(store *mocks.MockStore) {
				store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusOK,
			wantNext: true,
			checkCookie: func(t *testing.T, cookie *http.Cookie) {
				t.Helper()

				claims, err := jwtService.ParseSession(cookie.Value)
				assert.NoError(t, err)
				assert.NotEmpty(t, claims.SessionID)
				assert.Nil(t, claims.CustomerID)
			},
			checkSess: func(t *testing.T, sess *session.Session) {
				t.Helper()

				assert.NotEmpty(t, sess.ID)
				assert.Nil(t, sess.PaymentInfo)
			},
		},
		{
			name:   "invalid cookie starts a fresh session",
			cookie: "not-a-token",
			setupMock: func(store *mocks.MockStore) {
				store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusOK,
			wantNext: true,
		},
		{
			name:   "stored session is restored",
			cookie: validToken,
			setupMock: func(store *mocks.MockStore) {
				stored := session.New("sess-1", time.Now().Add(-time.Minute))
				stored.CustomerID = &customerID
				stored.StartPayment(7)

				store.EXPECT().Load(gomock.Any(), "sess-1").Return(stored, nil)
				store.EXPECT().Save(gomock.Any(), stored).Return(nil)
			},
			wantCode: http.StatusOK,
			wantNext: true,
			checkSess: func(t *testing.T, sess *session.Session) {
				t.Helper()

				assert.Equal(t, "sess-1", sess.ID)
				assert.True(t, sess.HasPendingPayment(7))
			},
		},
		{
			name:   "missing stored session keeps the customer",
			cookie: validToken,
			setupMock: func(store *mocks.MockStore) {
				store.EXPECT().Load(gomock.Any(), "sess-1").Return(nil, session.ErrNotFound)
				store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusOK,
			wantNext: true,
			checkSess: func(t *testing.T, sess *session.Session) {
				t.Helper()

				assert.NotEqual(t, "sess-1", sess.ID)
				assert.Equal(t, &customerID, sess.CustomerID)
			},
		},
		{
			name:   "store failure",
			cookie: validToken,
			setupMock: func(store *mocks.MockStore) {
				store.EXPECT().Load(gomock.Any(), "sess-1").Return(nil, errors.New("redis down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:   "idle session expires",
			cookie: validToken,
			setupMock: func(store *mocks.MockStore) {
				store.EXPECT().Load(gomock.Any(), "sess-1").Return(session.New("sess-1", time.Now().Add(-time.Hour)), nil)
				store.EXPECT().Destroy(gomock.Any(), "sess-1").Return(nil)
			},
			wantCode: http.StatusUnauthorized,
			checkCookie: func(t *testing.T, cookie *http.Cookie) {
				t.Helper()

				assert.Empty(t, cookie.Value)
				assert.Equal(t, -1, cookie.MaxAge)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockStore(ctrl)
			tt.setupMock(store)

			var (
				called bool
				seen   *session.Session
			)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				seen, _ = session.FromContext(r.Context())

				w.WriteHeader(http.StatusOK)
			})

			handler := middleware.NewSessionMiddleware(jwtService, store, otelMocks.NewOtel(), cfg).Session(next)

			request := httptest.NewRequest(http.MethodGet, "/v1/payments/success", nil)
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, tt.wantNext, called)

			if tt.checkCookie != nil {
				cookies := recorder.Result().Cookies()
				assert.Len(t, cookies, 1)
				assert.Equal(t, cookieName, cookies[0].Name)
				tt.checkCookie(t, cookies[0])
			}

			if tt.checkSess != nil {
				assert.NotNil(t, seen)
				tt.checkSess(t, seen)
			}
		})
	}
}
