package middleware

import (
	"bookpay/config"
	"bookpay/infras/jwt"
	"bookpay/infras/otel"
	"bookpay/internal/session"
	"bookpay/shared/constant"
	"bookpay/shared/failure"
	"bookpay/shared/logger"
	"bookpay/shared/timezone"
	"bookpay/transport/http/response"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Session loads the caller's session from the signed cookie, expires idle ones and
// saves the session back once the handler returns.
type Session interface {
	Session(next http.Handler) http.Handler
}

type sessionImpl struct {
	jwtService jwt.JWT
	store      session.Store
	otel       otel.Otel
	cfg        *config.Config
}

func NewSessionMiddleware(jwtService jwt.JWT, store session.Store, otel otel.Otel, cfg *config.Config) Session {
	return &sessionImpl{
		jwtService: jwtService,
		store:      store,
		otel:       otel,
		cfg:        cfg,
	}
}

func (m *sessionImpl) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "session.middleware")

		now := timezone.Now()
		idle := time.Duration(m.cfg.App.Session.IdleTimeoutSeconds) * time.Second

		sess, err := m.load(ctx, request)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			logger.ErrorWithStack(err)

			response.WithError(writer, failure.InternalError(errors.New("failed to load session")))

			return
		}

		if sess.Expired(now, idle) {
			log.Info().Str(logger.FieldSessionID, sess.ID).Msg("session expired")

			if err = m.store.Destroy(ctx, sess.ID); err != nil {
				log.Error().Err(err).Str(logger.FieldSessionID, sess.ID).Msg("failed to destroy expired session")
			}

			m.clearCookie(writer)
			scope.TraceError(failure.SessionExpired)
			scope.End()

			response.WithError(writer, failure.SessionExpired)

			return
		}

		sess.Touch(now)

		token, err := m.jwtService.SignSession(sess.ID, sess.CustomerID)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			logger.ErrorWithStack(err)

			response.WithError(writer, failure.InternalError(errors.New("failed to issue session")))

			return
		}

		m.setCookie(writer, token)
		scope.SetAttribute("session.id", sess.ID)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(session.WithSession(request.Context(), sess)))

		if err = m.store.Save(context.WithoutCancel(request.Context()), sess); err != nil {
			log.Error().Err(err).Str(logger.FieldSessionID, sess.ID).Msg("failed to save session")
		}
	})
}

// load returns the stored session, or a fresh one when the cookie is missing, invalid or
// points at nothing.
func (m *sessionImpl) load(ctx context.Context, request *http.Request) (*session.Session, error) {
	cookie, err := request.Cookie(m.cfg.App.Session.CookieName)
	if err != nil {
		return m.fresh(nil), nil
	}

	claims, err := m.jwtService.ParseSession(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring invalid session cookie")

		return m.fresh(nil), nil
	}

	sess, err := m.store.Load(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return m.fresh(claims.CustomerID), nil
	}

	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (m *sessionImpl) fresh(customerID *int64) *session.Session {
	sess := session.New(uuid.NewString(), timezone.Now())
	sess.CustomerID = customerID

	return sess
}

func (m *sessionImpl) setCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     m.cfg.App.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   m.cfg.JWT.SessionExpireMin * constant.MinutesToSeconds,
		HttpOnly: true,
		Secure:   m.cfg.App.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *sessionImpl) clearCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     m.cfg.App.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.App.Session.SecureCookie,
	})
}
