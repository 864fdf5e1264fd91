package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rmoraless/authgate/internal/api/metrics"
	"github.com/rmoraless/authgate/internal/core/domain"
	"github.com/rmoraless/authgate/internal/core/ports"
)

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token into a request-scoped principal.
//
// The filter never rejects a request for a bad credential: a missing,
// malformed, expired or tampered token, or an unknown subject, all leave the
// request anonymous and defer the decision to the Policy gate. A bad token on
// a public route is therefore not an error, matching the behaviour of a
// stateless filter chain. Store failures during identity resolution are the
// one exception: they propagate so the boundary renders them as a server
// error, not as missing authentication.
func Authenticate(tokens ports.TokenCodec, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}

			claims, err := tokens.Parse(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(tokenFailureLabel(err)).Inc()
				log.Debug().Err(err).Msg("bearer token rejected")
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
					return next(c)
				}
				// Store failures propagate to the boundary; they must not be
				// rendered as an authentication failure.
				log.Error().Err(err).Msg("identity lookup failed")
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			SetPrincipal(c, &domain.Principal{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			})
			return next(c)
		}
	}
}

func tokenFailureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
