package middleware

import (
	"context"
	"strings"

	"github.com/personachat/backend/config"
	"github.com/personachat/backend/internal/model"
	"github.com/personachat/backend/pkg/errorx"
	"github.com/personachat/backend/pkg/jwt"
	"github.com/personachat/backend/pkg/router"
	"github.com/personachat/backend/pkg/xcontext"
)

// AuthVerifier reads the access token from the Authorization header, the
// access token cookie or the access_token query parameter (browsers cannot
// set headers on websocket handshakes).
type AuthVerifier struct {
	verifier  *jwt.Verifier[model.AccessToken]
	tokenName string
	required  bool
}

func NewAuthVerifier(cfg config.AuthConfigs) *AuthVerifier {
	return &AuthVerifier{
		verifier:  jwt.NewVerifier[model.AccessToken](cfg.TokenSecret),
		tokenName: cfg.AccessToken.Name,
	}
}

// Required returns a verifier which rejects anonymous requests.
func (a *AuthVerifier) Required() *AuthVerifier {
	clone := *a
	clone.required = true
	return &clone
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if token := a.accessToken(ctx); token != "" {
			info, err := a.verifier.Verify(token)
			if err == nil && info.ID != "" {
				return xcontext.WithRequestUserID(ctx, info.ID), nil
			}

			xcontext.Logger(ctx).Debugf("Invalid access token: %v", err)
		}

		if a.required {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func (a *AuthVerifier) accessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if auth, token, found := strings.Cut(authorization, " "); found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	if cookie, err := req.Cookie(a.tokenName); err == nil {
		return cookie.Value
	}

	return req.URL.Query().Get("access_token")
}
