package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/lotto/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/lotto/internal/pkg/jwthelper"
)

const (
	PlayIDKey = "playID"

	// Browsers cannot set headers on a websocket handshake, so the token may
	// also come as a query parameter.
	tokenQueryParam = "token"
)

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenStr)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(PlayIDKey, claims.PlayID)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query(tokenQueryParam)
}
