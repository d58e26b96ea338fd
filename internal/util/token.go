package util

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ReadAuthorizationHeader splits the Authorization header into its scheme and
// token parts.
func ReadAuthorizationHeader(ctx *gin.Context) (string, string, error) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", "", errors.New("no authorization header specified")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found {
		return "", "", errors.New("wrong authorization header format")
	}
	if token == "" {
		return "", "", errors.New("token is empty")
	}

	return scheme, token, nil
}

func readTokenWithScheme(ctx *gin.Context, scheme string) (string, error) {
	gotScheme, token, err := ReadAuthorizationHeader(ctx)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(gotScheme, scheme) {
		return "", errors.New("invalid token type; expected '" + scheme + "'")
	}

	return token, nil
}

// ReadBearerToken extracts the token of an "Authorization: Bearer ..." header.
func ReadBearerToken(ctx *gin.Context) (string, error) {
	return readTokenWithScheme(ctx, "Bearer")
}

// ReadRefreshToken extracts the token of an "Authorization: Refresh ..."
// header, the scheme the refresh endpoint expects.
func ReadRefreshToken(ctx *gin.Context) (string, error) {
	return readTokenWithScheme(ctx, "Refresh")
}
