package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbon-ledger/internal/logger"
)

const (
	AUTH_SUBJECT_KEY = "auth_subject"
	JWT_CLAIMS_KEY   = "jwt_claims"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// JWTSecret is the HMAC signing secret shared with the identity service
	JWTSecret string
}

// Auth returns a gin middleware validating Bearer JWTs. The token subject
// (the internal account id) is stored in the request context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c.GetHeader("Authorization"), cfg)
		if err != nil {
			logger.Warn("Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Authentication failed",
				},
			})
			return
		}

		c.Set(JWT_CLAIMS_KEY, claims)
		if claims.Subject != "" {
			c.Set(AUTH_SUBJECT_KEY, claims.Subject)
		}

		c.Next()
	}
}

// AuthSubject returns the authenticated subject stored by Auth, empty when
// the request was not authenticated
func AuthSubject(c *gin.Context) string {
	return c.GetString(AUTH_SUBJECT_KEY)
}

func authenticate(authHeader string, cfg AuthConfig) (*jwt.RegisteredClaims, error) {
	if authHeader == "" {
		return nil, errors.New("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid Authorization header format")
	}

	return validateJWT(parts[1], cfg.JWTSecret)
}

// validateJWT validates an HMAC-signed JWT and returns its claims
func validateJWT(tokenString string, secret string) (*jwt.RegisteredClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
