package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"store-service/internal/models"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

type accessClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

// TokenParser validates access tokens issued by the auth service and
// extracts the principal. Token issuance lives outside this service.
type TokenParser struct {
	secret []byte
}

// NewTokenParser creates a new token parser
func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{secret: []byte(secret)}
}

// Parse validates a token and returns the principal it carries.
func (p *TokenParser) Parse(tokenStr string) (models.Principal, error) {
	claims := &accessClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return models.Principal{}, errors.New("invalid or expired token")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Principal{}, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return models.Principal{}, errors.New("invalid subject claim")
	}

	return models.Principal{UserID: userID, Role: claims.Role}, nil
}

// authMiddleware extracts the principal from the access-token cookie or the
// Authorization header and requires the owner role on every route.
func authMiddleware(parser *TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("access-token")
		if err != nil || tokenStr == "" {
			tokenStr = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: Token is missing or invalid.",
			})
			return
		}

		principal, err := parser.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: Token is missing or invalid.",
			})
			return
		}

		if principal.Role != models.RoleOwner {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden: You do not have permission to perform this action.",
			})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func principalFrom(c *gin.Context) models.Principal {
	principal, _ := c.Get(principalKey)
	return principal.(models.Principal)
}
