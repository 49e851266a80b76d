package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/reqctx"
)

const (
	ClientCookie      = "storefront_client"
	ClientTokenHeader = "X-Client-Token"
	CurrentURLHeader  = "X-Current-URL"

	// gin context keys
	ClientIDKey   = "clientID"
	CurrentURLKey = "currentURL"

	clientTokenIssuer = "voltforge-storefront"
)

// ClientTokens signs and verifies the HS256 token that names a browser's
// namespace. The subject is the client id.
type ClientTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewClientTokens(key []byte, ttl time.Duration) *ClientTokens {
	return &ClientTokens{key: key, ttl: ttl, now: time.Now}
}

func (t *ClientTokens) Issue(clientID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    clientTokenIssuer,
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

// Parse returns the client id of a valid token, or domain.ErrClientTokenInvalid.
func (t *ClientTokens) Parse(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	},
		jwt.WithIssuer(clientTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", domain.ErrClientTokenInvalid
	}
	return claims.Subject, nil
}

type clientNamespaces interface {
	InitClient(ctx context.Context, clientID string) error
	TouchClient(ctx context.Context, clientID string) error
}

// Client resolves the browser behind a request. A missing or invalid token
// starts a new client with an empty namespace. A known client's namespace is
// touched and its token re-issued on every request, reads included, so the
// namespace and the token expire together.
func Client(tokens *ClientTokens, clients clientNamespaces, secureCookie bool, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "client_middleware")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		clientID, err := tokens.Parse(rawClientToken(c))
		if err != nil {
			clientID = reqctx.NewID()
			if err := clients.InitClient(ctx, clientID); err != nil {
				logger.ErrorContext(ctx, "init client namespace", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			logger.DebugContext(ctx, "new client", "client_id", clientID)
		} else if err := clients.TouchClient(ctx, clientID); err != nil {
			logger.WarnContext(ctx, "touch client namespace", "client_id", clientID, "error", err)
		}

		signed, err := tokens.Issue(clientID)
		if err != nil {
			logger.ErrorContext(ctx, "issue client token", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientCookie, signed, int(tokens.ttl.Seconds()), "/", "", secureCookie, true)
		c.Header(ClientTokenHeader, signed)

		c.Request = c.Request.WithContext(reqctx.WithClientID(ctx, clientID))
		c.Set(ClientIDKey, clientID)
		c.Set(CurrentURLKey, currentURL(c))
		c.Next()
	}
}

// rawClientToken prefers a Bearer header over the cookie.
func rawClientToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(ClientCookie); err == nil {
		return cookie
	}
	return ""
}

// currentURL is the page the visitor is on, as reported by the renderer.
func currentURL(c *gin.Context) string {
	if u := c.GetHeader(CurrentURLHeader); u != "" {
		return u
	}
	if u := c.GetHeader("Referer"); u != "" {
		return u
	}
	return c.Request.URL.String()
}
