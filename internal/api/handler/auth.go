package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "civicchain"

var ErrInvalidToken = errors.New("invalid or expired token")

type sessionClaims struct {
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// TokenIssuer підписує та перевіряє HS256 токени сесії, прив'язані до гаманця
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue повертає підписаний токен для wallet і термін його дії
func (t *TokenIssuer) Issue(wallet string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := sessionClaims{
		Wallet: wallet,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   wallet,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Wallet перевіряє tokenString і повертає гаманець, для якого його видано
func (t *TokenIssuer) Wallet(tokenString string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || claims.Wallet == "" {
		return "", ErrInvalidToken
	}
	return claims.Wallet, nil
}

type sessionRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// CreateSession видає токен сесії для підключення до стрічки
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid session request", Errors: fieldErrors(err)})
		return
	}

	token, expires, err := h.Tokens.Issue(req.WalletAddress)
	if err != nil {
		h.logger.Error("failed to sign session token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Message: "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expires})
}

// bearerToken читає токен із заголовка Authorization або з параметра token
// (браузери не можуть задати заголовки для WebSocket)
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return c.Query("token")
}
