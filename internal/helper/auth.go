package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dteaa/membership_service/internal/dto"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSession    = errors.New("missing auth user in context")
)

// identityClaims mirrors the access token issued by the hosted identity provider.
type identityClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

type Auth struct {
	Secret string
}

func SetupAuth(s string) Auth {
	return Auth{
		Secret: s,
	}
}

// GenerateToken signs a token in the identity provider's shape. Used by tests and local tooling.
func (a Auth) GenerateToken(userID, email, fullName string, ttl time.Duration) (string, error) {
	if userID == "" || email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	claims := identityClaims{Email: email}
	claims.UserMetadata.FullName = fullName
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken accepts "Bearer <token>" or a bare token.
func (a Auth) VerifyToken(tokenString string) (dto.CurrentSession, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.CurrentSession{}, ErrMissingToken
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		tokenString = strings.TrimSpace(tokenString[len("bearer "):])
		if tokenString == "" {
			return dto.CurrentSession{}, ErrInvalidToken
		}
	}

	var claims identityClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return dto.CurrentSession{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return dto.CurrentSession{}, ErrInvalidToken
	}

	name := claims.UserMetadata.FullName
	if name == "" {
		name = claims.UserMetadata.Name
	}
	return dto.CurrentSession{
		UserID:      claims.Subject,
		Email:       strings.ToLower(claims.Email),
		DisplayName: name,
	}, nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.CurrentSession, error) {
	session, ok := ctx.Locals("user").(dto.CurrentSession)
	if !ok || session.UserID == "" {
		return dto.CurrentSession{}, ErrNoSession
	}
	return session, nil
}
