package http

import (
	"errors"
	"net/http"
	"strings"

	"helperhub/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

var (
	ErrEmptyToken   = errors.New("auth: empty token")
	ErrEmptySecret  = errors.New("auth: empty secret")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrUnknownRole  = errors.New("auth: unknown role")
)

// Claims are issued by the identity provider. Permissions are granted
// there; this service never derives them from the role.
type Claims struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Actor turns the claims into the authorization decision the core reads.
func (c *Claims) Actor() (kernel.Actor, error) {
	role := kernel.Role(c.Role)
	switch role {
	case kernel.RoleRequester, kernel.RoleHelper, kernel.RoleAdmin:
	default:
		return kernel.Actor{}, ErrUnknownRole
	}
	perms := make([]kernel.Permission, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		perms = append(perms, kernel.Permission(p))
	}
	return kernel.NewActor(c.Subject, role, perms...)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's actor on the echo context.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return unauthorized(ctx, ErrEmptyToken)
			}
			claims, err := ParseToken(strings.TrimSpace(raw), secret)
			if err != nil {
				return unauthorized(ctx, err)
			}
			actor, err := claims.Actor()
			if err != nil {
				return unauthorized(ctx, err)
			}
			ctx.Set(actorKey, actor)
			return next(ctx)
		}
	}
}

func unauthorized(ctx echo.Context, err error) error {
	ctx.Logger().Debug(err)
	return ctx.JSON(http.StatusUnauthorized, Error{
		Code:    http.StatusUnauthorized,
		Message: http.StatusText(http.StatusUnauthorized),
	})
}

func actorFrom(ctx echo.Context) kernel.Actor {
	actor, _ := ctx.Get(actorKey).(kernel.Actor)
	return actor
}
