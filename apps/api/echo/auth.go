package echoapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/liceo-app/liceo/core"
	"github.com/liceo-app/liceo/core/user"
)

const (
	contextClaimsKey = "userToken"
	contextUserKey   = "user"
	bearerPrefix     = "Bearer "
)

// RevocationStore remembers logged out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"rol"`
	Email string `json:"email"`
}

// UserID returns the id of the user the token was issued to.
func (c Claims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

type authenticator struct {
	appName    string
	secretKey  []byte
	expiration time.Duration
	disabled   bool
	tokens     RevocationStore
	users      *user.Service

	nowFunc func() time.Time // mockable
}

func newAuthenticator(conf *core.Config, tokens RevocationStore, users *user.Service) *authenticator {
	return &authenticator{
		appName:    conf.AppName,
		secretKey:  []byte(conf.SecretKey),
		expiration: conf.Server.JWTExpirationDelta,
		disabled:   conf.AuthDisabled,
		tokens:     tokens,
		users:      users,
		nowFunc:    time.Now,
	}
}

func (a *authenticator) userClaims(usr user.User) *Claims {
	now := a.nowFunc()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.appName,
			Subject:   strconv.Itoa(usr.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
		},
		Role:  usr.Role,
		Email: usr.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func (a *authenticator) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) parseToken(raw string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		raw, claims,
		func(*jwt.Token) (interface{}, error) { return a.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.nowFunc),
	)
	if err != nil {
		return nil, errInvalidToken.WithInternal(err)
	}
	return claims, nil
}

// jwtMiddleware authenticates the bearer token and stores its claims in the echo.Context.
func (a *authenticator) jwtMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if a.disabled {
				return next(ctx)
			}

			auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, bearerPrefix) || len(auth) == len(bearerPrefix) {
				return errMissingToken
			}
			claims, err := a.parseToken(auth[len(bearerPrefix):])
			if err != nil {
				return err
			}

			revoked, err := a.tokens.IsRevoked(ctx.Request().Context(), claims.ID)
			if err != nil {
				return errors.Wrap(err, "checking token revocation")
			}
			if revoked {
				return errRevokedToken
			}

			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// rolesMiddleware lets the request through only if the token role is one of roles.
func (a *authenticator) rolesMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if a.disabled {
				return next(ctx)
			}
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func getContextClaims(ctx echo.Context) (*Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return claims, nil
	}
	return nil, errUnauthorized
}

// getContextUser loads the token subject, caching it in the echo.Context.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	id, err := claims.UserID()
	if err != nil {
		return user.User{}, errInvalidToken
	}

	usr, err := svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if core.IsNotFound(err) { // deleted after the token was issued
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

type authApi struct {
	auth     *authenticator
	svc      *user.Service
	validate *core.Validator
}

func registerAuthAPI(g *echo.Group, auth *authenticator, svc *user.Service, validate *core.Validator) {
	api := authApi{auth: auth, svc: svc, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/verify", api.verify, auth.jwtMiddleware())
	ag.POST("/logout", api.logout, auth.jwtMiddleware())
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		User  user.User `json:"user"`
		Token string    `json:"token"`
	}

	VerifyResponse struct {
		User *user.User `json:"user"`
	}
)

func (lr *LoginRequest) Validate(v *core.Validator) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return v.Struct(lr)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return core.NewValidationError(user.ErrInvalidCredentials)
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.auth.GenerateToken(api.auth.userClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: usr, Token: token})
}

func (api *authApi) verify(ctx echo.Context) error {
	if api.auth.disabled {
		return ctx.JSON(http.StatusOK, VerifyResponse{})
	}
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, VerifyResponse{User: &usr})
}

func (api *authApi) logout(ctx echo.Context) error {
	if !api.auth.disabled {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		until := api.auth.nowFunc().Add(api.auth.expiration)
		if claims.ExpiresAt != nil {
			until = claims.ExpiresAt.Time
		}
		if err = api.auth.tokens.Revoke(ctx.Request().Context(), claims.ID, until); err != nil {
			return errors.Wrap(err, "revoking token")
		}
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: "logged out"})
}
