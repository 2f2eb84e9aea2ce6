package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inventory.GO/config"
	"inventory.GO/model/entity"
	userRepo "inventory.GO/model/repository/user"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uint   `json:"user_id,omitempty"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	Method   string `json:"auth_type"`
}

// FromContext returns the caller set by Middleware.
func FromContext(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// Middleware returns the auth middleware selected by AUTH_TYPE.
//
//	basic: API_USER/API_PASS, then active users by bcrypt password
//	key:   the static API_KEY
//	token: the static API_KEY or a non-revoked api_tokens row
func Middleware(db *gorm.DB, cfg *config.Config) echo.MiddlewareFunc {
	skipper := buildSkipper()
	repo := userRepo.NewUserRepository(db)
	switch cfg.AuthType {
	case "key":
		return keyAuth(cfg, skipper)
	case "token":
		return tokenAuth(cfg, repo, skipper)
	default:
		return basicAuth(cfg, repo, skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func userPrincipal(u *entity.User, method string) Principal {
	return Principal{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff, Method: method}
}

func basicAuth(cfg *config.Config, repo *userRepo.UserRepository, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if cfg.APIUser != "" && equal(username, cfg.APIUser) && equal(password, cfg.APIPass) {
				c.Set(principalKey, Principal{Username: username, IsStaff: true, Method: "basic"})
				return true, nil
			}
			u, err := repo.FindByUsername(c.Request().Context(), username)
			if err != nil {
				return false, nil
			}
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
				return false, nil
			}
			c.Set(principalKey, userPrincipal(u, "basic"))
			return true, nil
		},
		Skipper: skipper,
	})
}

func keyAuth(cfg *config.Config, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			if cfg.APIKey == "" || !equal(key, cfg.APIKey) {
				return false, nil
			}
			c.Set(principalKey, Principal{Username: "api-key", IsStaff: true, Method: "key"})
			return true, nil
		},
		Skipper: skipper,
	})
}

func tokenAuth(cfg *config.Config, repo *userRepo.UserRepository, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(token string, c echo.Context) (bool, error) {
			if cfg.APIKey != "" && equal(token, cfg.APIKey) {
				c.Set(principalKey, Principal{Username: "api-key", IsStaff: true, Method: "static"})
				return true, nil
			}
			ctx := c.Request().Context()
			t, err := repo.FindActiveToken(ctx, token)
			if err != nil {
				return false, nil
			}
			u, err := repo.GetUser(ctx, t.UserID)
			if err != nil || !u.IsActive {
				return false, nil
			}
			c.Set(principalKey, userPrincipal(u, "token"))
			return true, nil
		},
		Skipper: skipper,
	})
}

// RequireStaff rejects authenticated callers that are not staff.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := FromContext(c)
			if !ok || !p.IsStaff {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "staff access required"})
			}
			return next(c)
		}
	}
}

// HashPassword returns a bcrypt hash for storing in User.PasswordHash.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
