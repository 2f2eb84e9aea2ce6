package users

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"inventory.GO/api"
	"inventory.GO/core/auth"
	"inventory.GO/model/entity"
	userRepo "inventory.GO/model/repository/user"
)

func init() {
	api.RegisterModule(RegisterUserRoutes)
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsStaff  bool   `json:"is_staff"`
	IsActive *bool  `json:"is_active"`
	Groups   []uint `json:"groups"`
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsStaff  *bool   `json:"is_staff"`
	IsActive *bool   `json:"is_active"`
	Groups   *[]uint `json:"groups"`
}

type groupRequest struct {
	Name        *string `json:"name"`
	Permissions *[]uint `json:"permissions"`
}

func RegisterUserRoutes(apiGroup *echo.Group, deps *api.Deps) {
	repo := userRepo.NewUserRepository(deps.DB)

	// GET /api/users/me – any authenticated caller
	apiGroup.GET("/users/me", func(c echo.Context) error {
		p, ok := auth.FromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}
		if p.UserID == 0 {
			return c.JSON(http.StatusOK, echo.Map{"principal": p})
		}
		u, err := repo.GetUser(c.Request().Context(), p.UserID)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"principal": p, "user": u})
	})

	staff := auth.RequireStaff()

	apiGroup.GET("/users", func(c echo.Context) error {
		us, err := repo.ListUsers(c.Request().Context())
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, us)
	}, staff)

	apiGroup.POST("/users", func(c echo.Context) error {
		var req createUserRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			return api.BadRequest(c, "username and password are required")
		}
		ctx := c.Request().Context()
		taken, err := repo.UsernameTaken(ctx, req.Username)
		if err != nil {
			return api.Error(c, err)
		}
		if taken {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return api.Error(c, err)
		}
		u := entity.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			IsStaff:      req.IsStaff,
			IsActive:     req.IsActive == nil || *req.IsActive,
		}
		if err := repo.CreateUser(ctx, &u, req.Groups); err != nil {
			return api.Error(c, err)
		}
		created, err := repo.GetUser(ctx, u.ID)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}, staff)

	apiGroup.GET("/users/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		u, err := repo.GetUser(c.Request().Context(), id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}, staff)

	apiGroup.PATCH("/users/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		var req updateUserRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		ctx := c.Request().Context()
		u, err := repo.GetUser(ctx, id)
		if err != nil {
			return api.Error(c, err)
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.IsStaff != nil {
			u.IsStaff = *req.IsStaff
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.Password != nil {
			if *req.Password == "" {
				return api.BadRequest(c, "password must not be empty")
			}
			if u.PasswordHash, err = auth.HashPassword(*req.Password); err != nil {
				return api.Error(c, err)
			}
		}
		if err := repo.SaveUser(ctx, u, req.Groups); err != nil {
			return api.Error(c, err)
		}
		updated, err := repo.GetUser(ctx, id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}, staff)

	apiGroup.GET("/groups", func(c echo.Context) error {
		gs, err := repo.ListGroups(c.Request().Context())
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, gs)
	}, staff)

	apiGroup.POST("/groups", func(c echo.Context) error {
		var req groupRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			return api.BadRequest(c, "name is required")
		}
		ctx := c.Request().Context()
		g := entity.Group{Name: strings.TrimSpace(*req.Name)}
		if err := repo.SaveGroup(ctx, &g, req.Permissions); err != nil {
			return api.Error(c, err)
		}
		created, err := repo.GetGroup(ctx, g.ID)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}, staff)

	apiGroup.PATCH("/groups/:id", func(c echo.Context) error {
		id, err := api.ParamID(c, "id")
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		var req groupRequest
		if err := c.Bind(&req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		ctx := c.Request().Context()
		g, err := repo.GetGroup(ctx, id)
		if err != nil {
			return api.Error(c, err)
		}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return api.BadRequest(c, "name must not be empty")
			}
			g.Name = strings.TrimSpace(*req.Name)
		}
		if err := repo.SaveGroup(ctx, g, req.Permissions); err != nil {
			return api.Error(c, err)
		}
		updated, err := repo.GetGroup(ctx, id)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, updated)
	}, staff)

	apiGroup.GET("/permissions", func(c echo.Context) error {
		ps, err := repo.ListPermissions(c.Request().Context())
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(http.StatusOK, ps)
	}, staff)
}
