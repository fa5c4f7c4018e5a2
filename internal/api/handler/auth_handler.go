package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/api/middleware"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// CookieOptions controls the session cookie set on login.
type CookieOptions struct {
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	resp := toUserResponse(user)
	return c.JSON(http.StatusCreated, authResponse{User: &resp})
}

// Login authenticates a user, returns the session token and sets it as an
// HttpOnly cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	expires := time.Unix(session.ExpiresAt, 0).UTC()
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	user := toUserResponse(session.User)
	return c.JSON(http.StatusOK, authResponse{Token: session.Token, ExpiresAt: &expires, User: &user})
}

// Logout revokes the current session and clears the cookie. Anonymous
// callers get the same 204.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      500  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if id := ctxIdentity(c); id != nil {
		if err := h.authService.Logout(c.Request().Context(), id); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in account with its dashboard. Artisans get their product
// and story counts; customers get their review count and a featured product.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id := ctxIdentity(c)
	profile, err := h.authService.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}

	resp := meResponse{User: toUserResponse(profile.User)}
	if profile.User.Role.IsArtisan() {
		products, stories := profile.ProductCount, profile.StoryCount
		resp.ProductCount = &products
		resp.StoryCount = &stories
	} else {
		reviews := profile.ReviewCount
		resp.ReviewCount = &reviews
		if profile.Featured != nil {
			featured := toProductResponse(*profile.Featured)
			resp.FeaturedProduct = &featured
		}
	}
	return c.JSON(http.StatusOK, resp)
}
