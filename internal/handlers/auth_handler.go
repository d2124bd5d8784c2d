package handlers

import (
	"time"

	"warung/internal/middleware"
	"warung/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler serves the login and logout pages for the admin account.
type AuthHandler struct {
	service *services.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/login", h.HandleLoginForm)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}

// HandleLoginForm renders the login page.
func (h *AuthHandler) HandleLoginForm(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{"Title": "Masuk", "LoginName": ""}, "layout")
}

// HandleLogin checks the submitted credentials and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	token, err := h.service.Login(username, password)
	if err != nil {
		h.logger.Warn().Str("username", username).Msg("failed login attempt")
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Title":     "Masuk",
			"LoginName": username,
			"Error":     "Username atau password salah",
		}, "layout")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/products", fiber.StatusSeeOther)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}
