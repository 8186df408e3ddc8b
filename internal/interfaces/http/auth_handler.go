package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/access"
	"github.com/jhoicas/facturation-api/internal/application/dto"
)

// AuthHandler maneja registro, login, logout y snapshot de sesión.
type AuthHandler struct {
	sessions *access.SessionService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions *access.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, full_name"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	profile, err := h.sessions.Register(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email et mot de passe requis"})
	}
	out, err := h.sessions.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout POST /api/auth/logout. Invalida la caché de acceso; el token lo descarta el cliente.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.Context(), GetUserID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// Me GET /api/auth/me. Sin token válido responde la sesión anónima.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, err := h.sessions.Me(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(access.ToSessionResponse(session))
}

// AccessHandler expone las decisiones de ProtectedRoute y el estado de la suscripción.
type AccessHandler struct {
	sessions      *access.SessionService
	subscriptions *access.SubscriptionService
}

// NewAccessHandler construye el handler.
func NewAccessHandler(sessions *access.SessionService, subscriptions *access.SubscriptionService) *AccessHandler {
	return &AccessHandler{sessions: sessions, subscriptions: subscriptions}
}

// Route GET /api/access/route?path=/factures
// Devuelve si la ruta del navegador se muestra, a dónde redirigir o qué pantalla de rechazo usar.
func (h *AccessHandler) Route(c *fiber.Ctx) error {
	session, err := h.sessions.Me(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	d := access.ResolveRoute(session, c.Query("path", "/"))
	return c.JSON(dto.RouteDecisionResponse{
		Path:     d.Path,
		Allowed:  d.Allowed,
		Redirect: d.Redirect,
		Reason:   d.Reason,
	})
}

// Subscription GET /api/subscription
func (h *AccessHandler) Subscription(c *fiber.Ctx) error {
	sub, err := h.subscriptions.Current(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(access.ToSubscriptionResponse(sub, time.Now()))
}

// StartTrial POST /api/subscription/trial. Solo una vez por usuario (409 si ya tuvo suscripción).
func (h *AccessHandler) StartTrial(c *fiber.Ctx) error {
	sub, err := h.subscriptions.StartTrial(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(access.ToSubscriptionResponse(sub, time.Now()))
}
