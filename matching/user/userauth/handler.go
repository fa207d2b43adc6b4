package userauth

import (
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	authService *AuthService
}

func NewHandlers(authService *AuthService) *Handlers {
	return &Handlers{authService: authService}
}

// Signup registers a new user
// POST /SignUp
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req user.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return user.ErrInvalidRequest().WithCause(err)
	}

	resp, err := h.authService.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login authenticates with email and password
// POST /login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req user.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return user.ErrInvalidRequest().WithCause(err)
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Me returns the caller's profile
// GET /me
func (h *Handlers) Me(c *fiber.Ctx) error {
	userID, err := MustUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(user.MeResponse{User: *profile})
}

// RegisterRoutes registers auth routes at the application root
func RegisterRoutes(
	router fiber.Router,
	handlers *Handlers,
	authMiddleware fiber.Handler,
) {
	// Public
	router.Post("/SignUp", handlers.Signup)
	router.Post("/login", handlers.Login)

	// Protected
	router.Get("/me", authMiddleware, handlers.Me)
}
