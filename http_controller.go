package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

type HTTPControllerRoutes struct {
	Login string
}

// HTTPController exposes the Authenticator over fiber
type HTTPController struct {
	Auther *Authenticator
	Logger Logger
	Routes *HTTPControllerRoutes
}

type HTTPControllerOption func(*HTTPController) *HTTPController

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Logger = normalizeLogger(logger)
		return c
	}
}

// WithLoginRoute overrides the login path
func WithLoginRoute(path string) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if path != "" {
			c.Routes.Login = path
		}
		return c
	}
}

func NewHTTPController(auther *Authenticator, opts ...HTTPControllerOption) *HTTPController {
	if auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	c := &HTTPController{
		Auther: auther,
		Logger: defLogger{},
		Routes: &HTTPControllerRoutes{
			Login: "/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// Register mounts the controller routes
func (h *HTTPController) Register(app fiber.Router) {
	app.Post(h.Routes.Login, h.LoginPost)
}

func (h *HTTPController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		h.Logger.Error("login parse payload: %s", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	result := h.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if result.Err != nil {
		status := fiber.StatusUnauthorized
		switch result.Kind() {
		case KindConfigurationMissing, KindSigningFailure:
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"message": result.Message(),
		})
	}

	return c.JSON(LoginResponse{Token: result.Token})
}
