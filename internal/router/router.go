package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"scribefinder/internal/auth"
	"scribefinder/internal/handler"
	"scribefinder/internal/logging"
	"scribefinder/internal/validation"
)

// Handlers groups the route handlers wired by Register.
type Handlers struct {
	Pages    *handler.PageHandler
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Requests *handler.RequestHandler
	Match    *handler.MatchHandler
}

// Options tunes the non-route parts of the router.
type Options struct {
	// StaticDir, when set, is served under /static/profile_pics.
	StaticDir string
	// Ready reports backing-store health for /healthz. Nil means always ready.
	Ready func(c echo.Context) error
}

// Register wires routes and middleware.
func Register(e *echo.Echo, logger logrus.FieldLogger, sessions *auth.Middleware, h Handlers, opts Options) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{}

	e.GET("/healthz", func(c echo.Context) error {
		if opts.Ready != nil {
			if err := opts.Ready(c); err != nil {
				return c.String(http.StatusServiceUnavailable, "unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if opts.StaticDir != "" {
		e.Static("/static/profile_pics", opts.StaticDir)
	}

	optional := sessions.Optional()
	required := sessions.Required()
	anonymous := auth.AnonymousOnly("/home")

	e.GET("/home", h.Pages.Home, required)
	e.GET("/about", h.Pages.About)

	e.GET("/", h.Auth.RegisterForm, optional, anonymous)
	e.GET("/register", h.Auth.RegisterForm, optional, anonymous)
	e.POST("/register", h.Auth.Register, optional, anonymous)
	e.GET("/login", h.Auth.LoginForm, optional, anonymous)
	e.POST("/login", h.Auth.Login, optional, anonymous)
	e.GET("/logout", h.Auth.Logout, required)
	e.POST("/logout", h.Auth.Logout, required)

	e.GET("/account", h.Account.GetAccount, required)
	e.POST("/account", h.Account.UpdateAccount, required)

	e.GET("/post/new", h.Requests.NewForm, required)
	e.POST("/post/new", h.Requests.Create, required)
	e.GET("/post/:id", h.Requests.Get)
	e.GET("/post/:id/update", h.Requests.EditForm, required)
	e.POST("/post/:id/update", h.Requests.Update, required)
	e.POST("/post/:id/delete", h.Requests.Delete, required)
	e.POST("/post/:id/accept", h.Requests.Accept, required)
	e.GET("/user/:username", h.Requests.ListByUser)

	e.GET("/accept_request/:user_email/:student_email", h.Match.AcceptRequest)
	e.POST("/accept_request/:user_email/:student_email", h.Match.AcceptRequest)
}

// CustomValidator adapts validation.Validate to echo's Validator.
type CustomValidator struct{}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	if verr := validation.Validate(i); verr != nil {
		return verr
	}
	return nil
}
