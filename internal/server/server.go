package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ajithkumarky/tulutitans/internal/database"
	"github.com/ajithkumarky/tulutitans/internal/server/auth"
	"github.com/ajithkumarky/tulutitans/internal/server/middlewares"
	"github.com/ajithkumarky/tulutitans/internal/server/service"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version  string
	Database database.Client
	// Token params
	SigningKey []byte
	// CORS params
	AllowedOrigins []string
	// Login params
	Limiter           auth.Limiter
	LoginFailureDelay time.Duration
	// Static web client, served when not empty.
	AssetsPath string
}

// EchoEngine instantiates the wep server.
func EchoEngine(ctrl Controller) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.Gzip())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: ctrl.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	////////////
	// Router //
	////////////

	tokens := auth.NewTokenManager(ctrl.SigningKey)
	limiter := ctrl.Limiter
	if limiter == nil {
		limiter = auth.NewLimiter(auth.RateLimitMax, auth.RateLimitWindow)
	}

	api := engine.Group("/api")
	authenticated := api.Group("", middlewares.TokenAuth(tokens, true))
	identified := api.Group("", middlewares.TokenAuth(tokens, false))

	// generic handlers
	//
	api.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	accounts := &authHandler{
		users: service.NewUser(ctrl.Database, tokens, limiter, ctrl.LoginFailureDelay),
	}
	api.POST("/auth/register", accounts.Register)
	api.POST("/auth/login", accounts.Login)

	//
	// game handlers
	//
	game := &gameHandler{
		games: service.NewGame(ctrl.Database),
	}
	authenticated.GET("/game/me", game.Me)
	identified.GET("/game/question", game.Question)
	identified.POST("/game/answer", game.Answer)
	api.POST("/game/fifty-fifty", game.FiftyFifty)

	//
	// vocabulary handlers
	//
	vocabulary := &vocabularyHandler{
		db: ctrl.Database,
	}
	api.GET("/vocabulary", vocabulary.List)
	api.GET("/vocabulary/with-images", vocabulary.ListWithImages)

	api.Any("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": echo.Map{
				"message": "API Not Found",
			},
		})
	})

	// Web client assets.
	if ctrl.AssetsPath != "" {
		engine.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  ctrl.AssetsPath,
			HTML5: true,
		}))
	}

	return engine
}

// PrintRoutes prints the Echo engin exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":        true,
		".":       true,
		"/*":      true,
		"/api/*":  true,
		"/api/*/": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUsername(c echo.Context) string {
	username, ok := c.Get(middlewares.CurrentUsernameContextKey).(string)
	if ok {
		return username
	}
	return ""
}
