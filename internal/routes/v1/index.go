package routesV1

import (
	"github.com/ajisaka/devmatch/internal/middleware"
	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	routesV1Auth "github.com/ajisaka/devmatch/internal/routes/v1/auth"
	routesV1Connection "github.com/ajisaka/devmatch/internal/routes/v1/connection"
	routesV1Match "github.com/ajisaka/devmatch/internal/routes/v1/match"
	routesV1Profile "github.com/ajisaka/devmatch/internal/routes/v1/profile"
	authUseCase "github.com/ajisaka/devmatch/internal/usecase/auth"
	connectionUseCase "github.com/ajisaka/devmatch/internal/usecase/connection"
	matchUseCase "github.com/ajisaka/devmatch/internal/usecase/match"
	profileUseCase "github.com/ajisaka/devmatch/internal/usecase/profile"
	"github.com/labstack/echo"
)

type UseCases struct {
	Auth       authUseCase.IAuthUseCase
	Profile    profileUseCase.IProfileUseCase
	Match      matchUseCase.IMatchUseCase
	Connection connectionUseCase.IConnectionUseCase
}

func InitV1Routes(e *echo.Echo, profiles profileRepo.IProfileRepo, cases UseCases) {
	v1 := e.Group("/v1")

	v1.POST("/auth/sign-up", func(c echo.Context) error {
		return routesV1Auth.SignUpHandler(c, cases.Auth)
	})
	v1.POST("/auth/sign-in", func(c echo.Context) error {
		return routesV1Auth.SignInHandler(c, cases.Auth)
	})
	v1.POST("/auth/sync", func(c echo.Context) error {
		return routesV1Auth.SyncHandler(c, cases.Auth)
	})

	authorized := e.Group("/v1", middleware.JWTMiddleware(profiles))

	authorized.GET("/profiles/me", func(c echo.Context) error {
		return routesV1Profile.GetProfileHandler(c, cases.Profile, cases.Auth)
	})
	authorized.PUT("/profiles/me", func(c echo.Context) error {
		return routesV1Profile.UpdateProfileHandler(c, cases.Profile, cases.Auth)
	})

	authorized.GET("/matches", func(c echo.Context) error {
		return routesV1Match.GetMatchesHandler(c, cases.Match, cases.Auth)
	})
	authorized.POST("/matches/:id/pass", func(c echo.Context) error {
		return routesV1Match.PassHandler(c, cases.Connection, cases.Auth)
	})

	authorized.POST("/connections/:id/request", func(c echo.Context) error {
		return routesV1Connection.RequestHandler(c, cases.Connection, cases.Auth)
	})
	authorized.POST("/connections/:id/accept", func(c echo.Context) error {
		return routesV1Connection.AcceptHandler(c, cases.Connection, cases.Auth)
	})
	authorized.POST("/connections/:id/reject", func(c echo.Context) error {
		return routesV1Connection.RejectHandler(c, cases.Connection, cases.Auth)
	})
	authorized.GET("/connections/state", func(c echo.Context) error {
		return routesV1Connection.StateHandler(c, cases.Connection, cases.Auth)
	})
}
