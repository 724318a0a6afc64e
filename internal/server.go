package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ajisaka/devmatch/internal/config"
	"github.com/ajisaka/devmatch/internal/datastore/postgres"
	redisClient "github.com/ajisaka/devmatch/internal/datastore/redis"
	"github.com/ajisaka/devmatch/internal/matching"
	profileRepo "github.com/ajisaka/devmatch/internal/repository/profile"
	relationRepo "github.com/ajisaka/devmatch/internal/repository/relation"
	routesV1 "github.com/ajisaka/devmatch/internal/routes/v1"
	authUseCase "github.com/ajisaka/devmatch/internal/usecase/auth"
	connectionUseCase "github.com/ajisaka/devmatch/internal/usecase/connection"
	matchUseCase "github.com/ajisaka/devmatch/internal/usecase/match"
	profileUseCase "github.com/ajisaka/devmatch/internal/usecase/profile"
	"github.com/ajisaka/devmatch/pkg/jwt"
	"github.com/labstack/echo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	httpServer *http.Server
	database   *gorm.DB
	buffer     *matchUseCase.MatchBuffer
	log        *zap.Logger
}

// Run wires the whole service together and blocks until ctx is cancelled or
// the listener fails. args[1], when present, selects the config environment.
func Run(ctx context.Context, w io.Writer, args []string) error {
	env := "dev"
	if len(args) > 1 {
		env = args[1]
	}

	cfg, err := config.NewConfig(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	server, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(w, "Server starting on %s\n", server.httpServer.Addr)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	jwt.Configure(cfg.Get("JWT_SECRET"))

	weights, err := config.LoadMatchWeights(cfg.Get("MATCH_WEIGHTS_FILE"))
	if err != nil {
		return nil, err
	}

	database, err := postgres.InitializeDB(
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"),
		cfg.Get("POSTGRES_HOST"),
		cfg.Get("POSTGRES_PORT"),
	)
	if err != nil {
		return nil, err
	}

	rdb, err := redisClient.NewRedis(cfg.Get("REDIS_HOST"), cfg.Get("REDIS_PORT"))
	if err != nil {
		logger.Warn("redis unavailable, exclusion-set caching disabled", zap.Error(err))
		rdb = nil
	}

	profiles := profileRepo.New(database)
	relations := relationRepo.New(database, rdb)

	engine := matching.NewEngine(weights)
	buffer := matchUseCase.NewMatchBuffer(matchUseCase.DefaultBufferSize)

	matchCase := matchUseCase.NewMatchUseCase(profiles, relations, engine, buffer, logger)
	connectionCase := connectionUseCase.New(profiles, relations, matchCase, logger)
	authCase := authUseCase.New(profiles)
	profileCase := profileUseCase.NewProfileUseCase(profiles, logger)

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	server := &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Get("PORT"),
			Handler: e,
		},
		database: database,
		buffer:   buffer,
		log:      logger,
	}

	e.GET("/healthz", server.handleHealthCheck)
	routesV1.InitV1Routes(e, profiles, routesV1.UseCases{
		Auth:       authCase,
		Profile:    profileCase,
		Match:      matchCase,
		Connection: connectionCase,
	})

	return server, nil
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")
	s.buffer.Clear()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" || env == "PROD" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
