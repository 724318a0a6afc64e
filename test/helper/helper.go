package helper

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ajisaka/devmatch/internal"
	"github.com/ajisaka/devmatch/internal/config"
	"github.com/ajisaka/devmatch/internal/entity"
	"github.com/ajisaka/devmatch/pkg/http_util"
	"github.com/ajisaka/devmatch/pkg/path"
	"github.com/go-faker/faker/v4"
	"github.com/go-redis/redis"
	"github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServerResources holds everything a suite needs to talk to the server
// and its backing stores.
type TestServerResources struct {
	Cancel        context.CancelFunc
	Config        *config.Config
	Pool          *dockertest.Pool
	DBResource    *dockertest.Resource
	RedisResource *dockertest.Resource
	ORM           *gorm.DB
	Redis         *redis.Client
}

// SetupTestServer starts postgres and redis containers, runs the migrations
// and boots the service against them.
func SetupTestServer(ctx context.Context) (*TestServerResources, error) {
	ctx, cancel := context.WithCancel(ctx)
	var gormDB *gorm.DB
	var redisConn *redis.Client

	cfg, err := config.NewConfig("TEST")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	pool, dbResource, redisResource, err := setupDockerResources(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not set up Docker resources: %w", err)
	}

	pool.MaxWait = 10 * time.Second
	if err := pool.Retry(func() error {
		gormDB, err = connectToPostgres(dbResource, cfg)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to postgreSQL: %s", err)
	}

	if err := pool.Retry(func() error {
		redisConn, err = connectToRedis(redisResource)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to redis: %s", err)
	}

	dbConnection, err := gormDB.DB()
	if err != nil {
		cancel()
		return nil, err
	}

	if err := runMigrations(dbConnection); err != nil {
		cancel()
		return nil, err
	}

	go internal.Run(ctx, os.Stdout, []string{"devmatch", "TEST"})

	if !waitForServer(ctx, cfg.Get("PORT")) {
		pool.Purge(redisResource)
		pool.Purge(dbResource)
		cancel()
		return nil, fmt.Errorf("server did not start within timeout")
	}

	return &TestServerResources{
		Cancel:        cancel,
		Config:        cfg,
		Pool:          pool,
		DBResource:    dbResource,
		RedisResource: redisResource,
		ORM:           gormDB,
		Redis:         redisConn,
	}, nil
}

func (resources *TestServerResources) CleanupTestServer() {
	if resources == nil {
		return
	}

	if resources.Cancel != nil {
		resources.Cancel()
	}

	if resources.Pool != nil {
		if resources.DBResource != nil {
			if err := resources.Pool.Purge(resources.DBResource); err != nil {
				log.Printf("Could not purge PostgreSQL: %s", err)
			}
		}

		if resources.RedisResource != nil {
			if err := resources.Pool.Purge(resources.RedisResource); err != nil {
				log.Printf("Could not purge Redis: %s", err)
			}
		}
	}
}

func setupDockerResources(cfg *config.Config) (*dockertest.Pool, *dockertest.Resource, *dockertest.Resource, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to docker: %s", err)
	}

	dbOptions := &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", cfg.Get("POSTGRES_USER")),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", cfg.Get("POSTGRES_PASSWORD")),
			fmt.Sprintf("POSTGRES_DB=%s", cfg.Get("POSTGRES_DB_NAME")),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("POSTGRES_PORT"))}},
		},
	}
	dbResource, err := pool.RunWithOptions(dbOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start postgres: %s", err)
	}

	redisOptions := &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
		PortBindings: map[docker.Port][]docker.PortBinding{
			"6379/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("REDIS_PORT"))}},
		},
	}
	redisResource, err := pool.RunWithOptions(redisOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start redis: %s", err)
	}

	return pool, dbResource, redisResource, nil
}

func connectToPostgres(dbResource *dockertest.Resource, cfg *config.Config) (*gorm.DB, error) {
	hostPort := strings.Split(dbResource.GetHostPort("5432/tcp"), ":")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		hostPort[0],
		hostPort[1],
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"))

	gormDB, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	return gormDB, sqlDB.Ping()
}

func connectToRedis(redisResource *dockertest.Resource) (*redis.Client, error) {
	redisConn := redis.NewClient(&redis.Options{
		Addr: "localhost:" + redisResource.GetPort("6379/tcp"),
	})
	return redisConn, redisConn.Ping().Err()
}

func runMigrations(db *sql.DB) error {
	driver, err := migratePostgres.WithInstance(db, &migratePostgres.Config{})
	if err != nil {
		return err
	}

	basePath, err := os.Getwd()
	if err != nil {
		return err
	}

	rootPath, err := path.FindRoot(basePath, "db", true)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+rootPath+"/db/migrations",
		"postgres", driver)
	if err != nil {
		return err
	}

	return m.Up()
}

func waitForServer(ctx context.Context, port string) bool {
	loopContext, cancelLoopContext := context.WithTimeout(ctx, 120*time.Second)
	defer cancelLoopContext()

	for {
		select {
		case <-loopContext.Done():
			return false
		default:
			resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
			if err != nil {
				time.Sleep(1 * time.Second)
				continue
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				log.Println("server is ready")
				return true
			}
			time.Sleep(1 * time.Second)
		}
	}
}

func baseURL() string {
	return "http://localhost:8080"
}

// SignUpUser registers a local-provider profile over the API and returns its
// identifiers.
func SignUpUser(t *testing.T, username, password, email string) (entity.SignUpResponse, error) {
	t.Helper()

	reqBody := entity.CreateUserRequest{
		Name:     "testname",
		Username: username,
		Password: password,
		Email:    email,
	}

	var response http_util.HTTPResponse[entity.SignUpResponse]
	status := doJSON(t, http.MethodPost, baseURL()+"/v1/auth/sign-up", "", reqBody, &response)
	if status != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, status)
	}

	return response.Data, nil
}

// SignInUser exchanges credentials for a session token.
func SignInUser(t *testing.T, email, username, password string) (string, error) {
	t.Helper()

	reqBody := entity.SignInRequest{
		Email:    email,
		Username: username,
		Password: password,
	}

	var response entity.SignInResponse
	status := doJSON(t, http.MethodPost, baseURL()+"/v1/auth/sign-in", "", reqBody, &response)
	if status != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, status)
	}

	return response.Token, nil
}

// OnboardUser submits quiz answers and meme reactions for the authenticated
// user and marks the profile complete.
func OnboardUser(t *testing.T, token string, answers entity.QuizAnswers, reactions entity.MemeReactions) {
	t.Helper()

	complete := true
	reqBody := entity.UpdateProfileRequest{
		QuizAnswers:     answers,
		MemeReactions:   reactions,
		ProfileComplete: &complete,
	}

	var response http_util.HTTPResponse[entity.Profile]
	status := doJSON(t, http.MethodPut, baseURL()+"/v1/profiles/me", token, reqBody, &response)
	if status != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, status)
	}
}

// GetMatches fetches the authenticated user's reranked match list.
func GetMatches(t *testing.T, token string, limit int) []entity.MatchResult {
	t.Helper()

	url := baseURL() + "/v1/matches"
	if limit > 0 {
		url = fmt.Sprintf("%s?limit=%d", url, limit)
	}

	var response http_util.HTTPResponse[entity.MatchListResponse]
	status := doJSON(t, http.MethodGet, url, token, nil, &response)
	if status != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, status)
	}

	return response.Data.Matches
}

// GetRelationshipState fetches the authenticated user's connection edges.
func GetRelationshipState(t *testing.T, token string) *entity.RelationshipState {
	t.Helper()

	var response http_util.HTTPResponse[*entity.RelationshipState]
	status := doJSON(t, http.MethodGet, baseURL()+"/v1/connections/state", token, nil, &response)
	if status != http.StatusOK {
		t.Fatalf("expected status code %d, got %d", http.StatusOK, status)
	}

	return response.Data
}

// Do issues an authorized request and returns the response status code.
func Do(t *testing.T, method, urlPath, token string) int {
	t.Helper()
	return doJSON(t, method, baseURL()+urlPath, token, nil, nil)
}

func doJSON(t *testing.T, method, url, token string, reqBody, respBody interface{}) int {
	t.Helper()

	var buf io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if respBody != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read response body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			t.Fatalf("failed to decode response: %v (body %s)", err, bodyBytes)
		}
	}

	return resp.StatusCode
}

var workSchedules = []string{"Morning", "Night", "Flexible"}

// PopulateProfiles seeds count onboarded profiles straight into the database.
func PopulateProfiles(db *gorm.DB, count int) ([]entity.Profile, error) {
	profiles := make([]entity.Profile, 0, count)
	for i := 0; i < count; i++ {
		profile := entity.Profile{
			Name:     faker.Name(),
			Email:    faker.Email(),
			Username: faker.Username(),
			Password: faker.Password(),
			Provider: entity.ProviderLocal,
			QuizAnswers: entity.QuizAnswers{
				1: entity.CardAnswer(workSchedules[i%len(workSchedules)]),
				4: entity.CardAnswer("Tabs"),
			},
			MemeReactions: entity.MemeReactions{
				{MemeID: "Git Merge Conflict", Reaction: "😂"},
			},
			ProfileComplete: true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
