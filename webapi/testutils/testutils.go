package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/webapi"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// E2ETestSuite provides a test suite with a real Postgres database using Testcontainers
type E2ETestSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	app         *fiber.App
	cfg         *config.App
	cleanup     initializer.Cleanup
}

// RandomAccountNumber returns an account number unique to this run.
func RandomAccountNumber() string {
	return "ACC-" + uuid.New().String()[:8]
}

// RandomTransactionID returns a transaction id unique to this run.
func RandomTransactionID() string {
	return "TX-" + uuid.New().String()[:8]
}

// startPostgresContainer starts a Postgres container using Testcontainers
func (s *E2ETestSuite) startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

func (s *E2ETestSuite) config(dsn string) *config.App {
	return &config.App{
		Env:       "test",
		Log:       &config.Log{},
		DB:        &config.DB{Driver: "postgres", Url: dsn},
		Redis:     &config.Redis{},
		Lock:      &config.Lock{Driver: "memory", Timeout: 5 * time.Second},
		EventBus:  &config.EventBus{Driver: "memory"},
		RateLimit: &config.RateLimit{},
	}
}

// SetupSuite initializes the test suite with a real Postgres database
func (s *E2ETestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping Postgres end-to-end tests in short mode")
	}
	ctx := context.Background()

	// Start Postgres container
	pg, err := s.startPostgresContainer(ctx)
	s.Require().NoError(err)
	s.pgContainer = pg

	// Get connection string
	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	// Connect, migrate and wire the service stack
	s.cfg = s.config(dsn)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps, cleanup, err := initializer.Initialize(ctx, s.cfg, logger)
	s.Require().NoError(err)
	s.cleanup = cleanup

	s.app = webapi.SetupApp(app.New(deps, s.cfg))
}

// TearDownSuite cleans up the test suite resources
func (s *E2ETestSuite) TearDownSuite() {
	if s.cleanup != nil {
		_ = s.cleanup()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *E2ETestSuite) MakeRequest(method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// DecodeResponse reads a success envelope, unmarshalling its data into out.
func (s *E2ETestSuite) DecodeResponse(resp *http.Response, out any) common.Response {
	defer resp.Body.Close() //nolint:errcheck
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var envelope struct {
		common.Response
		Data json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(raw, &envelope), string(raw))
	if out != nil && len(envelope.Data) > 0 {
		s.Require().NoError(json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

// CreateAccount opens an account through POST /accounts and returns its number.
func (s *E2ETestSuite) CreateAccount(balance string) string {
	number := RandomAccountNumber()
	body := fmt.Sprintf(
		`{"account_number":%q,"balance":%q,"customer_name":"E2E Customer","account_type":"Savings"}`,
		number, balance,
	)
	resp := s.MakeRequest(fiber.MethodPost, "/accounts", body)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()
	return number
}
