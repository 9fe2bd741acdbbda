package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	accountweb "github.com/amirasaad/ledger/webapi/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type WebAPITestSuite struct {
	suite.Suite
	app     *fiber.App
	cleanup initializer.Cleanup
}

func testConfig() *config.App {
	return &config.App{
		Env:       "test",
		Log:       &config.Log{},
		DB:        &config.DB{Driver: "sqlite", Url: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
		Redis:     &config.Redis{},
		Lock:      &config.Lock{Driver: "memory", Timeout: 2 * time.Second},
		EventBus:  &config.EventBus{Driver: "memory"},
		RateLimit: &config.RateLimit{MaxRequests: 0},
	}
}

func newTestApp(t *testing.T, cfg *config.App) (*fiber.App, initializer.Cleanup) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps, cleanup, err := initializer.Initialize(context.Background(), cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	return SetupApp(app.New(deps, cfg)), cleanup
}

func (s *WebAPITestSuite) SetupTest() {
	s.app, s.cleanup = newTestApp(s.T(), testConfig())
}

func (s *WebAPITestSuite) TearDownTest() {
	_ = s.cleanup()
}

func (s *WebAPITestSuite) do(method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *WebAPITestSuite) expectOK(resp *http.Response, status int, out any) {
	s.Require().Equal(status, resp.StatusCode)
	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	s.Equal(status, env.Status)
	if out != nil {
		s.Require().NoError(json.Unmarshal(env.Data, out))
	}
}

func (s *WebAPITestSuite) expectProblem(resp *http.Response, status int) common.ProblemDetails {
	s.Require().Equal(status, resp.StatusCode)
	s.Equal("application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	s.Equal(status, pd.Status)
	return pd
}

func (s *WebAPITestSuite) balanceOf(number string) decimal.Decimal {
	var a accountweb.AccountResponse
	s.expectOK(s.do(fiber.MethodGet, "/accounts/"+number, ""), fiber.StatusOK, &a)
	return a.Balance
}

func (s *WebAPITestSuite) TestHealth() {
	resp := s.do(fiber.MethodGet, "/", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *WebAPITestSuite) TestLedgerScenario() {
	var a accountweb.AccountResponse
	s.expectOK(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A1","balance":"500","customer_name":"Alice","account_type":"Savings"}`),
		fiber.StatusCreated, &a)
	s.Equal("A1", a.AccountNumber)

	var tx accountweb.TransactionResponse
	s.expectOK(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T1","account_number":"A1","amount":1000,"transaction_type":"Deposit","description":"salary","status":"done"}`),
		fiber.StatusCreated, &tx)
	s.True(tx.Amount.Equal(decimal.NewFromInt(1000)))

	s.expectOK(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T2","account_number":"A1","amount":"300","transaction_type":"Withdraw","description":"rent","status":"done"}`),
		fiber.StatusCreated, nil)

	s.expectProblem(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T3","account_number":"A1","amount":"5000","transaction_type":"Withdraw","description":"car","status":"done"}`),
		fiber.StatusUnprocessableEntity)

	s.True(s.balanceOf("A1").Equal(decimal.NewFromInt(1200)))

	var list []accountweb.TransactionResponse
	s.expectOK(s.do(fiber.MethodGet, "/accounts/A1/transactions", ""), fiber.StatusOK, &list)
	s.Require().Len(list, 2)
	s.Equal("T1", list[0].TransactionID)
	s.Equal("T2", list[1].TransactionID)
}

func (s *WebAPITestSuite) TestListTransactionsEmptyAccount() {
	s.expectOK(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A1","balance":"10","customer_name":"Alice","account_type":"Savings"}`),
		fiber.StatusCreated, nil)

	resp := s.do(fiber.MethodGet, "/accounts/A1/transactions", "")
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))
	s.JSONEq(`[]`, string(env.Data))
}

func (s *WebAPITestSuite) TestCreateAccountRejectsUnstorableBalance() {
	pd := s.expectProblem(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A1","balance":"0.00001","customer_name":"Alice","account_type":"Savings"}`),
		fiber.StatusBadRequest)
	s.Contains(pd.Detail, "decimal places")
	s.expectProblem(s.do(fiber.MethodGet, "/accounts/A1", ""), fiber.StatusNotFound)
}

func (s *WebAPITestSuite) TestCreateAccountRejections() {
	body := `{"account_number":"A1","balance":"10","customer_name":"Alice","account_type":"Savings"}`
	s.expectOK(s.do(fiber.MethodPost, "/accounts", body), fiber.StatusCreated, nil)
	s.expectProblem(s.do(fiber.MethodPost, "/accounts", body), fiber.StatusConflict)

	s.expectProblem(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A2","balance":"0","customer_name":"Bob","account_type":"Savings"}`),
		fiber.StatusBadRequest)

	pd := s.expectProblem(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A3","balance":"5","customer_name":"Carol","account_type":"Gold"}`),
		fiber.StatusBadRequest)
	s.Equal("Validation failed", pd.Title)

	s.expectProblem(s.do(fiber.MethodGet, "/accounts/A2", ""), fiber.StatusNotFound)
}

func (s *WebAPITestSuite) TestTransactionRejections() {
	s.expectOK(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A1","balance":"10","customer_name":"Alice","account_type":"Checking"}`),
		fiber.StatusCreated, nil)

	s.expectProblem(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T1","account_number":"A1","amount":"-1","transaction_type":"Deposit","description":"d","status":"s"}`),
		fiber.StatusBadRequest)
	s.expectProblem(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T1","account_number":"NOPE","amount":"1","transaction_type":"Deposit","description":"d","status":"s"}`),
		fiber.StatusNotFound)

	body := `{"transaction_id":"T1","account_number":"A1","amount":"1","transaction_type":"Deposit","description":"d","status":"s"}`
	s.expectOK(s.do(fiber.MethodPost, "/transactions", body), fiber.StatusCreated, nil)
	s.expectProblem(s.do(fiber.MethodPost, "/transactions", body), fiber.StatusConflict)

	s.expectProblem(s.do(fiber.MethodGet, "/transactions/T9", ""), fiber.StatusNotFound)
	s.expectProblem(s.do(fiber.MethodGet, "/accounts/NOPE/transactions", ""), fiber.StatusNotFound)
}

func (s *WebAPITestSuite) TestUpdateAndDeleteTransaction() {
	s.expectOK(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A1","balance":"100","customer_name":"Alice","account_type":"Savings"}`),
		fiber.StatusCreated, nil)
	s.expectOK(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T1","account_number":"A1","amount":"50","transaction_type":"Deposit","description":"d","status":"s"}`),
		fiber.StatusCreated, nil)

	var tx accountweb.TransactionResponse
	s.expectOK(s.do(fiber.MethodPut, "/transactions/T1",
		`{"amount":"20","transaction_type":"Withdraw","description":"fixed","status":"done"}`),
		fiber.StatusOK, &tx)
	s.Equal("fixed", tx.Description)
	s.True(s.balanceOf("A1").Equal(decimal.NewFromInt(80)))

	s.expectProblem(s.do(fiber.MethodPut, "/transactions/T1",
		`{"account_number":"B2","amount":"20","transaction_type":"Withdraw","description":"x","status":"y"}`),
		fiber.StatusBadRequest)

	s.expectOK(s.do(fiber.MethodDelete, "/transactions/T1", ""), fiber.StatusOK, nil)
	s.True(s.balanceOf("A1").Equal(decimal.NewFromInt(80)))
	s.expectProblem(s.do(fiber.MethodDelete, "/transactions/T1", ""), fiber.StatusNotFound)
}

func (s *WebAPITestSuite) TestUpdateAndDeleteAccount() {
	var created accountweb.AccountResponse
	s.expectOK(s.do(fiber.MethodPost, "/accounts",
		`{"account_number":"A1","balance":"100","customer_name":"Alice","account_type":"Savings"}`),
		fiber.StatusCreated, &created)
	s.expectOK(s.do(fiber.MethodPost, "/transactions",
		`{"transaction_id":"T1","account_number":"A1","amount":"1","transaction_type":"Deposit","description":"d","status":"s"}`),
		fiber.StatusCreated, nil)

	var updated accountweb.AccountResponse
	s.expectOK(s.do(fiber.MethodPut, "/accounts/"+strconv.FormatUint(uint64(created.ID), 10),
		`{"account_number":"A1","balance":"7","customer_name":"Alice B","account_type":"Checking"}`),
		fiber.StatusOK, &updated)
	s.Equal("Alice B", updated.CustomerName)
	s.True(updated.Balance.Equal(decimal.NewFromInt(7)))

	s.expectOK(s.do(fiber.MethodDelete, "/accounts/A1", ""), fiber.StatusOK, nil)
	s.expectProblem(s.do(fiber.MethodGet, "/accounts/A1", ""), fiber.StatusNotFound)
	s.expectProblem(s.do(fiber.MethodGet, "/transactions/T1", ""), fiber.StatusNotFound)
	s.expectProblem(s.do(fiber.MethodDelete, "/accounts/A1", ""), fiber.StatusNotFound)
}

func TestWebAPITestSuite(t *testing.T) {
	suite.Run(t, new(WebAPITestSuite))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = &config.RateLimit{MaxRequests: 2, Window: time.Minute}
	fiberApp, cleanup := newTestApp(t, cfg)
	t.Cleanup(func() { _ = cleanup() })

	for i := range 3 {
		resp, err := fiberApp.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		want := fiber.StatusOK
		if i == 2 {
			want = fiber.StatusTooManyRequests
		}
		if resp.StatusCode != want {
			t.Fatalf("request %d: got %d, want %d", i+1, resp.StatusCode, want)
		}
	}
}
