package account

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/service/ledger"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for account operations.
//
// Routes:
//   - POST   /accounts                      : Open a new account.
//   - GET    /accounts/:number              : Retrieve an account.
//   - PUT    /accounts/:ref                 : Replace an account's fields (number or numeric id).
//   - DELETE /accounts/:number              : Delete an account and its transactions.
//   - GET    /accounts/:number/transactions : List an account's transactions in creation order.
func Routes(app *fiber.App, svc *ledger.Service) {
	app.Post("/accounts", CreateAccount(svc))
	app.Get("/accounts/:number", GetAccount(svc))
	app.Put("/accounts/:ref", UpdateAccount(svc))
	app.Delete("/accounts/:number", DeleteAccount(svc))
	app.Get("/accounts/:number/transactions", GetTransactions(svc))
}

// CreateAccount returns a Fiber handler for opening a new account.
// @Summary Open an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 409 {object} common.ProblemDetails "Duplicate account number"
// @Router /accounts [post]
func CreateAccount(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := svc.CreateAccount(c.UserContext(), ledger.CreateAccountCommand{
			Number:       input.AccountNumber,
			Balance:      *input.Balance,
			CustomerName: input.CustomerName,
			Type:         account.Type(input.AccountType),
		})
		if err != nil {
			log.Errorf("Failed to create account: %v", err)
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// GetAccount returns a Fiber handler that reads one account by number.
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param number path string true "Account number"
// @Success 200 {object} common.Response "Account fetched"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{number} [get]
func GetAccount(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.GetAccount(c.UserContext(), c.Params("number"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account fetched", ToAccountDTO(a))
	}
}

// UpdateAccount returns a Fiber handler that replaces an account's fields.
// The path accepts the account number or its numeric id.
// @Summary Update an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param ref path string true "Account number or id"
// @Param request body UpdateAccountRequest true "Full account field set"
// @Success 200 {object} common.Response "Account updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{ref} [put]
func UpdateAccount(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		a, err := svc.UpdateAccount(c.UserContext(), c.Params("ref"), account.Replacement{
			Number:       input.AccountNumber,
			Balance:      *input.Balance,
			CustomerName: input.CustomerName,
			Type:         account.Type(input.AccountType),
		})
		if err != nil {
			log.Errorf("Failed to update account %s: %v", c.Params("ref"), err)
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", ToAccountDTO(a))
	}
}

// DeleteAccount returns a Fiber handler that removes an account together
// with its transactions.
// @Summary Delete an account
// @Tags accounts
// @Produce json
// @Param number path string true "Account number"
// @Success 200 {object} common.Response "Account deleted"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{number} [delete]
func DeleteAccount(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("number")
		if err := svc.DeleteAccount(c.UserContext(), number); err != nil {
			log.Errorf("Failed to delete account %s: %v", number, err)
			return common.ProblemDetailsJSON(c, "Failed to delete account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deleted", fiber.Map{"account_number": number})
	}
}

// GetTransactions returns a Fiber handler listing an account's transactions.
// @Summary List account transactions
// @Tags accounts
// @Produce json
// @Param number path string true "Account number"
// @Success 200 {object} common.Response "Transactions fetched"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Router /accounts/{number}/transactions [get]
func GetTransactions(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := svc.ListTransactionsForAccount(c.UserContext(), c.Params("number"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", ToTransactionDTOs(txs))
	}
}
