package transaction

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/service/ledger"
	accountweb "github.com/amirasaad/ledger/webapi/account"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for ledger entries.
//
// Routes:
//   - POST   /transactions     : Record a deposit or withdrawal.
//   - GET    /transactions/:id : Retrieve a transaction.
//   - PUT    /transactions/:id : Replace amount, type, description and status.
//   - DELETE /transactions/:id : Remove a transaction; the balance is kept.
func Routes(app *fiber.App, svc *ledger.Service) {
	app.Post("/transactions", CreateTransaction(svc))
	app.Get("/transactions/:id", GetTransaction(svc))
	app.Put("/transactions/:id", UpdateTransaction(svc))
	app.Delete("/transactions/:id", DeleteTransaction(svc))
}

// CreateTransaction returns a Fiber handler that records a ledger entry and
// applies it to the account balance.
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} common.Response "Transaction created"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Account not found"
// @Failure 409 {object} common.ProblemDetails "Duplicate transaction id"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds"
// @Router /transactions [post]
func CreateTransaction(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		tx, err := svc.CreateTransaction(c.UserContext(), ledger.CreateTransactionCommand{
			TransactionID: input.TransactionID,
			AccountNumber: input.AccountNumber,
			Amount:        *input.Amount,
			Type:          account.TransactionType(input.TransactionType),
			Description:   input.Description,
			Status:        input.Status,
		})
		if err != nil {
			log.Errorf("Failed to create transaction %s: %v", input.TransactionID, err)
			return common.ProblemDetailsJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", accountweb.ToTransactionDTO(tx))
	}
}

// GetTransaction returns a Fiber handler that reads one transaction.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} common.Response "Transaction fetched"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /transactions/{id} [get]
func GetTransaction(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx, err := svc.GetTransaction(c.UserContext(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", accountweb.ToTransactionDTO(tx))
	}
}

// UpdateTransaction returns a Fiber handler that replaces a transaction's
// fields and applies the net change to the balance.
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction id"
// @Param request body UpdateTransactionRequest true "New field set"
// @Success 200 {object} common.Response "Transaction updated"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Failure 422 {object} common.ProblemDetails "Insufficient funds"
// @Router /transactions/{id} [put]
func UpdateTransaction(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[UpdateTransactionRequest](c)
		if input == nil {
			return err // error response already written
		}
		id := c.Params("id")
		tx, err := svc.UpdateTransaction(c.UserContext(), id, ledger.UpdateTransactionCommand{
			AccountNumber: input.AccountNumber,
			Amount:        *input.Amount,
			Type:          account.TransactionType(input.TransactionType),
			Description:   input.Description,
			Status:        input.Status,
		})
		if err != nil {
			log.Errorf("Failed to update transaction %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to update transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", accountweb.ToTransactionDTO(tx))
	}
}

// DeleteTransaction returns a Fiber handler that removes a transaction.
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction id"
// @Success 200 {object} common.Response "Transaction deleted"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /transactions/{id} [delete]
func DeleteTransaction(svc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := svc.DeleteTransaction(c.UserContext(), id); err != nil {
			log.Errorf("Failed to delete transaction %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", fiber.Map{"transaction_id": id})
	}
}
