package handlers

import (
	"finman/internal/dto"
	"finman/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactions *service.TransactionService
	logger       *zap.Logger
}

func NewTransactionHandler(transactions *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, logger: logger}
}

// CreateExpense handles POST /api/v1/expenses.
func (h *TransactionHandler) CreateExpense(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	expense, err := h.transactions.CreateExpense(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewExpenseResponse(expense))
}

// ListExpenses handles GET /api/v1/expenses.
func (h *TransactionHandler) ListExpenses(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	expenses, err := h.transactions.GetExpenses(c.Context(), userID)
	if err != nil {
		h.logger.Error("Expense listing failed", zap.Error(err))
		return serviceError(c, err)
	}

	responses := make([]*dto.ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, dto.NewExpenseResponse(expense))
	}
	return c.JSON(responses)
}

// UpdateExpense handles PUT /api/v1/expenses/:id.
func (h *TransactionHandler) UpdateExpense(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense ID",
		})
	}

	var req dto.ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	expense, err := h.transactions.UpdateExpense(c.Context(), userID, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id.
func (h *TransactionHandler) DeleteExpense(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid expense ID",
		})
	}

	if err := h.transactions.DeleteExpense(c.Context(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateIncome handles POST /api/v1/incomes.
func (h *TransactionHandler) CreateIncome(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.IncomeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	income, err := h.transactions.CreateIncome(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewIncomeResponse(income))
}

// ListIncomes handles GET /api/v1/incomes.
func (h *TransactionHandler) ListIncomes(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	incomes, err := h.transactions.GetIncomes(c.Context(), userID)
	if err != nil {
		h.logger.Error("Income listing failed", zap.Error(err))
		return serviceError(c, err)
	}

	responses := make([]*dto.IncomeResponse, 0, len(incomes))
	for _, income := range incomes {
		responses = append(responses, dto.NewIncomeResponse(income))
	}
	return c.JSON(responses)
}

// UpdateIncome handles PUT /api/v1/incomes/:id.
func (h *TransactionHandler) UpdateIncome(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid income ID",
		})
	}

	var req dto.IncomeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	income, err := h.transactions.UpdateIncome(c.Context(), userID, id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.NewIncomeResponse(income))
}

// DeleteIncome handles DELETE /api/v1/incomes/:id.
func (h *TransactionHandler) DeleteIncome(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid income ID",
		})
	}

	if err := h.transactions.DeleteIncome(c.Context(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
