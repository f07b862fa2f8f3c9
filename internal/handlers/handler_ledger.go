package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/fernbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for the chart of accounts and journal.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the chart-of-accounts and journal routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.POST("/:id/deactivate", h.deactivateAccount)
	}

	journal := rg.Group("/journal-entries")
	{
		journal.GET("", h.listJournalEntries)
		journal.GET("/:id", h.getJournalEntry)
	}
}

// createAccount godoc
// @Summary Create a chart-of-accounts entry
// @Description Adds a new account to the chart of accounts
// @Tags ledger
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} domain.Account
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Security BearerAuth
// @Router /accounts [post]
func (h *ledgerHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, account)
}

// getAccount godoc
// @Summary Get an account
// @Description Retrieves one account by ID, or by code via ?by=code
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID or code"
// @Param by query string false "Lookup mode: id (default) or code"
// @Success 200 {object} domain.Account
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *ledgerHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	var err error
	var account any
	if c.Query("by") == "code" {
		account, err = h.ledgerService.GetAccountByCode(c.Request.Context(), id)
	} else {
		account, err = h.ledgerService.GetAccountByID(c.Request.Context(), id)
	}
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Tags ledger
// @Produce json
// @Success 200 {array} domain.Account
// @Security BearerAuth
// @Router /accounts [get]
func (h *ledgerHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.ledgerService.ListAccounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the account's debit-minus-credit balance over all postings
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *ledgerHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	balance, err := h.ledgerService.CalculateAccountBalance(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountID": accountID, "balance": balance})
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes an account that has never been posted to
// @Tags ledger
// @Param id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account has journal activity"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *ledgerHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	if err := h.ledgerService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive without touching its history
// @Tags ledger
// @Param id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/deactivate [post]
func (h *ledgerHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.ledgerService.DeactivateAccount(c.Request.Context(), accountID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate account")
		return
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Description Retrieves one journal entry with its lines
// @Tags ledger
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *ledgerHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.ledgerService.GetJournalEntry(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// listJournalEntries godoc
// @Summary List journal entries
// @Tags ledger
// @Produce json
// @Param limit query int false "Limit number of results" default(50)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {array} domain.JournalEntry
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *ledgerHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.ledgerService.ListJournalEntries(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}
