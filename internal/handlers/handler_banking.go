package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portssvc "github.com/fernbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankingHandler handles HTTP requests for bank accounts, transactions,
// statement import and the reconciliation state machine.
type bankingHandler struct {
	bankService   portssvc.BankSvcFacade
	importService portssvc.StatementImportSvc
}

func newBankingHandler(bs portssvc.BankSvcFacade, is portssvc.StatementImportSvc) *bankingHandler {
	return &bankingHandler{bankService: bs, importService: is}
}

// registerBankingRoutes registers bank account and transaction routes.
func registerBankingRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade, importService portssvc.StatementImportSvc) {
	h := newBankingHandler(bankService, importService)

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:id", h.getBankAccount)
		bankAccounts.GET("/:id/balance", h.getBankBalance)
		bankAccounts.GET("/:id/register", h.getRegister)
		bankAccounts.GET("/:id/unmatched", h.listUnmatched)
		bankAccounts.POST("/:id/transactions", h.postTransaction)
		bankAccounts.PUT("/:id/import-profile", h.upsertImportProfile)
		bankAccounts.POST("/:id/import", h.importStatement)
	}

	transactions := rg.Group("/bank-transactions")
	{
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/retag", h.retagTransaction)
		transactions.POST("/:id/link-payment", h.linkPayment)
		transactions.POST("/:id/create-payment", h.createPaymentFromTransaction)
		transactions.POST("/:id/link-expense", h.linkExpense)
		transactions.POST("/:id/match-transfer", h.matchTransfer)
		transactions.POST("/:id/mark-owner-equity", h.markOwnerEquity)
	}
}

// createBankAccount godoc
// @Summary Create a bank account
// @Description Creates the bank account, allocates its GL account and posts the opening balance
// @Tags banking
// @Accept json
// @Produce json
// @Param account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} domain.BankAccount
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankingHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	account, err := h.bankService.CreateBankAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	c.JSON(http.StatusCreated, account)
}

// getBankAccount godoc
// @Summary Get a bank account
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Success 200 {object} domain.BankAccount
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{id} [get]
func (h *bankingHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.bankService.GetBankAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags banking
// @Produce json
// @Success 200 {array} domain.BankAccount
// @Security BearerAuth
// @Router /bank-accounts [get]
func (h *bankingHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.bankService.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// getBankBalance godoc
// @Summary Get a bank account balance
// @Description Returns openingBalance plus the sum of all transaction amounts
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{id}/balance [get]
func (h *bankingHandler) getBankBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	balance, err := h.bankService.CalculateBankBalance(c.Request.Context(), bankAccountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to calculate bank balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bankAccountID": bankAccountID, "balance": balance})
}

// parseDateRange reads optional from/to query params in RFC 3339 or YYYY-MM-DD form.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	parse := func(raw string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	from, err := parse(c.Query("from"))
	if err != nil {
		return nil, nil, err
	}
	to, err := parse(c.Query("to"))
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// getRegister godoc
// @Summary Get the bank register
// @Description Returns transactions over the date range with running balances
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.BankRegister
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /bank-accounts/{id}/register [get]
func (h *bankingHandler) getRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range: " + err.Error()})
		return
	}

	register, err := h.bankService.Register(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build register")
		return
	}
	c.JSON(http.StatusOK, register)
}

// listUnmatched godoc
// @Summary List unmatched transactions
// @Description Returns transactions still awaiting payment, expense or transfer categorization
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Success 200 {array} domain.BankTransaction
// @Security BearerAuth
// @Router /bank-accounts/{id}/unmatched [get]
func (h *bankingHandler) listUnmatched(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txns, err := h.bankService.ListUnmatched(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list unmatched transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

// postTransaction godoc
// @Summary Record a bank transaction
// @Description Records a signed-amount transaction and posts its journal entry
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Bank account ID"
// @Param transaction body dto.PostBankTransactionRequest true "Transaction details"
// @Success 201 {object} domain.BankTransaction
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /bank-accounts/{id}/transactions [post]
func (h *bankingHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.PostTransaction(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Bank transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, txn)
}

// upsertImportProfile godoc
// @Summary Configure CSV import
// @Description Saves the account's statement import profile
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Bank account ID"
// @Param profile body dto.UpsertImportProfileRequest true "Import profile"
// @Success 200 {object} domain.BankImportProfile
// @Failure 400 {object} map[string]string "Invalid configuration"
// @Security BearerAuth
// @Router /bank-accounts/{id}/import-profile [put]
func (h *bankingHandler) upsertImportProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertImportProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsertImportProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, err := h.bankService.UpsertImportProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to save import profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// importStatement godoc
// @Summary Import a CSV statement
// @Description Parses the CSV body through the account's import profile and posts every accepted row. All-or-nothing.
// @Tags banking
// @Accept text/csv
// @Produce json
// @Param id path string true "Bank account ID"
// @Param offsetAccountID query string true "Offset account for the imported rows"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} map[string]string "Malformed statement row"
// @Security BearerAuth
// @Router /bank-accounts/{id}/import [post]
func (h *bankingHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	offsetAccountID := c.Query("offsetAccountID")
	if offsetAccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offsetAccountID query parameter is required"})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	imported, err := h.importService.ImportStatement(c.Request.Context(), c.Param("id"), c.Request.Body, offsetAccountID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to import statement")
		return
	}

	logger.Info("Statement imported", slog.Int("rows", imported))
	c.JSON(http.StatusOK, dto.ImportResult{Imported: imported})
}

// getTransaction godoc
// @Summary Get a bank transaction
// @Tags banking
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.BankTransaction
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /bank-transactions/{id} [get]
func (h *bankingHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txn, err := h.bankService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// retagTransaction godoc
// @Summary Retag a transaction
// @Description Swaps the offset account, rebuilding the lines of the same journal entry
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param retag body dto.RetagTransactionRequest true "New offset account"
// @Success 200 {object} domain.BankTransaction
// @Failure 409 {object} map[string]string "Transaction has no journal entry"
// @Security BearerAuth
// @Router /bank-transactions/{id}/retag [post]
func (h *bankingHandler) retagTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RetagTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for retagTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.RetagTransaction(c.Request.Context(), c.Param("id"), req.OffsetAccountID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retag transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// linkPayment godoc
// @Summary Match a deposit to an existing payment
// @Description Links the transaction to a recorded client payment of the exact same amount
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param link body dto.LinkPaymentRequest true "Payment to link"
// @Success 200 {object} domain.BankTransaction
// @Failure 400 {object} map[string]string "Amounts do not match"
// @Failure 409 {object} map[string]string "Transaction or payment already matched"
// @Security BearerAuth
// @Router /bank-transactions/{id}/link-payment [post]
func (h *bankingHandler) linkPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LinkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for linkPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.LinkExistingPayment(c.Request.Context(), c.Param("id"), req.PaymentID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to link payment")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// createPaymentFromTransaction godoc
// @Summary Create a payment from a deposit
// @Description Records a fully-unapplied payment for the deposit amount and links it
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param payment body object true "clientID and method"
// @Success 201 {object} domain.Payment
// @Failure 409 {object} map[string]string "Transaction already matched"
// @Security BearerAuth
// @Router /bank-transactions/{id}/create-payment [post]
func (h *bankingHandler) createPaymentFromTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req struct {
		ClientID string               `json:"clientID" binding:"required"`
		Method   domain.PaymentMethod `json:"method" binding:"required,oneof=check ach cash card other"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPaymentFromTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	payment, err := h.bankService.CreatePaymentFromTransaction(c.Request.Context(), c.Param("id"), req.ClientID, req.Method, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment from transaction")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// linkExpense godoc
// @Summary Match a withdrawal to an expense
// @Description Links the transaction to an existing expense, or creates one in the given category
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param link body dto.LinkExpenseRequest true "Expense or category"
// @Success 200 {object} domain.BankTransaction
// @Failure 400 {object} map[string]string "Category has no GL account"
// @Failure 409 {object} map[string]string "Transaction already matched"
// @Security BearerAuth
// @Router /bank-transactions/{id}/link-expense [post]
func (h *bankingHandler) linkExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LinkExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for linkExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.LinkExpense(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to link expense")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// matchTransfer godoc
// @Summary Match two transactions as a transfer
// @Description Pairs opposite-sign, equal-magnitude transactions on different accounts under one journal entry
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param match body dto.MatchTransferRequest true "Counterpart transaction"
// @Success 200 {object} domain.BankTransaction
// @Failure 400 {object} map[string]string "Amounts do not match"
// @Failure 409 {object} map[string]string "Same account or already matched"
// @Security BearerAuth
// @Router /bank-transactions/{id}/match-transfer [post]
func (h *bankingHandler) matchTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for matchTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.MatchTransfer(c.Request.Context(), c.Param("id"), req.TargetTransactionID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to match transfer")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// markOwnerEquity godoc
// @Summary Mark a transaction as owner equity
// @Description Retags the transaction against owner's equity (contribution or draw)
// @Tags banking
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.BankTransaction
// @Failure 409 {object} map[string]string "Transaction has no journal entry"
// @Security BearerAuth
// @Router /bank-transactions/{id}/mark-owner-equity [post]
func (h *bankingHandler) markOwnerEquity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.bankService.MarkOwnerEquity(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark owner equity")
		return
	}
	c.JSON(http.StatusOK, txn)
}
