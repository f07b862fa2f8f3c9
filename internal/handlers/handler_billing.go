package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fernbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billingHandler handles HTTP requests for clients, invoices, payments and
// billable work items.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
	postingService portssvc.PostingSvc
}

func newBillingHandler(bs portssvc.BillingSvcFacade, ps portssvc.PostingSvc) *billingHandler {
	return &billingHandler{billingService: bs, postingService: ps}
}

// registerBillingRoutes registers client, invoice, payment and work-item routes.
func registerBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade, postingService portssvc.PostingSvc) {
	h := newBillingHandler(billingService, postingService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
		clients.GET("/:id/invoices", h.listClientInvoices)
		clients.GET("/:id/payments", h.listClientPayments)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createDraftInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/lines", h.addInvoiceLine)
		invoices.POST("/:id/attach", h.attachItems)
		invoices.POST("/:id/detach", h.detachLines)
		invoices.POST("/:id/issue", h.issueInvoice)
		invoices.POST("/:id/void", h.voidInvoice)
		invoices.POST("/:id/return-to-draft", h.returnInvoiceToDraft)
		invoices.GET("/:id/posting", h.getInvoicePostingStatus)
		invoices.POST("/:id/posting", h.postInvoice)
	}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/apply", h.applyPayment)
	}

	rg.POST("/time-entries", h.createTimeEntry)
	rg.POST("/expenses", h.createExpense)
	rg.POST("/expense-categories", h.createExpenseCategory)
}

// createClient godoc
// @Summary Create a client
// @Tags billing
// @Accept json
// @Produce json
// @Param client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 409 {object} map[string]string "Client name already exists"
// @Security BearerAuth
// @Router /clients [post]
func (h *billingHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	client, err := h.billingService.CreateClient(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create client")
		return
	}

	logger.Info("Client created", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, client)
}

// getClient godoc
// @Summary Get a client
// @Tags billing
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.Client
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *billingHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	client, err := h.billingService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// listClients godoc
// @Summary List clients
// @Tags billing
// @Produce json
// @Success 200 {array} domain.Client
// @Security BearerAuth
// @Router /clients [get]
func (h *billingHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	clients, err := h.billingService.ListClients(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// listClientInvoices godoc
// @Summary List a client's invoices
// @Tags billing
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} domain.Invoice
// @Security BearerAuth
// @Router /clients/{id}/invoices [get]
func (h *billingHandler) listClientInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoices, err := h.billingService.ListInvoicesByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// listClientPayments godoc
// @Summary List a client's payments
// @Tags billing
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {array} domain.Payment
// @Security BearerAuth
// @Router /clients/{id}/payments [get]
func (h *billingHandler) listClientPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payments, err := h.billingService.ListPaymentsByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// createDraftInvoice godoc
// @Summary Open a draft invoice
// @Description Creates a draft invoice; a client may have at most one draft at a time
// @Tags billing
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Client already has a draft invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *billingHandler) createDraftInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDraftInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.CreateDraftInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Draft invoice created", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, invoice)
}

// getInvoice godoc
// @Summary Get an invoice
// @Description Retrieves one invoice with its lines
// @Tags billing
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *billingHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.billingService.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// listInvoices godoc
// @Summary List invoices
// @Tags billing
// @Produce json
// @Success 200 {array} domain.Invoice
// @Security BearerAuth
// @Router /invoices [get]
func (h *billingHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoices, err := h.billingService.ListInvoices(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// addInvoiceLine godoc
// @Summary Add a line to a draft invoice
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param line body dto.AddInvoiceLineRequest true "Line details"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice is not a draft"
// @Security BearerAuth
// @Router /invoices/{id}/lines [post]
func (h *billingHandler) addInvoiceLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addInvoiceLine", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.AddInvoiceLine(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add invoice line")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// attachItems godoc
// @Summary Attach work items to a draft invoice
// @Description Bills unbilled time entries and expenses onto the draft
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param items body dto.AttachItemsRequest true "Item IDs"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Item already billed or wrong client"
// @Security BearerAuth
// @Router /invoices/{id}/attach [post]
func (h *billingHandler) attachItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AttachItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for attachItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.AttachItems(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to attach items")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// detachLines godoc
// @Summary Detach lines from a draft invoice
// @Description Removes lines, returning any linked items to unbilled
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param lines body dto.DetachLinesRequest true "Line IDs"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice is not a draft"
// @Security BearerAuth
// @Router /invoices/{id}/detach [post]
func (h *billingHandler) detachLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DetachLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for detachLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.DetachLines(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to detach lines")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// issueInvoice godoc
// @Summary Issue a draft invoice
// @Description Assigns the next invoice number, marks the invoice issued and posts it
// @Tags billing
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice is not a draft or has no lines"
// @Security BearerAuth
// @Router /invoices/{id}/issue [post]
func (h *billingHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.IssueInvoice(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue invoice")
		return
	}

	logger.Info("Invoice issued", slog.String("invoice_id", invoice.InvoiceID), slog.String("number", invoice.Number))
	c.JSON(http.StatusOK, invoice)
}

// voidInvoice godoc
// @Summary Void an invoice
// @Description Reverses the posting and releases billed items back to unbilled
// @Tags billing
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice cannot be voided from its current status"
// @Security BearerAuth
// @Router /invoices/{id}/void [post]
func (h *billingHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.VoidInvoice(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to void invoice")
		return
	}

	logger.Info("Invoice voided", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, invoice)
}

// returnInvoiceToDraft godoc
// @Summary Return an issued invoice to draft
// @Description Reverses the posting but keeps lines in place for editing
// @Tags billing
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice is not issued"
// @Security BearerAuth
// @Router /invoices/{id}/return-to-draft [post]
func (h *billingHandler) returnInvoiceToDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.billingService.ReturnInvoiceToDraft(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to return invoice to draft")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// getInvoicePostingStatus godoc
// @Summary Check whether an invoice is posted
// @Tags billing
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id}/posting [get]
func (h *billingHandler) getInvoicePostingStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	posted, err := h.postingService.IsInvoicePosted(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check posting status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoiceID": invoiceID, "posted": posted})
}

// postInvoice godoc
// @Summary Post an invoice to the ledger
// @Description Posts the invoice if it has no current ledger effect; no-op otherwise
// @Tags billing
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} domain.JournalEntry
// @Success 204 "Already posted"
// @Security BearerAuth
// @Router /invoices/{id}/posting [post]
func (h *billingHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostInvoice(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post invoice")
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// createPayment godoc
// @Summary Record a client payment
// @Description Records the payment fully unapplied and posts it
// @Tags billing
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payments [post]
func (h *billingHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	payment, err := h.billingService.CreatePayment(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment")
		return
	}

	logger.Info("Payment created", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, payment)
}

// applyPayment godoc
// @Summary Apply a payment to invoices
// @Description Allocates unapplied funds against the client's issued invoices and reposts the payment
// @Tags billing
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param allocations body dto.ApplyPaymentRequest true "Allocations"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} map[string]string "Allocation exceeds unapplied or outstanding amount"
// @Security BearerAuth
// @Router /payments/{id}/apply [post]
func (h *billingHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for applyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	payment, err := h.billingService.ApplyPayment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// getPayment godoc
// @Summary Get a payment
// @Description Retrieves one payment with its applications
// @Tags billing
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *billingHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payment, err := h.billingService.GetPaymentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// listPayments godoc
// @Summary List payments
// @Tags billing
// @Produce json
// @Success 200 {array} domain.Payment
// @Security BearerAuth
// @Router /payments [get]
func (h *billingHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payments, err := h.billingService.ListPayments(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// createTimeEntry godoc
// @Summary Record billable hours
// @Tags billing
// @Accept json
// @Produce json
// @Param entry body dto.CreateTimeEntryRequest true "Time entry details"
// @Success 201 {object} domain.TimeEntry
// @Failure 400 {object} map[string]string "No billing rate available"
// @Security BearerAuth
// @Router /time-entries [post]
func (h *billingHandler) createTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTimeEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.billingService.CreateTimeEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create time entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// createExpense godoc
// @Summary Record an expense
// @Tags billing
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} map[string]string "Billable expense requires a client"
// @Security BearerAuth
// @Router /expenses [post]
func (h *billingHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	expense, err := h.billingService.CreateExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// createExpenseCategory godoc
// @Summary Create an expense category
// @Tags billing
// @Accept json
// @Produce json
// @Param category body dto.CreateExpenseCategoryRequest true "Category details"
// @Success 201 {object} domain.ExpenseCategory
// @Failure 409 {object} map[string]string "Category name already exists"
// @Security BearerAuth
// @Router /expense-categories [post]
func (h *billingHandler) createExpenseCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createExpenseCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	category, err := h.billingService.CreateExpenseCategory(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create expense category")
		return
	}
	c.JSON(http.StatusCreated, category)
}
