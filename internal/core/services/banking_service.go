package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/fernbooks/bookkeeping_app/internal/dto"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankingService owns bank accounts, their transactions, and the matching state
// machine that reconciles statement lines against payments, expenses and transfers.
type BankingService struct {
	uow portsrepo.UnitOfWork
}

func NewBankingService(uow portsrepo.UnitOfWork) *BankingService {
	return &BankingService{uow: uow}
}

// nextBankAccountCode allocates the next chart-of-accounts code in the reserved
// 1110-1199 bank range. Runs inside the caller's transaction so the
// read-max-then-insert is atomic.
func nextBankAccountCode(ctx context.Context, r portsrepo.Repositories) (string, error) {
	highest, err := r.Accounts.HighestCodeInRange(ctx, domain.BankAccountCodeFloor, domain.BankAccountCodeCeil)
	if err != nil {
		return "", err
	}
	if highest == nil {
		return domain.BankAccountCodeFloor, nil
	}
	n, err := strconv.Atoi(*highest)
	if err != nil {
		return "", apperrors.NewAppError(http.StatusInternalServerError,
			fmt.Sprintf("non-numeric chart-of-accounts code %q in bank account range", *highest),
			apperrors.ErrInvalidConfiguration)
	}
	return strconv.Itoa(n + 1), nil
}

// openingBalanceEntry posts the bank account's opening balance against owner's
// equity. Asset accounts debit the bank for positive balances and equity for
// negative ones; liability accounts (credit cards) always credit the liability.
func openingBalanceEntry(ctx context.Context, r portsrepo.Repositories, ba domain.BankAccount, glType domain.AccountType, userID string) (*domain.JournalEntry, error) {
	equity, err := requireAccountByCode(ctx, r, domain.CodeOwnerEquity)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		PostedAt:    ba.CreatedAt,
		PostedBy:    &userID,
		Description: fmt.Sprintf("Opening balance for %s", ba.DisplayName()),
		Source:      &domain.SourceRef{Kind: domain.SourceBankAccount, ID: ba.BankAccountID},
		CreatedAt:   time.Now(),
	}

	ob := ba.OpeningBalance
	switch {
	case glType == domain.AccountTypeAsset && ob.IsPositive():
		entry.Lines = debitCreditPair(entry.EntryID, ba.AccountID, equity.AccountID, ob)
	case glType == domain.AccountTypeAsset:
		entry.Lines = debitCreditPair(entry.EntryID, equity.AccountID, ba.AccountID, ob.Abs())
	case ob.IsNegative():
		// Credit cards carry a single sign convention for opening balances.
		return nil, apperrors.NewAppError(http.StatusBadRequest,
			"credit card opening balance must be non-negative", apperrors.ErrValidation)
	default:
		entry.Lines = debitCreditPair(entry.EntryID, equity.AccountID, ba.AccountID, ob)
	}

	if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *BankingService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var created *domain.BankAccount
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		glType := domain.AccountTypeAsset
		if req.Type == domain.CreditCard {
			glType = domain.AccountTypeLiability
		}

		code, err := nextBankAccountCode(ctx, r)
		if err != nil {
			return err
		}

		now := time.Now()
		account := domain.Account{
			AccountID:   uuid.NewString(),
			Code:        code,
			Name:        req.Institution + " (" + req.MaskedNumber + ")",
			AccountType: glType,
			IsActive:    true,
			AuditFields: domain.NewAuditFields(userID, now),
		}
		if err := r.Accounts.SaveAccount(ctx, account); err != nil {
			return err
		}

		ba := domain.BankAccount{
			BankAccountID:  uuid.NewString(),
			AccountID:      account.AccountID,
			Type:           req.Type,
			Institution:    req.Institution,
			MaskedNumber:   req.MaskedNumber,
			OpeningBalance: req.OpeningBalance,
			CreatedAt:      now,
		}
		if err := r.Bank.SaveBankAccount(ctx, ba); err != nil {
			return err
		}

		if !req.OpeningBalance.IsZero() {
			if _, err := openingBalanceEntry(ctx, r, ba, glType, userID); err != nil {
				return err
			}
		}

		created = &ba
		return nil
	})
	if err != nil {
		logger.Error("Failed to create bank account", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Bank account created",
		slog.String("bank_account_id", created.BankAccountID),
		slog.String("institution", created.Institution))
	return created, nil
}

// postTransactionTx records a transaction and its two-line entry inside an
// already-open transaction. Deposits debit the bank and credit the offset;
// withdrawals do the opposite for the absolute amount.
func postTransactionTx(ctx context.Context, r portsrepo.Repositories, ba *domain.BankAccount, date time.Time, description string, amount decimal.Decimal, offsetAccountID string, userID string) (*domain.BankTransaction, error) {
	if _, err := r.Accounts.FindAccountByID(ctx, offsetAccountID); err != nil {
		return nil, err
	}

	txn := domain.BankTransaction{
		TransactionID:   uuid.NewString(),
		BankAccountID:   ba.BankAccountID,
		Date:            date,
		Description:     description,
		Amount:          amount,
		OffsetAccountID: &offsetAccountID,
		CreatedAt:       time.Now(),
	}
	if err := r.Bank.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		PostedAt:    date,
		PostedBy:    &userID,
		Description: fmt.Sprintf("Bank txn: %s", description),
		Source:      &domain.SourceRef{Kind: domain.SourceBankTransaction, ID: txn.TransactionID},
		CreatedAt:   time.Now(),
	}
	if amount.IsPositive() {
		entry.Lines = debitCreditPair(entry.EntryID, ba.AccountID, offsetAccountID, amount)
	} else {
		entry.Lines = debitCreditPair(entry.EntryID, offsetAccountID, ba.AccountID, amount.Abs())
	}
	if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
		return nil, err
	}

	txn.JournalEntryID = &entry.EntryID
	if err := r.Bank.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *BankingService) PostTransaction(ctx context.Context, bankAccountID string, req dto.PostBankTransactionRequest, userID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var txn *domain.BankTransaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		ba, err := r.Bank.FindBankAccountByID(ctx, bankAccountID)
		if err != nil {
			return err
		}
		txn, err = postTransactionTx(ctx, r, ba, req.Date, req.Description, req.Amount, req.OffsetAccountID, userID)
		return err
	})
	if err != nil {
		logger.Error("Failed to post bank transaction", slog.String("bank_account_id", bankAccountID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Bank transaction posted", slog.String("transaction_id", txn.TransactionID))
	return txn, nil
}

// rebuildTransactionLines replaces the lines of the transaction's existing entry
// with a fresh debit/credit pair against newOffsetAccountID. The entry row and
// its id survive.
func rebuildTransactionLines(ctx context.Context, r portsrepo.Repositories, txn *domain.BankTransaction, bankGLAccountID, newOffsetAccountID string) error {
	if txn.JournalEntryID == nil {
		return apperrors.NewAppError(http.StatusConflict,
			"bank transaction has no journal entry to rebuild", apperrors.ErrConflict)
	}

	var lines []domain.JournalLine
	if txn.Amount.IsPositive() {
		lines = debitCreditPair(*txn.JournalEntryID, bankGLAccountID, newOffsetAccountID, txn.Amount)
	} else {
		lines = debitCreditPair(*txn.JournalEntryID, newOffsetAccountID, bankGLAccountID, txn.Amount.Abs())
	}
	return r.Journal.ReplaceEntryLines(ctx, *txn.JournalEntryID, lines)
}

func (s *BankingService) retagTx(ctx context.Context, transactionID, offsetAccountID, userID string) (*domain.BankTransaction, error) {
	var updated *domain.BankTransaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		txn, err := r.Bank.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		ba, err := r.Bank.FindBankAccountByID(ctx, txn.BankAccountID)
		if err != nil {
			return err
		}
		if _, err := r.Accounts.FindAccountByID(ctx, offsetAccountID); err != nil {
			return err
		}

		if err := rebuildTransactionLines(ctx, r, txn, ba.AccountID, offsetAccountID); err != nil {
			return err
		}

		txn.OffsetAccountID = &offsetAccountID
		if err := r.Bank.UpdateTransaction(ctx, *txn); err != nil {
			return err
		}
		updated = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BankingService) RetagTransaction(ctx context.Context, transactionID string, offsetAccountID string, userID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	txn, err := s.retagTx(ctx, transactionID, offsetAccountID, userID)
	if err != nil {
		logger.Error("Failed to retag transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Transaction retagged",
		slog.String("transaction_id", transactionID),
		slog.String("offset_account_id", offsetAccountID))
	return txn, nil
}

// MarkOwnerEquity retags the transaction against the owner's equity account,
// recording it as a contribution (deposit) or draw (withdrawal).
func (s *BankingService) MarkOwnerEquity(ctx context.Context, transactionID string, userID string) (*domain.BankTransaction, error) {
	equity, err := s.uow.Repos().Accounts.FindAccountByCode(ctx, domain.CodeOwnerEquity)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusInternalServerError,
				"owner equity account is missing from the chart of accounts", err)
		}
		return nil, err
	}
	return s.RetagTransaction(ctx, transactionID, equity.AccountID, userID)
}

func (s *BankingService) LinkExistingPayment(ctx context.Context, transactionID string, paymentID string, userID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.BankTransaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		txn, err := r.Bank.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.PaymentID != nil {
			return apperrors.NewAppError(http.StatusConflict,
				"bank transaction is already linked to a payment", apperrors.ErrAlreadyMatched)
		}

		payment, err := r.Billing.FindPaymentByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if !payment.Amount.Equal(txn.Amount) {
			return apperrors.NewAppError(http.StatusBadRequest,
				fmt.Sprintf("payment (%s) and transaction (%s) amounts do not match",
					payment.Amount.StringFixed(2), txn.Amount.StringFixed(2)),
				apperrors.ErrAmountMismatch)
		}

		// The bank statement date is authoritative over the user-entered one.
		if !payment.Date.Equal(txn.Date) {
			payment.Date = txn.Date
			if err := r.Billing.UpdatePayment(ctx, *payment); err != nil {
				return err
			}
		}

		entry, err := postPaymentEntry(ctx, r, payment, userID)
		if err != nil {
			return err
		}

		txn.PaymentID = &payment.PaymentID
		txn.JournalEntryID = &entry.EntryID
		if err := r.Bank.UpdateTransaction(ctx, *txn); err != nil {
			return err
		}
		updated = txn
		return nil
	})
	if err != nil {
		logger.Error("Failed to link payment", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Transaction linked to payment",
		slog.String("transaction_id", transactionID), slog.String("payment_id", paymentID))
	return updated, nil
}

func (s *BankingService) CreatePaymentFromTransaction(ctx context.Context, transactionID string, clientID string, method domain.PaymentMethod, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var created *domain.Payment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		txn, err := r.Bank.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.IsMatched() {
			return apperrors.NewAppError(http.StatusConflict,
				"bank transaction is already matched", apperrors.ErrAlreadyMatched)
		}
		if !txn.Amount.IsPositive() {
			return apperrors.NewAppError(http.StatusBadRequest,
				"only deposits can be turned into payments", apperrors.ErrValidation)
		}
		if _, err := r.Billing.FindClientByID(ctx, clientID); err != nil {
			return err
		}

		payment := domain.Payment{
			PaymentID:       uuid.NewString(),
			ClientID:        clientID,
			Date:            txn.Date,
			Amount:          txn.Amount,
			Method:          method,
			Memo:            txn.Description,
			UnappliedAmount: txn.Amount,
			AuditFields:     domain.NewAuditFields(userID, time.Now()),
		}
		if err := r.Billing.SavePayment(ctx, payment); err != nil {
			return err
		}

		entry, err := postPaymentEntry(ctx, r, &payment, userID)
		if err != nil {
			return err
		}

		txn.PaymentID = &payment.PaymentID
		txn.JournalEntryID = &entry.EntryID
		if err := r.Bank.UpdateTransaction(ctx, *txn); err != nil {
			return err
		}
		created = &payment
		return nil
	})
	if err != nil {
		logger.Error("Failed to create payment from transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Payment created from transaction",
		slog.String("transaction_id", transactionID), slog.String("payment_id", created.PaymentID))
	return created, nil
}

func (s *BankingService) LinkExpense(ctx context.Context, transactionID string, req dto.LinkExpenseRequest, userID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.BankTransaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		txn, err := r.Bank.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.IsMatched() {
			return apperrors.NewAppError(http.StatusConflict,
				"bank transaction is already matched", apperrors.ErrAlreadyMatched)
		}
		ba, err := r.Bank.FindBankAccountByID(ctx, txn.BankAccountID)
		if err != nil {
			return err
		}

		var expense *domain.Expense
		if req.ExpenseID != "" {
			expense, err = r.Billing.FindExpenseByID(ctx, req.ExpenseID)
			if err != nil {
				return err
			}
			if expense.PaymentAccountID != nil {
				return apperrors.NewAppError(http.StatusConflict,
					"expense is already settled from a bank account", apperrors.ErrAlreadyMatched)
			}
		} else {
			if req.CategoryID == "" {
				return apperrors.NewAppError(http.StatusBadRequest,
					"either expenseID or categoryID is required", apperrors.ErrValidation)
			}
			expense = &domain.Expense{
				ExpenseID:   uuid.NewString(),
				CategoryID:  req.CategoryID,
				Date:        txn.Date,
				Amount:      txn.Amount.Abs(),
				Description: txn.Description,
				Billable:    false,
				Status:      domain.Unbilled,
				AuditFields: domain.NewAuditFields(userID, time.Now()),
			}
			if err := r.Billing.SaveExpense(ctx, *expense); err != nil {
				return err
			}
		}

		category, err := r.Billing.FindExpenseCategoryByID(ctx, expense.CategoryID)
		if err != nil {
			return err
		}
		if category.AccountID == nil {
			return apperrors.NewAppError(http.StatusBadRequest,
				fmt.Sprintf("expense category %q has no GL account assigned", category.Name),
				apperrors.ErrMissingGLAccount)
		}

		// Supersede the original posting entirely.
		if txn.JournalEntryID != nil {
			if err := r.Journal.DeleteEntry(ctx, *txn.JournalEntryID); err != nil {
				return err
			}
		}

		entry := domain.JournalEntry{
			EntryID:     uuid.NewString(),
			PostedAt:    txn.Date,
			PostedBy:    &userID,
			Description: fmt.Sprintf("Expense settled: %s", txn.Description),
			Source:      &domain.SourceRef{Kind: domain.SourceBankTransaction, ID: txn.TransactionID},
			CreatedAt:   time.Now(),
		}
		entry.Lines = debitCreditPair(entry.EntryID, *category.AccountID, ba.AccountID, txn.Amount.Abs())
		if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
			return err
		}

		expense.PaymentAccountID = &ba.BankAccountID
		if err := r.Billing.UpdateExpense(ctx, *expense); err != nil {
			return err
		}

		txn.ExpenseID = &expense.ExpenseID
		txn.OffsetAccountID = category.AccountID
		txn.JournalEntryID = &entry.EntryID
		if err := r.Bank.UpdateTransaction(ctx, *txn); err != nil {
			return err
		}
		updated = txn
		return nil
	})
	if err != nil {
		logger.Error("Failed to link expense", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Transaction matched to expense",
		slog.String("transaction_id", transactionID), slog.String("expense_id", *updated.ExpenseID))
	return updated, nil
}

func (s *BankingService) MatchTransfer(ctx context.Context, transactionID string, targetTransactionID string, userID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var updated *domain.BankTransaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		first, err := r.Bank.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		second, err := r.Bank.FindTransactionByID(ctx, targetTransactionID)
		if err != nil {
			return err
		}

		if first.IsMatched() || second.IsMatched() {
			return apperrors.NewAppError(http.StatusConflict,
				"one of the transactions is already matched", apperrors.ErrAlreadyMatched)
		}
		if first.BankAccountID == second.BankAccountID {
			return apperrors.NewAppError(http.StatusBadRequest,
				"transfer requires two different bank accounts", apperrors.ErrSameAccountTransfer)
		}
		if !first.Amount.Abs().Equal(second.Amount.Abs()) {
			return apperrors.NewAppError(http.StatusBadRequest,
				fmt.Sprintf("transfer amounts do not match (%s vs %s)",
					first.Amount.StringFixed(2), second.Amount.StringFixed(2)),
				apperrors.ErrAmountMismatch)
		}

		// The negative side is the source of funds. When neither side is
		// negative the first argument is treated as the source.
		source, destination := first, second
		if second.Amount.IsNegative() && !first.Amount.IsNegative() {
			source, destination = second, first
		}

		sourceBA, err := r.Bank.FindBankAccountByID(ctx, source.BankAccountID)
		if err != nil {
			return err
		}
		destinationBA, err := r.Bank.FindBankAccountByID(ctx, destination.BankAccountID)
		if err != nil {
			return err
		}

		for _, t := range []*domain.BankTransaction{source, destination} {
			if t.JournalEntryID != nil {
				if err := r.Journal.DeleteEntry(ctx, *t.JournalEntryID); err != nil {
					return err
				}
			}
		}

		amount := first.Amount.Abs()
		entry := domain.JournalEntry{
			EntryID:  uuid.NewString(),
			PostedAt: source.Date,
			PostedBy: &userID,
			Description: fmt.Sprintf("Transfer from %s to %s",
				sourceBA.DisplayName(), destinationBA.DisplayName()),
			Source:    &domain.SourceRef{Kind: domain.SourceBankTransaction, ID: source.TransactionID},
			CreatedAt: time.Now(),
		}
		entry.Lines = debitCreditPair(entry.EntryID, destinationBA.AccountID, sourceBA.AccountID, amount)
		if err := saveBalancedEntry(ctx, r, entry, entry.Lines); err != nil {
			return err
		}

		source.JournalEntryID = &entry.EntryID
		source.TransferPairID = &destination.TransactionID
		source.OffsetAccountID = &destinationBA.AccountID
		destination.JournalEntryID = &entry.EntryID
		destination.TransferPairID = &source.TransactionID
		destination.OffsetAccountID = &sourceBA.AccountID

		if err := r.Bank.UpdateTransaction(ctx, *source); err != nil {
			return err
		}
		if err := r.Bank.UpdateTransaction(ctx, *destination); err != nil {
			return err
		}
		updated = first
		return nil
	})
	if err != nil {
		logger.Error("Failed to match transfer",
			slog.String("transaction_id", transactionID),
			slog.String("target_transaction_id", targetTransactionID),
			slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Transfer matched",
		slog.String("transaction_id", transactionID),
		slog.String("target_transaction_id", targetTransactionID))
	return updated, nil
}

func (s *BankingService) UpsertImportProfile(ctx context.Context, bankAccountID string, req dto.UpsertImportProfileRequest) (*domain.BankImportProfile, error) {
	var saved *domain.BankImportProfile
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		ba, err := r.Bank.FindBankAccountByID(ctx, bankAccountID)
		if err != nil {
			return err
		}

		signRule := req.SignRule
		if signRule == "" {
			if ba.Type == domain.CreditCard {
				return apperrors.NewAppError(http.StatusBadRequest,
					"credit card import profiles require an explicit sign rule",
					apperrors.ErrInvalidConfiguration)
			}
			signRule = domain.SignBankStandard
		}

		profile := domain.BankImportProfile{
			ProfileID:               uuid.NewString(),
			BankAccountID:           bankAccountID,
			DateColumn:              req.DateColumn,
			DescriptionColumn:       req.DescriptionColumn,
			AmountColumn:            req.AmountColumn,
			DateFormat:              req.DateFormat,
			SignRule:                signRule,
			SkipDescriptionContains: req.SkipDescriptionContains,
		}
		if existing, err := r.Bank.FindImportProfile(ctx, bankAccountID); err == nil {
			profile.ProfileID = existing.ProfileID
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if err := r.Bank.SaveImportProfile(ctx, profile); err != nil {
			return err
		}
		saved = &profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *BankingService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return s.uow.Repos().Bank.FindBankAccountByID(ctx, bankAccountID)
}

func (s *BankingService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return s.uow.Repos().Bank.ListBankAccounts(ctx)
}

func (s *BankingService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	return s.uow.Repos().Bank.FindTransactionByID(ctx, transactionID)
}

// CalculateBankBalance is always computed from scratch so it reflects retags,
// matches and deletions immediately.
func (s *BankingService) CalculateBankBalance(ctx context.Context, bankAccountID string) (decimal.Decimal, error) {
	r := s.uow.Repos()
	ba, err := r.Bank.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	sum, err := r.Bank.SumTransactionAmounts(ctx, bankAccountID, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return ba.OpeningBalance.Add(sum), nil
}

func (s *BankingService) Register(ctx context.Context, bankAccountID string, from, to *time.Time) (*domain.BankRegister, error) {
	r := s.uow.Repos()
	ba, err := r.Bank.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}

	balanceForward := ba.OpeningBalance
	if from != nil {
		prior, err := r.Bank.SumTransactionAmounts(ctx, bankAccountID, from)
		if err != nil {
			return nil, err
		}
		balanceForward = balanceForward.Add(prior)
	}

	txns, err := r.Bank.ListTransactions(ctx, bankAccountID, from, to)
	if err != nil {
		return nil, err
	}

	register := &domain.BankRegister{
		OpeningBalance: ba.OpeningBalance,
		BalanceForward: balanceForward,
		Rows:           make([]domain.RegisterRow, 0, len(txns)),
	}
	running := balanceForward
	for _, txn := range txns {
		running = running.Add(txn.Amount)
		register.Rows = append(register.Rows, domain.RegisterRow{Transaction: txn, RunningBalance: running})
	}
	return register, nil
}

func (s *BankingService) ListUnmatched(ctx context.Context, bankAccountID string) ([]domain.BankTransaction, error) {
	txns, err := s.uow.Repos().Bank.ListTransactions(ctx, bankAccountID, nil, nil)
	if err != nil {
		return nil, err
	}
	unmatched := make([]domain.BankTransaction, 0, len(txns))
	for _, txn := range txns {
		if !txn.IsMatched() {
			unmatched = append(unmatched, txn)
		}
	}
	return unmatched, nil
}
