package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/fernbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// ImportService ingests bank statement CSVs. The whole file imports inside one
// transaction: a bad date or amount aborts the import with no rows committed.
type ImportService struct {
	uow portsrepo.UnitOfWork
}

func NewImportService(uow portsrepo.UnitOfWork) *ImportService {
	return &ImportService{uow: uow}
}

// normalizeAmount maps a bank's CSV sign convention onto the internal one
// (positive = funds in). Only CC_CHARGES_POSITIVE flips the sign: those CSVs
// show a charge as positive while internally a charge decreases funds.
func normalizeAmount(raw decimal.Decimal, rule domain.SignRule) decimal.Decimal {
	if rule == domain.SignCCChargesPositive {
		return raw.Neg()
	}
	return raw
}

func (s *ImportService) ImportStatement(ctx context.Context, bankAccountID string, csvData io.Reader, offsetAccountID string, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	imported := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r portsrepo.Repositories) error {
		ba, err := r.Bank.FindBankAccountByID(ctx, bankAccountID)
		if err != nil {
			return err
		}
		profile, err := r.Bank.FindImportProfile(ctx, bankAccountID)
		if err != nil {
			return err
		}
		if ba.Type == domain.CreditCard && profile.SignRule == "" {
			return apperrors.NewAppError(http.StatusBadRequest,
				"credit card import profiles require an explicit sign rule",
				apperrors.ErrInvalidConfiguration)
		}
		if _, err := r.Accounts.FindAccountByID(ctx, offsetAccountID); err != nil {
			return err
		}

		reader := csv.NewReader(csvData)
		reader.FieldsPerRecord = -1

		maxColumn := profile.DateColumn
		if profile.DescriptionColumn > maxColumn {
			maxColumn = profile.DescriptionColumn
		}
		if profile.AmountColumn > maxColumn {
			maxColumn = profile.AmountColumn
		}

		skipPhrase := strings.ToLower(profile.SkipDescriptionContains)

		rowNum := 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return apperrors.NewAppError(http.StatusBadRequest,
					fmt.Sprintf("row %d: malformed CSV", rowNum+1), err)
			}
			rowNum++

			if len(record) <= maxColumn {
				continue
			}

			rawDate := strings.TrimSpace(record[profile.DateColumn])
			// Header-row heuristic: data rows start with a digit in the date column.
			if rawDate == "" || !unicode.IsDigit(rune(rawDate[0])) {
				continue
			}

			description := strings.TrimSpace(record[profile.DescriptionColumn])
			if skipPhrase != "" && strings.Contains(strings.ToLower(description), skipPhrase) {
				continue
			}

			date, err := time.Parse(profile.DateFormat, rawDate)
			if err != nil {
				return apperrors.NewAppError(http.StatusBadRequest,
					fmt.Sprintf("row %d: cannot parse date %q with format %q", rowNum, rawDate, profile.DateFormat),
					apperrors.ErrValidation)
			}

			rawAmount := strings.TrimSpace(record[profile.AmountColumn])
			amount, err := decimal.NewFromString(strings.ReplaceAll(rawAmount, ",", ""))
			if err != nil {
				return apperrors.NewAppError(http.StatusBadRequest,
					fmt.Sprintf("row %d: cannot parse amount %q", rowNum, rawAmount),
					apperrors.ErrValidation)
			}

			normalized := normalizeAmount(amount, profile.SignRule)
			if _, err := postTransactionTx(ctx, r, ba, date, description, normalized, offsetAccountID, userID); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		logger.Error("Statement import aborted",
			slog.String("bank_account_id", bankAccountID), slog.String("error", err.Error()))
		return 0, err
	}

	logger.Info("Statement imported",
		slog.String("bank_account_id", bankAccountID), slog.Int("rows", imported))
	return imported, nil
}
