package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"library-api/internal/logging"
	"library-api/internal/models"
)

// CreateLoan lends a book to a member, dated today.
//
// The member's latest loan of the same book must be older than
// LoanCooldownDays; a loan exactly LoanCooldownDays old still blocks. The
// check and the insert share a transaction but take no locks, so two
// concurrent requests for the same pair can both pass the check.
func (s *libraryService) CreateLoan(ctx context.Context, memberID, bookID uint) error {
	logger := logging.FromContext(ctx)
	today := s.today()
	cutoff := today.AddDate(0, 0, -LoanCooldownDays)

	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := s.loanRepo.GetLatest(tx, bookID, memberID)
		switch {
		case err == nil:
			if !models.Date(latest.LoanDate).Before(cutoff) {
				return ErrBookOnLoan
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		rows, err := s.loanRepo.Create(tx, &models.Loan{
			BookID:   bookID,
			MemberID: memberID,
			LoanDate: today,
		})
		if err != nil {
			logger.Error("failed to insert loan",
				slog.Uint64("user_id", uint64(memberID)),
				slog.Uint64("book_id", uint64(bookID)),
				slog.Any("error", err))
			return err
		}
		if rows == 0 {
			return ErrLoanNotInserted
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("loan created",
		slog.Uint64("user_id", uint64(memberID)),
		slog.Uint64("book_id", uint64(bookID)),
		slog.String("loan_date", models.FormatDate(today)))
	return nil
}
