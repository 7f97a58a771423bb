package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"library-api/internal/logging"
	"library-api/internal/models"
)

// NewBook is the input of CreateBook.
type NewBook struct {
	Title          string
	AuthorID       uint
	PublisherID    uint
	PublishingYear int
}

// GetBook returns the basic information of a book, enriched with its cover.
func (s *libraryService) GetBook(ctx context.Context, id uint) (*models.BookInfo, error) {
	return s.basicBookInfo(ctx, id)
}

// GetBookDetails returns the basic information plus every loan of the book,
// oldest first.
func (s *libraryService) GetBookDetails(ctx context.Context, id uint) (*models.DetailedBookInfo, error) {
	info, err := s.basicBookInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListByBook(s.session(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("list loans of book %d: %w", id, err)
	}

	detailed := &models.DetailedBookInfo{
		BookInfo: *info,
		Loans:    make([]models.LoanInfo, 0, len(loans)),
	}
	for _, loan := range loans {
		detailed.Loans = append(detailed.Loans, models.LoanInfo{
			UserID:   loan.MemberID,
			LoanDate: models.FormatDate(loan.LoanDate),
		})
	}
	return detailed, nil
}

// ListRandomBooks returns up to n books in random order, without covers.
func (s *libraryService) ListRandomBooks(ctx context.Context, n int) ([]models.BookSummary, error) {
	if n < 0 {
		return nil, ErrInvalidInput
	}

	books, err := s.bookRepo.ListRandom(s.session(ctx), n)
	if err != nil {
		return nil, fmt.Errorf("list random books: %w", err)
	}

	summaries := make([]models.BookSummary, 0, len(books))
	for _, book := range books {
		summaries = append(summaries, models.BookSummary{
			BookID:            book.ID,
			Title:             book.Title,
			PublishingYear:    book.PublishingYear,
			Author:            authorName(book.Author),
			PublishingCompany: book.Publisher.Name,
		})
	}
	return summaries, nil
}

// CreateBook validates the year and the referenced author and publisher,
// then inserts the book.
func (s *libraryService) CreateBook(ctx context.Context, in NewBook) (uint, error) {
	logger := logging.FromContext(ctx)

	if in.PublishingYear >= s.now().Year() {
		return 0, ErrInvalidPublishingYear
	}

	book := &models.Book{
		Title:          in.Title,
		AuthorID:       in.AuthorID,
		PublisherID:    in.PublisherID,
		PublishingYear: in.PublishingYear,
	}

	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.authorRepo.Exists(tx, in.AuthorID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAuthorNotFound
		}

		exists, err = s.publisherRepo.Exists(tx, in.PublisherID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPublisherNotFound
		}

		rows, err := s.bookRepo.Create(tx, book)
		if err != nil {
			logger.Error("failed to insert book", slog.String("title", in.Title), slog.Any("error", err))
			return err
		}
		if rows == 0 {
			return ErrBookNotInserted
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("book created", slog.Uint64("book_id", uint64(book.ID)), slog.String("title", book.Title))
	return book.ID, nil
}

func (s *libraryService) basicBookInfo(ctx context.Context, id uint) (*models.BookInfo, error) {
	book, err := s.bookRepo.GetWithReferences(s.session(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	author := authorName(book.Author)
	return &models.BookInfo{
		Title:             book.Title,
		Author:            author,
		PublishingCompany: book.Publisher.Name,
		PublishingYear:    book.PublishingYear,
		Cover:             s.covers.Cover(ctx, book.Title, author),
	}, nil
}

// authorName is the author's display name: name and surname, trimmed.
func authorName(a models.Author) string {
	return strings.TrimSpace(a.Name + " " + a.Surname)
}
