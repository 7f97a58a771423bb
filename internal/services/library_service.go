package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"library-api/internal/models"
	"library-api/internal/passwords"
	"library-api/internal/repositories"
)

// LoanCooldownDays is how long a member must wait before borrowing the same
// book again. The boundary day is still inside the cooldown.
const LoanCooldownDays = 30

// ─── Service Interface ────────────────────────────────────────────────────────

// LibraryService defines the application-level operations of the library API.
type LibraryService interface {
	GetBook(ctx context.Context, id uint) (*models.BookInfo, error)
	GetBookDetails(ctx context.Context, id uint) (*models.DetailedBookInfo, error)
	ListRandomBooks(ctx context.Context, n int) ([]models.BookSummary, error)
	CreateBook(ctx context.Context, in NewBook) (uint, error)

	GetUser(ctx context.Context, id uint) (*models.UserInfo, error)
	CreateUser(ctx context.Context, in NewUser) (uint, error)
	UpdateUser(ctx context.Context, id uint, in UserUpdate) error
	DeleteUser(ctx context.Context, id uint) error
	Login(ctx context.Context, email, password string) (uint, error)

	CreateLoan(ctx context.Context, memberID, bookID uint) error
}

// CoverFinder resolves a cover URL, returning "" when there is none.
type CoverFinder interface {
	Cover(ctx context.Context, title, author string) string
}

// ─── Implementation ───────────────────────────────────────────────────────────

type libraryService struct {
	db            *gorm.DB
	authorRepo    repositories.AuthorRepository
	publisherRepo repositories.PublisherRepository
	bookRepo      repositories.BookRepository
	memberRepo    repositories.MemberRepository
	loanRepo      repositories.LoanRepository
	covers        CoverFinder
	hasher        passwords.Hasher
	now           func() time.Time
}

type Option func(*libraryService)

// WithClock replaces the wall clock used for membership and loan dates.
func WithClock(now func() time.Time) Option {
	return func(s *libraryService) { s.now = now }
}

// NewLibraryService wires up all dependencies and returns a LibraryService.
func NewLibraryService(
	db *gorm.DB,
	authorRepo repositories.AuthorRepository,
	publisherRepo repositories.PublisherRepository,
	bookRepo repositories.BookRepository,
	memberRepo repositories.MemberRepository,
	loanRepo repositories.LoanRepository,
	covers CoverFinder,
	hasher passwords.Hasher,
	opts ...Option,
) LibraryService {
	s := &libraryService{
		db:            db,
		authorRepo:    authorRepo,
		publisherRepo: publisherRepo,
		bookRepo:      bookRepo,
		memberRepo:    memberRepo,
		loanRepo:      loanRepo,
		covers:        covers,
		hasher:        hasher,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// session binds the shared pool to one request.
func (s *libraryService) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *libraryService) today() time.Time {
	return models.Date(s.now())
}
