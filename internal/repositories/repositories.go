package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"library-api/internal/models"
)

type AuthorRepository interface {
	Exists(db *gorm.DB, id uint) (bool, error)
}

type PublisherRepository interface {
	Exists(db *gorm.DB, id uint) (bool, error)
}

type BookRepository interface {
	Create(db *gorm.DB, book *models.Book) (int64, error)
	GetWithReferences(db *gorm.DB, id uint) (*models.Book, error)
	ListRandom(db *gorm.DB, limit int) ([]models.Book, error)
}

type MemberRepository interface {
	Create(db *gorm.DB, member *models.Member) (int64, error)
	GetByID(db *gorm.DB, id uint) (*models.Member, error)
	GetByEmail(db *gorm.DB, email string) (*models.Member, error)
	GetByCredentials(db *gorm.DB, email, password string) (*models.Member, error)
	CountByEmail(db *gorm.DB, email string) (int64, error)
	Update(db *gorm.DB, id uint, columns map[string]any) (int64, error)
	Delete(db *gorm.DB, id uint) (int64, error)
}

type LoanRepository interface {
	Create(db *gorm.DB, loan *models.Loan) (int64, error)
	ListByBook(db *gorm.DB, bookID uint) ([]models.Loan, error)
	GetLatest(db *gorm.DB, bookID, memberID uint) (*models.Loan, error)
	DeleteByMember(db *gorm.DB, memberID uint) (int64, error)
}

// IsUniqueViolation reports whether err comes from a unique constraint,
// either translated by gorm or raw from the driver (PostgreSQL SQLSTATE
// 23505, SQLite SQLITE_CONSTRAINT_UNIQUE).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// concrete implementations

type authorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Exists(db *gorm.DB, id uint) (bool, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	if err := db.Model(&models.Author{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type publisherRepository struct {
	db *gorm.DB
}

func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

func (r *publisherRepository) Exists(db *gorm.DB, id uint) (bool, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	if err := db.Model(&models.Publisher{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(db *gorm.DB, book *models.Book) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Omit("Author", "Publisher").Create(book)
	return result.RowsAffected, result.Error
}

// GetWithReferences loads a book with its author and publisher.
func (r *bookRepository) GetWithReferences(db *gorm.DB, id uint) (*models.Book, error) {
	if db == nil {
		db = r.db
	}
	var book models.Book
	err := db.Joins("Author").Joins("Publisher").First(&book, "books.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListRandom returns up to limit books in database-random order.
func (r *bookRepository) ListRandom(db *gorm.DB, limit int) ([]models.Book, error) {
	if db == nil {
		db = r.db
	}
	var books []models.Book
	err := db.Joins("Author").Joins("Publisher").
		Order("RANDOM()").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(db *gorm.DB, member *models.Member) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Create(member)
	return result.RowsAffected, result.Error
}

func (r *memberRepository) GetByID(db *gorm.DB, id uint) (*models.Member, error) {
	if db == nil {
		db = r.db
	}
	var member models.Member
	if err := db.First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByEmail(db *gorm.DB, email string) (*models.Member, error) {
	if db == nil {
		db = r.db
	}
	var member models.Member
	if err := db.Where("email = ?", email).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByCredentials matches on email and the stored password value as given.
func (r *memberRepository) GetByCredentials(db *gorm.DB, email, password string) (*models.Member, error) {
	if db == nil {
		db = r.db
	}
	var member models.Member
	err := db.Where("email = ? AND password = ?", email, password).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) CountByEmail(db *gorm.DB, email string) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	if err := db.Model(&models.Member{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update sets the given columns on one member. Column names come from a
// fixed allow-list in the caller; values are bound as parameters.
func (r *memberRepository) Update(db *gorm.DB, id uint, columns map[string]any) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Model(&models.Member{}).Where("id = ?", id).Updates(columns)
	return result.RowsAffected, result.Error
}

func (r *memberRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Delete(&models.Member{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(db *gorm.DB, loan *models.Loan) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Omit("Book", "Member").Create(loan)
	return result.RowsAffected, result.Error
}

// ListByBook returns a book's loans ordered by loan date.
func (r *loanRepository) ListByBook(db *gorm.DB, bookID uint) ([]models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loans []models.Loan
	if err := db.Where("book_id = ?", bookID).Order("loan_date ASC, id ASC").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// GetLatest returns the most recent loan of a book by a member.
func (r *loanRepository) GetLatest(db *gorm.DB, bookID, memberID uint) (*models.Loan, error) {
	if db == nil {
		db = r.db
	}
	var loan models.Loan
	err := db.Where("book_id = ? AND member_id = ?", bookID, memberID).
		Order("loan_date DESC").
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) DeleteByMember(db *gorm.DB, memberID uint) (int64, error) {
	if db == nil {
		db = r.db
	}
	result := db.Where("member_id = ?", memberID).Delete(&models.Loan{})
	return result.RowsAffected, result.Error
}
