// Package testutil provides a migrated throwaway database and seed helpers
// for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library-api/internal/config"
	"library-api/internal/database"
	"library-api/internal/models"
)

// NewDB opens a migrated sqlite database in the test's temp dir. It is
// closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.Database{
		Driver:       config.DriverSQLite,
		URL:          filepath.Join(t.TempDir(), "library.db"),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func SeedAuthor(t *testing.T, db *gorm.DB, name, surname string) models.Author {
	t.Helper()
	author := models.Author{Name: name, Surname: surname}
	require.NoError(t, db.Create(&author).Error)
	return author
}

func SeedPublisher(t *testing.T, db *gorm.DB, name string) models.Publisher {
	t.Helper()
	publisher := models.Publisher{Name: name}
	require.NoError(t, db.Create(&publisher).Error)
	return publisher
}

func SeedBook(t *testing.T, db *gorm.DB, title string, author models.Author, publisher models.Publisher, year int) models.Book {
	t.Helper()
	book := models.Book{
		Title:          title,
		AuthorID:       author.ID,
		PublisherID:    publisher.ID,
		PublishingYear: year,
	}
	require.NoError(t, db.Omit("Author", "Publisher").Create(&book).Error)
	return book
}

func SeedMember(t *testing.T, db *gorm.DB, email, password string) models.Member {
	t.Helper()
	member := models.Member{
		Email:          email,
		Password:       password,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Address:        "12 St James's Square",
		PhoneNumber:    "+44 20 7946 0000",
		BirthDate:      time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC),
		MembershipDate: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&member).Error)
	return member
}

func SeedLoan(t *testing.T, db *gorm.DB, book models.Book, member models.Member, date time.Time) models.Loan {
	t.Helper()
	loan := models.Loan{BookID: book.ID, MemberID: member.ID, LoanDate: models.Date(date)}
	require.NoError(t, db.Omit("Book", "Member").Create(&loan).Error)
	return loan
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
