package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/models"
	"library-api/internal/services"
	"library-api/internal/testutil"
)

func TestGetBook(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := testutil.SeedAuthor(t, f.db, "Ursula", "Le Guin")
	publisher := testutil.SeedPublisher(t, f.db, "Harper & Row")
	book := testutil.SeedBook(t, f.db, "The Dispossessed", author, publisher, 1974)

	t.Run("returns the book with its cover", func(t *testing.T) {
		info, err := f.svc.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, &models.BookInfo{
			Title:             "The Dispossessed",
			Author:            "Ursula Le Guin",
			PublishingCompany: "Harper & Row",
			PublishingYear:    1974,
			Cover:             "https://covers.example.com/dispossessed.jpg",
		}, info)
		assert.Contains(t, f.covers.calls, [2]string{"The Dispossessed", "Ursula Le Guin"})
	})

	t.Run("trims an author without surname", func(t *testing.T) {
		homer := testutil.SeedAuthor(t, f.db, "Homer", "")
		odyssey := testutil.SeedBook(t, f.db, "Odyssey", homer, publisher, 1900)

		info, err := f.svc.GetBook(ctx, odyssey.ID)
		require.NoError(t, err)
		assert.Equal(t, "Homer", info.Author)
	})

	t.Run("empty cover is kept", func(t *testing.T) {
		f.covers.url = ""
		defer func() { f.covers.url = "https://covers.example.com/dispossessed.jpg" }()

		info, err := f.svc.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Empty(t, info.Cover)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := f.svc.GetBook(ctx, 4242)
		assert.ErrorIs(t, err, services.ErrBookNotFound)
	})
}

func TestGetBookDetails(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := testutil.SeedAuthor(t, f.db, "Ursula", "Le Guin")
	publisher := testutil.SeedPublisher(t, f.db, "Harper & Row")
	book := testutil.SeedBook(t, f.db, "The Dispossessed", author, publisher, 1974)
	quiet := testutil.SeedBook(t, f.db, "Always Coming Home", author, publisher, 1985)
	ada := testutil.SeedMember(t, f.db, "ada@example.com", "Passw0rd!")
	grace := testutil.SeedMember(t, f.db, "grace@example.com", "Passw0rd!")

	testutil.SeedLoan(t, f.db, book, grace, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	testutil.SeedLoan(t, f.db, book, ada, time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC))

	t.Run("loans oldest first", func(t *testing.T) {
		details, err := f.svc.GetBookDetails(ctx, book.ID)
		require.NoError(t, err)
		want := &models.DetailedBookInfo{
			BookInfo: models.BookInfo{
				Title:             "The Dispossessed",
				Author:            "Ursula Le Guin",
				PublishingCompany: "Harper & Row",
				PublishingYear:    1974,
				Cover:             "https://covers.example.com/dispossessed.jpg",
			},
			Loans: []models.LoanInfo{
				{UserID: ada.ID, LoanDate: "2025-01-20"},
				{UserID: grace.ID, LoanDate: "2025-03-03"},
			},
		}
		if diff := cmp.Diff(want, details); diff != "" {
			t.Errorf("GetBookDetails mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no loans is an empty list", func(t *testing.T) {
		details, err := f.svc.GetBookDetails(ctx, quiet.ID)
		require.NoError(t, err)
		require.NotNil(t, details.Loans)
		assert.Empty(t, details.Loans)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := f.svc.GetBookDetails(ctx, 4242)
		assert.ErrorIs(t, err, services.ErrBookNotFound)
	})
}

func TestListRandomBooks(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := testutil.SeedAuthor(t, f.db, "Ursula", "Le Guin")
	publisher := testutil.SeedPublisher(t, f.db, "Ace Books")
	for i := 0; i < 5; i++ {
		testutil.SeedBook(t, f.db, fmt.Sprintf("Earthsea %d", i+1), author, publisher, 1968+i)
	}

	t.Run("returns n distinct books", func(t *testing.T) {
		books, err := f.svc.ListRandomBooks(ctx, 3)
		require.NoError(t, err)
		require.Len(t, books, 3)

		seen := make(map[uint]bool)
		for _, b := range books {
			assert.False(t, seen[b.BookID], "book %d returned twice", b.BookID)
			seen[b.BookID] = true
			assert.Equal(t, "Ursula Le Guin", b.Author)
			assert.Equal(t, "Ace Books", b.PublishingCompany)
		}
		assert.Empty(t, f.covers.calls)
	})

	t.Run("n larger than the catalogue", func(t *testing.T) {
		books, err := f.svc.ListRandomBooks(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, books, 5)
	})

	t.Run("zero is an empty list", func(t *testing.T) {
		books, err := f.svc.ListRandomBooks(ctx, 0)
		require.NoError(t, err)
		require.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("negative n", func(t *testing.T) {
		_, err := f.svc.ListRandomBooks(ctx, -1)
		assert.ErrorIs(t, err, services.ErrInvalidInput)
	})
}

func TestCreateBook(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := testutil.SeedAuthor(t, f.db, "Ursula", "Le Guin")
	publisher := testutil.SeedPublisher(t, f.db, "Ace Books")

	tests := []struct {
		name    string
		in      services.NewBook
		wantErr error
	}{
		{
			name: "last year is accepted",
			in:   services.NewBook{Title: "Lavinia", AuthorID: author.ID, PublisherID: publisher.ID, PublishingYear: 2024},
		},
		{
			name:    "current year is rejected",
			in:      services.NewBook{Title: "Lavinia", AuthorID: author.ID, PublisherID: publisher.ID, PublishingYear: 2025},
			wantErr: services.ErrInvalidPublishingYear,
		},
		{
			name:    "future year is rejected",
			in:      services.NewBook{Title: "Lavinia", AuthorID: author.ID, PublisherID: publisher.ID, PublishingYear: 2031},
			wantErr: services.ErrInvalidPublishingYear,
		},
		{
			name:    "unknown author",
			in:      services.NewBook{Title: "Lavinia", AuthorID: author.ID + 10, PublisherID: publisher.ID, PublishingYear: 2008},
			wantErr: services.ErrAuthorNotFound,
		},
		{
			name:    "unknown publisher",
			in:      services.NewBook{Title: "Lavinia", AuthorID: author.ID, PublisherID: publisher.ID + 10, PublishingYear: 2008},
			wantErr: services.ErrPublisherNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := f.svc.CreateBook(ctx, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, id)

			info, err := f.svc.GetBook(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.in.Title, info.Title)
			assert.Equal(t, tt.in.PublishingYear, info.PublishingYear)
		})
	}

	t.Run("author is checked before publisher", func(t *testing.T) {
		_, err := f.svc.CreateBook(ctx, services.NewBook{Title: "x", AuthorID: 999, PublisherID: 999, PublishingYear: 2000})
		assert.ErrorIs(t, err, services.ErrAuthorNotFound)
	})
}
