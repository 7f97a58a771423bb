package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"library-api/internal/passwords"
	"library-api/internal/repositories"
	"library-api/internal/services"
	"library-api/internal/testutil"
)

// now is the frozen wall clock of every service test.
var now = time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC)

type fakeCovers struct {
	mu    sync.Mutex
	url   string
	calls [][2]string
}

func (f *fakeCovers) Cover(_ context.Context, title, author string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{title, author})
	return f.url
}

type fixture struct {
	db     *gorm.DB
	svc    services.LibraryService
	covers *fakeCovers
	hasher passwords.Hasher
}

func newFixture(t *testing.T, hasher passwords.Hasher) *fixture {
	t.Helper()

	if hasher == nil {
		hasher = passwords.NewHasher(false, 0)
	}
	f := &fixture{
		db:     testutil.NewDB(t),
		covers: &fakeCovers{url: "https://covers.example.com/dispossessed.jpg"},
		hasher: hasher,
	}
	f.svc = newServiceAt(f, now)
	return f
}

// newServiceAt builds a service over the fixture's database whose clock is
// frozen at at.
func newServiceAt(f *fixture, at time.Time) services.LibraryService {
	return services.NewLibraryService(
		f.db,
		repositories.NewAuthorRepository(f.db),
		repositories.NewPublisherRepository(f.db),
		repositories.NewBookRepository(f.db),
		repositories.NewMemberRepository(f.db),
		repositories.NewLoanRepository(f.db),
		f.covers,
		f.hasher,
		services.WithClock(testutil.FixedClock(at)),
	)
}
