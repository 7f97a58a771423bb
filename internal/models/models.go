package models

import (
	"time"
)

// DateLayout is the wire format of every date the API reads or writes.
const DateLayout = "2006-01-02"

type Author struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Surname string `gorm:"size:255;not null" json:"surname"`
}

type Publisher struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

func (Publisher) TableName() string { return "publishing_companies" }

type Book struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`
	Author         Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	PublisherID    uint      `gorm:"not null;index" json:"publisher_id"`
	Publisher      Publisher `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	PublishingYear int       `gorm:"not null" json:"publishing_year"`
}

// Member is a registered library user. Password holds plaintext unless
// password hashing is enabled, in which case it holds a bcrypt hash.
type Member struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	FirstName      string    `gorm:"size:255;not null" json:"first_name"`
	LastName       string    `gorm:"size:255;not null" json:"last_name"`
	Address        string    `gorm:"size:255;not null" json:"address"`
	PhoneNumber    string    `gorm:"size:50;not null" json:"phone_number"`
	BirthDate      time.Time `gorm:"type:date;not null" json:"birth_date"`
	MembershipDate time.Time `gorm:"type:date;not null" json:"membership_date"`
}

// Loan records a member borrowing a book on a date. ID is a storage
// surrogate and never leaves the service.
type Loan struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	BookID   uint      `gorm:"not null;index:idx_loans_book_member_date,priority:1" json:"book_id"`
	Book     Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	MemberID uint      `gorm:"not null;index:idx_loans_book_member_date,priority:2" json:"user_id"`
	Member   Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	LoanDate time.Time `gorm:"type:date;not null;index:idx_loans_book_member_date,priority:3" json:"loan_date"`
}

// All lists every persisted model in dependency order, for migrations.
func All() []any {
	return []any{&Author{}, &Publisher{}, &Book{}, &Member{}, &Loan{}}
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
