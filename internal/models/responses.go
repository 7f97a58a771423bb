package models

// Response shapes. Field order is the JSON key order clients see.

type BookInfo struct {
	Title             string `json:"title"`
	Author            string `json:"author"`
	PublishingCompany string `json:"publishing_company"`
	PublishingYear    int    `json:"publishing_year"`
	Cover             string `json:"cover"`
}

// DetailedBookInfo is BookInfo followed by the book's loan history.
type DetailedBookInfo struct {
	BookInfo
	Loans []LoanInfo `json:"loans"`
}

type LoanInfo struct {
	UserID   uint   `json:"user_id"`
	LoanDate string `json:"loan_date"`
}

type BookSummary struct {
	BookID            uint   `json:"book_id"`
	Title             string `json:"title"`
	PublishingYear    int    `json:"publishing_year"`
	Author            string `json:"author"`
	PublishingCompany string `json:"publishing_company"`
}

type UserInfo struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Address        string `json:"address"`
	PhoneNumber    string `json:"phone_number"`
	BirthDate      string `json:"birth_date"`
	MembershipDate string `json:"membership_date"`
}
