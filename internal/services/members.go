package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"library-api/internal/logging"
	"library-api/internal/models"
	"library-api/internal/passwords"
	"library-api/internal/repositories"
)

// NewUser is the input of CreateUser. BirthDate is YYYY-MM-DD.
type NewUser struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address     string
	PhoneNumber string
	BirthDate   string
}

// UserUpdate holds the member fields to change. Nil fields stay untouched.
type UserUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	Address     *string
	PhoneNumber *string
	BirthDate   *string
}

// columns maps the supplied fields onto member columns.
func (u UserUpdate) columns() (map[string]any, error) {
	fields := []struct {
		column string
		value  *string
	}{
		{"email", u.Email},
		{"first_name", u.FirstName},
		{"last_name", u.LastName},
		{"address", u.Address},
		{"phone_number", u.PhoneNumber},
		{"birth_date", u.BirthDate},
	}

	columns := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.value == nil || *f.value == "" {
			continue
		}
		if f.column == "birth_date" {
			date, err := models.ParseDate(*f.value)
			if err != nil {
				return nil, ErrInvalidInput
			}
			columns[f.column] = date
			continue
		}
		columns[f.column] = *f.value
	}
	return columns, nil
}

func (s *libraryService) GetUser(ctx context.Context, id uint) (*models.UserInfo, error) {
	member, err := s.memberRepo.GetByID(s.session(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	return &models.UserInfo{
		Email:          member.Email,
		FirstName:      member.FirstName,
		LastName:       member.LastName,
		Address:        member.Address,
		PhoneNumber:    member.PhoneNumber,
		BirthDate:      models.FormatDate(member.BirthDate),
		MembershipDate: models.FormatDate(member.MembershipDate),
	}, nil
}

// CreateUser registers a member. The membership date is today.
func (s *libraryService) CreateUser(ctx context.Context, in NewUser) (uint, error) {
	logger := logging.FromContext(ctx)

	if !passwords.ValidFormat(in.Password) {
		return 0, ErrInvalidPasswordFormat
	}
	birthDate, err := models.ParseDate(in.BirthDate)
	if err != nil {
		return 0, ErrInvalidInput
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, passwords.ErrTooLong) {
			return 0, ErrInvalidPasswordFormat
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	member := &models.Member{
		Email:          in.Email,
		Password:       stored,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Address:        in.Address,
		PhoneNumber:    in.PhoneNumber,
		BirthDate:      birthDate,
		MembershipDate: s.today(),
	}

	err = s.session(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.memberRepo.CountByEmail(tx, in.Email)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrUserAlreadyExists
		}

		rows, err := s.memberRepo.Create(tx, member)
		if err != nil {
			if repositories.IsUniqueViolation(err) {
				return ErrUserAlreadyExists
			}
			logger.Error("failed to insert user", slog.Any("error", err))
			return err
		}
		if rows == 0 {
			return ErrUserNotInserted
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("user created", slog.Uint64("user_id", uint64(member.ID)))
	return member.ID, nil
}

// UpdateUser changes only the supplied fields of a member.
func (s *libraryService) UpdateUser(ctx context.Context, id uint, in UserUpdate) error {
	columns, err := in.columns()
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return ErrInvalidInput
	}

	rows, err := s.memberRepo.Update(s.session(ctx), id, columns)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("update user %d: %w", id, err)
	}
	if rows == 0 {
		return ErrUserNotUpdated
	}

	logging.FromContext(ctx).Info("user updated",
		slog.Uint64("user_id", uint64(id)),
		slog.Int("fields", len(columns)))
	return nil
}

// DeleteUser removes a member's loans and then the member, in one transaction.
func (s *libraryService) DeleteUser(ctx context.Context, id uint) error {
	var loansDeleted int64
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.loanRepo.DeleteByMember(tx, id)
		if err != nil {
			return err
		}
		loansDeleted = n

		rows, err := s.memberRepo.Delete(tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrUserNotDeleted
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("user deleted",
		slog.Uint64("user_id", uint64(id)),
		slog.Int64("loans_deleted", loansDeleted))
	return nil
}

// Login returns the id of the member with the given credentials.
func (s *libraryService) Login(ctx context.Context, email, password string) (uint, error) {
	var (
		member *models.Member
		err    error
	)
	if s.hasher.Plaintext() {
		member, err = s.memberRepo.GetByCredentials(s.session(ctx), email, password)
	} else {
		member, err = s.memberRepo.GetByEmail(s.session(ctx), email)
		if err == nil && !s.hasher.Compare(member.Password, password) {
			err = gorm.ErrRecordNotFound
		}
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrWrongCredentials
		}
		return 0, fmt.Errorf("login: %w", err)
	}
	return member.ID, nil
}
