package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"

	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	// Period selects the trailing spend window of a budget category.
	Period string

	// Transaction is an immutable money movement. Edits are full-record
	// replacements; the category reference is denormalized for display
	// and keeps the old name if the category is later renamed.
	Transaction struct {
		ID           string
		UserID       string
		Title        string
		Amount       float64
		Kind         Kind
		CategoryID   string
		CategoryName string
		CategoryIcon string
		Description  string
		OccurredAt   time.Time // calendar date of the movement, not the record timestamp
		CreatedAt    int64     // epoch milliseconds
		UpdatedAt    int64
	}

	// Category is a budget allocation. Percentage is the source of truth;
	// Amount and Spent are caches recomputed against the live transaction set.
	Category struct {
		ID         string
		UserID     string
		Name       string
		Percentage float64
		Amount     float64
		Spent      float64
		Icon       string
		Color      string
		Period     Period
		Default    bool
		CreatedAt  int64
		UpdatedAt  int64
	}

	// Profile is the singleton per-account record, created on first access.
	Profile struct {
		ID            string
		Name          string
		Email         string
		Avatar        string
		Currency      string
		Theme         string
		Notifications bool
		CreatedAt     int64
		UpdatedAt     int64
	}
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrProtectedEntity  = errors.New("protected entity")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStoreFailure     = errors.New("store failure")

	ErrEmptyTitle        = errors.New("empty title")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidPeriod     = errors.New("invalid budget period")
	ErrEmptyCategoryName = errors.New("empty category name")
	ErrPercentageRange   = errors.New("percentage must be between 0 and 100")
	ErrInvalidAmount     = errors.New("invalid amount")
)

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (p Period) Validate() error {
	switch p {
	case Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.OccurredAt.IsZero() {
		return errors.New("occurrence date cannot be zero")
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyCategoryName
	}
	if c.Percentage < 0 || c.Percentage > 100 {
		return ErrPercentageRange
	}
	if err := c.Period.Validate(); err != nil {
		return err
	}
	return nil
}
