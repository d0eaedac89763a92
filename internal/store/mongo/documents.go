package mongo

import (
	"time"

	"fintrack/internal/core"
)

// Document shapes with bson tags, kept separate from the core types so
// the domain package stays free of driver concerns. Occurrence dates are
// stored as epoch milliseconds like the record timestamps.
type (
	transactionDoc struct {
		ID           string  `bson:"_id"`
		UserID       string  `bson:"userId"`
		Title        string  `bson:"title"`
		Amount       float64 `bson:"amount"`
		Kind         string  `bson:"kind"`
		CategoryID   string  `bson:"categoryId"`
		CategoryName string  `bson:"categoryName"`
		CategoryIcon string  `bson:"categoryIcon"`
		Description  string  `bson:"description"`
		OccurredAt   int64   `bson:"occurredAt"`
		CreatedAt    int64   `bson:"createdAt"`
		UpdatedAt    int64   `bson:"updatedAt"`
	}

	categoryDoc struct {
		ID         string  `bson:"_id"`
		UserID     string  `bson:"userId"`
		Name       string  `bson:"name"`
		Percentage float64 `bson:"percentage"`
		Amount     float64 `bson:"amount"`
		Spent      float64 `bson:"spent"`
		Icon       string  `bson:"icon"`
		Color      string  `bson:"color"`
		Period     string  `bson:"period"`
		Default    bool    `bson:"isDefault"`
		CreatedAt  int64   `bson:"createdAt"`
		UpdatedAt  int64   `bson:"updatedAt"`
	}

	profileDoc struct {
		ID            string `bson:"_id"`
		Name          string `bson:"name"`
		Email         string `bson:"email"`
		Avatar        string `bson:"avatar"`
		Currency      string `bson:"currency"`
		Theme         string `bson:"theme"`
		Notifications bool   `bson:"notifications"`
		CreatedAt     int64  `bson:"createdAt"`
		UpdatedAt     int64  `bson:"updatedAt"`
	}
)

func newTransactionDoc(tx core.Transaction) transactionDoc {
	return transactionDoc{
		ID:           tx.ID,
		UserID:       tx.UserID,
		Title:        tx.Title,
		Amount:       tx.Amount,
		Kind:         string(tx.Kind),
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		CategoryIcon: tx.CategoryIcon,
		Description:  tx.Description,
		OccurredAt:   tx.OccurredAt.UnixMilli(),
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}

func (d transactionDoc) toCore() core.Transaction {
	return core.Transaction{
		ID:           d.ID,
		UserID:       d.UserID,
		Title:        d.Title,
		Amount:       d.Amount,
		Kind:         core.Kind(d.Kind),
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		CategoryIcon: d.CategoryIcon,
		Description:  d.Description,
		OccurredAt:   time.UnixMilli(d.OccurredAt).UTC(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func newCategoryDoc(cat core.Category) categoryDoc {
	return categoryDoc{
		ID:         cat.ID,
		UserID:     cat.UserID,
		Name:       cat.Name,
		Percentage: cat.Percentage,
		Amount:     cat.Amount,
		Spent:      cat.Spent,
		Icon:       cat.Icon,
		Color:      cat.Color,
		Period:     string(cat.Period),
		Default:    cat.Default,
		CreatedAt:  cat.CreatedAt,
		UpdatedAt:  cat.UpdatedAt,
	}
}

func (d categoryDoc) toCore() core.Category {
	return core.Category{
		ID:         d.ID,
		UserID:     d.UserID,
		Name:       d.Name,
		Percentage: d.Percentage,
		Amount:     d.Amount,
		Spent:      d.Spent,
		Icon:       d.Icon,
		Color:      d.Color,
		Period:     core.Period(d.Period),
		Default:    d.Default,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func newProfileDoc(p core.Profile) profileDoc {
	return profileDoc{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Avatar:        p.Avatar,
		Currency:      p.Currency,
		Theme:         p.Theme,
		Notifications: p.Notifications,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (d profileDoc) toCore() core.Profile {
	return core.Profile{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		Avatar:        d.Avatar,
		Currency:      d.Currency,
		Theme:         d.Theme,
		Notifications: d.Notifications,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
