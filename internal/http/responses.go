package http

import (
	"fintrack/internal/core"
	"fintrack/internal/services"
)

type transactionResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	Kind         string  `json:"kind"`
	CategoryID   string  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	CategoryIcon string  `json:"category_icon,omitempty"`
	Description  string  `json:"description,omitempty"`
	OccurredAt   string  `json:"occurred_at"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

func newTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		Title:        tx.Title,
		Amount:       tx.Amount,
		Kind:         string(tx.Kind),
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		CategoryIcon: tx.CategoryIcon,
		Description:  tx.Description,
		OccurredAt:   tx.OccurredAt.UTC().Format("2006-01-02"),
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}

func newTransactionList(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionResponse(tx))
	}
	return out
}

type categoryResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Icon       string  `json:"icon,omitempty"`
	Color      string  `json:"color,omitempty"`
	Period     string  `json:"period"`
	Default    bool    `json:"default"`
}

func newCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		Percentage: c.Percentage,
		Amount:     c.Amount,
		Spent:      c.Spent,
		Remaining:  c.Amount - c.Spent,
		Icon:       c.Icon,
		Color:      c.Color,
		Period:     string(c.Period),
		Default:    c.Default,
	}
}

func newCategoryList(cats []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, newCategoryResponse(c))
	}
	return out
}

type summaryResponse struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
}

func newSummaryResponse(s services.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Net:          s.Net,
	}
}

type previewResponse struct {
	Categories []categoryResponse `json:"categories"`
	Sum        float64            `json:"sum"`
	Savable    bool               `json:"savable"`
}

func newPreviewResponse(p services.SplitPreview) previewResponse {
	return previewResponse{
		Categories: newCategoryList(p.Categories),
		Sum:        p.Sum,
		Savable:    p.Savable,
	}
}

type profileResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Currency      string `json:"currency"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

func newProfileResponse(p core.Profile) profileResponse {
	return profileResponse{
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
