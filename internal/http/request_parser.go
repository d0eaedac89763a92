package http

import (
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

// transactionRequest is the JSON body for creating or updating a
// transaction. Amount is a string so locale input ("12,50") survives
// the trip; it is parsed with the shared decimal parser.
type transactionRequest struct {
	Title        string `json:"title"`
	Amount       string `json:"amount"`
	Kind         string `json:"kind"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	CategoryIcon string `json:"category_icon"`
	Description  string `json:"description"`
	OccurredAt   string `json:"occurred_at"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: amount %q", core.ErrInvalidAmount, req.Amount)
	}

	occurredAt := time.Now().UTC()
	if strings.TrimSpace(req.OccurredAt) != "" {
		occurredAt, err = time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("%w: occurred_at %q, want YYYY-MM-DD", core.ErrInvalidArgument, req.OccurredAt)
		}
	}

	return core.Transaction{
		Title:        strings.TrimSpace(req.Title),
		Amount:       amount,
		Kind:         core.Kind(req.Kind),
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		CategoryIcon: req.CategoryIcon,
		Description:  strings.TrimSpace(req.Description),
		OccurredAt:   occurredAt,
	}, nil
}

// categoryRequest is the JSON body for adding a budget category.
type categoryRequest struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
	Period     string `json:"period"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
}

func (req categoryRequest) toCategory() (core.Category, error) {
	percentage, err := core.ParsePercentage(req.Percentage)
	if err != nil {
		return core.Category{}, fmt.Errorf("%w: percentage %q", err, req.Percentage)
	}
	if percentage < 0 || percentage > 100 {
		return core.Category{}, fmt.Errorf("%w: %v", core.ErrPercentageRange, percentage)
	}

	return core.Category{
		Name:       strings.TrimSpace(req.Name),
		Percentage: percentage,
		Period:     core.Period(req.Period),
		Icon:       req.Icon,
		Color:      req.Color,
	}, nil
}

// previewRequest asks what the split would look like after setting one
// category's percentage. Nothing is persisted.
type previewRequest struct {
	CategoryID string `json:"category_id"`
	Percentage string `json:"percentage"`
}

// splitRequest is the JSON body for saving a full split. Every item
// must reference an existing category.
type splitRequest struct {
	Items []splitItem `json:"items"`
}

type splitItem struct {
	ID         string  `json:"id"`
	Percentage float64 `json:"percentage"`
}

// apply overlays the requested percentages onto the stored categories.
// Items referencing unknown categories fail with core.ErrNotFound.
func (req splitRequest) apply(cats []core.Category) ([]core.Category, error) {
	byID := make(map[string]int, len(cats))
	for i, c := range cats {
		byID[c.ID] = i
	}

	out := make([]core.Category, len(cats))
	copy(out, cats)
	for _, item := range req.Items {
		i, ok := byID[item.ID]
		if !ok {
			return nil, fmt.Errorf("%w: category %s", core.ErrNotFound, item.ID)
		}
		out[i].Percentage = item.Percentage
	}
	return out, nil
}

// profileRequest is the JSON body for updating the account profile.
type profileRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Avatar        string `json:"avatar"`
	Currency      string `json:"currency"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}
