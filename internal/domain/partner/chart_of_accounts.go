package partner

import (
	"time"

	"github.com/fatura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChartSubcategory is a leaf of the two-level chart-of-accounts hierarchy.
// Payable accounts reference subcategories for expense classification.
type ChartSubcategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// ChartCategory is the top level of the chart of accounts and owns its
// subcategories.
type ChartCategory struct {
	shared.BaseAggregateRoot
	Name          string             `json:"name"`
	Subcategories []ChartSubcategory `json:"subcategories"`
}

// NewChartCategory creates a category with the given subcategory names
func NewChartCategory(name string, subcategoryNames []string) (*ChartCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	cat := &ChartCategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Subcategories:     make([]ChartSubcategory, 0, len(subcategoryNames)),
	}
	for _, sub := range subcategoryNames {
		if sub == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Subcategory name cannot be empty")
		}
		cat.Subcategories = append(cat.Subcategories, ChartSubcategory{
			ID:         uuid.New(),
			CategoryID: cat.ID,
			Name:       sub,
		})
	}
	return cat, nil
}

// SubcategoryInput is one entry of a submitted subcategory list. A nil ID
// means a new subcategory.
type SubcategoryInput struct {
	ID   *uuid.UUID
	Name string
}

// SyncSubcategories reconciles the category against a submitted list by id
// diff: entries with a known ID are renamed, entries without an ID are added,
// and existing subcategories absent from the list are removed. The IDs of the
// removed subcategories are returned so callers can refuse the removal of
// subcategories still referenced elsewhere.
func (c *ChartCategory) SyncSubcategories(name string, submitted []SubcategoryInput) ([]uuid.UUID, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	submittedByID := make(map[uuid.UUID]SubcategoryInput, len(submitted))
	for _, in := range submitted {
		if in.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Subcategory name cannot be empty")
		}
		if in.ID != nil {
			submittedByID[*in.ID] = in
		}
	}

	var removed []uuid.UUID
	kept := make([]ChartSubcategory, 0, len(submitted))
	for _, existing := range c.Subcategories {
		in, ok := submittedByID[existing.ID]
		if !ok {
			removed = append(removed, existing.ID)
			continue
		}
		existing.Name = in.Name
		kept = append(kept, existing)
	}
	for _, in := range submitted {
		if in.ID == nil {
			kept = append(kept, ChartSubcategory{
				ID:         uuid.New(),
				CategoryID: c.ID,
				Name:       in.Name,
			})
		}
	}

	c.Name = name
	c.Subcategories = kept
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return removed, nil
}
