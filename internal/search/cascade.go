// Package search implements the catalog's filter cascade and the page
// slicing helper used by listing endpoints.
package search

import (
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

// Cascade filters the catalog in a fixed order: categories first (AND
// semantics, handled by the store), then vendors, then a case-sensitive
// substring match on the title. The text predicate is the most expensive
// per item, so it runs last over the smallest candidate set.
func Cascade(repo repository.Repository, categories []entities.Category, vendors []string, query string) ([]*entities.Item, error) {
	var (
		items []*entities.Item
		err   error
	)
	if len(categories) == 0 {
		items, err = repo.GetAllItems()
	} else {
		items, err = repo.GetItemsByCategories(categories)
	}
	if err != nil {
		return nil, err
	}

	if len(vendors) > 0 {
		wanted := make(map[string]bool, len(vendors))
		for _, name := range vendors {
			wanted[name] = true
		}
		filtered := items[:0:0]
		for _, item := range items {
			if item.Vendor != nil && wanted[item.Vendor.Name] {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if query != "" {
		filtered := items[:0:0]
		for _, item := range items {
			if strings.Contains(item.Title, query) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if items == nil {
		items = []*entities.Item{}
	}
	return items, nil
}
