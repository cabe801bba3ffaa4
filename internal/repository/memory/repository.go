// Package memory implements the repository contract with plain in-process
// slices. Collections are re-sorted eagerly on every insert so reads never
// sort; the store is populated once at startup and mutated rarely after.
//
// The store carries no internal locking: it assumes a single writer per
// process. Deployments that need concurrent mutation must use the persisted
// store instead.
package memory

import (
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

// Repository is the transient backend.
type Repository struct {
	items      []*entities.Item
	categories []entities.Category
	vendors    []entities.Vendor
	accounts   []*entities.Account
	reviews    []*entities.Review

	// Monotonic, never reused after removal. Review identity falls back to
	// the id once assigned, so a freed id must not come back.
	nextReviewID uint
}

var _ repository.Repository = (*Repository)(nil)

// New creates an empty transient store.
func New() *Repository {
	return &Repository{}
}

func (r *Repository) AddAccount(a *entities.Account) error {
	if a == nil {
		return nil
	}
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return nil
		}
	}
	if a.ID == 0 {
		a.ID = uint(len(r.accounts) + 1)
	}
	a.EnsureWishlist()
	r.accounts = append(r.accounts, a)
	return nil
}

func (r *Repository) GetAccount(username string) (*entities.Account, error) {
	username = entities.NormalizeUsername(username)
	for _, a := range r.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (r *Repository) GetAllAccounts() ([]*entities.Account, error) {
	return copySlice(r.accounts), nil
}

func (r *Repository) AddItem(item *entities.Item) error {
	if item == nil {
		return nil
	}
	for _, existing := range r.items {
		if existing.ID == item.ID {
			return nil
		}
	}
	r.items = append(r.items, item)
	entities.SortItems(r.items)
	return nil
}

func (r *Repository) GetItemByID(id uint) (*entities.Item, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, nil
}

func (r *Repository) CountItems() (int, error) {
	return len(r.items), nil
}

// GetAllItems returns a copy of the item collection; callers may reorder or
// append to the result without disturbing the store's eager ordering.
func (r *Repository) GetAllItems() ([]*entities.Item, error) {
	return copySlice(r.items), nil
}

// GetItemsByCategories scans every item and keeps those carrying all of the
// requested categories. An empty filter set matches nothing.
func (r *Repository) GetItemsByCategories(categories []entities.Category) ([]*entities.Item, error) {
	hits := []*entities.Item{}
	if len(categories) == 0 {
		return hits, nil
	}
	for _, item := range r.items {
		matchesAll := true
		for _, c := range categories {
			if !item.HasCategory(c.Name) {
				matchesAll = false
				break
			}
		}
		if matchesAll {
			hits = append(hits, item)
		}
	}
	return hits, nil
}

func (r *Repository) GetItemsByText(query string) ([]*entities.Item, error) {
	hits := []*entities.Item{}
	for _, item := range r.items {
		if strings.Contains(item.Title, query) {
			hits = append(hits, item)
		}
	}
	return hits, nil
}

func (r *Repository) AddCategory(c entities.Category) error {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return nil
		}
	}
	if c.ID == 0 {
		c.ID = uint(len(r.categories) + 1)
	}
	r.categories = append(r.categories, c)
	entities.SortCategories(r.categories)
	return nil
}

func (r *Repository) GetCategory(name string) (*entities.Category, error) {
	for idx := range r.categories {
		if r.categories[idx].Name == name {
			return &r.categories[idx], nil
		}
	}
	return nil, nil
}

func (r *Repository) GetAllCategories() ([]entities.Category, error) {
	return copySlice(r.categories), nil
}

func (r *Repository) AddVendor(v entities.Vendor) error {
	for _, existing := range r.vendors {
		if existing.Name == v.Name {
			return nil
		}
	}
	if v.ID == 0 {
		v.ID = uint(len(r.vendors) + 1)
	}
	r.vendors = append(r.vendors, v)
	entities.SortVendors(r.vendors)
	return nil
}

func (r *Repository) GetAllVendors() ([]entities.Vendor, error) {
	return copySlice(r.vendors), nil
}

func (r *Repository) AddReview(review *entities.Review) error {
	for _, existing := range r.reviews {
		if existing == review {
			return nil
		}
	}
	if err := repository.ValidateAttached(review); err != nil {
		return err
	}
	if review.ID == 0 {
		r.nextReviewID++
		review.ID = r.nextReviewID
	} else if review.ID > r.nextReviewID {
		r.nextReviewID = review.ID
	}
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *Repository) RemoveReview(review *entities.Review) error {
	if err := repository.ValidateDetached(review); err != nil {
		return err
	}
	for idx, existing := range r.reviews {
		if existing == review {
			r.reviews = append(r.reviews[:idx], r.reviews[idx+1:]...)
			return nil
		}
	}
	return nil
}

func (r *Repository) GetAllReviews() ([]*entities.Review, error) {
	return copySlice(r.reviews), nil
}

func (r *Repository) AddItemToWishlist(a *entities.Account, item *entities.Item) error {
	a.EnsureWishlist().Add(item)
	return nil
}

func (r *Repository) RemoveItemFromWishlist(a *entities.Account, item *entities.Item) error {
	a.EnsureWishlist().Remove(item)
	return nil
}

func (r *Repository) GetWishlistItems(a *entities.Account) ([]*entities.Item, error) {
	return copySlice(a.EnsureWishlist().Items), nil
}

func (r *Repository) AddHistoryEntry(a *entities.Account, e entities.HistoryEntry) error {
	e.AccountID = a.ID
	a.History = append(a.History, e)
	return nil
}

func (r *Repository) GetAccountHistory(a *entities.Account) ([]entities.HistoryEntry, error) {
	history := make([]entities.HistoryEntry, len(a.History))
	copy(history, a.History)
	entities.SortHistory(history)
	return history, nil
}

func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (r *Repository) SortAll() error {
	entities.SortItems(r.items)
	entities.SortCategories(r.categories)
	entities.SortVendors(r.vendors)
	return nil
}
