// Package repository defines the storage contract shared by the transient
// in-process store and the persisted store. Callers depend only on this
// interface; both backends must produce identical query results, identical
// ordering and identical consistency errors.
package repository

import (
	"errors"

	"github.com/mrlokans/catalog/internal/entities"
)

var (
	// ErrReviewNotAttached is returned by AddReview when the review is not
	// yet linked from both its account's and its item's review lists.
	ErrReviewNotAttached = errors.New("review not attached to both its account and item")

	// ErrReviewStillAttached is returned by RemoveReview when either
	// backlink has not been severed first.
	ErrReviewStillAttached = errors.New("review still attached to its account or item")
)

// Repository is the single surface the rest of the system talks to.
//
// Lookup misses return (nil, nil), never an error. Adding an entity that is
// already present by identity key is a no-op. Category filtering uses AND
// semantics: an item qualifies only when it carries every requested
// category, and an empty filter set yields an empty result.
type Repository interface {
	AddAccount(a *entities.Account) error
	GetAccount(username string) (*entities.Account, error)
	GetAllAccounts() ([]*entities.Account, error)

	AddItem(item *entities.Item) error
	GetItemByID(id uint) (*entities.Item, error)
	CountItems() (int, error)
	GetAllItems() ([]*entities.Item, error)
	GetItemsByCategories(categories []entities.Category) ([]*entities.Item, error)
	GetItemsByText(query string) ([]*entities.Item, error)

	AddCategory(c entities.Category) error
	GetCategory(name string) (*entities.Category, error)
	GetAllCategories() ([]entities.Category, error)

	AddVendor(v entities.Vendor) error
	GetAllVendors() ([]entities.Vendor, error)

	AddReview(r *entities.Review) error
	RemoveReview(r *entities.Review) error
	GetAllReviews() ([]*entities.Review, error)

	AddItemToWishlist(a *entities.Account, item *entities.Item) error
	RemoveItemFromWishlist(a *entities.Account, item *entities.Item) error
	GetWishlistItems(a *entities.Account) ([]*entities.Item, error)

	AddHistoryEntry(a *entities.Account, e entities.HistoryEntry) error
	GetAccountHistory(a *entities.Account) ([]entities.HistoryEntry, error)

	// SortAll re-establishes the canonical ordering of every collection.
	// The bulk loader calls it once after populating; backends that order
	// at query time treat it as a no-op.
	SortAll() error
}

// ValidateAttached enforces the backlink invariant for AddReview.
func ValidateAttached(r *entities.Review) error {
	if r == nil || !r.Attached() {
		return ErrReviewNotAttached
	}
	return nil
}

// ValidateDetached enforces the backlink invariant for RemoveReview.
func ValidateDetached(r *entities.Review) error {
	if r == nil || !r.Detached() {
		return ErrReviewStillAttached
	}
	return nil
}
