package services

import (
	"fmt"
	"time"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

// InWishlist reports whether the named account has the item wishlisted.
// Unknown accounts simply aren't watching anything.
func InWishlist(repo repository.Repository, username string, itemID uint) (bool, error) {
	account, err := repo.GetAccount(username)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	items, err := repo.GetWishlistItems(account)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.ID == itemID {
			return true, nil
		}
	}
	return false, nil
}

// AddToWishlist puts the item on the account's wishlist and records the
// action in the account's history.
func AddToWishlist(repo repository.Repository, username string, itemID uint) error {
	account, item, err := resolve(repo, username, itemID)
	if err != nil {
		return err
	}
	if err := repo.AddItemToWishlist(account, item); err != nil {
		return err
	}
	return repo.AddHistoryEntry(account, entities.HistoryEntry{
		Timestamp: time.Now(),
		Entry:     fmt.Sprintf("Added '%s' to wishlist", item.Title),
	})
}

// RemoveFromWishlist takes the item off the account's wishlist and records
// the action in the account's history.
func RemoveFromWishlist(repo repository.Repository, username string, itemID uint) error {
	account, item, err := resolve(repo, username, itemID)
	if err != nil {
		return err
	}
	if err := repo.RemoveItemFromWishlist(account, item); err != nil {
		return err
	}
	return repo.AddHistoryEntry(account, entities.HistoryEntry{
		Timestamp: time.Now(),
		Entry:     fmt.Sprintf("Removed '%s' from wishlist", item.Title),
	})
}

// WishlistItems returns the account's wishlisted items.
func WishlistItems(repo repository.Repository, username string) ([]*entities.Item, error) {
	account, err := repo.GetAccount(username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}
	return repo.GetWishlistItems(account)
}

// RecentHistory returns the newest n history entries in chronological
// order (oldest of the n first), matching how the profile page shows them.
func RecentHistory(repo repository.Repository, username string, n int) ([]entities.HistoryEntry, error) {
	account, err := repo.GetAccount(username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}
	history, err := repo.GetAccountHistory(account)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	return history, nil
}

func resolve(repo repository.Repository, username string, itemID uint) (*entities.Account, *entities.Item, error) {
	account, err := repo.GetAccount(username)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, ErrUnknownAccount
	}
	item, err := repo.GetItemByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrNoSuchItem
	}
	return account, item, nil
}
