package entities

import (
	"sort"
	"strings"
	"time"
)

// Account is a registered user. The username is normalized (lowercased,
// trimmed) once at construction time and acts as the identity key for
// every lookup.
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:128" json:"username"`
	PasswordHash string         `gorm:"size:256" json:"-"`
	Reviews      []*Review      `gorm:"foreignKey:AccountID" json:"-"`
	Wishlist     *Wishlist      `gorm:"foreignKey:AccountID" json:"-"`
	History      []HistoryEntry `gorm:"foreignKey:AccountID" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Wishlist holds an account's saved items. Each account owns at most one.
// Membership compares by item id, never by pointer.
type Wishlist struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	AccountID uint    `gorm:"uniqueIndex" json:"account_id"`
	Items     []*Item `gorm:"many2many:wishlist_items;" json:"items,omitempty"`
}

// HistoryEntry is one line of an account's append-only activity log.
type HistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index" json:"account_id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Entry     string    `gorm:"size:512" json:"entry"`
}

func (Account) TableName() string {
	return "accounts"
}

func (Wishlist) TableName() string {
	return "wishlists"
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}

// NormalizeUsername folds a raw username into its comparison key.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NewAccount creates an account with a normalized username and an already
// hashed credential. Accounts never store raw passwords.
func NewAccount(username, passwordHash string) *Account {
	return &Account{
		Username:     NormalizeUsername(username),
		PasswordHash: passwordHash,
		Wishlist:     &Wishlist{},
	}
}

// EnsureWishlist returns the account's wishlist, creating the empty one
// for accounts loaded without it.
func (a *Account) EnsureWishlist() *Wishlist {
	if a.Wishlist == nil {
		a.Wishlist = &Wishlist{AccountID: a.ID}
	}
	return a.Wishlist
}

// SortHistory orders history entries chronologically, oldest first.
func SortHistory(entries []HistoryEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp.Before(entries[b].Timestamp)
	})
}

// Contains reports wishlist membership by item id.
func (w *Wishlist) Contains(item *Item) bool {
	if item == nil {
		return false
	}
	for _, it := range w.Items {
		if it.ID == item.ID {
			return true
		}
	}
	return false
}

// Add puts an item on the wishlist. Adding an item already present is a
// no-op, so the wishlist stays duplicate-free.
func (w *Wishlist) Add(item *Item) {
	if item == nil || w.Contains(item) {
		return
	}
	w.Items = append(w.Items, item)
}

// Remove takes an item off the wishlist. Removing an absent item is a no-op.
func (w *Wishlist) Remove(item *Item) {
	if item == nil {
		return
	}
	for idx, it := range w.Items {
		if it.ID == item.ID {
			w.Items = append(w.Items[:idx], w.Items[idx+1:]...)
			return
		}
	}
}
