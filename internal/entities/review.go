package entities

import (
	"errors"
	"time"
)

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// Review is jointly referenced by exactly one account and one item.
// A review may only live in a store while both sides link back to it;
// LinkReview and UnlinkReview keep the two backlinks in step so callers
// never mutate them independently.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index" json:"account_id"`
	ItemID    uint      `gorm:"index" json:"item_id"`
	Rating    int       `json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Account   *Account  `gorm:"foreignKey:AccountID" json:"-"`
	Item      *Item     `gorm:"foreignKey:ItemID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// NewReview builds a review and links it into both the account's and the
// item's review lists in one step.
func NewReview(account *Account, item *Item, rating int, comment string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, ErrRatingOutOfRange
	}
	r := &Review{
		AccountID: account.ID,
		ItemID:    item.ID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
		Account:   account,
		Item:      item,
	}
	LinkReview(r)
	return r, nil
}

// LinkReview attaches the review to both its account and item. Linking an
// already linked review changes nothing.
func LinkReview(r *Review) {
	if r.Account != nil && !containsReview(r.Account.Reviews, r) {
		r.Account.Reviews = append(r.Account.Reviews, r)
	}
	if r.Item != nil && !containsReview(r.Item.Reviews, r) {
		r.Item.Reviews = append(r.Item.Reviews, r)
	}
}

// UnlinkReview severs both backlinks. The account and item references on
// the review itself stay set so a store can still tell which rows to touch.
func UnlinkReview(r *Review) {
	if r.Account != nil {
		r.Account.Reviews = removeReview(r.Account.Reviews, r)
	}
	if r.Item != nil {
		r.Item.Reviews = removeReview(r.Item.Reviews, r)
	}
}

// Attached reports whether both the owning account and item link back to
// this exact review.
func (r *Review) Attached() bool {
	return r.Account != nil && containsReview(r.Account.Reviews, r) &&
		r.Item != nil && containsReview(r.Item.Reviews, r)
}

// Detached reports whether both backlinks have been severed while the
// review still knows its account and item.
func (r *Review) Detached() bool {
	return r.Account != nil && !containsReview(r.Account.Reviews, r) &&
		r.Item != nil && !containsReview(r.Item.Reviews, r)
}

// sameReview compares review identity. Unsaved reviews (id zero) only ever
// equal themselves; once a review has a primary key, a reloaded copy with
// the same id is the same review.
func sameReview(a, b *Review) bool {
	if a == b {
		return true
	}
	return a != nil && b != nil && a.ID != 0 && a.ID == b.ID
}

func containsReview(reviews []*Review, r *Review) bool {
	for _, existing := range reviews {
		if sameReview(existing, r) {
			return true
		}
	}
	return false
}

func removeReview(reviews []*Review, r *Review) []*Review {
	for idx, existing := range reviews {
		if sameReview(existing, r) {
			return append(reviews[:idx], reviews[idx+1:]...)
		}
	}
	return reviews
}
