// Package services holds the use-cases the web layer calls: writing and
// removing reviews, wishlist membership, and activity history. Every
// function takes the repository handle explicitly; there is no package
// level store.
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

var (
	ErrNoSuchItem     = errors.New("no such item")
	ErrUnknownAccount = errors.New("unknown account")
)

// WriteReview creates a review, links it into both the account's and the
// item's review lists, records a history line and persists it — one call
// instead of three steps the caller would have to sequence correctly.
func WriteReview(repo repository.Repository, username string, itemID uint, rating int, comment string) (*entities.Review, error) {
	item, err := repo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNoSuchItem
	}

	account, err := repo.GetAccount(username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}

	review, err := entities.NewReview(account, item, rating, comment)
	if err != nil {
		return nil, err
	}

	if err := repo.AddReview(review); err != nil {
		entities.UnlinkReview(review)
		return nil, err
	}

	// History records the review only once it is actually stored.
	entry := entities.HistoryEntry{
		Timestamp: time.Now(),
		Entry:     fmt.Sprintf("Created a %d/5 review for '%s'", rating, item.Title),
	}
	if err := repo.AddHistoryEntry(account, entry); err != nil {
		return nil, err
	}
	return review, nil
}

// RemoveReview unlinks the review from both owners and removes it from the
// store as a single operation.
func RemoveReview(repo repository.Repository, review *entities.Review) error {
	entities.UnlinkReview(review)
	return repo.RemoveReview(review)
}

// ItemReviews returns every stored review for the given item.
func ItemReviews(repo repository.Repository, itemID uint) ([]*entities.Review, error) {
	all, err := repo.GetAllReviews()
	if err != nil {
		return nil, err
	}
	reviews := []*entities.Review{}
	for _, r := range all {
		if r.ItemID == itemID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

// AverageRating computes the item's mean rating rounded to two decimal
// places. An item without reviews averages zero.
func AverageRating(repo repository.Repository, itemID uint) (float64, error) {
	reviews, err := ItemReviews(repo, itemID)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*100) / 100, nil
}
