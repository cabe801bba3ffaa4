package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository/memory"
)

func setupRepo(t *testing.T) (*memory.Repository, *entities.Account, *entities.Item) {
	t.Helper()
	repo := memory.New()
	item := &entities.Item{ID: 1, Title: "Portal", ReleaseDate: "Oct 10, 2007"}
	require.NoError(t, repo.AddItem(item))
	account := entities.NewAccount("alice", "hash")
	require.NoError(t, repo.AddAccount(account))
	return repo, account, item
}

func TestWriteReview(t *testing.T) {
	repo, account, item := setupRepo(t)

	review, err := WriteReview(repo, "alice", item.ID, 5, "a classic")
	require.NoError(t, err)

	assert.True(t, review.Attached())
	assert.Contains(t, account.Reviews, review)
	assert.Contains(t, item.Reviews, review)

	stored, err := repo.GetAllReviews()
	require.NoError(t, err)
	assert.Equal(t, []*entities.Review{review}, stored)

	history, err := repo.GetAccountHistory(account)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Created a 5/5 review for 'Portal'", history[0].Entry)
}

func TestWriteReview_UnknownItemAndAccount(t *testing.T) {
	repo, _, item := setupRepo(t)

	_, err := WriteReview(repo, "alice", 999, 5, "nope")
	assert.ErrorIs(t, err, ErrNoSuchItem)

	_, err = WriteReview(repo, "nobody", item.ID, 5, "nope")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestWriteReview_RatingOutOfRange(t *testing.T) {
	repo, account, item := setupRepo(t)

	_, err := WriteReview(repo, "alice", item.ID, 6, "too much")
	assert.ErrorIs(t, err, entities.ErrRatingOutOfRange)
	assert.Empty(t, account.Reviews)
}

// failingReviewRepo rejects every review, simulating a storage failure.
type failingReviewRepo struct {
	*memory.Repository
	err error
}

func (r *failingReviewRepo) AddReview(*entities.Review) error {
	return r.err
}

func TestWriteReview_NoHistoryOnStoreFailure(t *testing.T) {
	repo, account, item := setupRepo(t)
	failing := &failingReviewRepo{Repository: repo, err: errors.New("disk full")}

	_, err := WriteReview(failing, "alice", item.ID, 4, "lost")
	require.Error(t, err)

	// The failed write must leave no trace: no history line, no backlinks.
	history, err := repo.GetAccountHistory(account)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, account.Reviews)
	assert.Empty(t, item.Reviews)
}

func TestRemoveReview(t *testing.T) {
	repo, account, item := setupRepo(t)
	review, err := WriteReview(repo, "alice", item.ID, 4, "good")
	require.NoError(t, err)

	require.NoError(t, RemoveReview(repo, review))

	assert.Empty(t, account.Reviews)
	assert.Empty(t, item.Reviews)
	stored, err := repo.GetAllReviews()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestItemReviewsAndAverageRating(t *testing.T) {
	repo, _, item := setupRepo(t)
	require.NoError(t, repo.AddAccount(entities.NewAccount("bob", "hash")))
	other := &entities.Item{ID: 2, Title: "Other", ReleaseDate: "Jan 1, 2020"}
	require.NoError(t, repo.AddItem(other))

	_, err := WriteReview(repo, "alice", item.ID, 5, "great")
	require.NoError(t, err)
	_, err = WriteReview(repo, "bob", item.ID, 2, "meh")
	require.NoError(t, err)
	_, err = WriteReview(repo, "alice", other.ID, 1, "bad")
	require.NoError(t, err)

	reviews, err := ItemReviews(repo, item.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	avg, err := AverageRating(repo, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, avg)

	// Rounded to two decimal places: (5+2+2)/3 = 3.0.
	_, err = WriteReview(repo, "bob", item.ID, 2, "still meh")
	require.NoError(t, err)
	avg, err = AverageRating(repo, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)

	empty, err := AverageRating(repo, 999)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty)
}

func TestWishlistToggle(t *testing.T) {
	repo, account, item := setupRepo(t)

	in, err := InWishlist(repo, "alice", item.ID)
	require.NoError(t, err)
	assert.False(t, in)

	require.NoError(t, AddToWishlist(repo, "alice", item.ID))

	in, err = InWishlist(repo, "alice", item.ID)
	require.NoError(t, err)
	assert.True(t, in)

	items, err := WishlistItems(repo, "alice")
	require.NoError(t, err)
	assert.Equal(t, []*entities.Item{item}, items)

	require.NoError(t, RemoveFromWishlist(repo, "alice", item.ID))

	in, err = InWishlist(repo, "alice", item.ID)
	require.NoError(t, err)
	assert.False(t, in)

	history, err := repo.GetAccountHistory(account)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Added 'Portal' to wishlist", history[0].Entry)
	assert.Equal(t, "Removed 'Portal' from wishlist", history[1].Entry)
}

func TestWishlist_UnknownAccountOrItem(t *testing.T) {
	repo, _, item := setupRepo(t)

	assert.ErrorIs(t, AddToWishlist(repo, "nobody", item.ID), ErrUnknownAccount)
	assert.ErrorIs(t, AddToWishlist(repo, "alice", 999), ErrNoSuchItem)

	in, err := InWishlist(repo, "nobody", item.ID)
	require.NoError(t, err)
	assert.False(t, in)
}

func TestRecentHistory(t *testing.T) {
	repo, _, item := setupRepo(t)
	require.NoError(t, AddToWishlist(repo, "alice", item.ID))
	require.NoError(t, RemoveFromWishlist(repo, "alice", item.ID))
	_, err := WriteReview(repo, "alice", item.ID, 3, "fine")
	require.NoError(t, err)

	history, err := RecentHistory(repo, "alice", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Removed 'Portal' from wishlist", history[0].Entry)
	assert.Equal(t, "Created a 3/5 review for 'Portal'", history[1].Entry)

	all, err := RecentHistory(repo, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = RecentHistory(repo, "nobody", 5)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}
