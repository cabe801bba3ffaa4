// Command generate_demo creates a demo catalog database with a handful of
// well-known games, demo accounts, reviews and wishlists.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository/database"
	"github.com/mrlokans/catalog/internal/services"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	repo, err := database.New(*dbPath, false)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer repo.Close()

	for _, item := range getDemoItems() {
		if err := repo.AddItem(item); err != nil {
			log.Printf("Failed to save item %s: %v", item.Title, err)
			continue
		}
		log.Printf("Saved: %s (%s)", item.Title, item.ReleaseDate)
	}

	accounts := createAccounts(repo)

	addReviews(repo)
	addWishlists(repo, accounts)

	log.Println("Demo database generated successfully!")
}

func getDemoItems() []*entities.Item {
	return []*entities.Item{
		{
			ID:          1,
			Title:       "Portal 2",
			Price:       9.99,
			ReleaseDate: "Apr 18, 2011",
			Description: "Physics puzzles with a portal gun and a passive-aggressive AI.",
			Vendor:      &entities.Vendor{Name: "Valve"},
			Categories:  []entities.Category{{Name: "Puzzle"}, {Name: "Action"}},
		},
		{
			ID:          2,
			Title:       "Outer Wilds",
			Price:       24.99,
			ReleaseDate: "May 28, 2019",
			Description: "A solar system trapped in a twenty-two minute time loop.",
			Vendor:      &entities.Vendor{Name: "Annapurna Interactive"},
			Categories:  []entities.Category{{Name: "Adventure"}},
		},
		{
			ID:          3,
			Title:       "Factorio",
			Price:       35.00,
			ReleaseDate: "Aug 14, 2020",
			Description: "The factory must grow.",
			Vendor:      &entities.Vendor{Name: "Wube Software"},
			Categories:  []entities.Category{{Name: "Builder"}, {Name: "Strategy"}},
		},
		{
			ID:          4,
			Title:       "Hades",
			Price:       24.99,
			ReleaseDate: "Sep 17, 2020",
			Description: "Escape the underworld, one run at a time.",
			Vendor:      &entities.Vendor{Name: "Supergiant Games"},
			Categories:  []entities.Category{{Name: "Action"}, {Name: "Roguelike"}},
		},
		{
			ID:          5,
			Title:       "Stardew Valley",
			Price:       14.99,
			ReleaseDate: "Feb 26, 2016",
			Description: "Inherit a farm, befriend a town.",
			Vendor:      &entities.Vendor{Name: "ConcernedApe"},
			Categories:  []entities.Category{{Name: "Builder"}, {Name: "Adventure"}},
		},
		{
			ID:          6,
			Title:       "Half-Life 2",
			Price:       9.99,
			ReleaseDate: "Nov 16, 2004",
			Description: "Gravity gun included.",
			Vendor:      &entities.Vendor{Name: "Valve"},
			Categories:  []entities.Category{{Name: "Action"}},
		},
	}
}

func createAccounts(repo *database.Repository) []*entities.Account {
	credentials := []struct{ username, password string }{
		{"demo", "demo-password"},
		{"reviewer", "reviewer-password"},
	}

	var accounts []*entities.Account
	for _, c := range credentials {
		hash, err := auth.HashPassword(c.password, bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password for %s: %v", c.username, err)
			continue
		}
		account := entities.NewAccount(c.username, hash)
		if err := repo.AddAccount(account); err != nil {
			log.Printf("Failed to create account %s: %v", c.username, err)
			continue
		}
		log.Printf("Created account: %s", account.Username)
		accounts = append(accounts, account)
	}
	return accounts
}

func addReviews(repo *database.Repository) {
	reviews := []struct {
		username string
		itemID   uint
		rating   int
		comment  string
	}{
		{"demo", 1, 5, "Still the best co-op puzzler around."},
		{"demo", 2, 5, "Went in blind, came out changed."},
		{"reviewer", 3, 4, "Lost three weekends to this. Worth it."},
		{"reviewer", 4, 5, "Every death teaches you something."},
		{"reviewer", 6, 4, "Aged remarkably well."},
	}

	for _, r := range reviews {
		if _, err := services.WriteReview(repo, r.username, r.itemID, r.rating, r.comment); err != nil {
			log.Printf("Failed to add review for item %d: %v", r.itemID, err)
			continue
		}
		log.Printf("Added %d/5 review for item %d by %s", r.rating, r.itemID, r.username)
	}
}

func addWishlists(repo *database.Repository, accounts []*entities.Account) {
	wishlisted := map[string][]uint{
		"demo":     {3, 4},
		"reviewer": {2, 5},
	}

	for _, account := range accounts {
		for _, itemID := range wishlisted[account.Username] {
			if err := services.AddToWishlist(repo, account.Username, itemID); err != nil {
				log.Printf("Failed to wishlist item %d for %s: %v", itemID, account.Username, err)
			}
		}
	}
}
