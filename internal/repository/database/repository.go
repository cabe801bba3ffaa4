// Package database implements the repository contract on top of GORM and
// SQLite. Every mutation runs inside its own transaction so the scope
// commits on success and rolls back on any error path. Reads translate
// gorm.ErrRecordNotFound into (nil, nil); every other storage failure
// propagates wrapped.
package database

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

// Repository is the persisted backend.
type Repository struct {
	db *gorm.DB
}

var _ repository.Repository = (*Repository)(nil)

// New opens (or creates) the SQLite database at path and migrates the
// schema. The echo flag switches the SQL logger between Info and Silent.
func New(path string, echo bool) (*Repository, error) {
	level := logger.Silent
	if echo {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) migrate() error {
	err := r.db.AutoMigrate(
		&entities.Vendor{},
		&entities.Category{},
		&entities.Item{},
		&entities.Account{},
		&entities.Review{},
		&entities.Wishlist{},
		&entities.HistoryEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Reset drops every table, including the many-to-many join tables, and
// recreates the schema empty. Used for test and first-run reinitialization
// before the bulk loader repopulates the store.
func (r *Repository) Reset() error {
	err := r.db.Migrator().DropTable(
		"item_categories",
		"wishlist_items",
		&entities.Review{},
		&entities.HistoryEntry{},
		&entities.Wishlist{},
		&entities.Account{},
		&entities.Item{},
		&entities.Category{},
		&entities.Vendor{},
	)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return r.migrate()
}

// SQLDB exposes the underlying *sql.DB, needed by the session store.
func (r *Repository) SQLDB() (*sql.DB, error) {
	return r.db.DB()
}

// Close closes the underlying connection.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) AddAccount(a *entities.Account) error {
	if a == nil {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Account{}).Where("username = ?", a.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		a.EnsureWishlist()
		return tx.Create(a).Error
	})
}

func (r *Repository) GetAccount(username string) (*entities.Account, error) {
	var a entities.Account
	err := r.db.
		Preload("Reviews").
		Preload("Wishlist").
		Preload("Wishlist.Items").
		Preload("History").
		Where("username = ?", entities.NormalizeUsername(username)).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &a, nil
}

func (r *Repository) GetAllAccounts() ([]*entities.Account, error) {
	var accounts []*entities.Account
	if err := r.db.Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return accounts, nil
}

func (r *Repository) AddItem(item *entities.Item) error {
	if item == nil {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Item{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if item.Vendor != nil {
			var v entities.Vendor
			if err := tx.Where(entities.Vendor{Name: item.Vendor.Name}).FirstOrCreate(&v).Error; err != nil {
				return err
			}
			item.VendorID = &v.ID
		}

		if err := tx.Omit("Categories", "Vendor", "Reviews").Create(item).Error; err != nil {
			return err
		}

		// Resolve categories by name so repeated loads reuse existing rows
		// instead of inserting duplicates.
		for idx := range item.Categories {
			var c entities.Category
			if err := tx.Where(entities.Category{Name: item.Categories[idx].Name}).FirstOrCreate(&c).Error; err != nil {
				return err
			}
			if err := tx.Exec(
				"INSERT OR IGNORE INTO item_categories (item_id, category_id) VALUES (?, ?)",
				item.ID, c.ID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetItemByID(id uint) (*entities.Item, error) {
	var item entities.Item
	err := r.db.
		Preload("Categories").
		Preload("Vendor").
		Preload("Reviews").
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return &item, nil
}

func (r *Repository) CountItems() (int, error) {
	var count int64
	if err := r.db.Model(&entities.Item{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return int(count), nil
}

// GetAllItems orders at the SQL level first, then re-sorts in memory on the
// parsed dates. The release date column is a formatted string, so the
// engine's native ordering is not trustworthy for newest-first semantics.
func (r *Repository) GetAllItems() ([]*entities.Item, error) {
	var items []*entities.Item
	err := r.db.
		Preload("Categories").
		Preload("Vendor").
		Order("release_date").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	entities.SortItems(items)
	return items, nil
}

// GetItemsByCategories narrows progressively: one membership predicate per
// requested category, so only items carrying every category survive.
func (r *Repository) GetItemsByCategories(categories []entities.Category) ([]*entities.Item, error) {
	if len(categories) == 0 {
		return []*entities.Item{}, nil
	}
	query := r.db.Preload("Categories").Preload("Vendor")
	for _, c := range categories {
		query = query.Where(
			"items.id IN (SELECT item_id FROM item_categories JOIN categories ON categories.id = item_categories.category_id WHERE categories.name = ?)",
			c.Name,
		)
	}
	var items []*entities.Item
	if err := query.Order("release_date").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to filter items by categories: %w", err)
	}
	entities.SortItems(items)
	return items, nil
}

// GetItemsByText matches a case-sensitive substring of the title. SQLite's
// LIKE is case-insensitive for ASCII, so instr() does the matching instead.
func (r *Repository) GetItemsByText(query string) ([]*entities.Item, error) {
	if query == "" {
		return r.GetAllItems()
	}
	var items []*entities.Item
	err := r.db.
		Preload("Categories").
		Preload("Vendor").
		Where("instr(title, ?) > 0", query).
		Order("release_date").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	entities.SortItems(items)
	return items, nil
}

func (r *Repository) AddCategory(c entities.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Category
		return tx.Where(entities.Category{Name: c.Name}).FirstOrCreate(&existing).Error
	})
}

func (r *Repository) GetCategory(name string) (*entities.Category, error) {
	var c entities.Category
	err := r.db.Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &c, nil
}

func (r *Repository) GetAllCategories() ([]entities.Category, error) {
	var categories []entities.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) AddVendor(v entities.Vendor) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Vendor
		return tx.Where(entities.Vendor{Name: v.Name}).FirstOrCreate(&existing).Error
	})
}

func (r *Repository) GetAllVendors() ([]entities.Vendor, error) {
	var vendors []entities.Vendor
	if err := r.db.Order("name").Find(&vendors).Error; err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	return vendors, nil
}

func (r *Repository) AddReview(review *entities.Review) error {
	if err := repository.ValidateAttached(review); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if review.ID != 0 {
			var count int64
			if err := tx.Model(&entities.Review{}).Where("id = ?", review.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
		}
		review.AccountID = review.Account.ID
		review.ItemID = review.Item.ID
		return tx.Omit("Account", "Item").Create(review).Error
	})
}

func (r *Repository) RemoveReview(review *entities.Review) error {
	if err := repository.ValidateDetached(review); err != nil {
		return err
	}
	if review.ID == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&entities.Review{}, review.ID).Error
	})
}

// GetAllReviews loads reviews with their owners' review lists attached, so
// the backlink invariant holds for reloaded reviews exactly as it does for
// ones still in memory.
func (r *Repository) GetAllReviews() ([]*entities.Review, error) {
	var reviews []*entities.Review
	err := r.db.
		Preload("Account").
		Preload("Account.Reviews").
		Preload("Item").
		Preload("Item.Reviews").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return reviews, nil
}

func (r *Repository) AddItemToWishlist(a *entities.Account, item *entities.Item) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		w, err := ensureWishlist(tx, a)
		if err != nil {
			return err
		}
		return tx.Exec(
			"INSERT OR IGNORE INTO wishlist_items (wishlist_id, item_id) VALUES (?, ?)",
			w.ID, item.ID,
		).Error
	})
	if err != nil {
		return err
	}
	a.EnsureWishlist().Add(item)
	return nil
}

func (r *Repository) RemoveItemFromWishlist(a *entities.Account, item *entities.Item) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		w, err := ensureWishlist(tx, a)
		if err != nil {
			return err
		}
		return tx.Exec(
			"DELETE FROM wishlist_items WHERE wishlist_id = ? AND item_id = ?",
			w.ID, item.ID,
		).Error
	})
	if err != nil {
		return err
	}
	a.EnsureWishlist().Remove(item)
	return nil
}

func (r *Repository) GetWishlistItems(a *entities.Account) ([]*entities.Item, error) {
	var w entities.Wishlist
	err := r.db.
		Preload("Items").
		Preload("Items.Categories").
		Preload("Items.Vendor").
		Where("account_id = ?", a.ID).
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []*entities.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return w.Items, nil
}

func ensureWishlist(tx *gorm.DB, a *entities.Account) (*entities.Wishlist, error) {
	var w entities.Wishlist
	if err := tx.Where(entities.Wishlist{AccountID: a.ID}).FirstOrCreate(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) AddHistoryEntry(a *entities.Account, e entities.HistoryEntry) error {
	e.AccountID = a.ID
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&e).Error
	})
	if err != nil {
		return err
	}
	a.History = append(a.History, e)
	return nil
}

func (r *Repository) GetAccountHistory(a *entities.Account) ([]entities.HistoryEntry, error) {
	var history []entities.HistoryEntry
	err := r.db.
		Where("account_id = ?", a.ID).
		Order("timestamp").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return history, nil
}

// SortAll is a no-op: the persisted store establishes ordering at query
// time, and GetAllItems already re-sorts on parsed dates.
func (r *Repository) SortAll() error {
	return nil
}
