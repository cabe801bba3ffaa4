// Package loader reads the tabular catalog dataset into a repository.
//
// Two files live in the data directory: items.csv with the columns
// id, title, price, release-date, [description, image-url, website-url],
// vendor, category... — and accounts.csv with index, username, password.
// Entities are added in dependency order (items, categories, vendors,
// accounts) and the repository is re-sorted once at the end.
package loader

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

const (
	itemsFile    = "items.csv"
	accountsFile = "accounts.csv"
)

// Minimum item columns: id, title, price, release-date, vendor.
const minItemFields = 5

// Item columns when the optional description/image/website trio is present.
const fullItemFields = 8

// Populate loads items and accounts from dataDir. Raw passwords are hashed
// with the given bcrypt cost before they reach the store. Rows that fail
// validation are skipped with a log line rather than aborting the import.
func Populate(repo repository.Repository, dataDir string, bcryptCost int) error {
	if err := LoadItems(repo, filepath.Join(dataDir, itemsFile)); err != nil {
		return err
	}
	if err := LoadAccounts(repo, filepath.Join(dataDir, accountsFile), bcryptCost); err != nil {
		return err
	}
	return repo.SortAll()
}

// LoadItems reads the item file and adds every item together with its
// categories and vendor.
func LoadItems(repo repository.Repository, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	var (
		items      []*entities.Item
		categories []entities.Category
		vendors    []entities.Vendor
		seenCat    = map[string]bool{}
		seenVendor = map[string]bool{}
	)

	for idx, row := range rows {
		item, err := parseItemRow(row)
		if err != nil {
			log.Printf("Skipping item row %d: %v", idx+2, err)
			continue
		}
		items = append(items, item)
		for _, c := range item.Categories {
			if !seenCat[c.Name] {
				seenCat[c.Name] = true
				categories = append(categories, entities.Category{Name: c.Name})
			}
		}
		if item.Vendor != nil && !seenVendor[item.Vendor.Name] {
			seenVendor[item.Vendor.Name] = true
			vendors = append(vendors, entities.Vendor{Name: item.Vendor.Name})
		}
	}

	for _, item := range items {
		if err := repo.AddItem(item); err != nil {
			return fmt.Errorf("failed to add item %d: %w", item.ID, err)
		}
	}
	for _, c := range categories {
		if err := repo.AddCategory(c); err != nil {
			return fmt.Errorf("failed to add category %q: %w", c.Name, err)
		}
	}
	for _, v := range vendors {
		if err := repo.AddVendor(v); err != nil {
			return fmt.Errorf("failed to add vendor %q: %w", v.Name, err)
		}
	}

	log.Printf("Loaded %d items, %d categories, %d vendors from %s",
		len(items), len(categories), len(vendors), path)
	return nil
}

// LoadAccounts reads the account file, hashing each raw password before the
// account is stored.
func LoadAccounts(repo repository.Repository, path string, bcryptCost int) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	loaded := 0
	for idx, row := range rows {
		if len(row) < 3 {
			log.Printf("Skipping account row %d: want 3 fields, got %d", idx+2, len(row))
			continue
		}
		username, password := row[1], row[2]
		hash, err := auth.HashPassword(password, bcryptCost)
		if err != nil {
			log.Printf("Skipping account row %d (%s): %v", idx+2, username, err)
			continue
		}
		if err := repo.AddAccount(entities.NewAccount(username, hash)); err != nil {
			return fmt.Errorf("failed to add account %q: %w", username, err)
		}
		loaded++
	}

	log.Printf("Loaded %d accounts from %s", loaded, path)
	return nil
}

func parseItemRow(row []string) (*entities.Item, error) {
	if len(row) < minItemFields {
		return nil, fmt.Errorf("want at least %d fields, got %d", minItemFields, len(row))
	}

	id, err := strconv.ParseUint(row[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad id %q: %w", row[0], err)
	}

	price, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return nil, fmt.Errorf("bad price %q: %w", row[2], err)
	}
	if price < 0 {
		return nil, fmt.Errorf("negative price %q", row[2])
	}

	if _, err := time.Parse(entities.ReleaseDateLayout, row[3]); err != nil {
		return nil, fmt.Errorf("bad release date %q: %w", row[3], err)
	}

	item := &entities.Item{
		ID:          uint(id),
		Title:       row[1],
		Price:       price,
		ReleaseDate: row[3],
	}

	rest := row[4:]
	if len(row) >= fullItemFields {
		item.Description = row[4]
		item.ImageURL = row[5]
		item.WebsiteURL = row[6]
		rest = row[7:]
	}

	if vendor := rest[0]; vendor != "" {
		item.Vendor = &entities.Vendor{Name: vendor}
	}
	for _, name := range rest[1:] {
		if name == "" || item.HasCategory(name) {
			continue
		}
		item.Categories = append(item.Categories, entities.Category{Name: name})
	}
	return item, nil
}

// readCSV reads all data rows, trimming whitespace from every field and
// skipping the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Rows carry a variable number of categories.

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := records[1:]
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows, nil
}
