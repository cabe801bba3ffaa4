package entities

import (
	"sort"
	"time"
)

// ReleaseDateLayout is the calendar format used by the catalog dataset,
// e.g. "Oct 21, 2008". Release dates are stored verbatim and parsed on
// demand; a date that fails to parse sorts as the zero time.
const ReleaseDateLayout = "Jan 2, 2006"

type Vendor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:256" json:"name"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:128" json:"name"`
}

type Item struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	Price       float64    `json:"price"`
	ReleaseDate string     `gorm:"size:64" json:"release_date"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string     `gorm:"size:2048" json:"image_url,omitempty"`
	WebsiteURL  string     `gorm:"size:2048" json:"website_url,omitempty"`
	VendorID    *uint      `gorm:"index" json:"-"`
	Vendor      *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Categories  []Category `gorm:"many2many:item_categories;" json:"categories,omitempty"`
	Reviews     []*Review  `gorm:"foreignKey:ItemID" json:"reviews,omitempty"`
}

func (Vendor) TableName() string {
	return "vendors"
}

func (Category) TableName() string {
	return "categories"
}

func (Item) TableName() string {
	return "items"
}

// ReleasedAt parses the item's release date. Unparseable dates yield the
// zero time, which sorts after every real date in newest-first order.
func (i *Item) ReleasedAt() time.Time {
	t, err := time.Parse(ReleaseDateLayout, i.ReleaseDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HasCategory reports whether the item carries the named category.
// Categories compare by name, not by row identity.
func (i *Item) HasCategory(name string) bool {
	for _, c := range i.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// SortItems orders items by release date, newest first. Equal dates fall
// back to ascending id so the order is deterministic across backends.
func SortItems(items []*Item) {
	sort.SliceStable(items, func(a, b int) bool {
		da, db := items[a].ReleasedAt(), items[b].ReleasedAt()
		if da.Equal(db) {
			return items[a].ID < items[b].ID
		}
		return da.After(db)
	})
}

// SortCategories orders categories by name.
func SortCategories(categories []Category) {
	sort.Slice(categories, func(a, b int) bool {
		return categories[a].Name < categories[b].Name
	})
}

// SortVendors orders vendors by name.
func SortVendors(vendors []Vendor) {
	sort.Slice(vendors, func(a, b int) bool {
		return vendors[a].Name < vendors[b].Name
	})
}
