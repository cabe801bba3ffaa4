package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/repository/memory"
)

const itemsCSV = `id,title,price,release-date,description,image-url,website-url,vendor,categories
1,Alpha Station,9.99,"Jan 5, 2010",A base builder,http://img/1,http://site/1,Valve,Action
2,Beta Drift,0,"Mar 1, 2020",Racing in space,http://img/2,http://site/2,Annapurna,Action,Builder
3,Gamma Tide,4.5,"Jul 9, 2015",Waves,http://img/3,http://site/3,Valve,Builder
4,Broken Row,-3,"Jan 1, 2020",negative price,x,y,Valve,Action
5,Bad Date,1.0,someday,bad date,x,y,Valve,Action
`

const accountsCSV = `index,username,password
0,alice,alice-password
1,bob,bob-password
2,short
`

func writeDataDir(t *testing.T, items, accounts string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.csv"), []byte(items), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte(accounts), 0o644))
	return dir
}

func TestPopulate(t *testing.T) {
	repo := memory.New()
	dir := writeDataDir(t, itemsCSV, accountsCSV)

	require.NoError(t, Populate(repo, dir, bcrypt.MinCost))

	// The two malformed rows are skipped, not fatal.
	count, err := repo.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	items, err := repo.GetAllItems()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Beta Drift", items[0].Title)
	assert.Equal(t, "Gamma Tide", items[1].Title)
	assert.Equal(t, "Alpha Station", items[2].Title)

	categories, err := repo.GetAllCategories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Action", categories[0].Name)
	assert.Equal(t, "Builder", categories[1].Name)

	vendors, err := repo.GetAllVendors()
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Annapurna", vendors[0].Name)
	assert.Equal(t, "Valve", vendors[1].Name)
}

func TestPopulate_ParsesItemFields(t *testing.T) {
	repo := memory.New()
	dir := writeDataDir(t, itemsCSV, accountsCSV)
	require.NoError(t, Populate(repo, dir, bcrypt.MinCost))

	item, err := repo.GetItemByID(2)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Beta Drift", item.Title)
	assert.Equal(t, 0.0, item.Price)
	assert.Equal(t, "Mar 1, 2020", item.ReleaseDate)
	assert.Equal(t, "Racing in space", item.Description)
	assert.Equal(t, "http://img/2", item.ImageURL)
	assert.Equal(t, "http://site/2", item.WebsiteURL)
	require.NotNil(t, item.Vendor)
	assert.Equal(t, "Annapurna", item.Vendor.Name)
	assert.True(t, item.HasCategory("Action"))
	assert.True(t, item.HasCategory("Builder"))
}

func TestPopulate_HashesPasswords(t *testing.T) {
	repo := memory.New()
	dir := writeDataDir(t, itemsCSV, accountsCSV)
	require.NoError(t, Populate(repo, dir, bcrypt.MinCost))

	accounts, err := repo.GetAllAccounts()
	require.NoError(t, err)
	// The three-field rule drops the short row.
	assert.Len(t, accounts, 2)

	alice, err := repo.GetAccount("alice")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.NotEqual(t, "alice-password", alice.PasswordHash)
	assert.NoError(t, auth.CheckPassword("alice-password", alice.PasswordHash))
}

func TestPopulate_Idempotent(t *testing.T) {
	repo := memory.New()
	dir := writeDataDir(t, itemsCSV, accountsCSV)

	require.NoError(t, Populate(repo, dir, bcrypt.MinCost))
	require.NoError(t, Populate(repo, dir, bcrypt.MinCost))

	count, err := repo.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	accounts, err := repo.GetAllAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestPopulate_MissingFile(t *testing.T) {
	repo := memory.New()
	err := Populate(repo, t.TempDir(), bcrypt.MinCost)
	assert.Error(t, err)
}
