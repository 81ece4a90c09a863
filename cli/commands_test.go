package cli

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrBrian04/PapeleriaApp/domain"
	"github.com/MrBrian04/PapeleriaApp/store"
)

// capture stdout during cobra execution
func captureOutput(f func() error) (string, error) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String(), err
}

// reset cobra + global state between tests
func resetCLI() {
	rootCmd.SetArgs(nil)
	productStore = nil
}

func run(args ...string) (string, error) {
	return captureOutput(func() error {
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	})
}

func seed(t *testing.T, records ...domain.Record) {
	t.Helper()
	require.NoError(t, productStore.Import(records))
}

func TestAddListGet(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()

	out, err := run("add",
		"--name", "Cuaderno",
		"--total-cost", "10000",
		"--quantity", "20",
		"--sale-price", "800",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "1 | Cuaderno")
	assert.Contains(t, out, "$10.000,00")
	assert.Contains(t, out, "$500,00")   // unit cost
	assert.Contains(t, out, "$6.000,00") // total profit

	out, err = run("add",
		"--name", "Resma",
		"--total-cost", "13500",
		"--quantity", "3",
		"--sale-price", "6000",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "2 | Resma")

	out, err = run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 | Cuaderno")
	assert.Contains(t, out, "2 | Resma")

	out, err = run("get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 | Resma")
	assert.NotContains(t, out, "Cuaderno")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()

	_, err := run("add",
		"--name", "Lapiz",
		"--total-cost", "1000",
		"--quantity", "5",
		"--sale-price", "150",
	)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, productStore.List())
}

func TestGetHandlesBadIDsWithoutFailing(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()

	out, err := run("get", "abc")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run("get", "7")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUpdate(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	seed(t, domain.Record{Name: "Cuaderno", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: "2024-01-10"})

	// without --date the original date is carried forward
	out, err := run("update", "1", "--name", "Cuaderno rayado", "--sale-price", "900")
	require.NoError(t, err)
	assert.Contains(t, out, "1 | Cuaderno rayado")
	assert.Contains(t, out, "2024-01-10")

	p, ok := productStore.Get(0)
	require.True(t, ok)
	assert.Equal(t, "2024-01-10", p.Date)
	assert.InDelta(t, 900, p.SalePrice, 1e-9)
	assert.InDelta(t, 10000, p.TotalCost, 1e-9)

	// --date overrides it
	_, err = run("update", "1", "--name", "Cuaderno rayado", "--sale-price", "900", "--date", "2024-02-01")
	require.NoError(t, err)
	p, _ = productStore.Get(0)
	assert.Equal(t, "2024-02-01", p.Date)

	// unknown ID is a plain not-found, not a command failure
	out, err = run("update", "9", "--name", "Cuaderno rayado", "--sale-price", "900", "--date", "2024-02-01")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDelete(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	seed(t,
		domain.Record{Name: "Cuaderno", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: "2024-01-10"},
		domain.Record{Name: "Resma", TotalCost: 13500, Quantity: 3, SalePrice: 6000, Date: "2024-01-11"},
	)

	out, err := run("delete", "1", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	list := productStore.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Resma", list[0].Name)

	out, err = run("delete", "5", "--force")
	require.NoError(t, err)
	assert.NotContains(t, out, "deleted")
}

func TestSearchShowsRealIDs(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	seed(t,
		domain.Record{Name: "Cuaderno Norma", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: "2024-01-10"},
		domain.Record{Name: "Resma Carta", TotalCost: 13500, Quantity: 3, SalePrice: 6000, Date: "2024-01-11"},
		domain.Record{Name: "cuadernillo", TotalCost: 4000, Quantity: 8, SalePrice: 700, Date: "2024-01-12"},
	)

	out, err := run("search", "cuaderno")
	require.NoError(t, err)
	assert.Contains(t, out, "1 | Cuaderno Norma")
	assert.Contains(t, out, "3 | cuadernillo")
	assert.NotContains(t, out, "Resma")

	out, err = run("search", "2024-01-11")
	require.NoError(t, err)
	assert.Contains(t, out, "2 | Resma Carta")

	out, err = run("search-date", "2024-01-12")
	require.NoError(t, err)
	assert.Contains(t, out, "3 | cuadernillo")

	out, err = run("search-date", "not-a-date")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInvestProfitDefaultToToday(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	today := time.Now().Format(domain.DateLayout)
	seed(t,
		domain.Record{Name: "Cuaderno", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: today},
		domain.Record{Name: "Viejo", TotalCost: 99999, Quantity: 1, SalePrice: 999999, Date: "2020-01-01"},
	)

	out, err := run("invest")
	require.NoError(t, err)
	assert.Contains(t, out, today)
	assert.Contains(t, out, "$10.000,00")

	out, err = run("profit")
	require.NoError(t, err)
	assert.Contains(t, out, "$6.000,00")
}

func TestInvestProfitForDate(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	seed(t,
		domain.Record{Name: "Cuaderno", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: "2024-01-10"},
		domain.Record{Name: "Resma", TotalCost: 5000, Quantity: 2, SalePrice: 3000, Date: "2024-01-10"},
	)

	out, err := run("invest", "--date", "2024-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Total investment for 2024-01-10: $15.000,00")

	out, err = run("profit", "--date", "2024-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Total profit for 2024-01-10: $7.000,00")
}

func TestImportJSONArray(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()

	path := filepath.Join(t.TempDir(), "import.json")
	data := `[
  {"name": "Cuaderno", "total_cost": 10000, "quantity": 20, "sale_price": 800, "date": "2024-01-10"},
  {"name": "Resma", "total_cost": 13500, "quantity": 3, "sale_price": 6000, "date": "2024-01-11"}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := run("import", "--file", path)
	require.NoError(t, err)

	list := productStore.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Cuaderno", list[0].Name)
	assert.Equal(t, "2024-01-11", list[1].Date)
}

func TestImportNDJSON(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()

	path := filepath.Join(t.TempDir(), "import.ndjson")
	data := `{"name": "Cuaderno", "total_cost": 10000, "quantity": 20, "sale_price": 800, "date": "2024-01-10"}
{"name": "Resma", "total_cost": 13500, "quantity": 3, "sale_price": 6000, "date": "2024-01-11"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := run("import", "--file", path)
	require.NoError(t, err)
	assert.Len(t, productStore.List(), 2)
}

func TestExportCSV(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	seed(t,
		domain.Record{Name: "Cuaderno", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: "2024-01-10"},
		domain.Record{Name: "Resma", TotalCost: 13500, Quantity: 3, SalePrice: 6000, Date: "2024-01-11"},
	)

	path := filepath.Join(t.TempDir(), "export.csv")
	_, err := run("export", "--file", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "name", "total_cost", "quantity", "unit_cost",
		"sale_price", "unit_profit", "total_profit", "date"}, rows[0])
	assert.Equal(t, []string{"1", "Cuaderno", "10000.00", "20", "500.00",
		"800.00", "300.00", "6000.00", "2024-01-10"}, rows[1])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "Resma", rows[2][1])
}

func TestListJSONOutput(t *testing.T) {
	defer resetCLI()
	productStore = store.NewInMemoryStore()
	seed(t, domain.Record{Name: "Cuaderno", TotalCost: 10000, Quantity: 20, SalePrice: 800, Date: "2024-01-10"})

	out, err := run("list", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Cuaderno"`)
	assert.Contains(t, out, `"unit_cost": 500`)
	assert.Contains(t, out, `"total_profit": 6000`)
}
