// Package domain defines core business types for the papeleria inventory.
package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar form used by product dates and all date queries.
const DateLayout = "2006-01-02"

// Product represents one acquired batch of an item: what the whole batch
// cost, how many units it holds, and the per-unit sale price. The three
// derived fields are computed once at construction and never mutated;
// editing a product means building a replacement via NewProduct.
type Product struct {
	Name      string
	TotalCost float64
	Quantity  int
	SalePrice float64
	Date      string

	UnitCost    float64
	UnitProfit  float64
	TotalProfit float64
}

// Record is the persisted shape of a Product: only the five input fields.
// Derived values are recomputed on every load.
type Record struct {
	Name      string  `json:"name"`
	TotalCost float64 `json:"total_cost"`
	Quantity  int     `json:"quantity"`
	SalePrice float64 `json:"sale_price"`
	Date      string  `json:"date"`
}

// ExportRow is one line of the tabular export surface: the public 1-based ID
// followed by every input and derived field, in display order.
type ExportRow struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	TotalCost   float64 `json:"total_cost"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	SalePrice   float64 `json:"sale_price"`
	UnitProfit  float64 `json:"unit_profit"`
	TotalProfit float64 `json:"total_profit"`
	Date        string  `json:"date"`
}

// Validate checks the four primary input fields. Checks run in a fixed order
// and the first failure is returned; it never reports more than one reason.
// Pure function, no side effects.
func Validate(name string, totalCost float64, quantity int, salePrice float64) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "name required")
	}
	if totalCost < 0 {
		return NewValidationError("total_cost", "negative total cost")
	}
	if quantity <= 0 {
		return NewValidationError("quantity", "invalid quantity")
	}
	if salePrice < 0 {
		return NewValidationError("sale_price", "negative sale price")
	}
	if salePrice < totalCost/float64(quantity) {
		return NewValidationError("sale_price", "sale price below unit cost")
	}
	return nil
}

// NewProduct validates the inputs and constructs a Product with its derived
// fields frozen. An empty date means the current local calendar date; loads
// from storage pass the stored date through explicitly. No partial product
// ever escapes a failed validation.
func NewProduct(name string, totalCost float64, quantity int, salePrice float64, date string) (Product, error) {
	if err := Validate(name, totalCost, quantity, salePrice); err != nil {
		return Product{}, err
	}
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	p := Product{
		Name:      strings.TrimSpace(name),
		TotalCost: totalCost,
		Quantity:  quantity,
		SalePrice: salePrice,
		Date:      date,
	}
	p.UnitCost = p.TotalCost / float64(p.Quantity)
	p.UnitProfit = p.SalePrice - p.UnitCost
	p.TotalProfit = p.UnitProfit * float64(p.Quantity)
	return p, nil
}

// Record returns the five persistable fields of p.
func (p Product) Record() Record {
	return Record{
		Name:      p.Name,
		TotalCost: p.TotalCost,
		Quantity:  p.Quantity,
		SalePrice: p.SalePrice,
		Date:      p.Date,
	}
}

// FromRecord rebuilds a Product from its stored fields through the same
// validated constructor, preserving the stored date.
func FromRecord(r Record) (Product, error) {
	return NewProduct(r.Name, r.TotalCost, r.Quantity, r.SalePrice, r.Date)
}

// ProductStore defines the storage contract for the papeleria inventory.
// The collection is ordered by insertion; indices are 0-based and the
// presentation layer maps them to the public 1-based IDs.
type ProductStore interface {
	List() []Product
	Get(index int) (Product, bool)
	Add(name string, totalCost float64, quantity int, salePrice float64) (Product, error)
	Update(index int, name string, totalCost float64, quantity int, salePrice float64, date string) (bool, error)
	Delete(index int) (bool, error)
	Search(term string) []Product
	SearchByDate(date string) []Product
	TotalInvestment(date string) float64
	TotalProfitFor(date string) float64
	Import(records []Record) error
	ExportRows() []ExportRow
}
