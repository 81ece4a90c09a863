// Package store provides the product storage implementations.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrBrian04/PapeleriaApp/domain"
)

// InMemoryStore is an ephemeral implementation of domain.ProductStore with
// the same ordered-collection semantics as FileStore but no backing file.
// Used by tests and the memory store backend.
type InMemoryStore struct {
	mu       sync.Mutex
	products []domain.Product
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// compile-time assertion that InMemoryStore implements domain.ProductStore
var _ domain.ProductStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *InMemoryStore) Get(index int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.products) {
		return domain.Product{}, false
	}
	return s.products[index], true
}

func (s *InMemoryStore) Add(name string, totalCost float64, quantity int, salePrice float64) (domain.Product, error) {
	p, err := domain.NewProduct(name, totalCost, quantity, salePrice, "")
	if err != nil {
		return domain.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return p, nil
}

func (s *InMemoryStore) Update(index int, name string, totalCost float64, quantity int, salePrice float64, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.products) {
		return false, nil
	}
	p, err := domain.NewProduct(name, totalCost, quantity, salePrice, date)
	if err != nil {
		return false, err
	}
	s.products[index] = p
	return true, nil
}

func (s *InMemoryStore) Delete(index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.products) {
		return false, nil
	}
	s.products = append(s.products[:index], s.products[index+1:]...)
	return true, nil
}

func (s *InMemoryStore) Search(term string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	term = strings.ToLower(term)
	var out []domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) || term == p.Date {
			out = append(out, p)
		}
	}
	return out
}

func (s *InMemoryStore) SearchByDate(date string) []domain.Product {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.Date == date {
			out = append(out, p)
		}
	}
	return out
}

func (s *InMemoryStore) TotalInvestment(date string) float64 {
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, p := range s.products {
		if p.Date == date {
			total += p.TotalCost
		}
	}
	return total
}

func (s *InMemoryStore) TotalProfitFor(date string) float64 {
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, p := range s.products {
		if p.Date == date {
			total += p.TotalProfit
		}
	}
	return total
}

func (s *InMemoryStore) Import(records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var collected error
	for i, r := range records {
		p, err := domain.FromRecord(r)
		if err != nil {
			err = fmt.Errorf("record %d (%s): %w", i+1, r.Name, err)
			if collected == nil {
				collected = err
			} else {
				collected = fmt.Errorf("%v; %w", collected, err)
			}
			continue
		}
		s.products = append(s.products, p)
	}
	return collected
}

func (s *InMemoryStore) ExportRows() []domain.ExportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]domain.ExportRow, len(s.products))
	for i, p := range s.products {
		rows[i] = domain.ExportRow{
			ID:          i + 1,
			Name:        p.Name,
			TotalCost:   p.TotalCost,
			Quantity:    p.Quantity,
			UnitCost:    p.UnitCost,
			SalePrice:   p.SalePrice,
			UnitProfit:  p.UnitProfit,
			TotalProfit: p.TotalProfit,
			Date:        p.Date,
		}
	}
	return rows
}
