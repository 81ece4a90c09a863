package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrBrian04/PapeleriaApp/domain"
)

// FileStore is the JSON file-backed implementation of domain.ProductStore.
// The collection lives in memory in insertion order and the whole file is
// rewritten after every successful mutation. A failed write is reported to
// the caller but never rolls back the in-memory change; the session keeps
// running with unsaved changes.
type FileStore struct {
	mu       sync.Mutex
	products []domain.Product
	path     string
	log      zerolog.Logger
}

// compile-time assertion
var _ domain.ProductStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path and loads the
// backing file. A missing file is normal (fresh install); an unreadable or
// corrupt file is logged and the store starts empty, so the application is
// always usable.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	s := &FileStore{path: path, log: log}
	s.load()
	return s
}

func (s *FileStore) load() {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(domain.NewStorageError("load", s.path, err)).
				Msg("cannot read product file, starting empty")
		}
		s.products = nil
		return
	}
	if len(b) == 0 {
		s.products = nil
		return
	}
	var records []domain.Record
	if err := json.Unmarshal(b, &records); err != nil {
		s.log.Warn().Err(domain.NewStorageError("load", s.path, err)).
			Msg("corrupt product file, starting empty")
		s.products = nil
		return
	}
	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		p, err := domain.FromRecord(r)
		if err != nil {
			s.log.Warn().Err(err).Str("name", r.Name).Msg("skipping invalid stored product")
			continue
		}
		products = append(products, p)
	}
	s.products = products
}

// save rewrites the full collection. Caller holds s.mu.
func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return domain.NewStorageError("save", s.path, err)
	}
	records := make([]domain.Record, len(s.products))
	for i, p := range s.products {
		records[i] = p.Record()
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return domain.NewStorageError("save", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return domain.NewStorageError("save", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return domain.NewStorageError("save", s.path, err)
	}
	return nil
}

// List returns all products in insertion order. The slice is a copy; index 0
// corresponds to the public ID 1.
func (s *FileStore) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the product at the 0-based index, or false when out of range.
func (s *FileStore) Get(index int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.products) {
		return domain.Product{}, false
	}
	return s.products[index], true
}

// Add constructs a product dated today, appends it and persists. On a
// validation failure nothing is appended; on a save failure the product is
// kept in memory and the storage error is returned alongside it.
func (s *FileStore) Add(name string, totalCost float64, quantity int, salePrice float64) (domain.Product, error) {
	p, err := domain.NewProduct(name, totalCost, quantity, salePrice, "")
	if err != nil {
		return domain.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	if err := s.save(); err != nil {
		s.log.Error().Err(err).Str("name", p.Name).Msg("product added but not persisted")
		return p, err
	}
	return p, nil
}

// Update replaces the product at index with a freshly constructed one and
// persists. The date is taken as given; callers that want to preserve the
// original date pass it explicitly. Returns false when index is out of
// range, and propagates construction and save errors.
func (s *FileStore) Update(index int, name string, totalCost float64, quantity int, salePrice float64, date string) (bool, error) {
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
	if err := s.save(); err != nil {
		s.log.Error().Err(err).Str("name", p.Name).Msg("product updated but not persisted")
		return true, err
	}
	return true, nil
}

// Delete removes the product at index and persists. Returns false when index
// is out of range.
func (s *FileStore) Delete(index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.products) {
		return false, nil
	}
	s.products = append(s.products[:index], s.products[index+1:]...)
	if err := s.save(); err != nil {
		s.log.Error().Err(err).Int("index", index).Msg("product deleted but not persisted")
		return true, err
	}
	return true, nil
}

// Search returns the products whose name contains term (case-insensitive) or
// whose date equals term exactly, in collection order. Name-substring and
// exact-date are independent match modes; a partial date only matches names.
func (s *FileStore) Search(term string) []domain.Product {
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

// SearchByDate returns the products dated exactly date. Input that does not
// parse as a calendar date yields no results rather than an error.
func (s *FileStore) SearchByDate(date string) []domain.Product {
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

// TotalInvestment sums total_cost over the products dated date. An empty
// date means today.
func (s *FileStore) TotalInvestment(date string) float64 {
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

// TotalProfitFor sums total_profit over the products dated date. An empty
// date means today.
func (s *FileStore) TotalProfitFor(date string) float64 {
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

// Import appends the valid records in input order, collecting a combined
// error for the invalid ones, then persists once. Records without a date
// keep it empty through FromRecord's constructor default.
func (s *FileStore) Import(records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var collected error
	added := false
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
		added = true
	}
	if added {
		if err := s.save(); err != nil {
			s.log.Error().Err(err).Msg("imported products not persisted")
			if collected == nil {
				return err
			}
			return fmt.Errorf("%v; %w", collected, err)
		}
	}
	return collected
}

// ExportRows returns the full collection as ordered rows with dense 1-based
// IDs, ready for a tabular-export collaborator. The store never writes the
// export file itself.
func (s *FileStore) ExportRows() []domain.ExportRow {
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
