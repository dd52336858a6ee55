package composer

import (
	"context"
	"log"
	"strings"

	"github.com/sangkips/alankar-api/internal/domain/entity"
	"github.com/sangkips/alankar-api/pkg/client"
	"github.com/sangkips/alankar-api/pkg/latest"
)

// Search schedules a customer lookup once typing pauses. An empty term clears
// the results straight away and discards any lookup still in flight.
func (c *Composer) Search(term string) {
	c.mu.Lock()
	c.searchTerm = term
	c.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		c.debouncer.Cancel()
		c.searches.Invalidate()
		c.setResults(nil)
		return
	}

	c.debouncer.Trigger(func() {
		if err := c.SearchNow(context.Background(), term); err != nil {
			log.Printf("Customer search for %q failed: %v", term, err)
		}
	})
}

// SearchNow runs a lookup immediately. Only the most recently started lookup
// may replace the results; an older one finishing late is dropped.
func (c *Composer) SearchNow(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		c.searches.Invalidate()
		c.setResults(nil)
		return nil
	}

	found, ok, err := latest.Run(&c.searches, func() ([]entity.Customer, error) {
		return c.backend.SearchCustomers(ctx, term)
	})
	if !ok {
		return nil
	}
	if err != nil {
		return err
	}
	c.setResults(found)
	return nil
}

// Results returns the customers found by the latest lookup
func (c *Composer) Results() []entity.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entity.Customer(nil), c.results...)
}

func (c *Composer) setResults(found []entity.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = found
}

// CreateCustomer adds a customer from the inline form, selects it and
// refreshes the results so it shows up in the list.
func (c *Composer) CreateCustomer(ctx context.Context, in client.CustomerInput) (*entity.Customer, error) {
	created, err := c.backend.CreateCustomer(ctx, in)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.customer = created
	term := strings.TrimSpace(c.searchTerm)
	c.mu.Unlock()

	if term == "" {
		term = created.Name
	}
	if err := c.SearchNow(ctx, term); err != nil {
		log.Printf("Refreshing customers after creating %s failed: %v", created.ID, err)
	}
	return created, nil
}
