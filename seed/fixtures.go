package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/services"
	"gopkg.in/yaml.v3"
)

// Fixtures is a sample data set: a catalog, a workforce and orders against them
type Fixtures struct {
	Products  []services.ProductInput  `yaml:"products"`
	Operators []services.OperatorInput `yaml:"operators"`
	Orders    []OrderFixture           `yaml:"orders"`
}

// OrderFixture describes an order whose items reference products by code
type OrderFixture struct {
	OrderNumber     string          `yaml:"order_number"`
	CustomerName    string          `yaml:"customer_name"`
	CustomerContact string          `yaml:"customer_contact"`
	DeliveryInDays  int             `yaml:"delivery_in_days"`
	Priority        models.Priority `yaml:"priority,omitempty"`
	Notes           string          `yaml:"notes,omitempty"`
	Items           []ItemFixture   `yaml:"items"`
}

// ItemFixture is one order line. AssignTo and Status, when set, are applied to
// the activity generated for the line.
type ItemFixture struct {
	Product  string                `yaml:"product"`
	Quantity int                   `yaml:"quantity"`
	AssignTo string                `yaml:"assign_to,omitempty"`
	Status   models.ActivityStatus `yaml:"status,omitempty"`
}

// LoadFixtures reads and parses a fixture file.
// Unknown fields are rejected so typos do not silently drop data.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixtures(bytes.NewReader(data))
}

// ParseFixtures decodes fixtures from YAML
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	var fixtures Fixtures
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := fixtures.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &fixtures, nil
}

// validate checks that every code an order refers to is defined in the file
func (f *Fixtures) validate() error {
	products := make(map[string]bool, len(f.Products))
	for _, p := range f.Products {
		if products[p.Code] {
			return fmt.Errorf("product %q is defined twice", p.Code)
		}
		products[p.Code] = true
	}
	operators := make(map[string]bool, len(f.Operators))
	for _, o := range f.Operators {
		if operators[o.Code] {
			return fmt.Errorf("operator %q is defined twice", o.Code)
		}
		operators[o.Code] = true
	}

	for _, order := range f.Orders {
		if len(order.Items) == 0 {
			return fmt.Errorf("order %q has no items", order.OrderNumber)
		}
		for _, it := range order.Items {
			if !products[it.Product] {
				return fmt.Errorf("order %q references unknown product %q", order.OrderNumber, it.Product)
			}
			if it.AssignTo != "" && !operators[it.AssignTo] {
				return fmt.Errorf("order %q assigns unknown operator %q", order.OrderNumber, it.AssignTo)
			}
			if it.Status != "" && !it.Status.Valid() {
				return fmt.Errorf("order %q has invalid activity status %q", order.OrderNumber, it.Status)
			}
		}
	}
	return nil
}
