package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/services"
	"gorm.io/gorm"
)

// Summary counts the records an import created
type Summary struct {
	Products   int
	Operators  int
	Orders     int
	Activities int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d products, %d operators, %d orders, %d activities",
		s.Products, s.Operators, s.Orders, s.Activities)
}

// Seeder loads fixtures through the lifecycle services, so orders fan out
// into activities exactly as they do when created through the API
type Seeder struct {
	db         *gorm.DB
	products   *services.ProductService
	operators  *services.OperatorService
	orders     *services.OrderService
	activities *services.ActivityService
	now        func() time.Time
}

// NewSeeder creates a seeder writing to db
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:         db,
		products:   services.NewProductService(db).WithImageService(nil),
		operators:  services.NewOperatorService(db),
		orders:     services.NewOrderService(db),
		activities: services.NewActivityService(db),
		now:        time.Now,
	}
}

// Import creates every product, operator and order in fixtures
func (s *Seeder) Import(ctx context.Context, fixtures *Fixtures) (Summary, error) {
	var summary Summary

	productIDs := make(map[string]uint, len(fixtures.Products))
	for _, in := range fixtures.Products {
		product, err := s.products.Create(ctx, in)
		if err != nil {
			return summary, fmt.Errorf("product %s: %w", in.Code, err)
		}
		productIDs[product.Code] = product.ID
		summary.Products++
	}

	operatorIDs := make(map[string]uint, len(fixtures.Operators))
	for _, in := range fixtures.Operators {
		operator, err := s.operators.Create(ctx, in)
		if err != nil {
			return summary, fmt.Errorf("operator %s: %w", in.Code, err)
		}
		operatorIDs[operator.Code] = operator.ID
		summary.Operators++
	}

	for _, fx := range fixtures.Orders {
		created, err := s.importOrder(ctx, fx, productIDs, operatorIDs)
		if err != nil {
			return summary, fmt.Errorf("order %s: %w", fx.OrderNumber, err)
		}
		summary.Orders++
		summary.Activities += created
	}

	log.Printf("Seeded %s", summary)
	return summary, nil
}

func (s *Seeder) importOrder(ctx context.Context, fx OrderFixture, productIDs, operatorIDs map[string]uint) (int, error) {
	items := make([]services.OrderItemInput, 0, len(fx.Items))
	for _, it := range fx.Items {
		items = append(items, services.OrderItemInput{ProductID: productIDs[it.Product], Quantity: it.Quantity})
	}

	now := s.now()
	delivery := now.AddDate(0, 0, fx.DeliveryInDays)
	order, err := s.orders.Create(ctx, services.SystemPrincipal, services.CreateOrderInput{
		OrderNumber:     fx.OrderNumber,
		CustomerName:    fx.CustomerName,
		CustomerContact: fx.CustomerContact,
		OrderDate:       &now,
		DeliveryDate:    &delivery,
		Items:           items,
		Notes:           fx.Notes,
		Priority:        fx.Priority,
	})
	if err != nil {
		return 0, err
	}

	activities, err := s.activities.List(ctx, services.ActivityFilter{OrderID: order.ID})
	if err != nil {
		return 0, err
	}
	byProduct := make(map[uint]models.Activity, len(activities))
	for _, activity := range activities {
		byProduct[activity.ProductID] = activity
	}

	for _, it := range fx.Items {
		activity := byProduct[productIDs[it.Product]]
		if it.AssignTo != "" {
			if _, err := s.activities.Assign(ctx, services.SystemPrincipal, activity.ID, services.Assignment{
				OperatorID: operatorIDs[it.AssignTo],
			}); err != nil {
				return 0, fmt.Errorf("assign %s: %w", activity.ActivityCode, err)
			}
		}
		if it.Status != "" && it.Status != models.ActivityPending {
			if _, err := s.activities.UpdateStatus(ctx, services.SystemPrincipal, activity.ID, services.StatusChange{
				Status: it.Status,
			}); err != nil {
				return 0, fmt.Errorf("status %s: %w", activity.ActivityCode, err)
			}
		}
	}

	return len(activities), nil
}

// Destroy deletes all domain data in one transaction
func (s *Seeder) Destroy(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Activity{},
			&models.OrderItem{},
			&models.Order{},
			&models.Operator{},
			&models.Product{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", model, err)
			}
		}
		log.Println("Sample data destroyed")
		return nil
	})
}
