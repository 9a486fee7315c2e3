package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/production-tracker-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderItemInput references a catalog product and the quantity ordered
type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderInput is the payload for creating an order
type CreateOrderInput struct {
	OrderNumber     string           `json:"order_number" binding:"required"`
	CustomerName    string           `json:"customer_name" binding:"required"`
	CustomerContact string           `json:"customer_contact" binding:"required"`
	OrderDate       *time.Time       `json:"order_date"`
	DeliveryDate    *time.Time       `json:"delivery_date" binding:"required"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Notes           string           `json:"notes"`
	Priority        models.Priority  `json:"priority"`
}

// OrderPatch updates only the fields that are present.
// A non-empty Items list replaces the order's items and regenerates its activities.
type OrderPatch struct {
	CustomerName    *string          `json:"customer_name"`
	CustomerContact *string          `json:"customer_contact"`
	DeliveryDate    *time.Time       `json:"delivery_date"`
	Notes           *string          `json:"notes"`
	Priority        *models.Priority `json:"priority"`
	Items           []OrderItemInput `json:"items" binding:"omitempty,dive"`
}

// OrderFilter narrows List results
type OrderFilter struct {
	Status models.OrderStatus
}

// OrderService is the order lifecycle manager. It owns orders and the
// activities generated from their items.
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOrderService creates an order lifecycle manager backed by db
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// List returns orders with their items and products
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items.Product")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	if err := query.Order("id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Get returns an order with its items and products
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	return findOrder(s.db.WithContext(ctx).Preload("Items.Product"), id)
}

// Create prices the items against the catalog, stores the order as pending
// and generates one pending activity per item, all in one transaction.
func (s *OrderService) Create(ctx context.Context, principal Principal, in CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(in.OrderNumber) == "" || strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.CustomerContact) == "" || in.DeliveryDate == nil || len(in.Items) == 0 {
		return nil, invalidInput("Please provide all required fields")
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, invalidInput("Invalid priority %q", in.Priority)
	}

	orderDate := s.now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", in.OrderNumber).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order number: %w", err)
		}
		if count > 0 {
			return orderExists(in.OrderNumber)
		}

		lines, total, err := priceItems(tx, in.Items)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderNumber:     in.OrderNumber,
			CustomerName:    in.CustomerName,
			CustomerContact: in.CustomerContact,
			OrderDate:       orderDate,
			DeliveryDate:    *in.DeliveryDate,
			Status:          models.OrderPending,
			Items:           lines.items(0),
			TotalAmount:     total,
			Priority:        in.Priority,
			Notes:           in.Notes,
			CreatedBy:       principal.Subject,
		}
		if err := tx.Create(&order).Error; err != nil {
			if isUniqueViolation(err) {
				return orderExists(in.OrderNumber)
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		orderID = order.ID

		return generateActivities(tx, principal, &order, lines)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, orderID)
}

// Update edits a non-terminal order. A non-empty item list recomputes the
// total and replaces every activity of the order with a freshly generated set.
func (s *OrderService) Update(ctx context.Context, principal Principal, id uint, patch OrderPatch) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return invalidState("ORDER_CLOSED", "Cannot update a completed or cancelled order")
		}

		if patch.CustomerName != nil {
			if strings.TrimSpace(*patch.CustomerName) == "" {
				return invalidInput("Customer name cannot be empty")
			}
			order.CustomerName = *patch.CustomerName
		}
		if patch.CustomerContact != nil {
			if strings.TrimSpace(*patch.CustomerContact) == "" {
				return invalidInput("Customer contact cannot be empty")
			}
			order.CustomerContact = *patch.CustomerContact
		}
		if patch.DeliveryDate != nil {
			order.DeliveryDate = *patch.DeliveryDate
		}
		if patch.Notes != nil {
			order.Notes = *patch.Notes
		}
		if patch.Priority != nil {
			if !patch.Priority.Valid() {
				return invalidInput("Invalid priority %q", *patch.Priority)
			}
			order.Priority = *patch.Priority
		}

		if len(patch.Items) > 0 {
			if err := validateItems(patch.Items); err != nil {
				return err
			}
			lines, total, err := priceItems(tx, patch.Items)
			if err != nil {
				return err
			}

			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return fmt.Errorf("failed to remove order items: %w", err)
			}
			items := lines.items(order.ID)
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to store order items: %w", err)
			}
			order.TotalAmount = total

			if err := tx.Where("order_id = ?", order.ID).Delete(&models.Activity{}).Error; err != nil {
				return fmt.Errorf("failed to remove order activities: %w", err)
			}
			if err := generateActivities(tx, principal, order, lines); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// UpdateStatus sets the order status. Completing an order completes its open
// activities; cancelling it pauses them. Completed activities are never touched.
func (s *OrderService) UpdateStatus(ctx context.Context, principal Principal, id uint, status models.OrderStatus) (*models.Order, error) {
	if status == "" {
		return nil, invalidInput("Please provide a status")
	}
	if !status.Valid() {
		return nil, invalidInput("Invalid order status %q", status)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		order.Status = status

		if status.IsTerminal() {
			target := models.ActivityPaused
			if status == models.OrderCompleted {
				target = models.ActivityCompleted
			}
			err := tx.Model(&models.Activity{}).
				Where("order_id = ? AND status <> ?", order.ID, models.ActivityCompleted).
				Updates(map[string]interface{}{"status": target, "updated_by": principal.Subject}).Error
			if err != nil {
				return fmt.Errorf("failed to update order activities: %w", err)
			}
		}

		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes an order together with its items and activities
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.Activity{}).Error; err != nil {
			return fmt.Errorf("failed to delete order activities: %w", err)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// pricedLine is an order item resolved against the catalog
type pricedLine struct {
	product  *models.Product
	quantity int
}

type pricedLines []pricedLine

// items snapshots the current product prices into order items
func (lines pricedLines) items(orderID uint) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: line.product.ID,
			Quantity:  line.quantity,
			Price:     line.product.Price,
		})
	}
	return items
}

func validateItems(items []OrderItemInput) error {
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if item.ProductID == 0 {
			return invalidInput("Every item needs a product")
		}
		if item.Quantity < 1 {
			return invalidInput("Item quantity must be at least 1")
		}
		// activity codes are derived from the product code and must stay unique
		if seen[item.ProductID] {
			return invalidInput("Product with ID %d appears more than once", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	return nil
}

func priceItems(tx *gorm.DB, items []OrderItemInput) (pricedLines, float64, error) {
	lines := make(pricedLines, 0, len(items))
	total := 0.0
	for _, item := range items {
		product, err := findProduct(tx, item.ProductID)
		if err != nil {
			return nil, 0, err
		}
		total += product.Price * float64(item.Quantity)
		lines = append(lines, pricedLine{product: product, quantity: item.Quantity})
	}
	return lines, total, nil
}

// generateActivities fans an order out into one pending activity per priced line
func generateActivities(tx *gorm.DB, principal Principal, order *models.Order, lines pricedLines) error {
	activities := make([]models.Activity, 0, len(lines))
	for _, line := range lines {
		activities = append(activities, models.Activity{
			ActivityCode:   models.ActivityCode(order.OrderNumber, line.product.Code),
			OrderID:        order.ID,
			ProductID:      line.product.ID,
			Description:    fmt.Sprintf("Production of %s for order %s", line.product.Name, order.OrderNumber),
			Status:         models.ActivityPending,
			EstimatedHours: line.product.EstimatedProductionTime * float64(line.quantity),
			Priority:       order.Priority,
			UpdatedBy:      principal.Subject,
		})
	}
	if len(activities) == 0 {
		return nil
	}

	if err := tx.Create(&activities).Error; err != nil {
		if isUniqueViolation(err) {
			return conflict("ACTIVITY_EXISTS", "Activity codes for order %s are already in use", order.OrderNumber)
		}
		return fmt.Errorf("failed to create activities: %w", err)
	}
	return nil
}

func findOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ORDER_NOT_FOUND", "Order with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return &order, nil
}

func orderExists(orderNumber string) *ServiceError {
	return conflict("ORDER_EXISTS", "Order with number %s already exists", orderNumber)
}
