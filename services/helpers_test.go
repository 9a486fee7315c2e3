package services

import (
	"context"
	"time"

	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var (
	testPrincipal = Principal{Subject: "auth0|planner"}
	fixedNow      = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
)

// lifecycleSuite gives every test a fresh database and services with a fixed clock
type lifecycleSuite struct {
	suite.Suite
	ctx        context.Context
	db         *gorm.DB
	orders     *OrderService
	activities *ActivityService
	products   *ProductService
	operators  *OperatorService
}

func (s *lifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())

	s.orders = NewOrderService(s.db)
	s.orders.now = func() time.Time { return fixedNow }
	s.activities = NewActivityService(s.db)
	s.activities.now = func() time.Time { return fixedNow }
	s.products = NewProductService(s.db).WithImageService(nil)
	s.operators = NewOperatorService(s.db)
}

func (s *lifecycleSuite) createProduct(code string, price, hours float64) *models.Product {
	product, err := s.products.Create(s.ctx, ProductInput{
		Code:                    code,
		Name:                    "Product " + code,
		Price:                   price,
		EstimatedProductionTime: hours,
	})
	s.Require().NoError(err)
	return product
}

func (s *lifecycleSuite) createOperator(code string) *models.Operator {
	operator, err := s.operators.Create(s.ctx, OperatorInput{Code: code, Name: "Operator " + code, Role: "assembler"})
	s.Require().NoError(err)
	return operator
}

func (s *lifecycleSuite) orderInput(number string, items ...OrderItemInput) CreateOrderInput {
	delivery := fixedNow.Add(14 * 24 * time.Hour)
	return CreateOrderInput{
		OrderNumber:     number,
		CustomerName:    "Acme",
		CustomerContact: "ops@acme.test",
		DeliveryDate:    &delivery,
		Items:           items,
	}
}

func (s *lifecycleSuite) createOrder(number string, items ...OrderItemInput) *models.Order {
	order, err := s.orders.Create(s.ctx, testPrincipal, s.orderInput(number, items...))
	s.Require().NoError(err)
	return order
}

func (s *lifecycleSuite) orderActivities(orderID uint) []models.Activity {
	activities, err := s.activities.List(s.ctx, ActivityFilter{OrderID: orderID})
	s.Require().NoError(err)
	return activities
}

func (s *lifecycleSuite) reloadOrder(id uint) *models.Order {
	order, err := s.orders.Get(s.ctx, id)
	s.Require().NoError(err)
	return order
}

func (s *lifecycleSuite) requireKind(err error, kind ErrorKind, code string) {
	s.Require().Error(err)
	var svcErr *ServiceError
	s.Require().ErrorAs(err, &svcErr)
	s.Equal(kind, svcErr.Kind, svcErr.Message)
	if code != "" {
		s.Equal(code, svcErr.Code)
	}
}

func item(productID uint, quantity int) OrderItemInput {
	return OrderItemInput{ProductID: productID, Quantity: quantity}
}

func ptr[T any](v T) *T {
	return &v
}
