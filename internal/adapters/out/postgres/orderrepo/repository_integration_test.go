package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/orderrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
)

// MockAggregateTracker records the aggregates the repository reports as written.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies how orders, their line items
// and their history are persisted in PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func TestOrderRepositoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.HistoryDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_history, orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NewOrder_PersistsItemsAndHistory() {
	ctx := context.Background()
	placed := suite.newOrder(time.Now())

	suite.tracker.On("TrackAggregate", placed.ID(), placed).Once()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	suite.assertCount(&orderrepo.OrderDTO{}, 1)
	suite.assertCount(&orderrepo.HistoryDTO{}, 2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Duplicate_ReturnsConflict() {
	ctx := context.Background()
	placed := suite.newOrder(time.Now())

	suite.tracker.On("TrackAggregate", placed.ID(), mock.Anything).Once()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	again, err := order.RestoreOrder(placed.Snapshot())
	suite.Require().NoError(err)

	err = suite.repository.Add(ctx, again)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	suite.assertCount(&orderrepo.OrderDTO{}, 1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NotConstructed_ReturnsError() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertCount(&orderrepo.OrderDTO{}, 0)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RestoresAggregate() {
	ctx := context.Background()
	placedAt := time.Now().UTC().Truncate(time.Millisecond)
	placed := suite.newOrder(placedAt)

	suite.tracker.On("TrackAggregate", placed.ID(), placed).Once()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	retrieved, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)

	suite.Equal(placed.ID(), retrieved.ID())
	suite.Equal("buyer-1", retrieved.BuyerID())
	suite.Equal("seller-1", retrieved.SellerID())
	suite.Equal(order.PendingSellerConfirmation, retrieved.Status())
	suite.Equal(int64(1), retrieved.Version())
	suite.True(placedAt.Equal(retrieved.PlacedAt()))
	suite.Require().Len(retrieved.Items(), 2)
	suite.Equal("sku-1", retrieved.Items()[0].ProductID())
	suite.Equal(2, retrieved.Items()[0].Quantity())
	suite.True(kernel.MustMoney("10.00").IsEqual(retrieved.Items()[0].UnitPrice()))
	suite.True(kernel.MustMoney("25.50").IsEqual(retrieved.Total()))
	suite.Empty(retrieved.Events())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCompareAndSwap_Transitions() {
	testCases := []struct {
		name    string
		mutate  func(*order.Order) error
		status  order.Status
		history int
	}{
		{
			name: "confirm",
			mutate: func(o *order.Order) error {
				return o.Apply(order.IntentConfirm, "seller-1", time.Now())
			},
			status:  order.Confirmed,
			history: 3,
		},
		{
			name: "confirm and ship",
			mutate: func(o *order.Order) error {
				if err := o.Apply(order.IntentConfirm, "seller-1", time.Now()); err != nil {
					return err
				}
				return o.Apply(order.IntentShip, "courier-1", time.Now())
			},
			status:  order.Shipped,
			history: 4,
		},
		{
			name: "partially fulfill",
			mutate: func(o *order.Order) error {
				kept, err := order.NewLineItem("sku-1", 1, kernel.MustMoney("10.00"))
				if err != nil {
					return err
				}
				return o.FulfillPartially("seller-1", []order.LineItem{kept}, time.Now())
			},
			status:  order.PartiallyFulfilled,
			history: 3,
		},
	}

	ctx := context.Background()
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			placed := suite.newOrder(time.Now())
			suite.tracker.On("TrackAggregate", placed.ID(), placed).Twice()
			suite.Require().NoError(suite.repository.Add(ctx, placed))

			suite.Require().NoError(tc.mutate(placed))
			suite.Require().NoError(suite.repository.CompareAndSwap(ctx, 1, placed))

			retrieved, err := suite.repository.Get(ctx, placed.ID())
			suite.Require().NoError(err)
			suite.Equal(tc.status, retrieved.Status())
			suite.Len(retrieved.History(), tc.history)
			suite.Equal(placed.Version(), retrieved.Version())
			suite.Equal(quantities(placed.Items()), quantities(retrieved.Items()))
			suite.Equal(quantities(placed.Remainder()), quantities(retrieved.Remainder()))

			suite.tracker.AssertExpectations(suite.T())
		})
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCompareAndSwap_StaleVersion_ReturnsConflict() {
	ctx := context.Background()
	placed := suite.newOrder(time.Now())
	suite.tracker.On("TrackAggregate", placed.ID(), placed).Once()
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	suite.Require().NoError(placed.Apply(order.IntentConfirm, "seller-1", time.Now()))
	err := suite.repository.CompareAndSwap(ctx, 0, placed)

	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
	suite.True(errs.IsRetryable(err))
	suite.assertCount(&orderrepo.HistoryDTO{}, 2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCompareAndSwap_NonExistentOrder_ReturnsNotFound() {
	err := suite.repository.CompareAndSwap(context.Background(), 1, suite.newOrder(time.Now()))

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertNotCalled(suite.T(), "TrackAggregate", mock.Anything, mock.Anything)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListBySeller_NoOrders_ReturnsEmptySlice() {
	orders, err := suite.repository.ListBySeller(context.Background(), "seller-1", order.Confirmed)

	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(at time.Time) *order.Order {
	first, err := order.NewLineItem("sku-1", 2, kernel.MustMoney("10.00"))
	suite.Require().NoError(err)
	second, err := order.NewLineItem("sku-2", 1, kernel.MustMoney("5.50"))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), "buyer-1", "seller-1", []order.LineItem{first, second}, at)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertCount(model any, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(model).Count(&count).Error)
	suite.Equal(expected, count)
}

func quantities(items []order.LineItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, li := range items {
		out[li.ProductID()] = li.Quantity()
	}
	return out
}
