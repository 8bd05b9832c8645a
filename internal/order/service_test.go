package order

import (
	"context"
	"errors"
	"testing"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/events"
	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/payment"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) Transition(ctx context.Context, orderID int64, actor identity.Actor, target Status) (*Order, Status, error) {
	args := m.Called(ctx, orderID, actor, target)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*Order), args.Get(1).(Status), args.Error(2)
}

func (m *MockRepository) Get(ctx context.Context, orderID int64) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalog) GetActive(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalog) ListActive(ctx context.Context, limit, offset int32) ([]*catalog.Product, error) {
	args := m.Called(ctx, limit, offset)
	return nil, args.Error(1)
}

func (m *MockCatalog) ListByArtisan(ctx context.Context, artisanID string) ([]*catalog.Product, error) {
	args := m.Called(ctx, artisanID)
	return nil, args.Error(1)
}

func (m *MockCatalog) Create(ctx context.Context, p *catalog.Product) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalog) Update(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCatalog) Deactivate(ctx context.Context, id int64, artisanID string) error {
	return m.Called(ctx, id, artisanID).Error(0)
}

func (m *MockCatalog) ReserveStock(ctx context.Context, productID int64, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *MockCatalog) ReleaseStock(ctx context.Context, productID int64, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, intent payment.OrderIntent) (*payment.Authorization, error) {
	args := m.Called(ctx, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Authorization), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, env events.Envelope) {
	m.Called(ctx, env)
}

func activeProduct() *catalog.Product {
	return &catalog.Product{
		ID:            1,
		ArtisanID:     "artisan-1",
		Name:          "Clay Vase",
		PriceCents:    2500,
		StockQuantity: 5,
		IsActive:      true,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		cat := new(MockCatalog)
		auth := new(MockAuthorizer)
		pub := new(MockPublisher)
		svc := NewService(repo, cat, auth, pub)

		cat.On("GetActive", ctx, int64(1)).Return(activeProduct(), nil)
		auth.On("Authorize", ctx, payment.OrderIntent{
			BuyerID:     "buyer-1",
			ProductID:   1,
			Quantity:    2,
			AmountCents: 5000,
		}).Return(&payment.Authorization{Reference: "SIM-1"}, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				o := args.Get(1).(*Order)
				o.ID = 10
				o.ArtisanID = "artisan-1"
				o.TotalAmountCents = 5000
				o.Status = StatusPending
			}).Return(nil)
		pub.On("Publish", ctx, mock.AnythingOfType("events.Envelope")).Return()

		o, err := svc.Create(ctx, buyer, CreateInput{ProductID: 1, Quantity: 2})
		assert.NoError(t, err)
		assert.Equal(t, int64(10), o.ID)
		assert.Equal(t, int64(5000), o.TotalAmountCents)
		assert.Equal(t, StatusPending, o.Status)
		repo.AssertExpectations(t)
		auth.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockCatalog), new(MockAuthorizer), new(MockPublisher))

		_, err := svc.Create(ctx, buyer, CreateInput{ProductID: 1, Quantity: 0})
		assert.ErrorIs(t, err, ErrInvalidOrder)

		_, err = svc.Create(ctx, buyer, CreateInput{ProductID: 0, Quantity: 1})
		assert.ErrorIs(t, err, ErrInvalidOrder)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		cat := new(MockCatalog)
		svc := NewService(repo, cat, new(MockAuthorizer), new(MockPublisher))

		cat.On("GetActive", ctx, int64(99)).Return(nil, catalog.ErrProductNotFound)

		_, err := svc.Create(ctx, buyer, CreateInput{ProductID: 99, Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("InsufficientStockFastPath", func(t *testing.T) {
		repo := new(MockRepository)
		cat := new(MockCatalog)
		svc := NewService(repo, cat, new(MockAuthorizer), new(MockPublisher))

		p := activeProduct()
		p.StockQuantity = 1
		cat.On("GetActive", ctx, int64(1)).Return(p, nil)

		_, err := svc.Create(ctx, buyer, CreateInput{ProductID: 1, Quantity: 3})
		assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("PaymentDeclinedAbortsBeforeCreate", func(t *testing.T) {
		repo := new(MockRepository)
		cat := new(MockCatalog)
		auth := new(MockAuthorizer)
		pub := new(MockPublisher)
		svc := NewService(repo, cat, auth, pub)

		cat.On("GetActive", ctx, int64(1)).Return(activeProduct(), nil)
		auth.On("Authorize", ctx, mock.AnythingOfType("payment.OrderIntent")).
			Return(nil, payment.ErrDeclined)

		_, err := svc.Create(ctx, buyer, CreateInput{ProductID: 1, Quantity: 2})
		assert.ErrorIs(t, err, payment.ErrDeclined)
		repo.AssertNotCalled(t, "Create")
		pub.AssertNotCalled(t, "Publish")
	})

	t.Run("SerializationFailureRetried", func(t *testing.T) {
		repo := new(MockRepository)
		cat := new(MockCatalog)
		auth := new(MockAuthorizer)
		pub := new(MockPublisher)
		svc := NewService(repo, cat, auth, pub)

		cat.On("GetActive", ctx, int64(1)).Return(activeProduct(), nil)
		auth.On("Authorize", ctx, mock.AnythingOfType("payment.OrderIntent")).
			Return(&payment.Authorization{Reference: "SIM-1"}, nil)

		serErr := &pq.Error{Code: "40001"}
		repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(serErr).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Order).ID = 11
			}).Return(nil).Once()
		pub.On("Publish", ctx, mock.AnythingOfType("events.Envelope")).Return()

		o, err := svc.Create(ctx, buyer, CreateInput{ProductID: 1, Quantity: 2})
		assert.NoError(t, err)
		assert.Equal(t, int64(11), o.ID)
		repo.AssertExpectations(t)
	})

	t.Run("ExhaustedRetriesSurfaceConflict", func(t *testing.T) {
		repo := new(MockRepository)
		cat := new(MockCatalog)
		auth := new(MockAuthorizer)
		svc := NewService(repo, cat, auth, new(MockPublisher))

		cat.On("GetActive", ctx, int64(1)).Return(activeProduct(), nil)
		auth.On("Authorize", ctx, mock.AnythingOfType("payment.OrderIntent")).
			Return(&payment.Authorization{Reference: "SIM-1"}, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).
			Return(&pq.Error{Code: "40001"}).Times(maxRetries)

		_, err := svc.Create(ctx, buyer, CreateInput{ProductID: 1, Quantity: 2})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("PublishesOnChange", func(t *testing.T) {
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc := NewService(repo, new(MockCatalog), new(MockAuthorizer), pub)

		confirmed := &Order{ID: 10, BuyerID: "buyer-1", ArtisanID: "artisan-1", Status: StatusConfirmed}
		repo.On("Transition", ctx, int64(10), artisan, StatusConfirmed).
			Return(confirmed, StatusPending, nil)
		pub.On("Publish", ctx, mock.AnythingOfType("events.Envelope")).Return()

		o, err := svc.Transition(ctx, artisan, 10, StatusConfirmed)
		assert.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		pub.AssertExpectations(t)
	})

	t.Run("NoopSkipsEvent", func(t *testing.T) {
		repo := new(MockRepository)
		pub := new(MockPublisher)
		svc := NewService(repo, new(MockCatalog), new(MockAuthorizer), pub)

		cancelled := &Order{ID: 10, Status: StatusCancelled}
		repo.On("Transition", ctx, int64(10), buyer, StatusCancelled).
			Return(cancelled, StatusCancelled, nil)

		_, err := svc.Transition(ctx, buyer, 10, StatusCancelled)
		assert.NoError(t, err)
		pub.AssertNotCalled(t, "Publish")
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCatalog), new(MockAuthorizer), new(MockPublisher))

		_, err := svc.Transition(ctx, buyer, 10, Status("paid"))
		assert.ErrorIs(t, err, ErrInvalidOrder)
		repo.AssertNotCalled(t, "Transition")
	})

	t.Run("RepositoryErrorsPassThrough", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCatalog), new(MockAuthorizer), new(MockPublisher))

		repo.On("Transition", ctx, int64(10), buyer, StatusCancelled).
			Return(nil, Status(""), ErrInvalidTransition)

		_, err := svc.Transition(ctx, buyer, 10, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	svc := NewService(repo, new(MockCatalog), new(MockAuthorizer), new(MockPublisher))

	o := &Order{ID: 10, BuyerID: "buyer-1", ArtisanID: "artisan-1"}
	repo.On("Get", ctx, int64(10)).Return(o, nil)

	t.Run("BuyerSeesOwnOrder", func(t *testing.T) {
		got, err := svc.Get(ctx, buyer, 10)
		assert.NoError(t, err)
		assert.Equal(t, o, got)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, identity.Actor{ID: "stranger"}, 10)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, isRetryable(&pq.Error{Code: "40P01"}))
	assert.False(t, isRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("plain error")))
}
