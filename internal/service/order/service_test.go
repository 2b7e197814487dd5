package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/dto"
	"github.com/Additional-Code/foodcart/internal/entity"
	orderrepo "github.com/Additional-Code/foodcart/internal/repository/order"
	restaurantrepo "github.com/Additional-Code/foodcart/internal/repository/restaurant"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

type fakeOrderStore struct {
	orders map[int64]*entity.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int64]*entity.Order{}, nextID: 1}
}

func (s *fakeOrderStore) Create(_ context.Context, order *entity.Order) error {
	order.ID = s.nextID
	s.nextID++
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) ListOpen(context.Context) ([]entity.Order, error) {
	var open []entity.Order
	for _, order := range s.orders {
		if order.Status != entity.StatusCompleted {
			open = append(open, *order)
		}
	}
	return open, nil
}

func (s *fakeOrderStore) UpdateAssignment(_ context.Context, order *entity.Order) error {
	if _, ok := s.orders[order.ID]; !ok {
		return orderrepo.ErrNotFound
	}
	copied := *order
	s.orders[order.ID] = &copied
	return nil
}

type fakeProductReader struct {
	products []entity.Product
}

func (r *fakeProductReader) GetByIDs(_ context.Context, ids []int64) ([]entity.Product, error) {
	byID := map[int64]entity.Product{}
	for _, p := range r.products {
		byID[p.ID] = p
	}
	var out []entity.Product
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeRestaurantReader struct {
	ids map[int64]struct{}
}

func (r *fakeRestaurantReader) GetByID(_ context.Context, id int64) (*entity.Restaurant, error) {
	if _, ok := r.ids[id]; !ok {
		return nil, restaurantrepo.ErrNotFound
	}
	return &entity.Restaurant{ID: id}, nil
}

func newTestService(store *fakeOrderStore, products *fakeProductReader, restaurants *fakeRestaurantReader) *Service {
	return NewService(store, products, restaurants, nil, 0, nil, false, zap.NewNop())
}

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Firstname:   "Иван",
		Lastname:    "Петров",
		Phonenumber: "+79161234567",
		Address:     "Москва, Ленина 1",
		Products: []dto.CreateOrderLineRequest{
			{Product: 10, Quantity: 2},
		},
	}
}

func catalog() *fakeProductReader {
	return &fakeProductReader{products: []entity.Product{
		{ID: 10, Name: "Бургер", Price: 350},
		{ID: 20, Name: "Кола", Price: 90},
	}}
}

func requireKind(t *testing.T, err error, kind errorbank.Kind) *errorbank.AppError {
	t.Helper()
	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind())
	return appErr
}

func TestCreateSnapshotsPrices(t *testing.T) {
	store := newFakeOrderStore()
	svc := newTestService(store, catalog(), &fakeRestaurantReader{})

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnprocessed, order.Status)
	assert.Equal(t, entity.PaymentCash, order.PaymentMethod)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 350.0, order.Lines[0].Price)
	assert.Equal(t, 700.0, order.TotalPrice())
}

func TestCreateValidatesFields(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), catalog(), &fakeRestaurantReader{})

	req := dto.CreateOrderRequest{
		Phonenumber: "12345",
		Products:    []dto.CreateOrderLineRequest{{Product: 10, Quantity: 0}},
	}
	_, err := svc.Create(context.Background(), req)
	appErr := requireKind(t, err, errorbank.KindBadRequest)

	details := appErr.Details()
	assert.Contains(t, details, "firstname")
	assert.Contains(t, details, "lastname")
	assert.Contains(t, details, "address")
	assert.Contains(t, details, "phonenumber")
	assert.Contains(t, details, "products[0].quantity")
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), catalog(), &fakeRestaurantReader{})

	req := validRequest()
	req.Products = []dto.CreateOrderLineRequest{{Product: 999, Quantity: 1}}
	_, err := svc.Create(context.Background(), req)
	requireKind(t, err, errorbank.KindBadRequest)
}

func TestCreateRejectsUnknownPaymentMethod(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), catalog(), &fakeRestaurantReader{})

	req := validRequest()
	req.PaymentMethod = "BARTER"
	_, err := svc.Create(context.Background(), req)
	requireKind(t, err, errorbank.KindBadRequest)
}

func TestCreatePriceEditsDoNotAffectSnapshot(t *testing.T) {
	store := newFakeOrderStore()
	products := catalog()
	svc := newTestService(store, products, &fakeRestaurantReader{})

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	products.products[0].Price = 999

	kept, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, kept.Lines[0].Price)
}

func TestGetUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), catalog(), &fakeRestaurantReader{})

	_, err := svc.Get(context.Background(), 42)
	requireKind(t, err, errorbank.KindNotFound)
}

func TestAssignRestaurantPromotesToCooking(t *testing.T) {
	store := newFakeOrderStore()
	restaurants := &fakeRestaurantReader{ids: map[int64]struct{}{5: {}}}
	svc := newTestService(store, catalog(), restaurants)

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	updated, err := svc.AssignRestaurant(context.Background(), order.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, updated.RestaurantID)
	assert.Equal(t, int64(5), *updated.RestaurantID)
	assert.Equal(t, entity.StatusCooking, updated.Status)
}

func TestAssignRestaurantRejectedAfterCooking(t *testing.T) {
	store := newFakeOrderStore()
	restaurants := &fakeRestaurantReader{ids: map[int64]struct{}{5: {}, 6: {}}}
	svc := newTestService(store, catalog(), restaurants)

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = svc.AssignRestaurant(context.Background(), order.ID, 5)
	require.NoError(t, err)

	_, err = svc.AssignRestaurant(context.Background(), order.ID, 6)
	requireKind(t, err, errorbank.KindUnprocessableEntity)
}

func TestAssignRestaurantUnknownRestaurant(t *testing.T) {
	store := newFakeOrderStore()
	svc := newTestService(store, catalog(), &fakeRestaurantReader{})

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.AssignRestaurant(context.Background(), order.ID, 5)
	requireKind(t, err, errorbank.KindNotFound)
}

func TestAdvanceStatusSingleStepOnly(t *testing.T) {
	store := newFakeOrderStore()
	svc := newTestService(store, catalog(), &fakeRestaurantReader{})

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Skipping ahead is rejected.
	_, err = svc.AdvanceStatus(context.Background(), order.ID, entity.StatusCooking)
	requireKind(t, err, errorbank.KindUnprocessableEntity)

	// Walking the lifecycle one step at a time succeeds.
	for _, next := range []entity.Status{
		entity.StatusNew,
		entity.StatusCooking,
		entity.StatusDelivering,
		entity.StatusCompleted,
	} {
		updated, err := svc.AdvanceStatus(context.Background(), order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Completed is terminal.
	_, err = svc.AdvanceStatus(context.Background(), order.ID, entity.StatusNew)
	requireKind(t, err, errorbank.KindUnprocessableEntity)
}

func TestAdvanceStatusUnknownValue(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), catalog(), &fakeRestaurantReader{})

	_, err := svc.AdvanceStatus(context.Background(), 1, entity.Status("SHIPPED"))
	requireKind(t, err, errorbank.KindBadRequest)
}

func TestValidPhone(t *testing.T) {
	assert.True(t, validPhone("+79161234567"))
	assert.True(t, validPhone("89161234567"))
	assert.False(t, validPhone("12345"))
	assert.False(t, validPhone(""))
	assert.False(t, validPhone("not a phone"))
}
