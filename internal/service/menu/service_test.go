package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

type fakeMenuReader struct {
	items []entity.MenuItem
	err   error
}

func (r *fakeMenuReader) ListAvailableMenuItems(context.Context) ([]entity.MenuItem, error) {
	return r.items, r.err
}

type fakeProductReader struct {
	products []entity.Product
	err      error
}

func (r *fakeProductReader) ListAvailable(context.Context) ([]entity.Product, error) {
	return r.products, r.err
}

func menuItem(restID, productID int64, name string) entity.MenuItem {
	return entity.MenuItem{
		RestaurantID: restID,
		ProductID:    productID,
		Available:    true,
		Restaurant:   &entity.Restaurant{ID: restID, Name: name},
	}
}

func newTestService(menus MenuReader, products ProductReader) *Service {
	return NewService(menus, products, nil, time.Minute, zap.NewNop())
}

func TestFeasibleRequiresFullSubset(t *testing.T) {
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Двойка"),
		menuItem(1, 20, "Двойка"),
		menuItem(2, 10, "Тройка"),
	}}
	svc := newTestService(menus, &fakeProductReader{})

	ix, err := svc.AvailabilityIndex(context.Background())
	require.NoError(t, err)

	// Restaurant 1 carries both products, restaurant 2 only one of them.
	feasible := ix.Feasible([]int64{10, 20})
	require.Len(t, feasible, 1)
	assert.Equal(t, int64(1), feasible[0].ID)

	// The shared product is on sale in both.
	feasible = ix.Feasible([]int64{10})
	assert.Len(t, feasible, 2)
}

func TestFeasibleSortedByName(t *testing.T) {
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(2, 10, "Ромашка"),
		menuItem(1, 10, "Астра"),
	}}
	svc := newTestService(menus, &fakeProductReader{})

	ix, err := svc.AvailabilityIndex(context.Background())
	require.NoError(t, err)

	feasible := ix.Feasible([]int64{10})
	require.Len(t, feasible, 2)
	assert.Equal(t, "Астра", feasible[0].Name)
	assert.Equal(t, "Ромашка", feasible[1].Name)
}

func TestFeasibleEmptyMenuRestaurantExcluded(t *testing.T) {
	// Only rows currently on sale reach the index, so a restaurant with no
	// available items simply never appears in it.
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Двойка"),
	}}
	svc := newTestService(menus, &fakeProductReader{})

	ix, err := svc.AvailabilityIndex(context.Background())
	require.NoError(t, err)

	feasible := ix.Feasible([]int64{10, 99})
	assert.Empty(t, feasible)
}

func TestFeasibleEmptyInputYieldsNil(t *testing.T) {
	ix := &Index{
		restaurants: []entity.Restaurant{{ID: 1, Name: "Двойка"}},
		available:   map[int64]map[int64]struct{}{1: {10: {}}},
	}
	assert.Nil(t, ix.Feasible(nil))
}

func TestFeasibleRestaurantsRejectsEmptyOrder(t *testing.T) {
	svc := newTestService(&fakeMenuReader{}, &fakeProductReader{})

	_, err := svc.FeasibleRestaurants(context.Background(), nil)
	require.Error(t, err)
	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
}

func TestAvailabilityIndexWrapsReadFailure(t *testing.T) {
	menus := &fakeMenuReader{err: errors.New("boom")}
	svc := newTestService(menus, &fakeProductReader{})

	_, err := svc.AvailabilityIndex(context.Background())
	require.Error(t, err)
	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errorbank.KindInternal, appErr.Kind())
}

func TestListProductsBuildsListing(t *testing.T) {
	products := &fakeProductReader{products: []entity.Product{
		{
			ID:    10,
			Name:  "Бургер",
			Price: 350,
			MenuItems: []entity.MenuItem{
				{Available: true, Restaurant: &entity.Restaurant{ID: 1, Name: "Двойка"}},
				{Available: false, Restaurant: &entity.Restaurant{ID: 2, Name: "Тройка"}},
			},
		},
	}}
	svc := newTestService(&fakeMenuReader{}, products)

	listing, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "Бургер", listing[0].Name)
	require.Len(t, listing[0].Restaurants, 1)
	assert.Equal(t, "Двойка", listing[0].Restaurants[0].Name)
}
