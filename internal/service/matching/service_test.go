package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/foodcart/internal/dto"
	"github.com/Additional-Code/foodcart/internal/entity"
	"github.com/Additional-Code/foodcart/internal/geo"
	"github.com/Additional-Code/foodcart/internal/service/menu"
	"github.com/Additional-Code/foodcart/pkg/errorbank"
)

type fakeMenuReader struct {
	items []entity.MenuItem
}

func (r *fakeMenuReader) ListAvailableMenuItems(context.Context) ([]entity.MenuItem, error) {
	return r.items, nil
}

type fakeResolver struct {
	points map[string]*geo.Point
}

func (r *fakeResolver) Resolve(_ context.Context, addresses []string) map[string]*geo.Point {
	out := map[string]*geo.Point{}
	for _, addr := range addresses {
		out[addr] = r.points[addr]
	}
	return out
}

type fakeOrderLister struct {
	orders []entity.Order
}

func (l *fakeOrderLister) ListOpen(context.Context) ([]entity.Order, error) {
	return l.orders, nil
}

func menuItem(restID, productID int64, name, address string) entity.MenuItem {
	return entity.MenuItem{
		RestaurantID: restID,
		ProductID:    productID,
		Available:    true,
		Restaurant:   &entity.Restaurant{ID: restID, Name: name, Address: address},
	}
}

func orderWith(id int64, address string, productIDs ...int64) *entity.Order {
	order := &entity.Order{ID: id, Address: address}
	for _, pid := range productIDs {
		order.Lines = append(order.Lines, entity.OrderLine{ProductID: pid})
	}
	return order
}

func newTestService(menus *fakeMenuReader, resolver *fakeResolver, orders *fakeOrderLister) *Service {
	availability := menu.NewService(menus, nil, nil, 0, zap.NewNop())
	return NewService(availability, resolver, orders, zap.NewNop())
}

func TestMatchRanksByDistance(t *testing.T) {
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Дальняя", "Санкт-Петербург, Невский 1"),
		menuItem(2, 10, "Ближняя", "Москва, Арбат 1"),
	}}
	resolver := &fakeResolver{points: map[string]*geo.Point{
		"Москва, Ленина 1":           {Lat: 55.75, Lon: 37.61},
		"Москва, Арбат 1":            {Lat: 55.74, Lon: 37.59},
		"Санкт-Петербург, Невский 1": {Lat: 59.93, Lon: 30.36},
	}}
	svc := newTestService(menus, resolver, &fakeOrderLister{})

	result, err := svc.Match(context.Background(), orderWith(7, "Москва, Ленина 1", 10))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "Ближняя", result.Candidates[0].Name)
	assert.Equal(t, "Дальняя", result.Candidates[1].Name)
	require.NotNil(t, result.Candidates[0].DistanceKm)
	require.NotNil(t, result.Candidates[1].DistanceKm)
	assert.Less(t, *result.Candidates[0].DistanceKm, *result.Candidates[1].DistanceKm)
}

func TestMatchUnknownDistancesSortLast(t *testing.T) {
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Без координат", "ул. Несуществующая 1"),
		menuItem(2, 10, "С координатами", "Москва, Арбат 1"),
	}}
	resolver := &fakeResolver{points: map[string]*geo.Point{
		"Москва, Ленина 1": {Lat: 55.75, Lon: 37.61},
		"Москва, Арбат 1":  {Lat: 55.74, Lon: 37.59},
	}}
	svc := newTestService(menus, resolver, &fakeOrderLister{})

	result, err := svc.Match(context.Background(), orderWith(7, "Москва, Ленина 1", 10))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "С координатами", result.Candidates[0].Name)
	assert.Equal(t, "Без координат", result.Candidates[1].Name)
	assert.Nil(t, result.Candidates[1].DistanceKm)
}

func TestMatchGeocoderOutageDegradesToUnknown(t *testing.T) {
	// Nothing resolves; every candidate is still listed, just unranked.
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Двойка", "Москва, Арбат 1"),
		menuItem(2, 10, "Тройка", "Москва, Тверская 1"),
	}}
	svc := newTestService(menus, &fakeResolver{}, &fakeOrderLister{})

	result, err := svc.Match(context.Background(), orderWith(7, "Москва, Ленина 1", 10))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	for _, cand := range result.Candidates {
		assert.Nil(t, cand.DistanceKm)
	}
}

func TestMatchSameAddressIsDistanceZero(t *testing.T) {
	// Exact address match short-circuits: distance zero even when the
	// geocoder knows nothing about either address.
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Двойка", "Москва, Ленина 1"),
	}}
	svc := newTestService(menus, &fakeResolver{}, &fakeOrderLister{})

	result, err := svc.Match(context.Background(), orderWith(7, "Москва, Ленина 1", 10))
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	require.NotNil(t, result.Candidates[0].DistanceKm)
	assert.Zero(t, *result.Candidates[0].DistanceKm)
}

func TestMatchInfeasibleOrderHasNoCandidates(t *testing.T) {
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Двойка", "Москва, Арбат 1"),
	}}
	svc := newTestService(menus, &fakeResolver{}, &fakeOrderLister{})

	result, err := svc.Match(context.Background(), orderWith(7, "Москва, Ленина 1", 10, 99))
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
}

func TestMatchRejectsOrderWithoutProducts(t *testing.T) {
	svc := newTestService(&fakeMenuReader{}, &fakeResolver{}, &fakeOrderLister{})

	_, err := svc.Match(context.Background(), orderWith(7, "Москва, Ленина 1"))
	require.Error(t, err)
	var appErr *errorbank.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
}

func TestMatchOpenRanksEveryOrder(t *testing.T) {
	menus := &fakeMenuReader{items: []entity.MenuItem{
		menuItem(1, 10, "Двойка", "Москва, Арбат 1"),
		menuItem(1, 20, "Двойка", "Москва, Арбат 1"),
		menuItem(2, 10, "Тройка", "Москва, Тверская 1"),
	}}
	resolver := &fakeResolver{points: map[string]*geo.Point{
		"Москва, Ленина 1":  {Lat: 55.75, Lon: 37.61},
		"Москва, Арбат 1":   {Lat: 55.74, Lon: 37.59},
		"Москва, Тверская 1": {Lat: 55.76, Lon: 37.60},
	}}
	orders := &fakeOrderLister{orders: []entity.Order{
		*orderWith(1, "Москва, Ленина 1", 10),
		*orderWith(2, "Москва, Ленина 1", 10, 20),
	}}
	svc := newTestService(menus, resolver, orders)

	matches, err := svc.MatchOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// First order: both restaurants carry product 10.
	assert.Len(t, matches[0].Candidates, 2)
	// Second order: only restaurant 1 carries the full set.
	require.Len(t, matches[1].Candidates, 1)
	assert.Equal(t, int64(1), matches[1].Candidates[0].RestaurantID)
}

func TestRankKeepsInputOrderForUnknowns(t *testing.T) {
	restaurants := []entity.Restaurant{
		{ID: 1, Name: "Первая", Address: "адрес 1"},
		{ID: 2, Name: "Вторая", Address: "адрес 2"},
	}
	candidates := rank("адрес заказа", restaurants, map[string]*geo.Point{})

	require.Len(t, candidates, 2)
	assert.Equal(t, []dto.Candidate{
		{RestaurantID: 1, Name: "Первая", Address: "адрес 1"},
		{RestaurantID: 2, Name: "Вторая", Address: "адрес 2"},
	}, candidates)
}
