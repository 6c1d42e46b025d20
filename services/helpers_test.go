package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/foodcart-app/database"
	"github.com/yeremiapane/foodcart-app/models"
)

// setupTestDB opens a private in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]models.Coordinates
	err    error
	calls  map[string]int
	// onGeocode runs before every answer, outside the lock.
	onGeocode func(address string)
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		coords: make(map[string]models.Coordinates),
		calls:  make(map[string]int),
	}
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (*models.Coordinates, error) {
	if g.onGeocode != nil {
		g.onGeocode(address)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[address]++
	if g.err != nil {
		return nil, g.err
	}
	c, ok := g.coords[address]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (g *fakeGeocoder) Calls(address string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[address]
}

type recordedEvent struct {
	Event string
	Data  interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, Data: data})
}

func (p *recordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event)
	}
	return names
}

// testEnv wires every service against one database.
type testEnv struct {
	db          *gorm.DB
	geocoder    *fakeGeocoder
	events      *recordingPublisher
	addresses   *AddressCache
	index       *MenuIndex
	resolver    *RestaurantResolver
	orders      *OrderService
	restaurants *RestaurantService
	products    *ProductService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	geocoder := newFakeGeocoder()
	events := &recordingPublisher{}
	addresses := NewAddressCache(db, geocoder)
	index := NewMenuIndex(db)
	resolver := NewRestaurantResolver(db, index, addresses)
	return &testEnv{
		db:          db,
		geocoder:    geocoder,
		events:      events,
		addresses:   addresses,
		index:       index,
		resolver:    resolver,
		orders:      NewOrderService(db, addresses, resolver, events),
		restaurants: NewRestaurantService(db, addresses),
		products:    NewProductService(db, index),
	}
}

func (e *testEnv) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) restaurant(t *testing.T, name, address string) models.Restaurant {
	t.Helper()
	r := models.Restaurant{Name: name, Address: address}
	require.NoError(t, e.db.Create(&r).Error)
	return r
}

func (e *testEnv) list(t *testing.T, restaurantID, productID uint, available bool) {
	t.Helper()
	item := models.RestaurantMenuItem{RestaurantID: restaurantID, ProductID: productID, Availability: available}
	require.NoError(t, e.db.Create(&item).Error)
}

func (e *testEnv) cacheAddress(t *testing.T, address string, lat, lon float64) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Address{Address: address, Lat: &lat, Lon: &lon}).Error)
}

func orderInput(address string, items ...OrderItemInput) OrderInput {
	return OrderInput{
		Firstname:   "Ivan",
		Lastname:    "Petrov",
		Phonenumber: "+79001234567",
		Address:     address,
		Products:    items,
	}
}

func item(productID uint, quantity int) OrderItemInput {
	return OrderItemInput{ProductID: productID, Quantity: &quantity}
}
