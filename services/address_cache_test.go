package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/foodcart-app/models"
)

func TestAddressCache_EnsureGeocodedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.geocoder.coords["Moscow, Tverskaya 1"] = models.Coordinates{Lon: 37.61, Lat: 55.76}

	env.addresses.EnsureGeocoded(ctx, "Moscow, Tverskaya 1")
	env.addresses.EnsureGeocoded(ctx, "Moscow, Tverskaya 1")

	assert.Equal(t, 1, env.geocoder.Calls("Moscow, Tverskaya 1"))

	coords, found, err := env.addresses.Lookup("Moscow, Tverskaya 1")
	require.NoError(t, err)
	assert.True(t, found)
	require.NotNil(t, coords)
	assert.InDelta(t, 55.76, coords.Lat, 1e-9)
	assert.InDelta(t, 37.61, coords.Lon, 1e-9)

	var count int64
	env.db.Model(&models.Address{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddressCache_FailureIsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.geocoder.err = errors.New("provider down")

	env.addresses.EnsureGeocoded(ctx, "Nowhere 13")
	env.addresses.EnsureGeocoded(ctx, "Nowhere 13")

	assert.Equal(t, 1, env.geocoder.Calls("Nowhere 13"))

	coords, found, err := env.addresses.Lookup("Nowhere 13")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, coords)
}

func TestAddressCache_EmptyResult(t *testing.T) {
	env := newTestEnv(t)

	env.addresses.EnsureGeocoded(context.Background(), "Atlantis")

	coords, found, err := env.addresses.Lookup("Atlantis")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, coords)
}

func TestAddressCache_ExactMatchOnly(t *testing.T) {
	env := newTestEnv(t)
	env.cacheAddress(t, "Lenina 5", 55.0, 37.0)

	_, found, err := env.addresses.Lookup("lenina 5")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = env.addresses.Lookup("Lenina 5")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAddressCache_WithoutGeocoder(t *testing.T) {
	env := newTestEnv(t)
	cache := NewAddressCache(env.db, nil)

	cache.EnsureGeocoded(context.Background(), "Sadovaya 2")

	coords, found, err := cache.Lookup("Sadovaya 2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, coords)
}

func TestAddressCache_LookupMany(t *testing.T) {
	env := newTestEnv(t)
	env.cacheAddress(t, "A 1", 1, 2)
	env.cacheAddress(t, "B 2", 3, 4)
	require.NoError(t, env.db.Create(&models.Address{Address: "C 3"}).Error)

	located, err := env.addresses.LookupMany([]string{"A 1", "B 2", "C 3", "D 4"})
	require.NoError(t, err)

	assert.Len(t, located, 2)
	assert.Equal(t, models.Coordinates{Lat: 1, Lon: 2}, located["A 1"])
	assert.Equal(t, models.Coordinates{Lat: 3, Lon: 4}, located["B 2"])
	assert.NotContains(t, located, "C 3")

	empty, err := env.addresses.LookupMany(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAddressCache_ConcurrentWriterWins(t *testing.T) {
	env := newTestEnv(t)
	env.geocoder.coords["Race 1"] = models.Coordinates{Lat: 9, Lon: 9}
	env.geocoder.onGeocode = func(address string) {
		env.cacheAddress(t, address, 1, 2)
	}

	assert.NotPanics(t, func() {
		env.addresses.EnsureGeocoded(context.Background(), "Race 1")
	})

	var count int64
	require.NoError(t, env.db.Model(&models.Address{}).Where("address = ?", "Race 1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	coords, found, err := env.addresses.Lookup("Race 1")
	require.NoError(t, err)
	assert.True(t, found)
	require.NotNil(t, coords)
	assert.Equal(t, models.Coordinates{Lat: 1, Lon: 2}, *coords)
}

func TestAddressCache_PrepareSkipsCachedAddress(t *testing.T) {
	env := newTestEnv(t)
	env.cacheAddress(t, "Known 1", 1, 2)

	assert.Nil(t, env.addresses.Prepare(context.Background(), "Known 1"))
	assert.Equal(t, 0, env.geocoder.Calls("Known 1"))

	env.addresses.Store(nil)
}
