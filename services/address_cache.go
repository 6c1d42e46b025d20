package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcart-app/models"
	"github.com/yeremiapane/foodcart-app/utils"
)

// AddressCache stores one geocoding result per exact address string.
type AddressCache struct {
	db       *gorm.DB
	geocoder Geocoder
}

func NewAddressCache(db *gorm.DB, geocoder Geocoder) *AddressCache {
	return &AddressCache{db: db, geocoder: geocoder}
}

// WithDB returns a copy bound to db, typically an open transaction.
func (c *AddressCache) WithDB(db *gorm.DB) *AddressCache {
	return &AddressCache{db: db, geocoder: c.geocoder}
}

// Lookup reads the cache without calling the geocoder. found is true when a
// record exists, even if its coordinates are unknown.
func (c *AddressCache) Lookup(address string) (coords *models.Coordinates, found bool, err error) {
	var record models.Address
	err = c.db.Where("address = ?", address).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record.Coordinates(), true, nil
}

// LookupMany resolves several addresses with one query. Unknown addresses are absent
// from the result, as are cached addresses without coordinates.
func (c *AddressCache) LookupMany(addresses []string) (map[string]models.Coordinates, error) {
	result := make(map[string]models.Coordinates, len(addresses))
	if len(addresses) == 0 {
		return result, nil
	}
	var records []models.Address
	if err := c.db.Where("address IN ?", addresses).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, record := range records {
		if coords := record.Coordinates(); coords != nil {
			result[record.Address] = *coords
		}
	}
	return result, nil
}

// EnsureGeocoded geocodes address once and caches the outcome, failures included.
// It never returns an error: provider and storage problems are logged and the
// address simply stays without coordinates.
func (c *AddressCache) EnsureGeocoded(ctx context.Context, address string) {
	c.Store(c.Prepare(ctx, address))
}

// Prepare geocodes an address the cache has not seen yet and returns the record
// to store, or nil when the address is already cached. Call it before opening a
// transaction: the provider round trip must not hold a database connection.
func (c *AddressCache) Prepare(ctx context.Context, address string) *models.Address {
	_, found, err := c.Lookup(address)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("address", address).Error("address cache lookup failed")
		return nil
	}
	if found {
		return nil
	}

	record := &models.Address{Address: address}
	if c.geocoder == nil {
		return record
	}
	coords, err := c.geocoder.Geocode(ctx, address)
	switch {
	case err != nil:
		utils.ErrorLogger.WithError(err).WithField("address", address).Error("geocoding failed")
	case coords == nil:
		utils.InfoLogger.WithField("address", address).Info("geocoder returned no coordinates")
	default:
		record.Lat = &coords.Lat
		record.Lon = &coords.Lon
	}
	return record
}

// Store inserts a prepared record. A nil record is a no-op. When another writer
// cached the same address first, its row wins and nothing is reported.
func (c *AddressCache) Store(record *models.Address) {
	if record == nil {
		return
	}
	log := utils.InfoLogger.WithField("address", record.Address)

	res := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Create(record)
	if res.Error != nil {
		utils.ErrorLogger.WithError(res.Error).WithField("address", record.Address).Error("address cache insert failed")
		return
	}
	if res.RowsAffected == 0 {
		log.Debug("address cached concurrently")
		return
	}
	log.WithField("coords", record.Coordinates()).Debug("address cached")
}
