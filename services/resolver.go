package services

import (
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/yeremiapane/foodcart-app/models"
)

// Candidate is a restaurant able to cook a whole order, with its cached location.
type Candidate struct {
	Restaurant  models.Restaurant   `json:"restaurant"`
	Coordinates *models.Coordinates `json:"coordinates"`
	DistanceKm  *float64            `json:"distance_km,omitempty"`
}

// RestaurantResolver finds the restaurants that can fulfil an order on their own.
type RestaurantResolver struct {
	db        *gorm.DB
	index     *MenuIndex
	addresses *AddressCache
}

func NewRestaurantResolver(db *gorm.DB, index *MenuIndex, addresses *AddressCache) *RestaurantResolver {
	return &RestaurantResolver{db: db, index: index, addresses: addresses}
}

func (r *RestaurantResolver) WithDB(db *gorm.DB) *RestaurantResolver {
	return &RestaurantResolver{
		db:        db,
		index:     r.index.WithDB(db),
		addresses: r.addresses.WithDB(db),
	}
}

// Resolve returns, ordered by restaurant ID, every restaurant with an available
// listing for each product of the order. order.Items must be loaded. Coordinates
// come from the address cache only; no geocoding happens here.
func (r *RestaurantResolver) Resolve(order *models.Order) ([]Candidate, error) {
	productIDs := order.ProductIDs()
	if len(productIDs) == 0 {
		return []Candidate{}, nil
	}

	ids, err := r.index.CoveringRestaurants(productIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Candidate{}, nil
	}

	var restaurants []models.Restaurant
	if err := r.db.Where("id IN ?", ids).Order("id").Find(&restaurants).Error; err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(restaurants))
	for _, restaurant := range restaurants {
		addresses = append(addresses, restaurant.Address)
	}
	located, err := r.addresses.LookupMany(addresses)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(restaurants))
	for _, restaurant := range restaurants {
		candidate := Candidate{Restaurant: restaurant}
		if coords, ok := located[restaurant.Address]; ok {
			candidate.Coordinates = &coords
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// CanFulfil reports whether restaurantID is among the order's candidates.
func (r *RestaurantResolver) CanFulfil(order *models.Order, restaurantID uint) (bool, error) {
	productIDs := order.ProductIDs()
	if len(productIDs) == 0 {
		return false, nil
	}
	ids, err := r.index.CoveringRestaurants(productIDs)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == restaurantID {
			return true, nil
		}
	}
	return false, nil
}

// Rank sorts candidates by distance from origin, nearest first. Candidates
// without coordinates, or every candidate when origin is nil, keep their
// relative order at the end.
func Rank(candidates []Candidate, origin *models.Coordinates) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	if origin == nil {
		return ranked
	}
	for i := range ranked {
		if ranked[i].Coordinates == nil {
			continue
		}
		d := distanceKm(*origin, *ranked[i].Coordinates)
		ranked[i].DistanceKm = &d
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].DistanceKm, ranked[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return ranked
}

const earthRadiusKm = 6371.0

// distanceKm is the haversine great-circle distance.
func distanceKm(a, b models.Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
