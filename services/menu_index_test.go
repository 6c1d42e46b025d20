package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuIndex_CoveringRestaurants(t *testing.T) {
	env := newTestEnv(t)
	pizza := env.product(t, "Pizza", "10.00")
	soup := env.product(t, "Soup", "4.50")
	cake := env.product(t, "Cake", "3.25")

	r1 := env.restaurant(t, "North", "North 1")
	r2 := env.restaurant(t, "South", "South 1")
	r3 := env.restaurant(t, "East", "East 1")

	env.list(t, r1.ID, pizza.ID, true)
	env.list(t, r1.ID, soup.ID, true)
	env.list(t, r2.ID, pizza.ID, true)
	env.list(t, r2.ID, soup.ID, false)
	env.list(t, r3.ID, pizza.ID, true)
	env.list(t, r3.ID, soup.ID, true)
	env.list(t, r3.ID, cake.ID, true)

	tests := []struct {
		name     string
		products []uint
		want     []uint
	}{
		{"single product", []uint{pizza.ID}, []uint{r1.ID, r2.ID, r3.ID}},
		{"two products", []uint{pizza.ID, soup.ID}, []uint{r1.ID, r3.ID}},
		{"all products", []uint{pizza.ID, soup.ID, cake.ID}, []uint{r3.ID}},
		{"repeated ids count once", []uint{cake.ID, cake.ID}, []uint{r3.ID}},
		{"unlisted product", []uint{pizza.ID, 999}, []uint{}},
		{"no products", nil, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.index.CoveringRestaurants(tt.products)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMenuIndex_RestaurantsOffering(t *testing.T) {
	env := newTestEnv(t)
	soup := env.product(t, "Soup", "4.50")
	r1 := env.restaurant(t, "North", "North 1")
	r2 := env.restaurant(t, "South", "South 1")
	env.list(t, r1.ID, soup.ID, false)
	env.list(t, r2.ID, soup.ID, true)

	ids, err := env.index.RestaurantsOffering(soup.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{r2.ID}, ids)
}

func TestMenuIndex_AvailableProducts(t *testing.T) {
	env := newTestEnv(t)
	pizza := env.product(t, "Pizza", "10.00")
	soup := env.product(t, "Soup", "4.50")
	env.product(t, "Unlisted", "1.00")
	r1 := env.restaurant(t, "North", "North 1")
	r2 := env.restaurant(t, "South", "South 1")
	env.list(t, r1.ID, pizza.ID, true)
	env.list(t, r2.ID, pizza.ID, true)
	env.list(t, r1.ID, soup.ID, false)

	products, err := env.index.AvailableProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Pizza", products[0].Name)
}
