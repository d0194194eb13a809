// Package payload generates request bodies for the write and login cases.
package payload

import (
	"math"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/storecheck/storecheck/internal/types"
)

// Categories are the category names the FakeStore catalogue uses.
var Categories = []string{"electronics", "jewelery", "men's clothing", "women's clothing"}

// New returns a faker. The same non-zero seed always yields the same
// sequence of payloads; 0 picks a random seed.
func New(seed int64) *gofakeit.Faker {
	return gofakeit.New(uint64(seed))
}

// Product builds a plausible product without an id.
func Product(f *gofakeit.Faker) types.Product {
	return types.Product{
		Title:       f.ProductName(),
		Price:       math.Round(f.Price(1, 1000)*100) / 100,
		Description: f.ProductDescription(),
		Image:       f.URL() + "/img.jpg",
		Category:    f.RandomString(Categories),
	}
}

// Login builds credentials that the service should reject.
func Login(f *gofakeit.Faker) types.Login {
	return types.Login{
		Username: "sc_" + f.Username(),
		Password: f.Password(true, true, true, false, false, 12),
	}
}
