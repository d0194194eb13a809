// Package routes lists the FakeStore API endpoints exercised by the test
// suites. Placeholders use the {name} form and are filled by Expand or by the
// HTTP client's path parameters.
package routes

import (
	"net/url"
	"strings"
)

// BaseURL is the public FakeStore API.
const BaseURL = "https://fakestoreapi.com"

// Products
const (
	AllProducts        = "/products"
	ProductByID        = "/products/{id}"
	ProductsWithLimit  = "/products?limit={limit}"
	ProductsSorted     = "/products?sort={order}"
	AllCategories      = "/products/categories"
	ProductsByCategory = "/products/category/{category}"
	CreateProduct      = "/products"
	UpdateProduct      = "/products/{id}"
	DeleteProduct      = "/products/{id}"
)

// Authentication
const (
	AuthLogin = "/auth/login"
)

// Expand substitutes {name} placeholders with URL-escaped values. Unknown
// placeholders are left untouched.
func Expand(route string, params map[string]string) string {
	if len(params) == 0 {
		return route
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", url.PathEscape(v))
	}
	return strings.NewReplacer(pairs...).Replace(route)
}

// Path returns the route without its query template, e.g.
// "/products?sort={order}" -> "/products".
func Path(route string) string {
	if i := strings.IndexByte(route, '?'); i >= 0 {
		return route[:i]
	}
	return route
}
