package suite

import (
	"context"
	"net/http"

	"github.com/storecheck/storecheck/internal/check"
	"github.com/storecheck/storecheck/internal/order"
	"github.com/storecheck/storecheck/internal/payload"
)

const (
	defaultProductID = 1
	defaultCategory  = "electronics"
	defaultLimit     = 5
)

// Products covers the catalogue read and write endpoints.
func Products() []Case {
	return []Case{
		{Suite: "products", Name: "get-all", Group: "read", Priority: 1, Run: getAllProducts},
		{Suite: "products", Name: "get-by-id", Group: "read", Priority: 2, Run: getProductByID},
		{Suite: "products", Name: "get-limited", Group: "read", Priority: 3, Run: getLimitedProducts},
		{Suite: "products", Name: "sorted-desc", Group: "read", Priority: 4, Run: sortedProducts(order.Descending)},
		{Suite: "products", Name: "sorted-asc", Group: "read", Priority: 5, Run: sortedProducts(order.Ascending)},
		{Suite: "products", Name: "categories", Group: "read", Priority: 6, Run: getAllCategories},
		{Suite: "products", Name: "by-category", Group: "read", Priority: 7, Run: getProductsByCategory},
		{Suite: "products", Name: "add", Group: "write", Priority: 8, Run: addProduct},
		{Suite: "products", Name: "update", Group: "write", Priority: 9, Run: updateProduct},
		{Suite: "products", Name: "delete", Group: "write", Priority: 10, Run: deleteProduct},
	}
}

func productID(t *T) int {
	if id := t.Config.IntProperty("product_id"); id > 0 {
		return id
	}
	return defaultProductID
}

func getAllProducts(ctx context.Context, t *T) {
	resp := t.Must(t.Client.Products(ctx))
	t.Check(check.Status(resp, http.StatusOK), check.NotEmpty(resp))
}

func getProductByID(ctx context.Context, t *T) {
	resp := t.Must(t.Client.Product(ctx, productID(t)))
	t.Check(check.Status(resp, http.StatusOK), check.NotEmpty(resp))
}

func getLimitedProducts(ctx context.Context, t *T) {
	limit := t.Config.IntProperty("limit")
	if limit <= 0 {
		limit = defaultLimit
	}
	resp := t.Must(t.Client.ProductsLimit(ctx, limit))
	t.Check(check.Status(resp, http.StatusOK), check.NotEmpty(resp))
	if n := len(resp.JSON().Array()); n > limit {
		t.Errorf("limit: expected at most %d products, got %d", limit, n)
	}
}

func sortedProducts(dir order.Direction) func(context.Context, *T) {
	return func(ctx context.Context, t *T) {
		resp := t.Must(t.Client.ProductsSorted(ctx, dir))
		if !t.Check(check.Status(resp, http.StatusOK)) {
			return
		}
		t.Check(check.Sorted(resp, "id", dir))
	}
}

func getAllCategories(ctx context.Context, t *T) {
	resp := t.Must(t.Client.Categories(ctx))
	t.Check(check.Status(resp, http.StatusOK), check.NotEmpty(resp))
}

func getProductsByCategory(ctx context.Context, t *T) {
	category := t.Config.Property("category")
	if category == "" {
		category = defaultCategory
	}
	resp := t.Must(t.Client.ProductsInCategory(ctx, category))
	t.Check(
		check.Status(resp, http.StatusOK),
		check.NotEmpty(resp),
		check.EveryItemNotNull(resp, "category"),
		check.EveryItemEquals(resp, "category", category),
	)
}

func addProduct(ctx context.Context, t *T) {
	p := payload.Product(t.Faker)
	resp := t.Must(t.Client.CreateProduct(ctx, p))
	if t.Check(
		check.Status(resp, http.StatusOK),
		check.NotEmpty(resp),
		check.NotNull(resp, "id"),
		check.Equals(resp, "title", p.Title),
	) {
		t.Logf("created product id %d", resp.Path("id").Int())
	}
}

func updateProduct(ctx context.Context, t *T) {
	id := productID(t)
	p := payload.Product(t.Faker)
	resp := t.Must(t.Client.UpdateProduct(ctx, id, p))
	t.Check(
		check.Status(resp, http.StatusOK),
		check.NotEmpty(resp),
		check.NotNull(resp, "id"),
		check.Equals(resp, "title", p.Title),
	)
}

func deleteProduct(ctx context.Context, t *T) {
	resp := t.Must(t.Client.DeleteProduct(ctx, productID(t)))
	t.Check(check.Status(resp, http.StatusOK))
}
