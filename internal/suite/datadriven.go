package suite

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storecheck/storecheck/internal/check"
	"github.com/storecheck/storecheck/internal/data"
)

// DataDriven builds one create-then-delete case per data row.
func DataDriven(rows []data.Row) []Case {
	cases := make([]Case, 0, len(rows))
	for i, row := range rows {
		cases = append(cases, Case{
			Suite:    "datadriven",
			Name:     fmt.Sprintf("add-product-%d", i+1),
			Group:    "write",
			Priority: i + 1,
			Run:      addAndDeleteProduct(row),
		})
	}
	return cases
}

func addAndDeleteProduct(row data.Row) func(context.Context, *T) {
	return func(ctx context.Context, t *T) {
		p, err := row.Product()
		if err != nil {
			t.Fatalf("bad data row: %v", err)
		}
		resp := t.Must(t.Client.CreateProduct(ctx, p))
		if !t.Check(
			check.Status(resp, http.StatusOK),
			check.NotEmpty(resp),
			check.NotNull(resp, "id"),
			check.Equals(resp, "title", p.Title),
		) {
			return
		}
		id := int(resp.Path("id").Int())
		t.Logf("created product id %d", id)

		resp = t.Must(t.Client.DeleteProduct(ctx, id))
		if t.Check(check.Status(resp, http.StatusOK)) {
			t.Logf("deleted product id %d", id)
		}
	}
}

// All returns the full catalogue for env: products, login, then one
// datadriven case per row in env.Rows.
func All(env Env) []Case {
	var cases []Case
	cases = append(cases, Products()...)
	cases = append(cases, Login()...)
	cases = append(cases, DataDriven(env.Rows)...)
	return cases
}
