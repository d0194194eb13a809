package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/storecheck/storecheck/pkg/core"
)

// ExampleRun runs the products suite against the built-in FakeStore double.
func ExampleRun() {
	dir, err := os.MkdirTemp("", "storecheck-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	res, err := core.Run(context.Background(), core.Config{
		Root:     dir,
		Run:      []string{"products/get-*"},
		Offline:  true,
		NoReport: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		return
	}
	fmt.Printf("passed %d of %d\n", res.Summary.Passed, res.Summary.Total)
	// Output: passed 3 of 3
}

func ExampleIsSorted() {
	ids := []int{20, 19, 19, 3}
	fmt.Println(core.IsSorted(ids, core.Descending))
	fmt.Println(core.IsSortedAscending(ids))
	fmt.Println(core.IsSortedAscending([]string{}))
	// Output:
	// true
	// false
	// true
}
