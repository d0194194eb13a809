package main

import "github.com/storecheck/storecheck/cmd/storecheck"

func main() {
	storecheck.Execute()
}
