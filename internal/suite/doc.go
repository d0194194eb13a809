// Package suite defines the FakeStore test catalogue and the runner that
// executes it.
//
// A Case is a named function that drives the API client through a *T and
// records failures on it. Cases are grouped into suites (products, login,
// datadriven) and run in priority order, either one at a time or on a bounded
// worker pool. Reporting happens through a Listener; each running case gets
// its own CaseLog handle so no state is shared between parallel cases.
package suite
