// Package fakestore is an in-memory stand-in for the FakeStore API, used by
// tests and by `storecheck run --offline`. Writes are echoed, not persisted,
// the same way the public service behaves.
package fakestore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"

	"github.com/storecheck/storecheck/internal/types"
)

// Credentials accepted by POST /auth/login.
const (
	Username = "mor_2314"
	Password = "83r5^_"
	Token    = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.fake"
)

// LoginRejected is the body returned for bad credentials.
const LoginRejected = "username or password is incorrect"

// createdID is the id the service assigns to every created product.
const createdID = 21

var seed = []types.Product{
	{ID: 1, Title: "Fjallraven - Foldsack No. 1 Backpack", Price: 109.95, Category: "men's clothing"},
	{ID: 2, Title: "Mens Casual Premium Slim Fit T-Shirts", Price: 22.3, Category: "men's clothing"},
	{ID: 3, Title: "Mens Cotton Jacket", Price: 55.99, Category: "men's clothing"},
	{ID: 5, Title: "John Hardy Women's Legends Naga Bracelet", Price: 695, Category: "jewelery"},
	{ID: 6, Title: "Solid Gold Petite Micropave", Price: 168, Category: "jewelery"},
	{ID: 9, Title: "WD 2TB Elements Portable External Hard Drive", Price: 64, Category: "electronics"},
	{ID: 10, Title: "SanDisk SSD PLUS 1TB Internal SSD", Price: 109, Category: "electronics"},
	{ID: 11, Title: "Silicon Power 256GB SSD 3D NAND", Price: 109, Category: "electronics"},
	{ID: 15, Title: "BIYLACLESEN Women's 3-in-1 Snowboard Jacket", Price: 56.99, Category: "women's clothing"},
	{ID: 16, Title: "Lock and Love Women's Removable Hooded Jacket", Price: 29.95, Category: "women's clothing"},
}

// Store serves the fake API. Fields may be tweaked by tests before the first
// request.
type Store struct {
	mu       sync.Mutex
	Products []types.Product
	// BreakSort makes ?sort= return products in the wrong order.
	BreakSort bool
	requests  int
}

// New returns a store seeded with a small product catalogue.
func New() *Store {
	s := &Store{Products: make([]types.Product, len(seed))}
	copy(s.Products, seed)
	for i := range s.Products {
		p := &s.Products[i]
		p.Description = p.Title
		p.Image = "https://fakestoreapi.com/img/" + strconv.Itoa(p.ID) + ".jpg"
	}
	return s
}

// Server starts an httptest server backed by a new Store.
func Server() (*httptest.Server, *Store) {
	s := New()
	return httptest.NewServer(s.Handler()), s
}

// Requests reports how many requests were served.
func (s *Store) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Handler routes the FakeStore endpoints.
func (s *Store) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", s.list)
	mux.HandleFunc("GET /products/categories", s.categories)
	mux.HandleFunc("GET /products/category/{category}", s.byCategory)
	mux.HandleFunc("GET /products/{id}", s.get)
	mux.HandleFunc("POST /products", s.create)
	mux.HandleFunc("PUT /products/{id}", s.update)
	mux.HandleFunc("DELETE /products/{id}", s.remove)
	mux.HandleFunc("POST /auth/login", s.login)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (s *Store) snapshot() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.Products)
}

func (s *Store) list(w http.ResponseWriter, r *http.Request) {
	out := s.snapshot()
	desc := r.URL.Query().Get("sort") == "desc"
	if s.BreakSort {
		desc = !desc
	}
	if desc {
		slices.Reverse(out)
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n >= 0 && n < len(out) {
		out = out[:n]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Store) categories(w http.ResponseWriter, _ *http.Request) {
	var cats []string
	for _, p := range s.snapshot() {
		if !slices.Contains(cats, p.Category) {
			cats = append(cats, p.Category)
		}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Store) byCategory(w http.ResponseWriter, r *http.Request) {
	cat := r.PathValue("category")
	out := []types.Product{}
	for _, p := range s.snapshot() {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Store) find(idStr string) (types.Product, bool) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return types.Product{}, false
	}
	for _, p := range s.snapshot() {
		if p.ID == id {
			return p, true
		}
	}
	return types.Product{}, false
}

func (s *Store) get(w http.ResponseWriter, r *http.Request) {
	p, ok := s.find(r.PathValue("id"))
	if !ok {
		// The public service answers 200 with an empty body for unknown ids.
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Store) create(w http.ResponseWriter, r *http.Request) {
	var p types.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	p.ID = createdID
	writeJSON(w, http.StatusOK, p)
}

func (s *Store) update(w http.ResponseWriter, r *http.Request) {
	var p types.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	p.ID = id
	writeJSON(w, http.StatusOK, p)
}

func (s *Store) remove(w http.ResponseWriter, r *http.Request) {
	p, ok := s.find(r.PathValue("id"))
	if !ok {
		id, _ := strconv.Atoi(r.PathValue("id"))
		p = types.Product{ID: id}
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Store) login(w http.ResponseWriter, r *http.Request) {
	var l types.Login
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil || l.Username == "" || l.Password == "" {
		http.Error(w, "username and password are not provided in JSON format", http.StatusBadRequest)
		return
	}
	if l.Username != Username || l.Password != Password {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(LoginRejected))
		return
	}
	writeJSON(w, http.StatusOK, types.Token{Token: Token})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
