package catalogstub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"warung/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T) *Stub {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := New(dsn, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func decodeList(t *testing.T, res *http.Response) models.ProductList {
	t.Helper()
	var list models.ProductList
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	return list
}

func TestStubSeedsCatalog(t *testing.T) {
	s := newStub(t)

	res, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/products", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	list := decodeList(t, res)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Products, 3)
}

func TestStubSearch(t *testing.T) {
	s := newStub(t)

	res, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/products/search?q=ponsel", nil))
	require.NoError(t, err)

	list := decodeList(t, res)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Ponsel X", list.Products[0].Title)
}

func TestStubCategoryFilter(t *testing.T) {
	s := newStub(t)

	res, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/products/category/mens-shoes", nil))
	require.NoError(t, err)

	list := decodeList(t, res)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Sepatu Kulit Coklat", list.Products[0].Title)
}

func TestStubCategories(t *testing.T) {
	s := newStub(t)

	res, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/products/categories", nil))
	require.NoError(t, err)

	var categories []string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&categories))
	assert.Equal(t, []string{"laptops", "mens-shoes", "smartphones"}, categories)
}

func TestStubPagination(t *testing.T) {
	s := newStub(t)

	res, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/products?limit=1&skip=1", nil))
	require.NoError(t, err)

	list := decodeList(t, res)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Products, 1)
	assert.Equal(t, 1, list.Skip)
	assert.Equal(t, 1, list.Limit)
}

func TestStubCreateUpdateDelete(t *testing.T) {
	s := newStub(t)

	product := models.Product{
		Title: "Tas Kulit", Description: "Tas kulit asli",
		Price: 250000, DiscountPercentage: 5, Rating: 4.5, Stock: 10,
		Brand: "Warung", Category: "womens-bags",
		Thumbnail: "tas.jpg", Images: []string{"tas-1.jpg"},
	}
	body, err := json.Marshal(product)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products/add", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created models.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.NotZero(t, created.ID)

	created.Title = "Tas Kulit Premium"
	body, err = json.Marshal(created)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/products/%d", created.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err = s.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err = s.App().Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil))
	require.NoError(t, err)
	var fetched models.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&fetched))
	assert.Equal(t, "Tas Kulit Premium", fetched.Title)

	res, err = s.App().Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err = s.App().Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStubDeleteMissing(t *testing.T) {
	s := newStub(t)

	res, err := s.App().Test(httptest.NewRequest(http.MethodDelete, "/products/999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
