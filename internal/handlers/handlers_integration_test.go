package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warung/internal/handlers"
	"warung/internal/middleware"
	"warung/internal/models"
	"warung/internal/repositories"
	"warung/internal/services"
	"warung/internal/uploads"
	"warung/views"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupApp assembles the full admin app over an in-memory repository, the
// same way main does over the remote one.
func setupApp(t *testing.T) (*fiber.App, *repositories.MockProductRepository) {
	t.Helper()

	repo := repositories.NewMockProductRepository()
	repo.SetCategories([]string{"electronics", "mens-shoes", "smartphones"})
	seedProductsForTest(t, repo)

	productService := services.NewProductService(repo, nil, zerolog.Nop())
	authService, err := services.NewAuthService("admin", "rahasia", "test_jwt_secret")
	require.NoError(t, err)

	productHandler := handlers.NewProductHandler(productService, zerolog.Nop())
	authHandler := handlers.NewAuthHandler(authService, zerolog.Nop())
	uploadHandler := handlers.NewUploadHandler(uploads.NewMemoryUploader(), zerolog.Nop())

	app := fiber.New(fiber.Config{Views: views.Engine()})

	authHandler.RegisterRoutes(app)
	protected := app.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)
	uploadHandler.RegisterRoutes(protected)

	return app, repo
}

func seedProductsForTest(t *testing.T, repo *repositories.MockProductRepository) {
	t.Helper()
	products := []models.Product{
		{
			ID: 5, Title: "Ponsel X", Description: "Ponsel layar 6.5 inci",
			Price: 4500000, DiscountPercentage: 10, Rating: 4.2, Stock: 30,
			Brand: "Nusantara", Category: "smartphones",
			Thumbnail: "ponsel.jpg", Images: []string{"a.jpg", "b.jpg", "c.jpg"},
		},
		{
			ID: 6, Title: "Sepatu Kulit Coklat", Description: "Sepatu pria kulit asli",
			Price: 750000, DiscountPercentage: 0, Rating: 4.8, Stock: 8,
			Brand: "Warung", Category: "mens-shoes",
			Thumbnail: "sepatu.jpg", Images: []string{"a.jpg", "b.jpg", "c.jpg"},
		},
	}
	for i := range products {
		_, err := repo.Create(context.Background(), &products[i])
		require.NoError(t, err)
	}
}

// loginCookie logs in and returns the session cookie value.
func loginCookie(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()

	form := url.Values{}
	form.Set("username", "admin")
	form.Set("password", "rahasia")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	for _, cookie := range res.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func get(t *testing.T, app *fiber.App, cookie *http.Cookie, target string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "text/html")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func postForm(t *testing.T, app *fiber.App, cookie *http.Cookie, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func validProductForm() url.Values {
	form := url.Values{}
	form.Set("title", "Tas Kulit")
	form.Set("description", "Tas kulit asli buatan tangan")
	form.Set("brand", "Warung")
	form.Set("category", "mens-shoes")
	form.Set("price", "250000")
	form.Set("discountPercentage", "5")
	form.Set("rating", "4.5")
	form.Set("stock", "10")
	form.Set("thumbnail", "tas.jpg")
	form["images"] = []string{"tas-1.jpg", "tas-2.jpg", "tas-3.jpg"}
	return form
}

func TestProductPagesRequireLogin(t *testing.T) {
	app, _ := setupApp(t)

	res, _ := get(t, app, nil, "/products")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/login", res.Header.Get("Location"))
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, _ := setupApp(t)

	form := url.Values{}
	form.Set("username", "admin")
	form.Set("password", "salah")
	res, body := postForm(t, app, nil, "/login", form)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, body, "Username atau password salah")
}

func TestListRendersProducts(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Ponsel X")
	assert.Contains(t, body, "Sepatu Kulit Coklat")
	assert.Contains(t, body, `<option value="all">All</option>`)
}

func TestListFiltersByCategory(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products?category=mens-shoes")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Sepatu Kulit Coklat")
	assert.NotContains(t, body, "Ponsel X")
}

// An active search wins over a lingering category selection.
func TestListSearchClearsCategory(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products?q=ponsel&category=mens-shoes")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Ponsel X")
	assert.NotContains(t, body, "Sepatu Kulit Coklat")
}

func TestDetailRendersDiscountedPrice(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products/5")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Ponsel X")
	// 4500000 with 10% off
	assert.Contains(t, body, "Rp4,500,000")
	assert.Contains(t, body, "Rp4,050,000")
}

func TestDetailNotFound(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products/999")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "Produk tidak ditemukan")
}

func TestCreateProduct(t *testing.T) {
	app, repo := setupApp(t)
	cookie := loginCookie(t, app)

	res, _ := postForm(t, app, cookie, "/products", validProductForm())

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/products?notice=created", res.Header.Get("Location"))

	list, err := repo.List(context.Background(), repositories.ListQuery{Search: "Tas"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, float64(250000), list.Products[0].Price)
}

// A blank price coerces to the sentinel, fails validation and never
// reaches the repository.
func TestCreateProductValidationFailure(t *testing.T) {
	app, repo := setupApp(t)
	cookie := loginCookie(t, app)

	form := validProductForm()
	form.Set("price", "")
	res, body := postForm(t, app, cookie, "/products", form)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Harga")
	// Entered values survive the round trip.
	assert.Contains(t, body, "Tas Kulit")

	list, err := repo.List(context.Background(), repositories.ListQuery{Search: "Tas"})
	require.NoError(t, err)
	assert.Empty(t, list.Products)
}

func TestEditFormPrefills(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products/6/edit")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Sepatu Kulit Coklat")
	assert.Contains(t, body, "750000")
}

func TestEditFormPrefillFailureIsExplicit(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products/999/edit")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "Produk tidak ditemukan")
}

func TestUpdateProduct(t *testing.T) {
	app, repo := setupApp(t)
	cookie := loginCookie(t, app)

	form := validProductForm()
	form.Set("title", "Ponsel X Baru")
	res, _ := postForm(t, app, cookie, "/products/5", form)

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/products?notice=updated", res.Header.Get("Location"))

	updated, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Ponsel X Baru", updated.Title)
}

func TestDeleteProduct(t *testing.T) {
	app, repo := setupApp(t)
	cookie := loginCookie(t, app)

	form := url.Values{}
	form.Set("from", "list")
	res, _ := postForm(t, app, cookie, "/products/5/delete", form)

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/products?notice=deleted", res.Header.Get("Location"))

	_, err := repo.Get(context.Background(), 5)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

// A failed delete is reported as a failure, never masked as success.
func TestDeleteFailureIsReported(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	form := url.Values{}
	form.Set("from", "list")
	res, _ := postForm(t, app, cookie, "/products/999/delete", form)

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/products?notice=delete_failed", res.Header.Get("Location"))
}

// Deleting from the detail page stays on the detail page when the delete
// failed.
func TestDeleteFromDetailStaysOnFailure(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	form := url.Values{}
	form.Set("from", "detail")
	res, _ := postForm(t, app, cookie, "/products/999/delete", form)

	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/products/999?error=delete_failed", res.Header.Get("Location"))
}

func TestDeleteNoticeRendersOnList(t *testing.T) {
	app, _ := setupApp(t)
	cookie := loginCookie(t, app)

	res, body := get(t, app, cookie, "/products?notice=deleted")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Produk berhasil dihapus")
	assert.Contains(t, body, "data-transient")
}
