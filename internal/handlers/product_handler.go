package handlers

import (
	"errors"
	"fmt"

	"warung/internal/models"
	"warung/internal/repositories"
	"warung/internal/services"
	"warung/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// imageSlots is the fixed number of gallery slots on the product form, on
// top of the thumbnail.
const imageSlots = 3

// notices maps the notice query parameter to the banner shown on the list
// page. Kind "error" styles the banner red.
var notices = map[string]struct{ Text, Kind string }{
	"created":       {"Produk berhasil ditambahkan", "ok"},
	"updated":       {"Produk berhasil diperbarui", "ok"},
	"deleted":       {"Produk berhasil dihapus", "ok"},
	"delete_failed": {"Gagal menghapus produk", "error"},
}

// ProductHandler serves the admin pages for products.
type ProductHandler struct {
	service *services.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Order
// matters: /products/new must precede /products/:id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/new", h.HandleNewProductForm)
	router.Post("/products", h.HandleCreateProduct)
	router.Get("/products/:id", h.HandleProductDetail)
	router.Get("/products/:id/edit", h.HandleEditProductForm)
	router.Post("/products/:id", h.HandleUpdateProduct)
	router.Post("/products/:id/delete", h.HandleDeleteProduct)
}

// HandleListProducts renders the searchable, filterable product table.
// Search and category filter are mutually exclusive; submitting a search
// resets the category and vice versa (each filter form only carries its
// own parameter).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	search := c.Query("q")
	category := c.Query("category", "all")
	if search != "" {
		category = "all"
	}

	data := fiber.Map{
		"Title":    "Products",
		"Username": c.Locals("username"),
		"Search":   search,
		"Category": category,
	}
	if n, ok := notices[c.Query("notice")]; ok {
		data["Notice"] = n.Text
		data["NoticeKind"] = n.Kind
	}

	// The category enumeration failing must not take the page down; the
	// "All" option always renders.
	categories, err := h.service.Categories(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load categories")
	}
	data["Categories"] = categories

	list, err := h.service.ListProducts(c.Context(), repositories.ListQuery{
		Search:   search,
		Category: category,
		Limit:    c.QueryInt("limit", 0),
		Skip:     c.QueryInt("skip", 0),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list products")
		data["Error"] = "Gagal memuat daftar produk"
		data["Products"] = []models.Product{}
		return c.Status(fiber.StatusBadGateway).Render("products", data, "layout")
	}

	data["Products"] = list.Products
	return c.Render("products", data, "layout")
}

// HandleProductDetail renders one product with its derived discount price
// and image gallery.
func (h *ProductHandler) HandleProductDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.renderError(c, fiber.StatusNotFound, "Produk tidak ditemukan", "Alamat produk tidak valid")
	}

	product, err := h.service.GetProduct(c.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return h.renderError(c, fiber.StatusNotFound, "Produk tidak ditemukan", "Produk dengan id tersebut tidak ada")
	}
	if err != nil {
		h.logger.Error().Err(err).Int("id", id).Msg("failed to get product")
		return h.renderError(c, fiber.StatusBadGateway, "", "Gagal memuat produk")
	}

	data := fiber.Map{
		"Title":    product.Title,
		"Username": c.Locals("username"),
		"Product":  product,
	}
	if c.Query("error") == "delete_failed" {
		data["Error"] = "Gagal menghapus produk"
	}
	return c.Render("product", data, "layout")
}

// HandleNewProductForm renders an empty create form.
func (h *ProductHandler) HandleNewProductForm(c *fiber.Ctx) error {
	form := models.ProductForm{Images: make([]string, imageSlots)}
	return h.renderForm(c, fiber.StatusOK, "new", "/products", form, nil, "")
}

// HandleCreateProduct validates the submitted form and POSTs the new
// record to the remote service. Field errors re-render the form with the
// entered values intact; only a fully valid record reaches the network.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	form := formFromRequest(c)

	_, errs, err := h.service.CreateProduct(c.Context(), form)
	if len(errs) > 0 {
		return h.renderForm(c, fiber.StatusBadRequest, "new", "/products", form, errs, "")
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create product")
		return h.renderForm(c, fiber.StatusBadGateway, "new", "/products", form, nil, "Gagal menyimpan produk")
	}

	return c.Redirect("/products?notice=created", fiber.StatusSeeOther)
}

// HandleEditProductForm pre-populates the form from the existing record. A
// failed prefill renders an explicit error instead of silently offering
// empty fields for a destructive PUT.
func (h *ProductHandler) HandleEditProductForm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.renderError(c, fiber.StatusNotFound, "Produk tidak ditemukan", "Alamat produk tidak valid")
	}

	product, err := h.service.GetProduct(c.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return h.renderError(c, fiber.StatusNotFound, "Produk tidak ditemukan", "Produk dengan id tersebut tidak ada")
	}
	if err != nil {
		h.logger.Error().Err(err).Int("id", id).Msg("failed to load product for edit")
		return h.renderError(c, fiber.StatusBadGateway, "", "Gagal memuat produk untuk diedit")
	}

	form := models.FormFromProduct(*product)
	form.Images = padImages(form.Images)
	return h.renderForm(c, fiber.StatusOK, "edit", c.Path(), form, nil, "")
}

// HandleUpdateProduct validates the submitted form and PUTs the full
// record, keyed by id.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.renderError(c, fiber.StatusNotFound, "Produk tidak ditemukan", "Alamat produk tidak valid")
	}

	form := formFromRequest(c)
	form.ID = id
	action := c.Path()

	_, errs, err := h.service.UpdateProduct(c.Context(), form)
	if len(errs) > 0 {
		return h.renderForm(c, fiber.StatusBadRequest, "edit", action, form, errs, "")
	}
	if err != nil {
		h.logger.Error().Err(err).Int("id", id).Msg("failed to update product")
		return h.renderForm(c, fiber.StatusBadGateway, "edit", action, form, nil, "Gagal menyimpan perubahan")
	}

	return c.Redirect("/products?notice=updated", fiber.StatusSeeOther)
}

// HandleDeleteProduct deletes a product after the browser-side
// confirmation and reports the real outcome. A failed delete never shows
// a success notice; a delete confirmed on the detail page navigates back
// to the list only when it worked.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.renderError(c, fiber.StatusNotFound, "Produk tidak ditemukan", "Alamat produk tidak valid")
	}

	if err := h.service.DeleteProduct(c.Context(), id); err != nil {
		h.logger.Error().Err(err).Int("id", id).Msg("failed to delete product")
		if c.FormValue("from") == "detail" {
			return c.Redirect(fmt.Sprintf("/products/%d?error=delete_failed", id), fiber.StatusSeeOther)
		}
		return c.Redirect("/products?notice=delete_failed", fiber.StatusSeeOther)
	}

	return c.Redirect("/products?notice=deleted", fiber.StatusSeeOther)
}

func (h *ProductHandler) renderForm(c *fiber.Ctx, status int, mode, action string, form models.ProductForm, errs validation.Errors, banner string) error {
	categories, err := h.service.Categories(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load categories")
	}

	messages := make(map[string]string, len(errs))
	for field, fe := range errs {
		messages[field] = fe.Message
	}

	title := "Tambah Produk"
	if mode == "edit" {
		title = "Edit Produk"
	}
	return c.Status(status).Render("product_form", fiber.Map{
		"Title":      title,
		"Username":   c.Locals("username"),
		"Mode":       mode,
		"Action":     action,
		"Form":       form,
		"Errors":     messages,
		"Categories": categories,
		"Error":      banner,
	}, "layout")
}

func (h *ProductHandler) renderError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).Render("error", fiber.Map{
		"Title":    title,
		"Username": c.Locals("username"),
		"Message":  message,
	}, "layout")
}

// formFromRequest reads the raw form values. Numeric fields stay strings
// until the validation layer coerces them.
func formFromRequest(c *fiber.Ctx) models.ProductForm {
	images := make([]string, 0, imageSlots)
	for _, value := range c.Context().PostArgs().PeekMulti("images") {
		images = append(images, string(value))
	}
	return models.ProductForm{
		Title:              c.FormValue("title"),
		Description:        c.FormValue("description"),
		Brand:              c.FormValue("brand"),
		Category:           c.FormValue("category"),
		Price:              c.FormValue("price"),
		DiscountPercentage: c.FormValue("discountPercentage"),
		Rating:             c.FormValue("rating"),
		Stock:              c.FormValue("stock"),
		Thumbnail:          c.FormValue("thumbnail"),
		Images:             padImages(images),
	}
}

// padImages fixes the slice to the form's slot count.
func padImages(images []string) []string {
	out := make([]string, imageSlots)
	copy(out, images)
	return out
}
