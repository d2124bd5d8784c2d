// Package catalogstub provides a local stand-in for the remote product
// service, exposing the same REST surface backed by a GORM database. It
// exists for offline development and integration testing; the admin app
// talks to it exactly as it would to the real service.
package catalogstub

import (
	"strings"

	"warung/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Product is the stub's storage row. Images are kept in a JSON text
// column; the wire shape stays identical to the remote service's.
type Product struct {
	ID                 int      `gorm:"primaryKey"`
	Title              string   `gorm:"not null"`
	Description        string
	Price              float64
	DiscountPercentage float64
	Rating             float64
	Stock              int
	Brand              string
	Category           string `gorm:"index"`
	Thumbnail          string
	Images             []string `gorm:"serializer:json"`
}

func (p Product) toModel() models.Product {
	return models.Product{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		Category:           p.Category,
		Thumbnail:          p.Thumbnail,
		Images:             p.Images,
	}
}

func fromModel(m models.Product) Product {
	return Product{
		ID:                 m.ID,
		Title:              m.Title,
		Description:        m.Description,
		Price:              m.Price,
		DiscountPercentage: m.DiscountPercentage,
		Rating:             m.Rating,
		Stock:              m.Stock,
		Brand:              m.Brand,
		Category:           m.Category,
		Thumbnail:          m.Thumbnail,
		Images:             m.Images,
	}
}

// Stub is the local product service.
type Stub struct {
	db     *gorm.DB
	app    *fiber.App
	logger zerolog.Logger
}

// New opens the database for dsn (postgres when the DSN looks like one,
// sqlite otherwise), migrates the schema, seeds an empty catalog and
// builds the routes.
func New(dsn string, logger zerolog.Logger) (*Stub, error) {
	dialector := openDialector(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Product{}); err != nil {
		return nil, err
	}

	s := &Stub{
		db:     db,
		app:    fiber.New(),
		logger: logger.With().Str("server", "catalogstub").Logger(),
	}
	s.seed()
	s.routes()
	return s, nil
}

func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func (s *Stub) routes() {
	s.app.Get("/products", s.handleList)
	s.app.Get("/products/search", s.handleSearch)
	s.app.Get("/products/categories", s.handleCategories)
	s.app.Get("/products/category/:name", s.handleCategory)
	s.app.Get("/products/:id", s.handleGet)
	s.app.Post("/products/add", s.handleCreate)
	s.app.Put("/products/:id", s.handleUpdate)
	s.app.Delete("/products/:id", s.handleDelete)
}

// seed fills an empty catalog with a few sample records so a fresh stub
// renders a non-empty admin page.
func (s *Stub) seed() {
	var count int64
	s.db.Model(&Product{}).Count(&count)
	if count > 0 {
		return
	}

	samples := []Product{
		{
			Title: "Laptop Pro 14", Description: "Laptop kerja layar 14 inci",
			Price: 15000000, DiscountPercentage: 5, Rating: 4.6, Stock: 12,
			Brand: "Nusantara", Category: "laptops",
			Thumbnail: "laptop.jpg", Images: []string{"laptop-1.jpg", "laptop-2.jpg", "laptop-3.jpg"},
		},
		{
			Title: "Ponsel X", Description: "Ponsel layar 6.5 inci",
			Price: 4500000, DiscountPercentage: 10, Rating: 4.2, Stock: 30,
			Brand: "Nusantara", Category: "smartphones",
			Thumbnail: "ponsel.jpg", Images: []string{"ponsel-1.jpg", "ponsel-2.jpg", "ponsel-3.jpg"},
		},
		{
			Title: "Sepatu Kulit Coklat", Description: "Sepatu pria kulit asli",
			Price: 750000, DiscountPercentage: 0, Rating: 4.8, Stock: 8,
			Brand: "Warung", Category: "mens-shoes",
			Thumbnail: "sepatu.jpg", Images: []string{"sepatu-1.jpg", "sepatu-2.jpg", "sepatu-3.jpg"},
		},
	}
	if err := s.db.Create(&samples).Error; err != nil {
		s.logger.Error().Err(err).Msg("failed to seed catalog")
	}
}

// App exposes the fiber app, mainly for tests.
func (s *Stub) App() *fiber.App {
	return s.app
}

// Listen serves the stub on addr.
func (s *Stub) Listen(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("catalog stub listening")
	return s.app.Listen(addr)
}

// Shutdown stops the stub.
func (s *Stub) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Stub) respondList(c *fiber.Ctx, query *gorm.DB) error {
	limit := c.QueryInt("limit", 0)
	skip := c.QueryInt("skip", 0)

	var total int64
	if err := query.Model(&Product{}).Count(&total).Error; err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	page := query.Order("id").Offset(skip)
	if limit > 0 {
		page = page.Limit(limit)
	}
	var rows []Product
	if err := page.Find(&rows).Error; err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	out := models.ProductList{
		Products: make([]models.Product, 0, len(rows)),
		Total:    int(total),
		Skip:     skip,
		Limit:    limit,
	}
	for _, row := range rows {
		out.Products = append(out.Products, row.toModel())
	}
	return c.JSON(out)
}

func (s *Stub) handleList(c *fiber.Ctx) error {
	return s.respondList(c, s.db.Session(&gorm.Session{}))
}

func (s *Stub) handleSearch(c *fiber.Ctx) error {
	q := c.Query("q")
	query := s.db.Where("lower(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	return s.respondList(c, query)
}

func (s *Stub) handleCategory(c *fiber.Ctx) error {
	query := s.db.Where("category = ?", c.Params("name"))
	return s.respondList(c, query)
}

func (s *Stub) handleCategories(c *fiber.Ctx) error {
	var categories []string
	err := s.db.Model(&Product{}).Distinct().Order("category").Pluck("category", &categories).Error
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(categories)
}

func (s *Stub) handleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	var row Product
	if err := s.db.First(&row, id).Error; err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(row.toModel())
}

func (s *Stub) handleCreate(c *fiber.Ctx) error {
	var in models.Product
	if err := c.BodyParser(&in); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	row := fromModel(in)
	row.ID = 0
	if err := s.db.Create(&row).Error; err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusCreated).JSON(row.toModel())
}

func (s *Stub) handleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	var row Product
	if err := s.db.First(&row, id).Error; err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var in models.Product
	if err := c.BodyParser(&in); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	in.ID = id
	row = fromModel(in)
	if err := s.db.Save(&row).Error; err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(row.toModel())
}

func (s *Stub) handleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	var row Product
	if err := s.db.First(&row, id).Error; err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err := s.db.Delete(&row).Error; err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(row.toModel())
}
