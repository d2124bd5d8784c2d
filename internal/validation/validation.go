package validation

import (
	"strconv"
	"strings"

	"warung/internal/models"

	"github.com/go-playground/validator/v10"
)

// Error kinds, one per class of rule a field can break.
const (
	KindEmptyField    = "empty_field"
	KindInvalidRange  = "invalid_range"
	KindInvalidFormat = "invalid_format"
)

// FieldError is a single human-readable failure for one field.
type FieldError struct {
	Kind    string
	Message string
}

// Errors maps a form field name to its first failure. An empty map means
// the record is valid.
type Errors map[string]FieldError

// SentinelInvalid replaces empty or unparseable numeric input before
// validation, so blank fields fail range checks instead of passing as zero.
const SentinelInvalid = -1

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// IsImageRef reports whether an image reference carries an allowed
// extension. The check is case-insensitive.
func IsImageRef(ref string) bool {
	idx := strings.LastIndex(ref, ".")
	if idx < 0 || idx == len(ref)-1 {
		return false
	}
	return imageExtensions[strings.ToLower(ref[idx+1:])]
}

// fieldNames maps struct field names to the form field names that error
// messages are keyed by. Indexed entries of Images collapse onto "images".
var fieldNames = map[string]string{
	"Title":              "title",
	"Description":        "description",
	"Price":              "price",
	"DiscountPercentage": "discountPercentage",
	"Rating":             "rating",
	"Stock":              "stock",
	"Brand":              "brand",
	"Category":           "category",
	"Thumbnail":          "thumbnail",
	"Images":             "images",
}

// messages holds the user-facing copy per field and tag.
var messages = map[string]map[string]string{
	"title":              {"required": "Nama produk tidak boleh kosong"},
	"description":        {"required": "Deskripsi tidak boleh kosong"},
	"brand":              {"required": "Merek tidak boleh kosong"},
	"category":           {"required": "Kategori tidak boleh kosong"},
	"price":              {"gt": "Harga harus berupa angka positif", "gte": "Harga minimal 100"},
	"discountPercentage": {"gte": "Diskon harus antara 0 dan 100", "lte": "Diskon harus antara 0 dan 100"},
	"rating":             {"gte": "Rating harus antara 1 dan 5", "lte": "Rating harus antara 1 dan 5"},
	"stock":              {"gte": "Stok minimal 1 barang"},
	"thumbnail":          {"imageref": "Gambar harus berformat jpg, jpeg, png, atau gif"},
	"images":             {"imageref": "Gambar harus berformat jpg, jpeg, png, atau gif"},
}

// Validator validates product records against the catalog rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom image-reference rule registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		return IsImageRef(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateProduct runs the full rule set over an already-coerced record and
// returns one error per offending field. It is a pure function of its
// input.
func (v *Validator) ValidateProduct(p models.Product) Errors {
	errs := Errors{}
	err := v.validate.Struct(p)
	if err == nil {
		return errs
	}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = FieldError{Kind: KindInvalidFormat, Message: "Input produk tidak valid"}
		return errs
	}
	for _, fe := range invalid {
		name := fieldNames[strippedField(fe.StructField())]
		if name == "" {
			name = fe.StructField()
		}
		if _, seen := errs[name]; seen {
			continue
		}
		errs[name] = FieldError{
			Kind:    kindForTag(fe.Tag()),
			Message: messageFor(name, fe.Tag()),
		}
	}
	return errs
}

func strippedField(field string) string {
	// Entries inside a slice report as e.g. "Images[2]".
	if idx := strings.Index(field, "["); idx >= 0 {
		return field[:idx]
	}
	return field
}

func kindForTag(tag string) string {
	switch tag {
	case "required":
		return KindEmptyField
	case "imageref":
		return KindInvalidFormat
	default:
		return KindInvalidRange
	}
}

func messageFor(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
		for _, msg := range byTag {
			return msg
		}
	}
	return "Input tidak valid"
}

// CoerceProduct converts raw form input into a Product record. String
// fields are trimmed; numeric fields that are empty or unparseable become
// SentinelInvalid so they deterministically fail the range rules.
func CoerceProduct(f models.ProductForm) models.Product {
	return models.Product{
		ID:                 f.ID,
		Title:              strings.TrimSpace(f.Title),
		Description:        strings.TrimSpace(f.Description),
		Brand:              strings.TrimSpace(f.Brand),
		Category:           strings.TrimSpace(f.Category),
		Price:              coerceNumber(f.Price),
		DiscountPercentage: coerceNumber(f.DiscountPercentage),
		Rating:             coerceNumber(f.Rating),
		Stock:              coerceInt(f.Stock),
		Thumbnail:          strings.TrimSpace(f.Thumbnail),
		Images:             coerceImages(f.Images),
	}
}

func coerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return SentinelInvalid
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return SentinelInvalid
	}
	return n
}

func coerceInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return SentinelInvalid
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return SentinelInvalid
	}
	return n
}

func coerceImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, strings.TrimSpace(img))
	}
	return out
}
