// Package views holds the embedded html templates and their formatting
// helpers.
package views

import (
	"embed"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html
var templates embed.FS

// Engine builds the fiber template engine over the embedded templates.
func Engine() *html.Engine {
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.AddFunc("currency", Currency)
	engine.AddFunc("discounted", Discounted)
	return engine
}

// Discounted computes the display price after discount. Display only; the
// persisted record always keeps the full price.
func Discounted(price, discountPercentage float64) float64 {
	return price * (100 - discountPercentage) / 100
}

// Currency renders a price the way the original UI did: "Rp" with
// thousands separators, decimals only when the amount has them.
func Currency(amount float64) string {
	rounded := math.Round(amount*100) / 100
	whole := int64(rounded)
	frac := rounded - float64(whole)

	out := groupThousands(whole)
	if frac > 0.004 {
		out += strings.TrimPrefix(fmt.Sprintf("%.2f", frac), "0")
	}
	return "Rp" + out
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
