package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
)

// ConsumedArticle is a part used on an appointment. Prices and supplier are
// copied at consumption time and never re-read from the catalogue.
type ConsumedArticle struct {
	ArticleID              uuid.UUID `json:"article_id"`
	ArticleName            string    `json:"article_name"`
	Quantity               int       `json:"quantity"`
	SaleUnitPriceCents     int64     `json:"sale_unit_price_cents"`
	PurchaseUnitPriceCents int64     `json:"purchase_unit_price_cents"`
	Supplier               string    `json:"supplier"`
}

// SaleTotalCents is quantity times sale price.
func (a ConsumedArticle) SaleTotalCents() int64 {
	return int64(a.Quantity) * a.SaleUnitPriceCents
}

type articleKey struct {
	articleID uuid.UUID
	sale      int64
	purchase  int64
	supplier  string
}

func (a ConsumedArticle) key() articleKey {
	return articleKey{a.ArticleID, a.SaleUnitPriceCents, a.PurchaseUnitPriceCents, a.Supplier}
}

// ArticleLine is a consumed-article line as submitted, before parsing.
type ArticleLine struct {
	ArticleID     string
	Quantity      string
	SalePrice     string
	PurchasePrice string
	Supplier      string
}

// ParseArticleLine validates a submitted line. Prices are decimal amounts
// ("12.5", "12,50") and are stored in cents; quantity is a positive integer.
// Every failure wraps ErrMalformedArticleLine.
func ParseArticleLine(line ArticleLine) (ConsumedArticle, error) {
	malformed := func(format string, args ...any) (ConsumedArticle, error) {
		return ConsumedArticle{}, fmt.Errorf("%w: %s", ErrMalformedArticleLine, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(line.ArticleID) == "" {
		return malformed("missing article")
	}
	articleID, err := uuid.Parse(strings.TrimSpace(line.ArticleID))
	if err != nil {
		return malformed("article %q is not an id", line.ArticleID)
	}
	supplier := strings.TrimSpace(line.Supplier)
	if supplier == "" {
		return malformed("missing supplier")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(line.Quantity))
	if err != nil || qty <= 0 {
		return malformed("quantity %q is not a positive integer", line.Quantity)
	}
	sale, err := sharedDomain.ParseCents(line.SalePrice)
	if err != nil {
		return malformed("sale price: %v", err)
	}
	purchase, err := sharedDomain.ParseCents(line.PurchasePrice)
	if err != nil {
		return malformed("purchase price: %v", err)
	}

	return ConsumedArticle{
		ArticleID:              articleID,
		Quantity:               qty,
		SaleUnitPriceCents:     sale,
		PurchaseUnitPriceCents: purchase,
		Supplier:               supplier,
	}, nil
}

// ConsolidateArticles merges lines with the same article, prices and
// supplier by summing their quantities. Output keeps first-seen order.
func ConsolidateArticles(lines []ConsumedArticle) []ConsumedArticle {
	out := make([]ConsumedArticle, 0, len(lines))
	pos := make(map[articleKey]int, len(lines))
	for _, l := range lines {
		if i, ok := pos[l.key()]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.key()] = len(out)
		out = append(out, l)
	}
	return out
}
