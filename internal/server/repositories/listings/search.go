package listings

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

var orderBy = map[models.SortKey]string{
	models.SortNewest:     "created_at DESC",
	models.SortPriceAsc:   "price ASC",
	models.SortPriceDesc:  "price DESC",
	models.SortYearDesc:   "year DESC",
	models.SortMileageAsc: "mileage ASC",
}

// queryBuilder accumulates WHERE predicates with positional arguments.
type queryBuilder struct {
	where []string
	args  []any
}

func (b *queryBuilder) add(predicate string, args ...any) {
	// predicate uses %d for each placeholder in order
	idx := make([]any, len(args))
	for i := range args {
		idx[i] = len(b.args) + i + 1
	}
	b.where = append(b.where, fmt.Sprintf(predicate, idx...))
	b.args = append(b.args, args...)
}

// buildSearchQuery renders the catalog query for f. Only approved listings
// are ever selected. Ties in the requested ordering fall back to newest
// first, then id, so paging through equal prices stays stable.
func buildSearchQuery(f models.ListingFilter) (string, []any) {
	b := &queryBuilder{}
	b.add("status = $%d", string(models.StatusApproved))

	if c := strings.TrimSpace(f.Category); c != "" && c != models.FilterAll {
		b.add("category = $%d", c)
	}
	if t := strings.TrimSpace(f.Text); t != "" {
		pattern := "%" + escapeLike(t) + "%"
		b.add("(brand_name ILIKE $%d OR model_name ILIKE $%d)", pattern, pattern)
	}
	if c := strings.TrimSpace(f.City); c != "" && c != models.FilterAll {
		b.add("lower(city) = lower($%d)", c)
	}
	if f.MinPrice != nil {
		b.add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add("price <= $%d", *f.MaxPrice)
	}

	order, ok := orderBy[f.Sort]
	if !ok {
		order = orderBy[models.SortNewest]
	}
	if order != orderBy[models.SortNewest] {
		order += ", created_at DESC"
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE ` +
		strings.Join(b.where, " AND ") +
		` ORDER BY ` + order + `, id`
	return query, b.args
}

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
