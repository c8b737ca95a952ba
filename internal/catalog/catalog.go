package catalog

import (
	"cmp"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dukerupert/travelx/internal/model"
)

//go:embed data/*.json
var dataFS embed.FS

// ErrBadFilter is returned by ParseFilter for unparseable query values.
var ErrBadFilter = errors.New("catalog: bad filter")

// Sort orders accepted by Filter.Sort.
const (
	SortDefault   = ""
	SortPriceAsc  = "price"
	SortPriceDesc = "-price"
	SortRating    = "rating"
)

// Filter narrows a listing. Zero values match everything; "All" is treated
// as no category.
type Filter struct {
	Category  string
	Continent string
	Query     string
	MaxPrice  int
	Sort      string
}

// ParseFilter reads category, continent, q, maxPrice and sort.
func ParseFilter(q url.Values) (Filter, error) {
	f := Filter{
		Category:  strings.TrimSpace(q.Get("category")),
		Continent: strings.TrimSpace(q.Get("continent")),
		Query:     strings.TrimSpace(q.Get("q")),
		Sort:      q.Get("sort"),
	}
	if v := q.Get("maxPrice"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Filter{}, fmt.Errorf("%w: maxPrice %q", ErrBadFilter, v)
		}
		f.MaxPrice = n
	}
	switch f.Sort {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRating:
	default:
		return Filter{}, fmt.Errorf("%w: sort %q", ErrBadFilter, f.Sort)
	}
	if strings.EqualFold(f.Category, "all") {
		f.Category = ""
	}
	return f, nil
}

// Catalog is the read-only set of destinations and packages.
type Catalog struct {
	destinations []model.Destination
	packages     []model.Package
}

// Load decodes the embedded data.
func Load() (*Catalog, error) {
	c := &Catalog{}
	if err := decode("data/destinations.json", &c.destinations); err != nil {
		return nil, err
	}
	if err := decode("data/packages.json", &c.packages); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) Destinations(f Filter) []model.Destination {
	out := make([]model.Destination, 0, len(c.destinations))
	for _, d := range c.destinations {
		if !matchFold(f.Category, d.Category) || !matchFold(f.Continent, d.Continent) {
			continue
		}
		if f.MaxPrice > 0 && d.Price > f.MaxPrice {
			continue
		}
		if !contains(f.Query, d.Name, d.Country, d.Description) {
			continue
		}
		out = append(out, d)
	}
	sortBy(out, f.Sort, func(d model.Destination) (int, float64) { return d.Price, d.Rating })
	return out
}

func (c *Catalog) Destination(id int) (model.Destination, bool) {
	for _, d := range c.destinations {
		if d.ID == id {
			return d, true
		}
	}
	return model.Destination{}, false
}

func (c *Catalog) Packages(f Filter) []model.Package {
	out := make([]model.Package, 0, len(c.packages))
	for _, p := range c.packages {
		if !matchFold(f.Category, p.Category) {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		fields := append([]string{p.Title, p.Description}, p.Destinations...)
		if !contains(f.Query, fields...) {
			continue
		}
		out = append(out, p)
	}
	sortBy(out, f.Sort, func(p model.Package) (int, float64) { return p.Price, p.Rating })
	return out
}

func (c *Catalog) Package(id int) (model.Package, bool) {
	for _, p := range c.packages {
		if p.ID == id {
			return p, true
		}
	}
	return model.Package{}, false
}

func matchFold(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

func contains(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// sortBy orders items in place. Ties keep catalog order.
func sortBy[T any](items []T, order string, key func(T) (price int, rating float64)) {
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b T) int {
			pa, _ := key(a)
			pb, _ := key(b)
			return cmp.Compare(pa, pb)
		})
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b T) int {
			pa, _ := key(a)
			pb, _ := key(b)
			return cmp.Compare(pb, pa)
		})
	case SortRating:
		slices.SortStableFunc(items, func(a, b T) int {
			_, ra := key(a)
			_, rb := key(b)
			return cmp.Compare(rb, ra)
		})
	}
}
