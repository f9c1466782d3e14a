package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"penquan/middleware"
	"penquan/service"
)

// priceRanges are the quick-select buttons on the feed. The value encodes
// "min-max" with an open upper bound allowed.
var priceRanges = []struct {
	Value string
	Label string
}{
	{"0-10", "10元以下"},
	{"10-20", "10-20元"},
	{"20-30", "20-30元"},
	{"30-", "30元以上"},
}

// Home renders the feed: selling/buying tabs, price quick-ranges, sort
// and pagination. A fetch failure keeps the page interactive with one
// error banner and an empty list.
func (h *Handlers) Home(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	tab := parseTab(c.Query("tab"))
	sortBy := c.Query("sort")
	if sortBy != "price" {
		sortBy = "latest"
	}
	pageIndex, _ := strconv.Atoi(c.Query("page"))
	if pageIndex < 0 {
		pageIndex = 0
	}
	priceRange := c.Query("price_range")
	priceMin, priceMax := parsePriceRange(priceRange)

	query := service.ListingQuery{
		Tab:       tab,
		PriceMin:  priceMin,
		PriceMax:  priceMax,
		SortBy:    sortBy,
		PageIndex: pageIndex,
		PageSize:  service.DefaultPageSize,
	}

	data := gin.H{
		"Title":           "喷泉二手书",
		"Tab":             string(tab),
		"Sort":            sortBy,
		"Page":            pageIndex,
		"PriceRange":      priceRange,
		"PriceRanges":     priceRanges,
		"ProfileComplete": sess.User.Complete(),
	}

	page, err := h.listings.Load(c.Request.Context(), sess.Token, query)
	if err != nil {
		if h.sessionExpired(c, err) {
			return
		}
		data["ErrorMessage"] = userMessage(err)
		data["Items"] = nil
		data["HasNext"] = false
		h.render(c, http.StatusOK, "home.html", data)
		return
	}
	data["Items"] = page.Items
	data["HasNext"] = page.HasNext
	h.render(c, http.StatusOK, "home.html", data)
}

// Search filters the selected tab's open posts by book title, author or
// ISBN. An empty result renders the empty state, not an error.
func (h *Handlers) Search(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	tab := parseTab(c.Query("tab"))
	term := strings.TrimSpace(c.Query("q"))

	data := gin.H{
		"Title": "图书搜索",
		"Tab":   string(tab),
		"Query": term,
	}

	if term != "" {
		items, err := h.listings.Search(c.Request.Context(), sess.Token, tab, term)
		if err != nil {
			if h.sessionExpired(c, err) {
				return
			}
			data["ErrorMessage"] = userMessage(err)
		} else {
			data["Items"] = items
		}
	}
	h.render(c, http.StatusOK, "search.html", data)
}

func parseTab(raw string) service.Tab {
	if raw == string(service.TabBuying) {
		return service.TabBuying
	}
	return service.TabSelling
}

// parsePriceRange turns "10-20" / "30-" into optional bounds.
func parsePriceRange(raw string) (min, max *float64) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	if v, err := strconv.ParseFloat(parts[0], 64); err == nil {
		min = &v
	}
	if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
		max = &v
	}
	return min, max
}
