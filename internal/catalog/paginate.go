package catalog

// Listing defaults applied when page or limit do not start with an integer.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is the window of a listing to fetch.
type Page struct {
	Number     int
	Skip       int
	Take       int
	TotalPages int
}

// Paginate converts raw page/limit options and a match count into a window.
// Page is not clamped: page 0 or below yields a negative Skip. Use Offset
// when handing the window to a store. A limit below 1 falls back to the default.
func Paginate(page, limit string, total int64) Page {
	n := leadingIntOr(page, DefaultPage)
	size := leadingIntOr(limit, DefaultLimit)
	if size < 1 {
		size = DefaultLimit
	}

	var pages int
	if total > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}

	return Page{
		Number:     n,
		Skip:       (n - 1) * size,
		Take:       size,
		TotalPages: pages,
	}
}

// Offset is Skip clamped at zero.
func (p Page) Offset() int {
	if p.Skip < 0 {
		return 0
	}
	return p.Skip
}
