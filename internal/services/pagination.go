package services

// PerPage is the fixed listing page size.
const PerPage = 10

// PageLinks holds the page numbers behind the self/first/last/prev/next
// navigation links. Prev and Next are nil when the link is not offered.
type PageLinks struct {
	Self  int
	First int
	Last  int
	Prev  *int
	Next  *int
}

// Offset is the number of records to skip to reach page.
func Offset(page, perPage int) int64 {
	return int64(page-1) * int64(perPage)
}

// Paginate computes the links for page given the collection size.
//
// last is total/perPage with integer division, so a total that is an exact
// multiple of perPage still offers next on its final full page.
func Paginate(page, perPage int, total int64) PageLinks {
	last := int(total / int64(perPage))

	links := PageLinks{
		Self:  page,
		First: 1,
		Last:  last,
	}
	if page > 1 {
		prev := page - 1
		links.Prev = &prev
	}
	if page-1 < last {
		next := page + 1
		links.Next = &next
	}
	return links
}
