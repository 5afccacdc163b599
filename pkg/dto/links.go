package dto

type Link struct {
	Href string `json:"href"`
}

// PageLinks is the "_links" object of a listing. Prev and Next are omitted
// when there is no such page.
type PageLinks struct {
	Self  Link  `json:"self"`
	First Link  `json:"first"`
	Last  Link  `json:"last"`
	Prev  *Link `json:"prev,omitempty"`
	Next  *Link `json:"next,omitempty"`
}

// ListResponse builds a listing envelope keyed by the collection name.
func ListResponse(key string, items []map[string]any, links PageLinks) map[string]any {
	if items == nil {
		items = []map[string]any{}
	}
	return map[string]any{
		key:      items,
		"_links": links,
	}
}
