package types

type SearchMode string

const (
	SearchModeLocal   SearchMode = "local"
	SearchModeClosest SearchMode = "closest"
	SearchModeGlobal  SearchMode = "global"
)

type SearchRequest struct {
	Query       string
	Near        *GeoPoint
	RadiusMiles float64
	Limit       uint64
}

type SearchResult struct {
	Query      string             `json:"query"`
	Count      int                `json:"count"`
	SearchMode SearchMode         `json:"searchMode"`
	Results    []*ResourceListing `json:"results"`
}
