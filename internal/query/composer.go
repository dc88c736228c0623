package query

// SortLabel is one of the fixed sort choices shown to shoppers
type SortLabel string

const (
	SortMostPopular  SortLabel = "Most Popular"
	SortHighestRated SortLabel = "Highest rated"
	SortNearest      SortLabel = "Nearest"
	SortNewest       SortLabel = "Newest"
	SortMostRated    SortLabel = "Most Rated"
)

// SortField is a sort key understood by the catalog API
type SortField string

const (
	SortByRating       SortField = "rating"
	SortByReviewCount  SortField = "reviewCount"
	SortByName         SortField = "name"
	SortByDeliveryTime SortField = "deliveryTime"
	SortByDeliveryFee  SortField = "deliveryFee"
)

// SortOrder is the sort direction understood by the catalog API
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Page sizes
const (
	GridPageSize    = 50
	OverlayPageSize = 20
)

var sortLabels = []SortLabel{
	SortMostPopular,
	SortHighestRated,
	SortNearest,
	SortNewest,
	SortMostRated,
}

// Request is the normalized descriptor sent to GET /restaurants.
// Zero values mean "not sent".
type Request struct {
	Search    string    `json:"search,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	SortBy    SortField `json:"sortBy,omitempty"`
	SortOrder SortOrder `json:"sortOrder,omitempty"`
	Page      int       `json:"page,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// SortLabels returns the fixed labels in display order
func SortLabels() []SortLabel {
	out := make([]SortLabel, len(sortLabels))
	copy(out, sortLabels)
	return out
}

// IsSortLabel reports whether label belongs to the fixed set
func IsSortLabel(label SortLabel) bool {
	for _, l := range sortLabels {
		if l == label {
			return true
		}
	}
	return false
}

// SortFor maps a UI label to the catalog sort key and direction.
// Nearest has no backend mapping yet and gets the Most Popular pair,
// as does any label outside the fixed set.
func SortFor(label SortLabel) (SortField, SortOrder) {
	switch label {
	case SortHighestRated:
		return SortByRating, Desc
	case SortMostRated:
		return SortByReviewCount, Desc
	case SortNewest:
		return SortByName, Asc
	default:
		return SortByReviewCount, Desc
	}
}

// Compose builds the main grid request
func Compose(search string, tags []string, sort SortLabel) Request {
	sortBy, order := SortFor(sort)
	return Request{
		Search:    search,
		Tags:      copyTags(tags),
		SortBy:    sortBy,
		SortOrder: order,
		Limit:     GridPageSize,
	}
}

// ComposeSearch builds the search overlay request
func ComposeSearch(search string, tags []string) Request {
	return Request{
		Search: search,
		Tags:   copyTags(tags),
		Limit:  OverlayPageSize,
	}
}

// ComposeTag builds the category overlay request for a single tag
func ComposeTag(name string) Request {
	return Request{
		Tags:  []string{name},
		Limit: OverlayPageSize,
	}
}

func copyTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
