package model

import (
	"encoding/json"
	"fmt"
)

// Envelope wraps every single-resource response from the catalog API
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// Pagination is the paging block returned alongside restaurant lists
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// TagNames accepts either a single string or a list of strings.
// The catalog API echoes one tag as a bare string and several as an array.
type TagNames []string

// UnmarshalJSON implements json.Unmarshaler
func (t *TagNames) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*t = nil
		} else {
			*t = TagNames{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings: %w", err)
	}
	*t = many
	return nil
}

// AppliedFilters echoes the filters the catalog API actually applied
type AppliedFilters struct {
	Search    string   `json:"search,omitempty"`
	Tags      TagNames `json:"tags,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`
	SortOrder string   `json:"sortOrder,omitempty"`
}

// RestaurantList is the envelope of GET /restaurants
type RestaurantList struct {
	Success    bool           `json:"success"`
	Data       []Restaurant   `json:"data"`
	Pagination Pagination     `json:"pagination"`
	Filters    AppliedFilters `json:"filters"`
	Error      string         `json:"error,omitempty"`
}

// Count returns the number of restaurants in this page
func (l *RestaurantList) Count() int {
	if l == nil {
		return 0
	}
	return len(l.Data)
}

// TagList is the envelope of GET /tags and GET /tags/popular
type TagList struct {
	Success bool   `json:"success"`
	Data    []Tag  `json:"data"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// Count returns the number of tags in the list
func (l *TagList) Count() int {
	if l == nil {
		return 0
	}
	return len(l.Data)
}
