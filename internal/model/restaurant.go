package model

// Restaurant represents a catalog entry as served by the remote catalog API.
// Values are never edited locally; a refetch replaces the whole list.
type Restaurant struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description,omitempty"`
	Image        string   `json:"image,omitempty"`
	Rating       string   `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
	DeliveryTime string   `json:"deliveryTime,omitempty"`
	DeliveryFee  string   `json:"deliveryFee,omitempty"`
	MinimumOrder string   `json:"minimumOrder,omitempty"`
	IsActive     bool     `json:"isActive"`
	IsOpen       bool     `json:"isOpen"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Email        string   `json:"email,omitempty"`
	OpeningTime  string   `json:"openingTime,omitempty"`
	ClosingTime  string   `json:"closingTime,omitempty"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// Tag represents a category facet
type Tag struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Icon            string `json:"icon,omitempty"`
	RestaurantCount int    `json:"restaurantCount"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// ViewEvent describes one completed catalog refresh
type ViewEvent struct {
	RequestID string   `json:"request_id,omitempty"`
	Search    string   `json:"search,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Sort      string   `json:"sort"`
	Count     int      `json:"count"`
	State     string   `json:"state"`
	Timestamp string   `json:"timestamp"`
}
