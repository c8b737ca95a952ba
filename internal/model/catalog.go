package model

type Destination struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Continent   string   `json:"continent"`
	Image       string   `json:"image"`
	Price       int      `json:"price"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Highlights  []string `json:"highlights"`
	BestTime    string   `json:"bestTime"`
	Duration    string   `json:"duration"`
}

type ItineraryDay struct {
	Day        int      `json:"day"`
	City       string   `json:"city"`
	Activities []string `json:"activities"`
}

type Package struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Duration      string         `json:"duration"`
	Countries     int            `json:"countries"`
	Destinations  []string       `json:"destinations"`
	Image         string         `json:"image"`
	Price         int            `json:"price"`
	OriginalPrice int            `json:"originalPrice"`
	Discount      string         `json:"discount"`
	Rating        float64        `json:"rating"`
	Reviews       int            `json:"reviews"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Includes      []string       `json:"includes"`
	Itinerary     []ItineraryDay `json:"itinerary"`
}
