package domain

type Hotel struct {
	ID            int64   `json:"hid"`
	Name          string  `json:"hotelName"`
	Country       string  `json:"country"`
	PricePerNight int64   `json:"price_per_night"`
	ImageSrc      *string `json:"imageSrc"`
}

// HotelRef is what a filtered search returns: ids only, ordered by id.
type HotelRef struct {
	ID int64 `json:"hid"`
}

// HotelList is the /hotels payload. Exactly one of Hotels or Refs is set,
// depending on whether the request carried any filter.
type HotelList struct {
	Hotels []Hotel    `json:"hotels,omitempty"`
	Refs   []HotelRef `json:"refs,omitempty"`
}

// Reservation is a booking joined with the hotel it belongs to.
type Reservation struct {
	HotelName     string  `json:"hotelName"`
	ImageSrc      *string `json:"imageSrc"`
	Checkin       string  `json:"checkin"`
	Checkout      string  `json:"checkout"`
	PricePerNight int64   `json:"price_per_night"`
}
