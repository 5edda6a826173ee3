package model

import "time"

// Facility represents a parking lot or building offering bookable
// slots.  Each facility belongs to one owner and one city.  The
// price is charged per hour in whole rupees.  This struct
// corresponds to a row in the `facilities` table.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – user ID of the facility owner.
//  CityID         – city the facility is located in.
//  Name           – facility name, unique per owner.
//  Address        – full street address.
//  Latitude       – geographic latitude for display on maps.
//  Longitude      – geographic longitude for display on maps.
//  PricePerHour   – hourly rate in rupees.
//  TotalBasements – number of basement levels holding slots.
//  Contact        – owner contact number shown to renters.
//  CreatedAt      – timestamp when the facility was listed.
//  UpdatedAt      – timestamp of last update.
type Facility struct {
	ID             uint64    // facilities.id
	OwnerID        uint64    // facilities.owner_id
	CityID         uint64    // facilities.city_id
	Name           string    // facilities.name
	Address        string    // facilities.address
	Latitude       float64   // facilities.latitude
	Longitude      float64   // facilities.longitude
	PricePerHour   int64     // facilities.price_per_hour
	TotalBasements uint32    // facilities.total_basements
	Contact        *string   // facilities.contact (nullable)
	CreatedAt      time.Time // facilities.created_at
	UpdatedAt      time.Time // facilities.updated_at
}
