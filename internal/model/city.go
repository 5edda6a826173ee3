package model

// City is a lookup row used when listing facilities by location.
type City struct {
	ID    uint64 // cities.id
	Name  string // cities.name
	State string // cities.state
}
