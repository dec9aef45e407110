package enums

type LocationSource string

const (
	LocationSourceGeocode LocationSource = "geocode"
	LocationSourceCurated LocationSource = "curated"
	LocationSourceFuzzy   LocationSource = "fuzzy"
)
