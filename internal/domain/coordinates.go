package domain

// Immutable geographic coordinates (longitude, latitude).
// Coordinates is the RoutePoint produced by geocoders and routers.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as [lat, lon], the order map polylines expect.
func (c Coordinates) LatLon() [2]float64 { return [2]float64{c.Lat, c.Lon} }

// Lerp blends c towards o by weight w (0 yields c, 1 yields o).
func (c Coordinates) Lerp(o Coordinates, w float64) Coordinates {
	return Coordinates{
		Lon: c.Lon + w*(o.Lon-c.Lon),
		Lat: c.Lat + w*(o.Lat-c.Lat),
	}
}
