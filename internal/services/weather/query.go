package weather

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Nazarious-ucu/weather-lookup-api/internal/models"
)

var (
	errNoLocation     = errors.New("city or lat and lon query parameters are required")
	errBadCoordinates = errors.New("lat and lon must be numeric")
)

// ParseQuery validates raw query parameters. A city wins over coordinates;
// otherwise both lat and lon must be present and numeric.
func ParseQuery(city, lat, lon string) (models.Query, error) {
	city = strings.TrimSpace(city)
	if city != "" {
		return models.Query{City: city}, nil
	}

	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" || lon == "" {
		return models.Query{}, newError(KindMissingParameter, errNoLocation)
	}
	if !isCoordinate(lat) || !isCoordinate(lon) {
		return models.Query{}, newError(KindInvalidParameter, errBadCoordinates)
	}

	return models.Query{Lat: lat, Lon: lon}, nil
}

// isCoordinate accepts finite decimal numbers only. ParseFloat alone would
// also let through NaN, Inf and hex floats.
func isCoordinate(v string) bool {
	if strings.ContainsAny(v, "xX") {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
