package models

// WeatherReport is the document returned to the browser for one lookup.
type WeatherReport struct {
	City        string   `json:"city"`
	Temperature float64  `json:"temperature"`
	Description string   `json:"description"`
	Humidity    float64  `json:"humidity"`
	Pressure    *float64 `json:"pressure,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
	WindDeg     *float64 `json:"wind_deg,omitempty"`
	Cloudiness  *float64 `json:"cloudiness,omitempty"`
	Sunrise     string   `json:"sunrise,omitempty"`
	Sunset      string   `json:"sunset,omitempty"`
}
