package client

import (
	"context"
	"net/url"
	"strconv"
)

// Location is the analysed point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Recommendation names the recommended technology and its display colours.
type Recommendation struct {
	Name      string `json:"name"`
	BgColor   string `json:"bgColor"`
	TextColor string `json:"textColor"`
}

// Scores are the per-technology suitability percentages.
type Scores struct {
	Solar   int `json:"solar"`
	Wind    int `json:"wind"`
	Thermal int `json:"thermal"`
}

// Projection is the six-year adoption projection.
type Projection struct {
	Years  []string `json:"years"`
	Values []int    `json:"values"`
}

// Analysis is the response of POST /map/analyze.
type Analysis struct {
	Location         Location       `json:"location"`
	FeasibilityScore int            `json:"feasibilityScore"`
	Recommendation   Recommendation `json:"recommendation"`
	Scores           Scores         `json:"scores"`
	Projection       Projection     `json:"projection"`
	PolicyAdvantages []string       `json:"policyAdvantages"`
}

// Hub is a catalogued industrial hub.
type Hub struct {
	Name               string  `json:"name"`
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	State              string  `json:"state"`
	Solar              int     `json:"solar"`
	Wind               int     `json:"wind"`
	Gas                int     `json:"gas"`
	Water              int     `json:"water"`
	Infrastructure     int     `json:"infrastructure"`
	DemandCenter       int     `json:"demand_center"`
	TransportLogistics int     `json:"transport_logistics"`
}

// NearestHub is the hub closest to a point and its distance in degrees.
type NearestHub struct {
	Hub      Hub     `json:"hub"`
	Distance float64 `json:"distance"`
}

// Health is the body of GET /map/health.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Analyze scores the location (lat, lon).
func (c *Client) Analyze(ctx context.Context, lat, lon float64) (*Analysis, error) {
	body := map[string]float64{"latitude": lat, "longitude": lon}
	var out Analysis
	if err := c.post(ctx, "/map/analyze", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports whether the map API is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/map/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hubs lists catalogued hubs, restricted to state when it is not empty.
func (c *Client) Hubs(ctx context.Context, state string) ([]Hub, error) {
	path := "/map/hubs"
	if state != "" {
		path += "?" + url.Values{"state": {state}}.Encode()
	}
	var out struct {
		Hubs  []Hub `json:"hubs"`
		Count int   `json:"count"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Hubs, nil
}

// Nearest resolves the hub closest to (lat, lon).
func (c *Client) Nearest(ctx context.Context, lat, lon float64) (*NearestHub, error) {
	q := url.Values{}
	q.Set("lat", formatFloat(lat))
	q.Set("lon", formatFloat(lon))
	var out NearestHub
	if err := c.get(ctx, "/map/nearest?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

//Personal.AI order the ending
