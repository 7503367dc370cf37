// Package feasibility implements the location feasibility scoring engine:
// nearest-hub resolution over a static catalog, weighted multi-criteria
// scoring of three technology profiles, and recommendation synthesis.
package feasibility

import (
	"fmt"
	"strings"

	"github.com/turtacn/H2Siting/pkg/errors"
)

// Attribute names one of the seven 0–10 suitability attributes of a hub.
type Attribute string

const (
	AttrSolar              Attribute = "solar"
	AttrWind               Attribute = "wind"
	AttrGas                Attribute = "gas"
	AttrWater              Attribute = "water"
	AttrInfrastructure     Attribute = "infrastructure"
	AttrDemandCenter       Attribute = "demand_center"
	AttrTransportLogistics Attribute = "transport_logistics"
)

// Attributes lists every attribute in catalog column order.
var Attributes = []Attribute{
	AttrSolar, AttrWind, AttrGas, AttrWater,
	AttrInfrastructure, AttrDemandCenter, AttrTransportLogistics,
}

const (
	MinAttribute = 0
	MaxAttribute = 10
)

// Hub is an immutable catalog entry: a named city with a position, its
// jurisdiction and seven suitability attributes.
type Hub struct {
	Name               string  `yaml:"name" json:"name"`
	Lat                float64 `yaml:"lat" json:"lat"`
	Lon                float64 `yaml:"lon" json:"lon"`
	State              string  `yaml:"state" json:"state"`
	Solar              int     `yaml:"solar" json:"solar"`
	Wind               int     `yaml:"wind" json:"wind"`
	Gas                int     `yaml:"gas" json:"gas"`
	Water              int     `yaml:"water" json:"water"`
	Infrastructure     int     `yaml:"infrastructure" json:"infrastructure"`
	DemandCenter       int     `yaml:"demand_center" json:"demand_center"`
	TransportLogistics int     `yaml:"transport_logistics" json:"transport_logistics"`
}

// Attribute returns the value of a. Unknown attributes read as zero.
func (h Hub) Attribute(a Attribute) int {
	switch a {
	case AttrSolar:
		return h.Solar
	case AttrWind:
		return h.Wind
	case AttrGas:
		return h.Gas
	case AttrWater:
		return h.Water
	case AttrInfrastructure:
		return h.Infrastructure
	case AttrDemandCenter:
		return h.DemandCenter
	case AttrTransportLogistics:
		return h.TransportLogistics
	default:
		return 0
	}
}

// Validate checks the catalog invariants for a single hub.
func (h Hub) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return errors.New(errors.ErrCodeCatalogInvalid, "hub name is required")
	}
	if strings.TrimSpace(h.State) == "" {
		return errors.New(errors.ErrCodeCatalogInvalid, fmt.Sprintf("hub %q has no state", h.Name))
	}
	if h.Lat < -90 || h.Lat > 90 || h.Lon < -180 || h.Lon > 180 {
		return errors.New(errors.ErrCodeCatalogInvalid, fmt.Sprintf("hub %q has coordinates out of range", h.Name))
	}
	for _, a := range Attributes {
		if v := h.Attribute(a); v < MinAttribute || v > MaxAttribute {
			return errors.New(errors.ErrCodeCatalogInvalid,
				fmt.Sprintf("hub %q attribute %s=%d outside [%d,%d]", h.Name, a, v, MinAttribute, MaxAttribute))
		}
	}
	return nil
}

//Personal.AI order the ending
