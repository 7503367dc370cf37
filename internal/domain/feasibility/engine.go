package feasibility

import "github.com/turtacn/H2Siting/pkg/errors"

// Engine composes nearest-hub resolution, scoring and synthesis over an
// immutable catalog. It is safe for concurrent use.
type Engine struct {
	catalog *Catalog
	rng     RandomSource
}

// NewEngine returns an engine over catalog. A nil rng selects a
// clock-seeded source.
func NewEngine(catalog *Catalog, rng RandomSource) (*Engine, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, errors.New(errors.ErrCodeCatalogEmpty, "engine requires a non-empty catalog")
	}
	if rng == nil {
		rng = NewRandomSource(0)
	}
	return &Engine{catalog: catalog, rng: rng}, nil
}

// Catalog returns the catalog the engine resolves against.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Analyze scores the location (lat, lon).
func (e *Engine) Analyze(lat, lon float64) Result {
	hub, dist := e.catalog.Nearest(lat, lon)
	res := Synthesize(Score(hub), hub, e.catalog.Policies(), e.rng)
	res.Location = Location{Lat: lat, Lng: lon}
	res.Distance = dist
	return res
}

//Personal.AI order the ending
