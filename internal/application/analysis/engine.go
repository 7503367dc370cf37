package analysis

import (
	"github.com/turtacn/H2Siting/internal/domain/feasibility"
)

// NewEngine builds the feasibility engine from the embedded catalog, or from
// catalogPath when it is set. A zero seed perturbs from the clock.
func NewEngine(catalogPath string, seed int64) (*feasibility.Engine, error) {
	var (
		catalog *feasibility.Catalog
		err     error
	)
	if catalogPath != "" {
		catalog, err = feasibility.LoadCatalogFile(catalogPath)
	} else {
		catalog, err = feasibility.DefaultCatalog()
	}
	if err != nil {
		return nil, err
	}
	return feasibility.NewEngine(catalog, feasibility.NewRandomSource(seed))
}

//Personal.AI order the ending
