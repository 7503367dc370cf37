package feasibility

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/H2Siting/pkg/errors"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// catalogFile is the on-disk and embedded representation.
type catalogFile struct {
	Policies []StatePolicy `yaml:"policies"`
	Hubs     []Hub         `yaml:"hubs"`
}

// Catalog is the immutable knowledge base the engine resolves against.
// Accessors hand out copies so callers cannot mutate shared state.
type Catalog struct {
	hubs     []Hub
	policies *PolicyTable
}

// NewCatalog validates hubs and builds a catalog. Hub order is preserved and
// names must be unique. An empty hub list is rejected.
func NewCatalog(hubs []Hub, policies []StatePolicy) (*Catalog, error) {
	if len(hubs) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogEmpty, "catalog has no hubs")
	}
	seen := make(map[string]struct{}, len(hubs))
	for _, h := range hubs {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[h.Name]; dup {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, fmt.Sprintf("duplicate hub name %q", h.Name))
		}
		seen[h.Name] = struct{}{}
	}
	return &Catalog{
		hubs:     append([]Hub(nil), hubs...),
		policies: NewPolicyTable(policies),
	}, nil
}

// LoadCatalog parses a YAML catalog from r.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "decode catalog")
	}
	return NewCatalog(f.Hubs, f.Policies)
}

// LoadCatalogFile parses the YAML catalog at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "open catalog")
	}
	defer fh.Close()
	return LoadCatalog(fh)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the catalog compiled into the binary. It is parsed
// once per process.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		var f catalogFile
		if err := yaml.Unmarshal(embeddedCatalog, &f); err != nil {
			defaultErr = errors.Wrap(err, errors.ErrCodeCatalogInvalid, "decode embedded catalog")
			return
		}
		defaultCatalog, defaultErr = NewCatalog(f.Hubs, f.Policies)
	})
	return defaultCatalog, defaultErr
}

// Len returns the number of hubs.
func (c *Catalog) Len() int { return len(c.hubs) }

// Hubs returns all hubs in catalog order.
func (c *Catalog) Hubs() []Hub { return append([]Hub(nil), c.hubs...) }

// HubsInState returns the hubs of state in catalog order. An empty state
// returns every hub.
func (c *Catalog) HubsInState(state string) []Hub {
	if state == "" {
		return c.Hubs()
	}
	var out []Hub
	for _, h := range c.hubs {
		if h.State == state {
			out = append(out, h)
		}
	}
	return out
}

// Hub looks up a hub by exact name.
func (c *Catalog) Hub(name string) (Hub, error) {
	for _, h := range c.hubs {
		if h.Name == name {
			return h, nil
		}
	}
	return Hub{}, errors.New(errors.ErrCodeHubNotFound, fmt.Sprintf("hub %q not found", name))
}

// Policies returns the policy table.
func (c *Catalog) Policies() *PolicyTable { return c.policies }

// Nearest returns the hub closest to (lat, lon) and its distance. Distance
// is planar Euclidean on raw degrees. Only a strictly smaller distance
// replaces the current best, so the earliest hub wins ties.
func (c *Catalog) Nearest(lat, lon float64) (Hub, float64) {
	best := 0
	bestDist := math.Inf(1)
	for i, h := range c.hubs {
		dlat, dlon := h.Lat-lat, h.Lon-lon
		d := math.Sqrt(float64(dlat*dlat) + float64(dlon*dlon))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.hubs[best], bestDist
}

//Personal.AI order the ending
