// Command h2siting is the operator CLI for the siting service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/turtacn/H2Siting/internal/application/community"
	"github.com/turtacn/H2Siting/internal/config"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/internal/infrastructure/search/opensearch"
	"github.com/turtacn/H2Siting/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(cli.Dependencies{Community: openCommunity}); err != nil {
		os.Exit(1)
	}
}

// closers releases stores in reverse order of opening.
type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openCommunity builds the community service over PostgreSQL, indexing new
// communities into OpenSearch when it is enabled.
func openCommunity(ctx context.Context, cfg *config.Config, logger logging.Logger) (cli.CommunityCreator, io.Closer, error) {
	db, err := postgres.NewConnection(postgres.FromConfig(cfg.Database), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	cs := closers{db}

	repo := repositories.NewPostgresCommunityRepo(db, logger)
	deps := community.Dependencies{Repo: repo}
	if cfg.OpenSearch.Enabled {
		oc, err := opensearch.NewClient(opensearch.ClientConfig{
			Addresses: cfg.OpenSearch.Addresses,
			Username:  cfg.OpenSearch.Username,
			Password:  cfg.OpenSearch.Password,
		}, logger)
		if err != nil {
			_ = cs.Close()
			return nil, nil, fmt.Errorf("opensearch: %w", err)
		}
		cs = append(cs, oc)
		index := opensearch.NewCommunityIndex(oc, cfg.OpenSearch.Index, logger)
		if err := index.EnsureIndex(ctx, repo); err != nil {
			logger.Warn("community index unavailable, skipping indexing", logging.Err(err))
		} else {
			deps.Index = index
		}
	}
	return community.NewService(deps, logger), cs, nil
}

//Personal.AI order the ending
