package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/H2Siting/internal/config"
	domain "github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// CommunityCreator creates communities. The community application service
// satisfies it.
type CommunityCreator interface {
	CreateCommunity(ctx context.Context, name, description string) (*domain.Community, error)
}

// CommunityFactory opens a CommunityCreator over the configured stores. The
// returned closer releases them.
type CommunityFactory func(ctx context.Context, cfg *config.Config, logger logging.Logger) (CommunityCreator, io.Closer, error)

// CommunityView is a created community.
type CommunityView domain.Community

func (c *CommunityView) TableHeaders() []string { return []string{"ID", "Name", "Description"} }

func (c *CommunityView) TableRows() [][]string {
	return [][]string{{strconv.FormatInt(c.ID, 10), c.Name, c.Description}}
}

// NewCommunityCmd creates the community admin command.
func NewCommunityCmd(factory CommunityFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Administer communities",
	}

	var name, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a community",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if factory == nil {
				return errors.New(errors.ErrCodeFeatureDisabled, "community administration is not available in this build")
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			svc, closer, err := factory(ctx, cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			c, err := svc.CreateCommunity(ctx, name, description)
			if err != nil {
				return err
			}
			cliCtx.Logger.Info("community created", logging.Int64("community_id", c.ID), logging.String("name", c.Name))
			return PrintResult(cmd, (*CommunityView)(c))
		},
	}
	create.Flags().StringVar(&name, "name", "", "community name [REQUIRED]")
	create.Flags().StringVar(&description, "description", "", "community description")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}

//Personal.AI order the ending
