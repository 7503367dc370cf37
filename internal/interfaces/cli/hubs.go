package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/H2Siting/internal/domain/feasibility"
	"github.com/turtacn/H2Siting/pkg/client"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// HubList is a set of catalog hubs.
type HubList []client.Hub

func (l HubList) TableHeaders() []string {
	return []string{"Hub", "State", "Lat", "Lon", "Solar", "Wind", "Gas", "Water", "Infra", "Demand", "Logistics"}
}

func (l HubList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, h := range l {
		rows = append(rows, []string{
			h.Name, h.State,
			strconv.FormatFloat(h.Lat, 'f', 4, 64), strconv.FormatFloat(h.Lon, 'f', 4, 64),
			strconv.Itoa(h.Solar), strconv.Itoa(h.Wind), strconv.Itoa(h.Gas), strconv.Itoa(h.Water),
			strconv.Itoa(h.Infrastructure), strconv.Itoa(h.DemandCenter), strconv.Itoa(h.TransportLogistics),
		})
	}
	return rows
}

// NearestView is the hub closest to a queried point.
type NearestView client.NearestHub

func (n *NearestView) TableHeaders() []string { return []string{"Hub", "State", "Distance (deg)"} }

func (n *NearestView) TableRows() [][]string {
	return [][]string{{n.Hub.Name, n.Hub.State, strconv.FormatFloat(n.Distance, 'f', 4, 64)}}
}

func toClientHub(h feasibility.Hub) client.Hub {
	return client.Hub{
		Name: h.Name, Lat: h.Lat, Lon: h.Lon, State: h.State,
		Solar: h.Solar, Wind: h.Wind, Gas: h.Gas, Water: h.Water,
		Infrastructure: h.Infrastructure, DemandCenter: h.DemandCenter, TransportLogistics: h.TransportLogistics,
	}
}

// NewHubsCmd creates the hubs command.
func NewHubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hubs",
		Short: "Browse the industrial hub catalog",
	}
	cmd.AddCommand(newHubsListCmd(), newHubsNearestCmd())
	return cmd
}

func newHubsListCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog hubs, optionally within one state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			var hubs HubList
			if cliCtx.Client != nil {
				if hubs, err = cliCtx.Client.Hubs(ctx, state); err != nil {
					return err
				}
			} else {
				svc, err := newLocalService(cliCtx, 0)
				if err != nil {
					return err
				}
				for _, h := range svc.Hubs(ctx, state) {
					hubs = append(hubs, toClientHub(h))
				}
			}
			if len(hubs) == 0 && state != "" {
				return errors.NotFound(fmt.Sprintf("no hubs in state %q", state))
			}
			return PrintResult(cmd, hubs)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "only list hubs in this state")
	return cmd
}

func newHubsNearestCmd() *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the hub closest to a coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			if cliCtx.Client != nil {
				n, err := cliCtx.Client.Nearest(ctx, lat, lon)
				if err != nil {
					return err
				}
				return PrintResult(cmd, (*NearestView)(n))
			}
			svc, err := newLocalService(cliCtx, 0)
			if err != nil {
				return err
			}
			n, err := svc.Nearest(ctx, lat, lon)
			if err != nil {
				return err
			}
			return PrintResult(cmd, &NearestView{Hub: toClientHub(n.Hub), Distance: n.Distance})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees [REQUIRED]")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees [REQUIRED]")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

// PolicyList maps a state to its policy advantages.
type PolicyList []StatePolicies

// StatePolicies is one row of PolicyList.
type StatePolicies struct {
	State      string   `json:"state"`
	Advantages []string `json:"advantages"`
}

func (l PolicyList) TableHeaders() []string { return []string{"State", "Policy advantages"} }

func (l PolicyList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, p := range l {
		rows = append(rows, []string{p.State, joinOrDash(p.Advantages)})
	}
	return rows
}

// NewPoliciesCmd creates the policies command. It always reads the local
// catalog.
func NewPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies [state]",
		Short: "Show state policy advantages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := newLocalService(cliCtx, 0)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			states := svc.States(ctx)
			if len(args) == 1 {
				states = []string{args[0]}
			}
			out := make(PolicyList, 0, len(states))
			for _, s := range states {
				out = append(out, StatePolicies{State: s, Advantages: svc.Policies(ctx, s)})
			}
			return PrintResult(cmd, out)
		},
	}
}

//Personal.AI order the ending
