package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/H2Siting/internal/application/analysis"
	"github.com/turtacn/H2Siting/internal/domain/feasibility"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/client"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// AnalysisView is an analysis result from either the local engine or a
// remote server. Hub is only known locally.
type AnalysisView struct {
	client.Analysis
	Hub string `json:"hub,omitempty"`
}

func viewFromResult(r *feasibility.Result) *AnalysisView {
	return &AnalysisView{
		Analysis: client.Analysis{
			Location:         client.Location{Lat: r.Location.Lat, Lng: r.Location.Lng},
			FeasibilityScore: r.FeasibilityScore,
			Recommendation: client.Recommendation{
				Name:      r.Recommendation.Name,
				BgColor:   r.Recommendation.BgColor,
				TextColor: r.Recommendation.TextColor,
			},
			Scores:           client.Scores{Solar: r.Scores.Solar, Wind: r.Scores.Wind, Thermal: r.Scores.Thermal},
			Projection:       client.Projection{Years: r.Projection.Years, Values: r.Projection.Values},
			PolicyAdvantages: r.PolicyAdvantages,
		},
		Hub: r.Hub,
	}
}

func (v *AnalysisView) TableHeaders() []string { return []string{"Field", "Value"} }

func (v *AnalysisView) TableRows() [][]string {
	rows := [][]string{
		{"Location", fmt.Sprintf("%.4f, %.4f", v.Location.Lat, v.Location.Lng)},
	}
	if v.Hub != "" {
		rows = append(rows, []string{"Nearest hub", v.Hub})
	}
	rows = append(rows,
		[]string{"Feasibility", colorizeScore(v.FeasibilityScore)},
		[]string{"Recommendation", v.Recommendation.Name},
		[]string{"Solar electrolysis", strconv.Itoa(v.Scores.Solar) + "%"},
		[]string{"Wind electrolysis", strconv.Itoa(v.Scores.Wind) + "%"},
		[]string{"Thermal with CCS", strconv.Itoa(v.Scores.Thermal) + "%"},
	)
	for i, y := range v.Projection.Years {
		if i < len(v.Projection.Values) {
			rows = append(rows, []string{"Projection " + y, strconv.Itoa(v.Projection.Values[i])})
		}
	}
	for _, p := range v.PolicyAdvantages {
		rows = append(rows, []string{"Policy", p})
	}
	return rows
}

func colorizeScore(score int) string {
	s := strconv.Itoa(score) + "%"
	switch {
	case score >= 75:
		return color.GreenString(s)
	case score >= 50:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	var (
		lat, lon float64
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score the hydrogen feasibility of a location",
		Long: "Resolve the nearest industrial hub to --lat/--lon and score it for solar\n" +
			"electrolysis, wind electrolysis and thermal production with CCS.\n" +
			"Runs the local engine unless --server is given.",
		Example: "  h2siting analyze --lat 22.4707 --lon 70.0577 --seed 7 -o json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			var view *AnalysisView
			if cliCtx.Client != nil {
				if cmd.Flags().Changed("seed") {
					return errors.InvalidParam("--seed applies to local analysis only")
				}
				res, err := cliCtx.Client.Analyze(ctx, lat, lon)
				if err != nil {
					return err
				}
				view = &AnalysisView{Analysis: *res}
			} else {
				if !cmd.Flags().Changed("seed") {
					seed = cliCtx.Config.Engine.Seed
				}
				svc, err := newLocalService(cliCtx, seed)
				if err != nil {
					return err
				}
				res, err := svc.Analyze(ctx, &analysis.AnalyzeInput{Latitude: &lat, Longitude: &lon, Transport: analysis.TransportCLI})
				if err != nil {
					return err
				}
				view = viewFromResult(res)
			}

			cliCtx.Logger.Debug("analysis complete",
				logging.Int("feasibility", view.FeasibilityScore),
				logging.String("recommendation", view.Recommendation.Name))
			return PrintResult(cmd, view)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees [REQUIRED]")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees [REQUIRED]")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the feasibility perturbation (local only)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

// newLocalService builds the analysis service over the configured catalog.
func newLocalService(cliCtx *CLIContext, seed int64) (analysis.Service, error) {
	engine, err := analysis.NewEngine(cliCtx.Config.Engine.CatalogPath, seed)
	if err != nil {
		return nil, err
	}
	return analysis.NewService(engine, nil, nil, cliCtx.Logger), nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, "; ")
}

//Personal.AI order the ending
