package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/cubedraft/internal/charts"
	"github.com/ramonehamilton/cubedraft/internal/draft"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate CUBE_FILE",
		Short: "Check that every slot of a format can be filled from a cube",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCube(args[0])
			if err != nil {
				return err
			}
			f, err := opts.resolveFormat()
			if err != nil {
				return err
			}

			result := draft.Validate(&f, c.Cards, nil)
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.OK {
				return errors.New("format cannot be drafted from this cube")
			}
			return nil
		},
	}
}

func newAsfanCmd(opts *options) *cobra.Command {
	var (
		chartPath string
		top       int
		byName    bool
	)

	cmd := &cobra.Command{
		Use:   "asfan CUBE_FILE",
		Short: "Estimate how many copies of each card one seat sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCube(args[0])
			if err != nil {
				return err
			}
			f, err := opts.resolveFormat()
			if err != nil {
				return err
			}

			asfan, err := draft.EstimateAsfan(&f, c.Cards, nil)
			if err != nil {
				return err
			}
			entries := draft.RankAsfan(c.Cards, asfan)

			if chartPath != "" {
				config := charts.DefaultChartConfig()
				config.Subtitle = fmt.Sprintf("%s, %s", c.Name, f.Title)
				config.TopN = top
				if err := charts.RenderAsfanChart(entries, config, chartPath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "chart written to", chartPath)
			}

			if byName {
				return writeJSON(cmd.OutOrStdout(), draft.AsfanByName(c.Cards, asfan))
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write an HTML bar chart to this path")
	cmd.Flags().IntVar(&top, "top", 40, "Cards shown in the chart")
	cmd.Flags().BoolVar(&byName, "by-name", false, "Sum copies of the same card name")
	return cmd
}

func newSimulateCmd(opts *options) *cobra.Command {
	var (
		runs      int
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "simulate CUBE_FILE",
		Short: "Generate many drafts and compare seat 0 incidence with asfan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCube(args[0])
			if err != nil {
				return err
			}
			f, err := opts.resolveFormat()
			if err != nil {
				return err
			}

			result, err := opts.generator().Simulate(cmd.Context(), draft.SimulateRequest{
				GenerateRequest: draft.GenerateRequest{
					Format: f,
					Cards:  c.Cards,
					Seats:  opts.seats,
					Seed:   opts.seed,
				},
				Runs:    runs,
				Workers: opts.cfg.Draft.SimulationWorkers,
			})
			if err != nil {
				return err
			}
			if result.Failures == result.Runs {
				return fmt.Errorf("all %d runs failed: %s", runs, strings.Join(draft.Validate(&f, c.Cards, nil).Messages, "; "))
			}

			if chartPath != "" {
				asfan, err := draft.EstimateAsfan(&f, c.Cards, nil)
				if err != nil {
					return err
				}
				config := charts.DefaultChartConfig()
				config.Title = "As-fan vs simulation"
				config.Subtitle = fmt.Sprintf("%s, %s, %d runs", c.Name, f.Title, runs)
				if err := charts.RenderComparisonChart(draft.RankAsfan(c.Cards, asfan), result.Incidence, config, chartPath); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "chart written to", chartPath)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 1000, "Number of independent generations")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write an estimated-vs-simulated HTML chart")
	return cmd
}
