package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"evagobi/internal/app"
	"evagobi/internal/operations"
	"evagobi/internal/preview"

	"github.com/spf13/cobra"
)

// simulationFlags override the simulation window of a single run
type simulationFlags struct {
	startDate string
	endDate   string
	seed      int64
	profile   string
	eventDate string
}

func (f *simulationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.startDate, "start", "", "first simulated day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end", "", "last simulated day (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for reproducible data")
	cmd.Flags().StringVar(&f.profile, "profile", "", "market catalog: standard, global or partner")
	cmd.Flags().StringVar(&f.eventDate, "event-date", "", "acquisition or partner integration date (YYYY-MM-DD)")
}

// params turns the flags that were set into operation parameters
func (f *simulationFlags) params(cmd *cobra.Command) map[string]string {
	params := map[string]string{}
	if f.startDate != "" {
		params[operations.ParamStartDate] = f.startDate
	}
	if f.endDate != "" {
		params[operations.ParamEndDate] = f.endDate
	}
	if cmd.Flags().Changed("seed") {
		params[operations.ParamSeed] = strconv.FormatInt(f.seed, 10)
	}
	if f.profile != "" {
		params[operations.ParamProfile] = f.profile
	}
	if f.eventDate != "" {
		params[operations.ParamEventDate] = f.eventDate
	}
	return params
}

// exportFlags select the optional Power BI artifacts
type exportFlags struct {
	workbook bool
	sqlite   bool
	images   bool
	kpiMonth string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.workbook, "workbook", true, "write the Excel workbook")
	cmd.Flags().BoolVar(&f.sqlite, "sqlite", true, "write the SQLite data model")
	cmd.Flags().BoolVar(&f.images, "images", true, "render PNG chart previews")
	cmd.Flags().StringVar(&f.kpiMonth, "kpi-month", "", "KPI reporting month (YYYY-MM), default the latest month in the data")
}

func (c *cli) applyExportFlags(cmd *cobra.Command, f *exportFlags) error {
	flags := cmd.Flags()
	if flags.Changed("workbook") {
		c.cfg.Export.Workbook = f.workbook
	}
	if flags.Changed("sqlite") {
		c.cfg.Export.SQLite = f.sqlite
	}
	if flags.Changed("images") {
		c.cfg.Export.Images = f.images
	}
	if flags.Changed("kpi-month") {
		c.cfg.Export.KPIMonth = f.kpiMonth
	}
	return c.cfg.Validate()
}

func (c *cli) newGenerateCmd() *cobra.Command {
	var sim simulationFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the ten raw marketing datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execute(cmd, []string{operations.StepIDGenerate}, sim.params(cmd))
		},
	}
	sim.register(cmd)
	return cmd
}

func (c *cli) newPrepareCmd() *cobra.Command {
	var export exportFlags
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build the Power BI chart files from the raw datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyExportFlags(cmd, &export); err != nil {
				return err
			}
			return c.execute(cmd, []string{operations.StepIDPrepare, operations.StepIDExport}, nil)
		},
	}
	export.register(cmd)
	return cmd
}

func (c *cli) newRunCmd() *cobra.Command {
	var (
		sim        simulationFlags
		export     exportFlags
		withTrends bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate, prepare and export in one go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyExportFlags(cmd, &export); err != nil {
				return err
			}
			steps := []string{operations.StepIDGenerate, operations.StepIDPrepare, operations.StepIDExport}
			if withTrends {
				steps = append(steps, operations.StepIDTrends)
			}
			return c.execute(cmd, steps, sim.params(cmd))
		},
	}
	sim.register(cmd)
	export.register(cmd)
	cmd.Flags().BoolVar(&withTrends, "trends", false, "also collect search trends")
	return cmd
}

func (c *cli) newTrendsCmd() *cobra.Command {
	var (
		keywords  []string
		timeframe string
	)
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Collect search interest for the tracked keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(keywords) > 0 {
				c.cfg.Trends.Keywords = keywords
			}
			if timeframe != "" {
				c.cfg.Trends.Timeframe = timeframe
			}
			return c.execute(cmd, []string{operations.StepIDTrends}, nil)
		},
	}
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to track, comma separated")
	cmd.Flags().StringVar(&timeframe, "timeframe", "", "trends timeframe, for example \"today 12-m\"")
	return cmd
}

func (c *cli) newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print a summary of the prepared chart files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Bootstrap(c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer rt.Shutdown(context.Background())

			return preview.NewPreviewer(rt.Paths, c.logger).Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// execute runs the given steps synchronously and prints a step table
func (c *cli) execute(cmd *cobra.Command, steps []string, params map[string]string) error {
	rt, err := app.Bootstrap(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer rt.Shutdown(context.Background())

	manager, err := rt.NewManager(nil)
	if err != nil {
		return err
	}

	resp, err := manager.Execute(cmd.Context(), operations.OperationRequest{Steps: steps, Parameters: params})
	if resp != nil {
		printResponse(cmd, resp)
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}
	return nil
}

func printResponse(cmd *cobra.Command, resp *operations.OperationResponse) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tSTATUS\tDETAIL")
	for _, step := range resp.Steps {
		detail := step.Message
		if step.Error != "" {
			detail = step.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", step.ID, step.Status, detail)
	}
	tw.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "\nOperation %s %s in %s\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))
}
