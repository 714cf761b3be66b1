package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/energy-chart-go/internal/chart"
	"github.com/user/energy-chart-go/internal/collector"
	"github.com/user/energy-chart-go/internal/models"
	"github.com/user/energy-chart-go/internal/report"
	"github.com/user/energy-chart-go/internal/web"
)

var (
	// Used for flags.
	outputFilePath string
	repository     string
	revision       string
	timeout        time.Duration
	listenAddr     string

	rootCmd = &cobra.Command{
		Use:   "energy-chart",
		Short: "Energy chart draws yearly U.S. energy consumption as stacked bars.",
		Long: `A tool that loads the yearly energy consumption dataset and draws it as a
stacked bar chart of nuclear, fossil fuel and renewable consumption, with a
tooltip showing the amount and proportion of each bar.`,
	}

	renderCmd = &cobra.Command{
		Use:   "render [SOURCE] [html|svg|json|png|xlsx]",
		Short: "Renders the chart to a file.",
		Long: `Loads the dataset from SOURCE (a URL, a local file, or with --repo a path
inside a git repository) and writes the chart in the given format. SOURCE
defaults to the published dataset and the format defaults to html.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, reportFormat := parseRenderArgs(args)

			adapter, err := report.NewReportAdapter(reportFormat)
			if err != nil {
				return err
			}

			if outputFilePath == "" {
				outputFilePath = fmt.Sprintf("energy-chart.%s", reportFormat)
			}
			absOutputFilePath, err := filepath.Abs(outputFilePath)
			if err != nil {
				return fmt.Errorf("invalid output file path '%s': %w", outputFilePath, err)
			}

			source := collector.NewSource(location, repository, revision, &http.Client{Timeout: timeout})
			fmt.Printf("Loading data from: %s\n", source)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			renderer := chart.NewRenderer(models.DefaultConfig(), collector.NewDataCollector(source))
			loadErr := renderer.Render(ctx)
			result := renderer.Result()
			if loadErr != nil {
				log.Printf("Warning: %v", loadErr)
			} else {
				fmt.Printf("Loaded %d rows covering %d years.\n", len(result.Rows), len(result.Stacks))
			}

			fmt.Println("Preparing report data...")
			if err := adapter.PrepareData(result); err != nil {
				return fmt.Errorf("failed to prepare %s report data: %w", reportFormat, err)
			}

			fmt.Printf("Writing report to: %s\n", absOutputFilePath)
			if err := adapter.Write(absOutputFilePath); err != nil {
				return fmt.Errorf("failed to write %s report to %s: %w", reportFormat, absOutputFilePath, err)
			}

			if loadErr != nil {
				return fmt.Errorf("%s report shows the load error: %w", strings.ToUpper(reportFormat), loadErr)
			}
			fmt.Printf("%s report generated successfully: %s\n", strings.ToUpper(reportFormat), absOutputFilePath)
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve [SOURCE]",
		Short: "Serves the interactive chart over HTTP.",
		Long: `Loads the dataset from SOURCE once and serves the chart. Hovering a bar
shows its tooltip; every browser gets its own copy of the chart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			}

			source := collector.NewSource(location, repository, revision, &http.Client{Timeout: timeout})
			fmt.Printf("Loading data from: %s\n", source)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			col := collector.NewDataCollector(source)
			rows, loadErr := col.Collect(ctx)
			if loadErr != nil {
				log.Printf("Warning: %v. Clients will see the error text.", loadErr)
			} else {
				fmt.Printf("Loaded %d rows.\n", len(rows))
			}

			server, err := web.NewServer(models.DefaultConfig(), rows, col.SourceMetadata(), loadErr)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			return server.Start(listenAddr)
		},
	}
)

// parseRenderArgs accepts "SOURCE FORMAT", "SOURCE" or "FORMAT".
func parseRenderArgs(args []string) (location, reportFormat string) {
	reportFormat = "html"
	switch len(args) {
	case 1:
		if slices.Contains(report.Formats, args[0]) {
			reportFormat = args[0]
		} else {
			location = args[0]
		}
	case 2:
		location, reportFormat = args[0], args[1]
	}
	return location, reportFormat
}

func init() {
	for _, cmd := range []*cobra.Command{renderCmd, serveCmd} {
		cmd.Flags().StringVar(&repository, "repo", "", "Git repository (path or URL) to read SOURCE from")
		cmd.Flags().StringVar(&revision, "rev", "", "Revision of --repo to read (default HEAD)")
		cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for loading the data")
	}
	renderCmd.Flags().StringVarP(&outputFilePath, "output-file-path", "o", "", "Output file path for the report")
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Address to listen on")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
