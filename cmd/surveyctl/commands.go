package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"questionnaire/internal/chart"
	"questionnaire/internal/config"
	"questionnaire/internal/domain"
	"questionnaire/internal/repository"
	"questionnaire/internal/service"
)

// app reúne lo que comparten los subcomandos.
type app struct {
	logger *zap.Logger
	cfg    *config.Config
	stores *repository.Stores
}

func newRootCmd() *cobra.Command {
	var (
		a       app
		verbose bool
	)

	root := &cobra.Command{
		Use:           "surveyctl",
		Short:         "Administra la base del cuestionario y sus estadísticas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && verbose {
				log.Printf("warning: loading .env: %v", err)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if verbose {
				a.logger, _ = zap.NewDevelopment()
			} else {
				a.logger = zap.NewNop()
			}
			stores, err := repository.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			a.stores = stores
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.stores != nil {
				a.stores.Close()
			}
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Crea las tablas users y answers si no existen",
			RunE: func(cmd *cobra.Command, _ []string) error {
				// Open ya aplicó el esquema.
				fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", a.cfg.StorageDriver)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Imprime el resumen estadístico actual",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runStats(cmd.Context(), cmd.OutOrStdout(), a.statistics(nil))
			},
		},
		&cobra.Command{
			Use:   "chart",
			Short: "Exporta el gráfico de distribución por nivel educativo",
			RunE: func(cmd *cobra.Command, _ []string) error {
				renderer := chart.NewEducationChartRenderer(a.logger, a.cfg.ChartDir, a.cfg.ChartFile)
				if err := runChart(cmd.Context(), a.statistics(renderer)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", renderer.Path())
				return nil
			},
		},
	)
	return root
}

func (a *app) statistics(renderer service.ChartRenderer) *service.StatisticsService {
	return service.NewStatisticsService(a.logger, a.stores.Respondents, a.stores.Answers, renderer)
}

func runStats(ctx context.Context, w io.Writer, stats *service.StatisticsService) error {
	summary, err := stats.ComputeSummary(ctx)
	if errors.Is(err, service.ErrInsufficientData) {
		return errors.New("no responses yet")
	}
	if err != nil {
		return err
	}
	writeSummary(w, summary)
	return nil
}

func runChart(ctx context.Context, stats *service.StatisticsService) error {
	summary, err := stats.ComputeSummary(ctx)
	if errors.Is(err, service.ErrInsufficientData) {
		return errors.New("no responses yet")
	}
	if err != nil {
		return err
	}
	return stats.RenderEducationChart(ctx, summary.EducationDistribution)
}

// writeSummary manda el resumen y la distribución como tablas.
func writeSummary(w io.Writer, s domain.StatisticsSummary) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Metric", "Value"})
	tbl.SetBorder(true)
	tbl.Append([]string{"Respondents", strconv.Itoa(s.TotalRespondents)})
	tbl.Append([]string{"Age min", strconv.Itoa(s.AgeMin)})
	tbl.Append([]string{"Age max", strconv.Itoa(s.AgeMax)})
	tbl.Append([]string{"Age mean", strconv.Itoa(s.AgeMean)})
	tbl.Append([]string{"Most popular Q1", s.MostPopularAnswerToQ1})
	tbl.Append([]string{"Most popular Q1 %", strconv.FormatFloat(s.MostPopularAnswerToQ1Percentage, 'f', 2, 64)})
	tbl.Render()

	dist := tablewriter.NewWriter(w)
	dist.SetHeader([]string{"Education", "Count"})
	dist.SetBorder(true)
	for _, c := range s.EducationDistribution {
		dist.Append([]string{c.Label, strconv.Itoa(c.Count)})
	}
	dist.Render()
}
