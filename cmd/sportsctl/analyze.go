package main

import (
	"context"
	"fmt"
	"path/filepath"

	"zsports/sports-history/internal/analysis"
	"zsports/sports-history/internal/repository"
	"zsports/sports-history/internal/repository/mongo"
	"zsports/sports-history/internal/service"
	"zsports/sports-history/internal/strava"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

type renderFlags struct {
	out string
	png bool
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.out, "out", "", "chart directory, defaults to paths.plot_root")
	cmd.Flags().BoolVar(&f.png, "png", false, "also render PNG previews")
}

func (a *app) publishCharts(charts []analysis.Chart, f renderFlags) ([]string, error) {
	dir := f.out
	if dir == "" {
		dir = a.cfg.Paths.PlotRoot
	}
	return analysis.Publish(charts, a.theme, analysis.PublishOptions{Dir: dir, PNG: f.png})
}

func newStravaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strava",
		Short: "Strava bulk export",
	}

	var file string
	var render renderFlags
	analyze := &cobra.Command{
		Use:   "analyze",
		Short: "Chart activities.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = filepath.Join(a.cfg.Paths.DataRoot, "strava", "activities.csv")
			}
			acts, report, err := strava.ReadFile(path)
			if err != nil {
				return err
			}
			if !report.OK() {
				log.Warnf("strava: %s", report)
			}
			written, err := a.publishCharts(analysis.StravaReport(acts, a.theme), render)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	analyze.Flags().StringVar(&file, "file", "", "activities.csv, defaults to paths.data_root/strava/activities.csv")
	render.bind(analyze)

	cmd.AddCommand(analyze)
	return cmd
}

func newPolarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "polar",
		Short: "Polar account export",
	}

	var dir string
	var store bool
	var render renderFlags
	imp := &cobra.Command{
		Use:   "import",
		Short: "Parse training sessions, export GeoJSON/CSV and chart routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = filepath.Join(a.cfg.Paths.DataRoot, "polar", "export")
			}

			var repo repository.TrainingRepository
			if store {
				db, closeDB, err := a.database(cmd.Context())
				if err != nil {
					return err
				}
				defer closeDB()
				repo = mongo.NewMongoTrainingRepository(db)
			}

			result, err := service.NewTrainingService(repo).Import(cmd.Context(), dir)
			if err != nil {
				return err
			}
			log.Infof("polar: %s, %d parsed, %d stored", result.Counts, result.Report.Parsed, result.Inserted)
			for _, p := range result.Exports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			written, err := a.publishCharts(analysis.PolarReport(result.Trainings, a.theme), render)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	imp.Flags().StringVar(&dir, "dir", "", "export folder, defaults to paths.data_root/polar/export")
	imp.Flags().BoolVar(&store, "store", false, "upsert trainings into MongoDB")
	render.bind(imp)

	cmd.AddCommand(imp)
	return cmd
}

func newPublishCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "publish <chart>...",
		Short: "Upload chart JSON files and record them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := a.storage()
			if err != nil {
				return err
			}
			db, closeDB, err := a.database(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			publisher := service.NewPublishService(a.cfg.Paths.PlotRoot, mongo.NewMongoArtifactRepository(db), fs)
			for _, name := range args {
				artifact, err := publisher.Publish(cmd.Context(), name, prefix)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", artifact.Bucket, artifact.ObjectKey)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "object key prefix, e.g. strava")
	return cmd
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Server administration helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for admin.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
	return cmd
}

func (a *app) database(ctx context.Context) (*mongodriver.Database, func(), error) {
	if a.cfg.Database.URI == "" {
		return nil, nil, fmt.Errorf("database.uri is not set")
	}
	client, err := mongo.ConnectDB(a.cfg.Database.URI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(a.cfg.Database.Name)
	mongo.EnsureIndexes(ctx, db)
	return db, func() {
		if err := mongo.DisconnectDB(client); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}, nil
}
