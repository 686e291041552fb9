package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"
	"truck-trip-service/internal/adapters/repositories"
	"truck-trip-service/internal/config"
	"truck-trip-service/internal/logging"
	"truck-trip-service/internal/platform/db"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	initSchema := flag.Bool("init", false, "create tables and indexes")
	list := flag.Bool("list", false, "list recent trips")
	limit := flag.Int("limit", 20, "maximum trips shown by -list")
	logsFor := flag.String("logs", "", "print daily logs for the given trip id")
	flag.Parse()

	cfg := config.Load()
	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	if !*initSchema && !*list && *logsFor == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg, *initSchema, *list, *limit, *logsFor, os.Stdout, logger); err != nil {
		logging.LogError(logger, "dbtool failed", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, initSchema, list bool, limit int, logsFor string, out io.Writer, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	dsn := cfg.Database.Path
	if cfg.Database.Driver == string(db.Postgres) {
		dsn = cfg.Database.URL
	}

	conn, dialect, err := db.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	if initSchema {
		logger.Info("initializing database schema", slog.String("driver", string(dialect)))
		if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		logger.Info("schema ready")
	}

	repo := repositories.NewSQLTripRepository(conn, dialect)

	if list {
		trips, err := repo.ListTrips(ctx, limit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDISTANCE_MI\tDRIVING_H\tDAYS\tCREATED_AT")
		for _, t := range trips {
			fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%d\t%s\n",
				t.ID, t.TotalDistanceMiles, t.TotalDrivingHours, t.EstimatedDays, t.CreatedAt.Format(time.RFC3339))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if logsFor != "" {
		trip, err := repo.GetTrip(ctx, logsFor)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DAY\tDATE\tDRIVING_H\tON_DUTY_H\tOFF_DUTY_H")
		for _, l := range trip.Logs {
			fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\n",
				l.DayNumber, l.Date.Format("2006-01-02"), l.TotalDrivingHours, l.TotalOnDutyHours, l.TotalOffDutyHours)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return nil
}
