package main

import (
	"context"
	"database/sql"
	"field-survey-service/internal/adapters/repositories"
	"field-survey-service/internal/config"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/export"
	"field-survey-service/internal/geo"
	"field-survey-service/internal/platform/db"
	"field-survey-service/internal/ports"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wroge/wgs84"
)

type rootOptions struct {
	dbPath      string
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "surveytool",
		Short:         "Manage the field survey point store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			if !cmd.Flags().Changed("db") {
				opts.dbPath = config.Get("DB_PATH", opts.dbPath)
			}
			if !cmd.Flags().Changed("database-url") {
				opts.databaseURL = config.Get("DATABASE_URL", opts.databaseURL)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "data/survey.db", "SQLite database path")
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Postgres URL (overrides --db)")

	root.AddCommand(
		newInitCmd(opts),
		newImportCmd(opts),
		newProjectCmd(),
		newExportCmd(opts),
	)
	return root
}

func (o *rootOptions) open() (*sql.DB, ports.PointRepository, error) {
	if o.databaseURL != "" {
		conn, err := db.Open(o.databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, repositories.NewSQLPointRepository(conn), nil
	}

	conn, err := db.OpenSQLite(o.dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, repositories.NewSqlitePointRepository(conn), nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := opts.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema ready.")
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <points.json>",
		Short: "Replace the stored collection with a JSON export from the mobile client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, repo, err := opts.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := repositories.SeedFromJSON(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d points.\n", n)
			return nil
		},
	}
}

func newProjectCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "project <lat> <lon>",
		Short: "Print the UTM projection of a WGS84 position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("latitude: %w", err)
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("longitude: %w", err)
			}

			return runProject(cmd.OutOrStdout(), lat, lon, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "compare against a full transverse mercator projection")
	return cmd
}

func runProject(w io.Writer, lat, lon float64, check bool) error {
	p, err := geo.ProjectPosition(domain.GeographicPosition{Latitude: lat, Longitude: lon})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Zone %d%s E:%.2f N:%.2f\n", p.Zone, p.Band, p.Easting, p.Northing)

	if !check {
		return nil
	}

	falseNorthing := 0.0
	if lat < 0 {
		falseNorthing = 10000000
	}
	tm := wgs84.WGS84().TransverseMercator(geo.CentralMeridian(p.Zone), 0, 0.9996, 500000, falseNorthing)
	e, n, _ := wgs84.Transform(wgs84.WGS84().LonLat(), tm)(lon, lat, 0)
	fmt.Fprintf(w, "reference E:%.2f N:%.2f (dE %.3f m, dN %.3f m)\n",
		e, n, math.Abs(e-p.Easting), math.Abs(n-p.Northing))
	return nil
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
		tz     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as KML or GeoJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("time zone: %w", err)
			}

			conn, repo, err := opts.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			path, n, err := runExport(cmd.Context(), repo, format, out, loc, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d points to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "kml", "kml or geojson")
	cmd.Flags().StringVar(&out, "out", "", "output path (default levantamiento_YYYY-MM-DD.<ext>)")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "time zone for capture dates")
	return cmd
}

func runExport(
	ctx context.Context,
	repo ports.PointRepository,
	format, out string,
	loc *time.Location,
	now time.Time,
) (string, int, error) {
	points, err := repo.ListPoints(ctx)
	if err != nil {
		return "", 0, err
	}

	var body []byte
	switch format {
	case "kml":
		body = []byte(export.KML(points, export.KMLOptions{Location: loc}))
	case "geojson":
		body, err = export.GeoJSON(points)
		if err != nil {
			return "", 0, err
		}
	default:
		return "", 0, fmt.Errorf("unknown format %q (want kml or geojson)", format)
	}

	if out == "" {
		out = export.FileName(format, now)
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", out, err)
	}
	return out, len(points), nil
}
