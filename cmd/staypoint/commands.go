package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jengzang/trajectory-mining-go/internal/database"
	"github.com/jengzang/trajectory-mining-go/internal/ingest"
	"github.com/jengzang/trajectory-mining-go/internal/middleware"
	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/repository"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/internal/spatial"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
	"github.com/jengzang/trajectory-mining-go/internal/timeutil"
)

var inputFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "CSV or GPX trajectory file; repeat to concatenate files in order",
		Required: true,
	},
	&cli.StringFlag{Name: "col-time", Value: ingest.DefaultColumns.DateTime, Usage: "CSV timestamp column"},
	&cli.StringFlag{Name: "col-lat", Value: ingest.DefaultColumns.Lat, Usage: "CSV latitude column"},
	&cli.StringFlag{Name: "col-lon", Value: ingest.DefaultColumns.Lon, Usage: "CSV longitude column"},
	&cli.StringFlag{Name: "col-alt", Value: ingest.DefaultColumns.Alt, Usage: "CSV altitude column, empty if absent"},
	&cli.StringFlag{Name: "col-date", Value: ingest.DefaultColumns.Date, Usage: "CSV date column, empty if absent"},
}

func loadInput(c *cli.Context) ([]models.TrajectoryPoint, error) {
	cols := ingest.Columns{
		DateTime: c.String("col-time"),
		Lat:      c.String("col-lat"),
		Lon:      c.String("col-lon"),
		Alt:      c.String("col-alt"),
		Date:     c.String("col-date"),
	}
	return ingest.ConcatFiles(c.StringSlice("input"), cols)
}

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "Print the stay points of a trajectory as CSV",
		Flags: append([]cli.Flag{
			&cli.Float64Flag{
				Name:    "distance",
				Aliases: []string{"d"},
				Usage:   "Consecutive points closer than DISTANCE meters may form a stay",
				Value:   200,
			},
			&cli.Float64Flag{
				Name:    "time",
				Aliases: []string{"t"},
				Usage:   "Consecutive points more than TIME minutes apart may form a stay",
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Also store the trajectory and detection run in this SQLite database",
			},
		}, inputFlags...),
		Action: func(c *cli.Context) error {
			points, err := loadInput(c)
			if err != nil {
				return err
			}

			distance, minutes := c.Float64("distance"), c.Float64("time")
			if path := c.String("db"); path != "" {
				return detectAndStore(c.Context, c.App.Writer, path, points, distance, minutes)
			}

			result, err := staypoint.Detect(points, staypoint.Options{
				DistanceThreshold: distance,
				TimeThreshold:     minutes,
			})
			if err != nil {
				return err
			}
			if !result.Found() {
				log.Printf("No stay points found in %d points", len(points))
				return nil
			}
			return writeStayPoints(c.App.Writer, result.Points())
		},
	}
}

func detectAndStore(ctx context.Context, w io.Writer, path string, points []models.TrajectoryPoint, distance, minutes float64) error {
	db, err := database.Open(database.Config{Path: path})
	if err != nil {
		return err
	}
	defer db.Close()

	trajectories := repository.NewTrajectoryRepository(db)
	svc := service.NewStayPointService(trajectories, repository.NewStayPointRepository(db), staypoint.Options{})

	traj, err := service.NewTrajectoryService(trajectories).Create(ctx, models.TrajectoryRequest{
		Name:   fmt.Sprintf("cli-%s", time.Now().UTC().Format(time.RFC3339)),
		Points: points,
	})
	if err != nil {
		return err
	}

	resp, err := svc.DetectTrajectory(ctx, traj.ID, &distance, &minutes)
	if err != nil {
		return err
	}
	log.Printf("Stored trajectory %d, run %s with %d stay points", traj.ID, resp.RunID, resp.Count)
	return writeStayPoints(w, resp.StayPoints)
}

func writeStayPoints(w io.Writer, stays []models.StayPoint) error {
	out := csv.NewWriter(w)
	if err := out.Write([]string{"arrive", "leave", "lat", "lon", "altitude", "weekday", "date"}); err != nil {
		return err
	}
	for _, s := range stays {
		err := out.Write([]string{
			s.Arrive.Format(time.DateTime),
			s.Leave.Format(time.DateTime),
			strconv.FormatFloat(s.Latitude, 'f', -1, 64),
			strconv.FormatFloat(s.Longitude, 'f', -1, 64),
			strconv.FormatFloat(s.Altitude, 'f', -1, 64),
			strconv.Itoa(s.Weekday),
			s.Date,
		})
		if err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func gridCommand() *cli.Command {
	return &cli.Command{
		Name:  "grid",
		Usage: "Count trajectory points per cell of an n x n grid",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "upper-right", Usage: "Upper right corner as LAT,LON (default: bounding box of the input)"},
			&cli.StringFlag{Name: "lower-left", Usage: "Lower left corner as LAT,LON (default: bounding box of the input)"},
			&cli.IntFlag{Name: "n", Value: 6, Usage: "Rows and columns of the grid"},
		}, inputFlags...),
		Action: func(c *cli.Context) error {
			points, err := loadInput(c)
			if err != nil {
				return err
			}

			positions := make([]spatial.Point, len(points))
			for i, p := range points {
				positions[i] = spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
			}

			lowerLeft, upperRight := spatial.BoundingBox(positions)
			if v := c.String("upper-right"); v != "" {
				if upperRight, err = parseLatLon(v); err != nil {
					return err
				}
			}
			if v := c.String("lower-left"); v != "" {
				if lowerLeft, err = parseLatLon(v); err != nil {
					return err
				}
			}

			grid, err := spatial.MakeGrid(upperRight, lowerLeft, c.Int("n"))
			if err != nil {
				return err
			}
			counts := spatial.CountPointsPerCell(positions, grid)

			out := csv.NewWriter(c.App.Writer)
			_ = out.Write([]string{"index", "row", "col", "min_lat", "min_lon", "max_lat", "max_lon", "count"})
			for i, cell := range grid {
				_ = out.Write([]string{
					strconv.Itoa(cell.Index),
					strconv.Itoa(cell.Row),
					strconv.Itoa(cell.Col),
					strconv.FormatFloat(cell.LowerLeft.Lat, 'f', 6, 64),
					strconv.FormatFloat(cell.LowerLeft.Lon, 'f', 6, 64),
					strconv.FormatFloat(cell.UpperRight.Lat, 'f', 6, 64),
					strconv.FormatFloat(cell.UpperRight.Lon, 'f', 6, 64),
					strconv.Itoa(counts[i]),
				})
			}
			out.Flush()
			return out.Error()
		},
	}
}

func timesCommand() *cli.Command {
	return &cli.Command{
		Name:  "times",
		Usage: "Print clock times from START to END every STEP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Required: true, Usage: "HH:MM[:SS] or HHMMSS"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "HH:MM[:SS] or HHMMSS"},
			&cli.DurationFlag{Name: "step", Value: time.Hour},
		},
		Action: func(c *cli.Context) error {
			start, err := normalizeClock(c.String("start"))
			if err != nil {
				return err
			}
			end, err := normalizeClock(c.String("end"))
			if err != nil {
				return err
			}

			index, err := timeutil.DatetimeIndex(start, end, c.Duration("step"))
			if err != nil {
				return err
			}
			for _, t := range index {
				fmt.Fprintln(c.App.Writer, t)
			}
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for the write endpoints of the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", EnvVars: []string{"JWT_SECRET"}, Required: true},
			&cli.StringFlag{Name: "subject", Value: "cli"},
		},
		Action: func(c *cli.Context) error {
			token, err := middleware.IssueToken(c.String("secret"), c.String("subject"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func parseLatLon(value string) (spatial.Point, error) {
	lat, lon, ok := strings.Cut(value, ",")
	if !ok {
		return spatial.Point{}, fmt.Errorf("expected LAT,LON, got %q", value)
	}
	var (
		p   spatial.Point
		err error
	)
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return spatial.Point{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return spatial.Point{}, fmt.Errorf("longitude %q: %w", lon, err)
	}
	return p, nil
}

// normalizeClock accepts compact HHMMSS values as well as HH:MM[:SS]
func normalizeClock(value string) (string, error) {
	if len(value) == 6 && !strings.Contains(value, ":") {
		return timeutil.IntToClock(value)
	}
	return value, nil
}
