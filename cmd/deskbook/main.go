package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/labdesks/deskbook/internal/app"
	"github.com/labdesks/deskbook/internal/config"
	"github.com/labdesks/deskbook/internal/logger"
	"github.com/labdesks/deskbook/internal/models"
)

type options struct {
	envFile      string
	settingsFile string
	day          string
	desk         int
	name         string
	am           bool
	pm           bool
	mine         bool
	cancel       int
}

type cli struct {
	ctx    context.Context
	logger *logger.Logger
	out    io.Writer
	opts   options
}

func main() {
	opts := parseFlags()
	c := &cli{
		ctx:    context.Background(),
		logger: logger.New(),
		out:    os.Stdout,
		opts:   opts,
	}

	if err := c.run(); err != nil {
		c.logger.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.envFile, "env", getEnvOrDefault("LABDESKS_ENV_FILE", ".env"), "path to .env file")
	flag.StringVar(&opts.settingsFile, "settings", getEnvOrDefault("LABDESKS_SETTINGS", "client.toml"), "path to client settings file")
	flag.StringVar(&opts.day, "day", "", "day to show (YYYY-MM-DD, default today)")
	flag.IntVar(&opts.desk, "desk", 0, "desk id to book")
	flag.StringVar(&opts.name, "name", "", "name to book under (default: configured username)")
	flag.BoolVar(&opts.am, "am", false, "book the AM slot")
	flag.BoolVar(&opts.pm, "pm", false, "book the PM slot")
	flag.BoolVar(&opts.mine, "mine", false, "list my bookings for the day")
	flag.IntVar(&opts.cancel, "cancel", 0, "booking id to cancel")
	flag.Parse()
	return opts
}

func (c *cli) run() error {
	cfg, err := config.LoadWithFile(c.opts.envFile)
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(c.opts.settingsFile)
	if err != nil {
		return err
	}

	application := app.New(cfg, settings, c.logger)
	if err := application.Initialize(c.ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := application.Close(c.ctx); cerr != nil {
			c.logger.Error("Failed to close application", logger.Error(cerr))
		}
	}()

	controller := application.Controller()

	day := c.opts.day
	if day == "" {
		day = time.Now().Format(models.DayFormat)
	}
	if _, err := time.Parse(models.DayFormat, day); err != nil {
		return fmt.Errorf("invalid -day %q: want YYYY-MM-DD", day)
	}

	if c.opts.cancel > 0 {
		if err := controller.Cancel(c.ctx, c.opts.cancel, cfg.Username); err != nil {
			return err
		}
		fmt.Fprintln(c.out, controller.ConsumeSnack())
		return nil
	}

	if c.opts.desk > 0 {
		name := c.opts.name
		if name == "" {
			name = cfg.Username
		}
		if err := controller.SetDay(c.ctx, day); err != nil {
			return err
		}
		if err := controller.Book(c.ctx, c.opts.desk, name, c.opts.am, c.opts.pm); err != nil {
			return fmt.Errorf("%s", controller.ConsumeSnack())
		}
		fmt.Fprintln(c.out, controller.ConsumeSnack())
	} else if err := controller.SetDay(c.ctx, day); err != nil {
		return err
	}

	snap := controller.Snapshot()
	if snap.Stale {
		fmt.Fprintln(c.out, "WARNING: service unreachable, showing cached grid")
	}
	renderGrid(c.out, snap.Day, snap.Desks)

	if c.opts.mine {
		if err := controller.LoadMine(c.ctx, cfg.Username, day); err != nil {
			return err
		}
		renderBookings(c.out, controller.Snapshot().Mine)
	}

	return nil
}

// renderGrid prints the desk grid row by row. Blocked desks keep their grid
// slot but render as blanks.
func renderGrid(out io.Writer, day string, desks []models.Desk) {
	fmt.Fprintf(out, "Desks for %s\n", day)

	tw := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	row := -1
	for _, desk := range desks {
		if desk.Row != row {
			if row >= 0 {
				fmt.Fprintln(tw)
			}
			row = desk.Row
		} else {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, cell(&desk))
	}
	if row >= 0 {
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func cell(desk *models.Desk) string {
	switch models.Classify(desk) {
	case models.Hidden:
		return "."
	case models.Free:
		return fmt.Sprintf("%s [free]", desk.Label)
	case models.Partial:
		free := models.SlotAM
		if desk.BookingPM == nil {
			free = models.SlotPM
		}
		return fmt.Sprintf("%s [%s free]", desk.Label, free)
	default:
		if desk.DeskType == models.DeskTypeStaff {
			return fmt.Sprintf("%s [%s]", desk.Label, desk.Occupant())
		}
		return fmt.Sprintf("%s [full]", desk.Label)
	}
}

func renderBookings(out io.Writer, bookings []models.Booking) {
	if len(bookings) == 0 {
		fmt.Fprintln(out, "No bookings.")
		return
	}
	tw := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESK\tDAY\tSLOT")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", b.ID, b.DeskID, b.Day, b.Slot)
	}
	_ = tw.Flush()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
