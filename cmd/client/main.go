package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/shenikar/trashunter/internal/alert"
	"github.com/shenikar/trashunter/internal/app"
	"github.com/shenikar/trashunter/internal/config"
	"github.com/shenikar/trashunter/internal/geofence"
	"github.com/shenikar/trashunter/internal/location"
	"github.com/shenikar/trashunter/internal/maplayer"
	"github.com/shenikar/trashunter/internal/markerapi"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/profile"
	"github.com/shenikar/trashunter/internal/store"
	"github.com/shenikar/trashunter/internal/submission"
	"github.com/shenikar/trashunter/pkg/logger"
	redisclient "github.com/shenikar/trashunter/pkg/redis"
	"github.com/sirupsen/logrus"
)

const helpText = `commands:
  where                   current location and stats
  move <lat> <lng>        update current location
  tap <lat> <lng>         start a report at a map point
  here                    start a report at the current location
  select <marker-id>      start cleanup of a dirty marker
  attach <path>           attach a photo to the open form
  note <text>             set the report note
  submit                  send the open form
  cancel                  close the open form
  toggle                  switch between pins and heatmap
  layer                   print the attached map layer
  refresh                 fetch markers now
  counts                  dirty and cleaned marker counts
  leaderboard             top users from the profile store
  help                    this text
  quit                    exit`

func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	userID := flag.String("user", cfg.UserID, "user id for profile stats")
	lat := flag.String("lat", cfg.UserLat, "initial latitude")
	lng := flag.String("lng", cfg.UserLng, "initial longitude")
	flag.Parse()

	// Логи в stderr, чтобы не смешивать их с выводом команд
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	api, err := markerapi.New(cfg.MarkerAPIURL, cfg.RequestTimeout, log, markerapi.WithAPIKey(cfg.APIKey))
	if err != nil {
		log.Fatalf("Failed to create marker API client: %v", err)
	}

	var profiles profile.Store
	if cfg.ProfileRedis != "" {
		rdb, err := redisclient.NewRedisClient(ctx, cfg.ProfileRedis, "", cfg.ProfileRedisDB)
		if err != nil {
			log.WithError(err).Warn("Profile store unavailable, stats stay local")
		} else {
			defer rdb.Close()
			profiles = profile.NewRedisStore(rdb)
		}
	}

	tracker := location.NewTracker(log)
	markers := store.New(api, log)
	surface := maplayer.NewRecorder()
	reconciler := maplayer.NewReconciler(surface, api.ResolveImageURL, log)
	alerts := alert.NewChannelTTL(cfg.AlertTTL)
	stats := profile.NewLocalStats()

	out := bufio.NewWriter(os.Stdout)
	alerts.OnChange(func(a alert.Alert, shown bool) {
		if shown {
			fmt.Fprintf(os.Stdout, "[%s] %s\n", a.Kind, a.Message)
		}
	})

	pipeline := submission.NewPipeline(api, markers, tracker, geofence.New(cfg.GeofenceRadius), stats, profiles, alerts,
		submission.Config{
			ReportReward:  cfg.ReportReward,
			CleanupReward: cfg.CleanupReward,
			UserID:        *userID,
			AlertTTL:      cfg.AlertTTL,
			WarningTTL:    cfg.WarningTTL,
		}, log)

	controller := app.New(app.Deps{
		Tracker:    tracker,
		Source:     sourceFor(*lat, *lng),
		Store:      markers,
		Poller:     store.NewPoller(markers, cfg.PollInterval, log),
		Reconciler: reconciler,
		Pipeline:   pipeline,
		Stats:      stats,
		Profiles:   profiles,
		Alerts:     alerts,
	}, app.Config{UserID: *userID, LeaderboardSize: cfg.LeaderboardSize}, log)

	controller.Start(ctx)
	defer controller.Stop()

	fmt.Fprintln(out, "trashunter client, type 'help' for commands")
	out.Flush()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(out, "> ")
		out.Flush()

		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := run(ctx, controller, out, line); quit {
				out.Flush()
				return
			}
		}
	}
}

// sourceFor возвращает статический источник, если координаты заданы, иначе отказ в геолокации
func sourceFor(lat, lng string) location.Source {
	pos, err := parseCoordinate(lat, lng)
	if err != nil {
		return location.DeniedSource{}
	}
	return location.StaticSource{Position: pos}
}

func parseCoordinate(lat, lng string) (models.Coordinate, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid latitude %q", lat)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid longitude %q", lng)
	}
	pos := models.Coordinate{Lat: la, Lng: ln}
	if !pos.Valid() {
		return models.Coordinate{}, fmt.Errorf("coordinate out of range: %s %s", lat, lng)
	}
	return pos, nil
}

// run выполняет одну команду; true означает выход
func run(ctx context.Context, c *app.App, out io.Writer, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(out, helpText)
	case "where":
		printState(out, c.State())
	case "move":
		var pos models.Coordinate
		if pos, err = coordinateArgs(args); err == nil {
			c.MoveTo(pos)
		}
	case "tap":
		var pos models.Coordinate
		if pos, err = coordinateArgs(args); err == nil {
			err = c.TapMap(pos)
		}
	case "here":
		err = c.ReportHere()
	case "select":
		if len(args) != 1 {
			err = errors.New("usage: select <marker-id>")
			break
		}
		err = c.SelectMarker(args[0])
	case "attach":
		if len(args) != 1 {
			err = errors.New("usage: attach <path>")
			break
		}
		var data []byte
		if data, err = os.ReadFile(args[0]); err == nil {
			err = c.AttachEvidence(models.Evidence{Filename: filepath.Base(args[0]), Data: data})
		}
	case "note":
		err = c.SetNote(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "note")))
	case "submit":
		err = c.Submit(ctx)
	case "cancel":
		err = c.Cancel()
	case "toggle":
		fmt.Fprintf(out, "mode: %s\n", c.ToggleHeatmap())
	case "layer":
		printLayer(out, c.Layer())
	case "refresh":
		err = c.Refresh(ctx)
	case "counts":
		dirty, cleaned := c.Counts()
		fmt.Fprintf(out, "dirty: %d, cleaned: %d\n", dirty, cleaned)
	case "leaderboard":
		var entries []models.LeaderboardEntry
		if entries, err = c.Leaderboard(ctx); err == nil {
			for i, e := range entries {
				fmt.Fprintf(out, "%2d. %-3s %-24s %d\n", i+1, e.Initials, e.Name, e.Score)
			}
		}
	default:
		err = fmt.Errorf("unknown command %q, type 'help'", cmd)
	}

	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
	}
	return false
}

func coordinateArgs(args []string) (models.Coordinate, error) {
	if len(args) != 2 {
		return models.Coordinate{}, errors.New("expected <lat> <lng>")
	}
	return parseCoordinate(args[0], args[1])
}

func printState(out io.Writer, s app.State) {
	if s.Location.Position != nil {
		fmt.Fprintf(out, "location: %s (%.6f, %.6f)\n", s.Location.Status, s.Location.Position.Lat, s.Location.Position.Lng)
	} else {
		fmt.Fprintf(out, "location: %s\n", s.Location.Status)
	}
	fmt.Fprintf(out, "mode: %s, form: %s\n", s.Mode, s.Modal)
	fmt.Fprintf(out, "user: %s, score: %d, collected: %d\n", s.UserID, s.Stats.Score, s.Stats.CollectedCount)
}

func printLayer(out io.Writer, l maplayer.Layer) {
	switch layer := l.(type) {
	case *maplayer.PinLayer:
		fmt.Fprintf(out, "pins: %d\n", len(layer.Pins))
		for _, p := range layer.Pins {
			fmt.Fprintf(out, "  %s %s (%.5f, %.5f) %s\n", p.MarkerID, p.Icon, p.Position.Lat, p.Position.Lng, p.Tooltip.Title)
		}
	case *maplayer.HeatLayer:
		fmt.Fprintf(out, "heatmap points: %d\n", len(layer.Points))
	default:
		fmt.Fprintln(out, "no layer attached")
	}
}
