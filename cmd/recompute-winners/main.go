package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"prode-app-go/config"
	"prode-app-go/database"
	"prode-app-go/events"
	"prode-app-go/logging"
	"prode-app-go/services"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "recompute-winners",
		Usage: "recompute standings and store each competition's winner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "competition",
				Usage: "only this competition ID (default: all)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "report changes without writing",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logging.Configure(cfg.ToLoggingConfig())

			stores, err := database.OpenStores(c.Context, cfg.ToDatabaseConfig())
			if err != nil {
				return err
			}
			defer stores.Close()

			// winner changes made here are logged, not published
			standings := services.NewStandingsService(stores.Persistence(), events.NewLogPublisher(), cfg.ToStandingsCacheConfig())
			return recompute(c.Context, standings, stores.Competitions, c.String("competition"), c.Bool("dry-run"), os.Stdout)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Fatal(err)
	}
}

// recompute prints one line per refreshed competition and a summary. When
// refreshing all competitions fails partway, the ones already handled are
// still printed before the error is returned.
func recompute(ctx context.Context, standings *services.StandingsService, competitions services.CompetitionLister, competitionID string, dryRun bool, out io.Writer) error {
	var (
		updates []*services.WinnerUpdate
		failure error
	)
	switch {
	case competitionID != "" && dryRun:
		update, err := standings.PreviewWinner(ctx, competitionID)
		if err != nil {
			return err
		}
		updates = append(updates, update)
	case competitionID != "":
		update, err := standings.RefreshWinner(ctx, competitionID)
		if err != nil {
			return err
		}
		updates = append(updates, update)
	default:
		updates, failure = standings.RefreshAllWinners(ctx, competitions, dryRun)
	}

	changed := 0
	for _, update := range updates {
		winner := "-"
		if update.Winner != nil {
			winner = fmt.Sprintf("%s (%s, %d pts)", update.Winner.Name, update.Winner.ID, update.TotalPoints)
		}
		mark := ""
		if update.Changed {
			changed++
			mark = " *"
		}
		fmt.Fprintf(out, "%s\t%s%s\n", update.CompetitionID, winner, mark)
	}

	verb := "updated"
	if dryRun {
		verb = "would update"
	}
	if failure != nil {
		fmt.Fprintf(out, "%d of %d competitions %s before failure\n", changed, len(updates), verb)
		return failure
	}
	fmt.Fprintf(out, "%d of %d competitions %s\n", changed, len(updates), verb)
	return nil
}
