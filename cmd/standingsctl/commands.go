package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-standings/backend"
	"github.com/Dosada05/tournament-standings/brackets"
	"github.com/Dosada05/tournament-standings/export"
	"github.com/Dosada05/tournament-standings/models"
	"github.com/Dosada05/tournament-standings/services"
)

type options struct {
	snapshot string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "standingsctl",
		Short: "Derive tournament standings and brackets offline",
		Long: `standingsctl fetches tournament snapshots from the backend and runs the
same standings, bracket and completion derivation the server uses, without
needing a running server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.snapshot, "snapshot", "s", "-", "snapshot JSON file, - for stdin")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log normalization warnings to stderr")

	root.AddCommand(
		newFetchCmd(),
		newStandingsCmd(opts),
		newBracketCmd(opts),
		newStatusCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func newFetchCmd() *cobra.Command {
	var (
		endpoint string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "fetch <tournament-id>",
		Short: "Fetch a tournament snapshot from the backend and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid tournament id %q", args[0])
			}
			client := backend.NewClient(endpoint, &http.Client{Timeout: timeout}, stderrLogger(cmd, false))

			var (
				tournament *models.Tournament
				matches    []models.Match
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				tournament, err = client.Tournament(ctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				matches, err = client.Matches(ctx, id)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to fetch tournament %d: %w", id, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models.Snapshot{Tournament: *tournament, Matches: matches, FetchedAt: time.Now().UTC()})
		},
	}
	cmd.Flags().StringVar(&endpoint, "backend", "http://localhost:8000/graphql", "backend GraphQL endpoint")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "backend request timeout")
	return cmd
}

func newStandingsCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the ranked standings table",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deriveView(cmd, opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view.Standings)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tTEAM\tW\tL\tPF\tPA\tDIFF\t")
			for _, s := range view.Standings {
				team := s.Team
				if s.IsWinner {
					team += " *"
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%+d\t\n",
					s.Rank, team, s.Wins, s.Losses, s.PointsScored, s.PointsAgainst, s.PointDifferential)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newBracketCmd(opts *options) *cobra.Command {
	var sectionName string
	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Print bracket rounds grouped by section",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deriveView(cmd, opts)
			if err != nil {
				return err
			}
			sections, err := services.BracketSections(view, sectionName)
			if err != nil {
				return fmt.Errorf("unknown bracket type %q", sectionName)
			}
			out := cmd.OutOrStdout()
			for _, section := range sections {
				fmt.Fprintf(out, "== %s ==\n", section.Name)
				for _, round := range section.Rounds {
					fmt.Fprintf(out, "%s\n", round.Title)
					for _, seed := range round.Seeds {
						fmt.Fprintf(out, "  %s\n", describeSeed(seed))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sectionName, "type", "", "only print one section: winners, losers, championship, round_robin, swiss, elimination")
	return cmd
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print completion state and the next organizer action",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deriveView(cmd, opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"completion":  view.Completion,
				"next_action": view.NextAction,
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the standings workbook to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := deriveView(cmd, opts)
			if err != nil {
				return err
			}
			data, err := export.Workbook(view)
			if err != nil {
				return err
			}
			if out == "" {
				out = export.Filename(view.Tournament)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, defaults to standings-<id>.xlsx")
	return cmd
}

func deriveView(cmd *cobra.Command, opts *options) (*models.TournamentView, error) {
	snap, err := readSnapshot(cmd, opts.snapshot)
	if err != nil {
		return nil, err
	}
	return brackets.Derive(stderrLogger(cmd, opts.verbose), snap), nil
}

func readSnapshot(cmd *cobra.Command, path string) (*models.Snapshot, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func stderrLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func describeSeed(seed models.BracketSeed) string {
	if seed.IsBye {
		if len(seed.Teams) > 0 {
			return fmt.Sprintf("#%d %s (bye)", seed.DisplaySeed, seed.Teams[0].Name)
		}
		return fmt.Sprintf("#%d bye", seed.DisplaySeed)
	}
	sides := make([]string, 0, len(seed.Teams))
	for _, t := range seed.Teams {
		name := t.Name
		if name == "" {
			name = models.PlaceholderTeamName
		}
		sides = append(sides, fmt.Sprintf("%s %d", name, t.Score))
	}
	return fmt.Sprintf("#%d %s [%s]", seed.DisplaySeed, strings.Join(sides, " vs "), seed.Status)
}
