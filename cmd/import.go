package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
	"github.com/pable/go-et-stats/internal/metrics"
	"github.com/pable/go-et-stats/internal/pipeline"
	"github.com/pable/go-et-stats/internal/storage"
)

var (
	importForce   bool
	importWorkers int
	importQuiet   bool
)

var importCmd = &cobra.Command{
	Use:   "import <dir|file>...",
	Short: "Import round stats files and score every session",
	Long: `Decode every stats file under the given directories (and any files given
directly), split them into sessions, reconcile round 2 stats, resolve both
rosters and score each map. Sessions whose files are all stored already are
left untouched unless --force is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "re-store sessions that are already in the database")
	importCmd.Flags().IntVarP(&importWorkers, "workers", "w", 0, "decode workers (overrides import.workers)")
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "do not print session reports")
}

// storeNewSessions is the import sink: it skips sessions whose files are all
// stored already.
type storeNewSessions struct {
	db      *storage.DB
	force   bool
	stored  []string
	skipped []string
}

func (s *storeNewSessions) StoreSession(ctx context.Context, sess *pipeline.Session) error {
	if !s.force {
		known, err := s.allStored(sess)
		if err != nil {
			return err
		}
		if known {
			slog.Debug("Session already stored", slog.String("session", sess.ID))
			s.skipped = append(s.skipped, sess.ID)
			return nil
		}
	}
	if err := s.db.StoreSession(ctx, sess); err != nil {
		return err
	}
	s.stored = append(s.stored, sess.ID)
	return nil
}

func (s *storeNewSessions) allStored(sess *pipeline.Session) (bool, error) {
	for _, f := range sess.Files {
		exists, err := s.db.FileExists(f.Hash)
		if err != nil {
			return false, fmt.Errorf("check file %s: %w", f.Info.Name, err)
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	paths, err := pipeline.Collect(args)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No stats files found.")
		return nil
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	sink := &storeNewSessions{db: db, force: importForce}
	m := metrics.New()
	opts := pipeline.Options{
		Workers:    cfg.Import.Workers,
		SessionGap: cfg.Import.SessionGap,
		PairWindow: cfg.Import.PairWindow,
		Metrics:    m,
		Sink:       sink,
	}
	if importWorkers > 0 {
		opts.Workers = importWorkers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	slog.Info("Importing stats files", slog.Int("files", len(paths)), slog.Int("workers", opts.Workers))
	res, errRun := pipeline.Run(ctx, opts, paths)

	if cfg.Metrics.Textfile != "" {
		if errWrite := m.WriteTextfile(cfg.Metrics.Textfile); errWrite != nil {
			slog.Error("Failed to write metrics textfile", slog.String("path", cfg.Metrics.Textfile), log.ErrAttr(errWrite))
		}
	}
	if res == nil {
		return fmt.Errorf("import: %w", errRun)
	}

	for _, f := range res.Failed {
		fmt.Fprintf(os.Stderr, "skipped %v\n", f)
	}
	if !importQuiet {
		for _, id := range sink.stored {
			if err := showSession(db, id, ""); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(os.Stdout, "\nImported %d sessions (%d unchanged) from %d files in %s; %d files failed.\n",
		len(sink.stored), len(sink.skipped), len(paths)-len(res.Failed),
		time.Since(start).Round(time.Millisecond), len(res.Failed))

	if errRun != nil {
		return fmt.Errorf("import: %w", errRun)
	}
	return nil
}
