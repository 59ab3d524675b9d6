package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/log"
)

var (
	dropForce   bool
	dropSession string
)

// dropCmd deletes the stats database file, or a single session.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the stats database or one session",
	Long: `Permanently delete the SQLite stats database. All stored sessions will be lost.
Re-import your stats files afterwards to rebuild. With --session only that
session and its files are removed.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropSession, "session", "", "only delete the session with this id prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	path := cfg.Database.Path
	if dropSession != "" {
		return dropOneSession()
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", path)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", path)
	return nil
}

func dropOneSession() error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	s, err := db.GetSessionByPrefix(dropSession)
	if err != nil {
		return fmt.Errorf("query session: %w", err)
	}
	if s == nil {
		fmt.Fprintf(os.Stderr, "No session found with prefix %q\n", dropSession)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete session %s (%d files).\n", s.ID, s.Files)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteSession(s.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted session: %s\n", s.ID)
	return nil
}
