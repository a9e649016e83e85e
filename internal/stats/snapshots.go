package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/courtside/internal/store"
)

// RenderSnapshots prints stored snapshots, newest first as listed.
func RenderSnapshots(w io.Writer, snaps []store.SnapshotInfo) error {
	if len(snaps) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots stored. Run: courtside sync")
		return err
	}
	headers := []string{"ID", "Season", "Records", "Fetched", "Source"}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			string(s.Season),
			strconv.Itoa(s.PlayerCount),
			s.FetchedAt.Local().Format("2006-01-02 15:04"),
			s.Source,
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 2: true}))
}
