package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"

	"github.com/justestif/go-spotify-lyric-mood/internal/clustering"
	"github.com/justestif/go-spotify-lyric-mood/internal/db"
	"github.com/justestif/go-spotify-lyric-mood/internal/pipeline"
	"github.com/justestif/go-spotify-lyric-mood/internal/spotify"
)

var styles = struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	dim   lipgloss.Style
}{
	title: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// progress reports lyric retrieval on stderr, overwriting one line.
func (r *Runner) progress(done, total int) {
	fmt.Fprintf(r.errOut, "\rFetching lyrics %d/%d", done, total)
	if done == total {
		fmt.Fprintln(r.errOut)
	}
}

func (r *Runner) printRanking(res *pipeline.Result) {
	mode := "most"
	if res.Threshold {
		mode = "clearly"
	}
	header := fmt.Sprintf("%s %s songs in %q (%s scores)", mode, res.Mood, res.PlaylistName, res.Provider)
	fmt.Fprintln(r.out, styles.title.Render(header))

	if len(res.Ranked) == 0 {
		fmt.Fprintln(r.out, "No songs matched.")
	}
	for i, k := range res.Ranked {
		fmt.Fprintf(r.out, "%3d. %s %s\n", i+1, k.Song, styles.dim.Render(strconv.FormatFloat(k.Key, 'f', 3, 64)))
	}

	r.printMissing(res.Missing, res.Total)
	r.printUnscorable(res.Unscorable)
	if res.RunID != uuid.Nil {
		fmt.Fprintln(r.out, styles.dim.Render("run "+res.RunID.String()))
	}
}

func (r *Runner) printGroups(res *pipeline.GroupsResult) {
	fmt.Fprintln(r.out, styles.title.Render(res.PlaylistName))
	fmt.Fprint(r.out, clustering.FormatGroupSummary(res.Groups, res.Outliers))
	r.printMissing(res.Missing, res.Total)
	r.printUnscorable(res.Unscorable)
}

func (r *Runner) printMissing(missing []string, total int) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintln(r.out, styles.warn.Render(fmt.Sprintf("\n%d of %d songs had no lyrics", len(missing), total)))
}

func (r *Runner) printUnscorable(names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(r.out, styles.warn.Render(fmt.Sprintf("%d songs had nothing left after cleaning", len(names))))
}

func (r *Runner) printRuns(runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(r.out, "No stored runs.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.dim).
		Headers("RUN", "WHEN", "PROVIDER", "MOOD", "LIMIT", "MISSING")
	for _, run := range runs {
		mood := run.Mood
		if run.Threshold {
			mood += " (threshold)"
		}
		t.Row(
			run.ID.String(),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Provider,
			mood,
			strconv.Itoa(run.Limit),
			fmt.Sprintf("%d/%d", run.MissingCount, run.TrackCount),
		)
	}
	fmt.Fprintln(r.out, t.Render())
}

func (r *Runner) printPlaylists(playlists []spotify.Playlist) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.dim).
		Headers("ID", "NAME", "OWNER", "TRACKS")
	for _, p := range playlists {
		t.Row(p.ID, p.Name, p.Owner, strconv.Itoa(p.TrackCount))
	}
	fmt.Fprintln(r.out, t.Render())
}
