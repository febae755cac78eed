package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
)

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	items, err := a.client.ListEntries(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No entries yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPDATED\tTITLE\tCONTENT")
	for _, e := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.UpdatedAt.Local().Format(time.DateTime), e.Title, preview(e.Content, 40))
	}
	return tw.Flush()
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	e, err := a.client.AddEntry(ctx, title, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Entry %d added\n", e.ID)
	return nil
}

// Update changes title and/or content. Empty answers keep the current value.
func (a *App) Update(ctx context.Context) error {
	id, err := a.readID("Enter entry id to update")
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter new title (empty to keep)", a.out)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Enter new content (empty to keep)", a.out)
	if err != nil {
		return err
	}

	if title == "" && content == "" {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	e, err := a.client.UpdateEntry(ctx, id, optional(title), optional(content))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Entry %d updated\n", e.ID)
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := a.readID("Enter entry id to delete")
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.DeleteEntry(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Entry %d deleted\n", id)
	return nil
}

// Export asks the server for a snapshot and saves it under DownloadDir.
func (a *App) Export(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	res, err := a.client.ExportEntries(ctx)
	if err != nil {
		return err
	}

	dir := "."
	if a.config != nil && a.config.DownloadDir != "" {
		dir = a.config.DownloadDir
	}
	if err := filex.EnsureDir(dir); err != nil {
		return err
	}

	path := filepath.Join(dir, filepath.Base(res.Key))
	n, err := a.download(ctx, res.URL, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d bytes to %s\n", n, path)
	return nil
}

func (a *App) readID(prompt string) (int64, error) {
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func preview(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' {
			r = r[:i]
			break
		}
	}
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return string(r)
}
