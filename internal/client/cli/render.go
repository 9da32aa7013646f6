package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/protodrive/internal/client/client"
	"github.com/dmitrijs2005/protodrive/internal/client/models"
	"github.com/dmitrijs2005/protodrive/internal/client/services"
)

// renderListing prints one row per file. The optional columns follow the
// Show* preferences of the listing's config.
func renderListing(w io.Writer, l *services.Listing) error {
	if len(l.Files) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}

	cfg := models.Config{}
	if l.Config != nil {
		cfg = *l.Config
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"ID", "TYPE", "NAME"}
	if cfg.ShowCreatedAt {
		header = append(header, "CREATED")
	}
	if cfg.ShowEditedAt {
		header = append(header, "EDITED")
	}
	if cfg.ShowOwner {
		header = append(header, "OWNER")
	}
	if cfg.ShowEditor {
		header = append(header, "EDITOR")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, f := range l.Files {
		kind := "file"
		if f.IsFolder() {
			kind = "dir"
		}
		row := []string{f.ID.String(), kind, f.Name}
		if cfg.ShowCreatedAt {
			row = append(row, f.CreatedAt.Local().Format(time.DateTime))
		}
		if cfg.ShowEditedAt {
			row = append(row, formatTime(f.EditedAt))
		}
		if cfg.ShowOwner {
			row = append(row, f.OwnedBy.String())
		}
		if cfg.ShowEditor {
			editor := "-"
			if f.EditedBy != nil {
				editor = f.EditedBy.String()
			}
			row = append(row, editor)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func renderConfig(w io.Writer, cfg *models.Config) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	sorted := "none"
	if cfg.SortField != nil {
		sorted = *cfg.SortField
	}
	fmt.Fprintf(tw, "sorted\t%s\n", sorted)
	for _, f := range models.Fields() {
		fmt.Fprintf(tw, "%s\t%t\n", f.WireName(), cfg.Value(f))
	}
	return tw.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

// describe turns client and service errors into one line for the user.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrInvalidCredentials):
		return "wrong login or password"
	case errors.Is(err, client.ErrConflict):
		if errors.As(err, &apiErr) {
			if msg := strings.TrimSpace(apiErr.Message); msg != "" {
				return msg
			}
		}
		return "already exists"
	case errors.Is(err, client.ErrNotFound):
		return "no such folder or file"
	case errors.Is(err, client.ErrUnavailable):
		return "server is not reachable"
	case errors.Is(err, client.ErrMalformedResponse):
		return "server sent an unexpected response"
	default:
		return err.Error()
	}
}

// sessionRejected reports whether the server refused the stored token.
func sessionRejected(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
