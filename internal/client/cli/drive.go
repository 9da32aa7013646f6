package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/protodrive/internal/client/models"
)

var errUsage = errors.New("wrong number of arguments")

func usage(u string) error {
	return fmt.Errorf("%w, usage: %s", errUsage, u)
}

func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("ls [id|path]")
	}
	target := strings.Join(args, "")

	l, err := a.driveService.List(ctx, target)
	if err != nil {
		return err
	}
	return renderListing(a.out, l)
}

func (a *App) MakeDir(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("mkdir <name> [parent-id]")
	}
	var parent string
	if len(args) == 2 {
		parent = args[1]
	}

	f, err := a.driveService.MakeDir(ctx, args[0], parent)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created folder %s (%s)\n", f.Name, f.ID)
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("upload <local-path> [folder-id]")
	}
	var dest string
	if len(args) == 2 {
		dest = args[1]
	}

	if err := a.driveService.UploadFile(ctx, args[0], dest); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Uploaded", args[0])
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("download <file-id> <local-path>")
	}

	n, err := a.driveService.DownloadFile(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, args[1])
	return nil
}

func (a *App) ShowConfig(ctx context.Context) error {
	cfg, err := a.driveService.Config(ctx)
	if err != nil {
		return err
	}
	return renderConfig(a.out, cfg)
}

func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("set <field> <true|false>")
	}
	field, ok := models.ParseField(args[0])
	if !ok {
		return fmt.Errorf("unknown field %q, one of: %s", args[0], fieldNames())
	}
	value, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("value must be true or false: %w", err)
	}

	if err := a.driveService.SetOption(ctx, field, value); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s = %t\n", field, value)
	return nil
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("sort <name|created_at|edited_at|none>")
	}
	if err := a.driveService.SetSort(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sort order set to", args[0])
	return nil
}

func fieldNames() string {
	names := make([]string, 0, len(models.Fields()))
	for _, f := range models.Fields() {
		names = append(names, f.WireName())
	}
	return strings.Join(names, ", ")
}
