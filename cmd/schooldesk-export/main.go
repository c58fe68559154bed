// Command schooldesk-export writes tenant reports from the record store to
// files or stdout.
//
//	schooldesk-export -tenant greenhill -kind fees-summary -format xlsx -out fees.xlsx
//	schooldesk-export -tenant greenhill -all -dir ./exports
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"schooldesk/internal/cli"
	applog "schooldesk/internal/log"
	"schooldesk/internal/report"
	"schooldesk/internal/services"
)

func main() {
	var (
		tenant = flag.String("tenant", "demo", "tenant subdomain")
		kind   = flag.String("kind", string(report.Students), "report: students, attendance, fees-summary, staff-performance")
		format = flag.String("format", string(report.CSV), "csv or xlsx")
		out    = flag.String("out", "-", "output file, - for stdout")
		all    = flag.Bool("all", false, "write every report into -dir")
		dir    = flag.String("dir", ".", "output directory for -all")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLoggerTo(applog.ComponentReport, os.Stderr)
	cfg := cli.LoadAndValidateConfig(logger)

	f, err := report.ParseFormat(*format)
	if err != nil {
		fail(err)
	}

	ctx := context.Background()
	store := cli.InitBackend(ctx, logger, cfg)
	defer store.Close()

	directory := services.NewDirectory(store.Store, cfg.TenantRootDomain, nil, logger)
	builder := report.NewBuilder(directory.ForTenant(*tenant).Records())

	if *all {
		if err := exportAll(ctx, builder, f, filepath.Join(*dir, *tenant)); err != nil {
			fail(err)
		}
		logger.Info("Reports exported", applog.FieldTenant, *tenant, "dir", filepath.Join(*dir, *tenant))
		return
	}

	k, err := report.ParseKind(*kind)
	if err != nil {
		fail(err)
	}
	t, err := builder.Build(ctx, k)
	if err != nil {
		fail(err)
	}
	if err := writeTo(*out, t, f); err != nil {
		fail(err)
	}
	logger.Debug("Report exported", applog.FieldTenant, *tenant, applog.FieldReport, string(k), "rows", len(t.Rows))
}

func exportAll(ctx context.Context, builder *report.Builder, f report.Format, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, k := range report.Kinds {
		g.Go(func() error {
			t, err := builder.Build(gctx, k)
			if err != nil {
				return fmt.Errorf("build %s: %w", k, err)
			}
			return writeTo(filepath.Join(dir, k.Filename(f)), t, f)
		})
	}
	return g.Wait()
}

func writeTo(path string, t report.Table, f report.Format) error {
	if path == "-" {
		w := bufio.NewWriter(os.Stdout)
		if err := report.Write(w, t, f); err != nil {
			return err
		}
		return w.Flush()
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(file, report.Write(file, t, f))
}

func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "schooldesk-export:", err)
	os.Exit(1)
}
