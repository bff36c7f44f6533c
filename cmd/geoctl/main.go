package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/config"
	"github.com/evyataryagoni/geoconsole/internal/logger"
	"github.com/evyataryagoni/geoconsole/internal/service"
	"github.com/evyataryagoni/geoconsole/internal/store"
	"github.com/evyataryagoni/geoconsole/internal/upstream"
	"github.com/evyataryagoni/geoconsole/internal/view"
	"github.com/spf13/pflag"
)

// cliSession is the session id used for headless runs
const cliSession = "geoctl"

const usage = `Usage: geoctl <command> [flags]

Commands:
  count                          print the number of records held by the geo service
  insert [-n N]                  generate N random records (random count when omitted)
  delete-random -n N             delete N random records
  query -c "<coords>" [flags]    run a polygon query and print one page of results

Query flags:
  -c, --coords string   "lng,lat lng,lat ..." (at least 3 points)
  -p, --page int        page to print (default 1)
  -o, --output string   also write all results as CSV to this file

Configuration is read from .env, config.yaml and the environment (GEO_SERVICE_URL, ...).
`

// errUsage is returned for unknown commands and bad flags
var errUsage = errors.New("invalid usage")

// This tool drives the geo service from the command line
// Usage: go run ./cmd/geoctl query -c "0,0 10,0 10,10"
func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the process exit code so deferred cleanup runs before exit
func realMain(args []string) int {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logger.New(logger.Config{Level: "warn", Pretty: true, Writer: os.Stderr})
	client := upstream.NewClient(appConfig.GeoServiceURL, appConfig.GeoServiceTimeout, nil, log)
	svc := service.NewConsoleService(client, store.NewMemoryStore(time.Hour), nil, log)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(run(ctx, svc, args[0], args[1:], os.Stdout), os.Stderr)
}

// exitCode reports err on stderr: 0 on success, 2 for usage errors, 1 otherwise
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

// run executes one command, writing its report to out
func run(ctx context.Context, svc *service.ConsoleService, command string, args []string, out io.Writer) error {
	switch command {
	case "count":
		return runCount(ctx, svc, out)
	case "insert":
		return runInsert(ctx, svc, args, out)
	case "delete-random":
		return runDeleteRandom(ctx, svc, args, out)
	case "query":
		return runQuery(ctx, svc, args, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func runCount(ctx context.Context, svc *service.ConsoleService, out io.Writer) error {
	resp, err := svc.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Total records: %d\n", resp.TotalEntries)
	return nil
}

func runInsert(ctx context.Context, svc *service.ConsoleService, args []string, out io.Writer) error {
	fs := newFlagSet("insert")
	num := fs.IntP("num", "n", 0, "number of records")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	result, err := svc.GenerateRandom(ctx, *num)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Inserted %d records: %s\n", result.Num, result.Message)
	return nil
}

func runDeleteRandom(ctx context.Context, svc *service.ConsoleService, args []string, out io.Writer) error {
	fs := newFlagSet("delete-random")
	num := fs.IntP("num", "n", 0, "number of records")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	result, err := svc.DeleteRandom(ctx, "", *num)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d records\n", result.DeletedCount)
	return nil
}

func runQuery(ctx context.Context, svc *service.ConsoleService, args []string, out io.Writer) error {
	fs := newFlagSet("query")
	coords := fs.StringP("coords", "c", "", "polygon coordinates")
	page := fs.IntP("page", "p", 1, "page to print")
	output := fs.StringP("output", "o", "", "CSV file for all results")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if strings.TrimSpace(*coords) == "" {
		return fmt.Errorf("%w: --coords is required", errUsage)
	}

	sess, err := svc.Query(ctx, cliSession, *coords)
	if err != nil {
		return err
	}
	if *page != 1 {
		if sess, err = svc.GoToPage(ctx, cliSession, *page); err != nil {
			return err
		}
	}

	printPage(out, view.Build(sess))

	if *output != "" {
		if err := exportTo(ctx, svc, *output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d records to %s\n", len(sess.Records), *output)
	}
	return nil
}

// printPage renders one page of results as an aligned table
func printPage(out io.Writer, v view.PageView) {
	fmt.Fprintf(out, "Points: %d  Lines: %d  Polygons: %d  Total: %d  Query time: %.3fs\n\n",
		v.Statistics.PointCount, v.Statistics.LineCount, v.Statistics.PolygonCount, v.Statistics.Total(), v.QueryTime)

	if v.TotalItems == 0 {
		fmt.Fprintln(out, "No records found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tCOORDINATES")
	for _, row := range v.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.ID, row.Type, row.Coordinates)
	}
	tw.Flush()

	labels := make([]string, 0, len(v.Buttons))
	for _, b := range v.Buttons {
		if b.Active {
			labels = append(labels, "["+b.Label+"]")
			continue
		}
		labels = append(labels, b.Label)
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d-%d of %d records)  %s\n", v.CurrentPage, v.TotalPages, v.FirstItem, v.LastItem, v.TotalItems, strings.Join(labels, " "))
}

func exportTo(ctx context.Context, svc *service.ConsoleService, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return svc.Export(ctx, cliSession, file)
}
