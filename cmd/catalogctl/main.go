package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/storefront/internal/client"
	"github.com/yourorg/storefront/internal/model"
	"github.com/yourorg/storefront/internal/query"
	"github.com/yourorg/storefront/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	api         string
	search      string
	tags        []string
	sort        string
	category    string
	composeOnly bool
	interactive bool
	timeout     time.Duration
	logLevel    string
}

// check rejects flag combinations that would run one mode and print another
func (o options) check() error {
	if o.category != "" && o.interactive {
		return fmt.Errorf("--category and --interactive cannot be used together")
	}
	return nil
}

func main() {
	var opts options
	pflag.StringVar(&opts.api, "api", client.DefaultBaseURL, "catalog API base URL")
	pflag.StringVar(&opts.search, "search", "", "free text search")
	pflag.StringArrayVar(&opts.tags, "tag", nil, "tag filter, repeatable; order is kept")
	pflag.StringVar(&opts.sort, "sort", string(query.SortMostPopular), "sort label")
	pflag.StringVar(&opts.category, "category", "", "run the category overlay lookup for one tag instead of the grid")
	pflag.BoolVar(&opts.composeOnly, "compose-only", false, "print the composed request without fetching")
	pflag.BoolVarP(&opts.interactive, "interactive", "i", false, "read selection actions from stdin")
	pflag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "catalog request timeout")
	pflag.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pflag.Parse()

	if err := opts.check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := createLogger(opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sel := query.Apply(query.DefaultSelection(),
		query.SetSearch(opts.search),
		query.SetSort(query.SortLabel(opts.sort)),
	)
	for _, tag := range opts.tags {
		if !sel.HasTag(tag) {
			sel = query.Apply(sel, query.ToggleTag(tag))
		}
	}
	if err := query.Validate(sel); err != nil {
		fmt.Fprintf(os.Stderr, "invalid selection: %v\nsort must be one of: %s\n", err, joinLabels(query.SortLabels()))
		os.Exit(2)
	}

	req := sel.Request()
	if opts.category != "" {
		req = query.ComposeTag(opts.category)
	}
	if err := printJSON(os.Stdout, req); err != nil {
		logger.Fatal("Failed to encode request", zap.Error(err))
	}
	if opts.composeOnly {
		return
	}

	ctx := client.WithRequestID(context.Background(), uuid.NewString())
	catalog := client.NewCatalogClient(opts.api, opts.timeout, logger)
	svc := service.NewCatalogService(catalog, nil, logger)

	switch {
	case opts.interactive:
		runInteractive(ctx, os.Stdin, os.Stdout, service.NewView(svc), sel)
	case opts.category != "":
		printStores(os.Stdout, svc.ByCategory(ctx, opts.category))
	default:
		res := svc.Fetch(ctx, sel)
		printStores(os.Stdout, res.Restaurants)
	}
}

// runInteractive applies one action per input line in order and refreshes
// in the background. A slow response may finish after a newer one; those
// are reported as superseded and never shown.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, view *service.View, initial query.Selection) {
	var (
		wg    sync.WaitGroup
		outMu sync.Mutex
	)
	report := func(res service.Result) {
		outMu.Lock()
		defer outMu.Unlock()
		if res.Stale {
			fmt.Fprintf(out, "#%d superseded\n", res.Seq)
			return
		}
		fmt.Fprintf(out, "#%d ", res.Seq)
		printStores(out, res.Restaurants)
	}
	dispatch := func(actions ...query.Action) {
		view.Update(actions...)
		wg.Add(1)
		go func() {
			defer wg.Done()
			report(view.Refresh(ctx))
		}()
	}

	dispatch(func(query.Selection) query.Selection { return initial })

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		action, err := parseAction(line)
		if err != nil {
			outMu.Lock()
			fmt.Fprintln(out, err)
			outMu.Unlock()
			continue
		}
		dispatch(action)
	}

	wg.Wait()
	sel := view.Selection()
	fmt.Fprintf(out, "selection: search=%q tags=%v sort=%q (%d Stores)\n", sel.Search, sel.Tags, sel.Sort, view.Count())
}

// parseAction turns one command line into a selection action
func parseAction(line string) (query.Action, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "search":
		return query.SetSearch(arg), nil
	case "tag":
		if arg == "" {
			return nil, fmt.Errorf("usage: tag NAME")
		}
		return query.ToggleTag(arg), nil
	case "untag":
		return query.RemoveTag(arg), nil
	case "clear":
		return query.ClearTags(), nil
	case "sort":
		label := query.SortLabel(arg)
		if !query.IsSortLabel(label) {
			return nil, fmt.Errorf("unknown sort %q, expected one of: %s", arg, joinLabels(query.SortLabels()))
		}
		return query.SetSort(label), nil
	case "reset":
		return query.Reset(), nil
	default:
		return nil, fmt.Errorf("unknown command %q (search, tag, untag, clear, sort, reset, quit)", cmd)
	}
}

func printStores(out io.Writer, restaurants []model.Restaurant) {
	fmt.Fprintf(out, "(%d Stores)\n", len(restaurants))
	for _, r := range restaurants {
		fmt.Fprintf(out, "  %s\n", r.Name)
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinLabels(labels []query.SortLabel) string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

func createLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = lvl
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}
