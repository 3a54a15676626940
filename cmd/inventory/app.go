package main

import (
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/inventory-dashboard/internal/analytics"
	"github.com/andresuchdata/inventory-dashboard/internal/cache"
	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/service"
	"github.com/andresuchdata/inventory-dashboard/internal/source"
	"github.com/urfave/cli/v2"
)

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "product", Usage: "Product name, or All", Value: domain.All},
		&cli.StringFlag{Name: "size", Usage: "Size (S, M, L, XL, XXL), or All", Value: domain.All},
		&cli.StringFlag{Name: "start-date", Usage: "Inclusive start date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "end-date", Usage: "Inclusive end date, YYYY-MM-DD"},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "inventory",
		Usage: "Parse inventory sheets and print dashboard views",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Usage:   "Local inventory CSV/XLSX; overrides the configured source",
				EnvVars: []string{"INVENTORY_FILE"},
			},
			&cli.StringFlag{
				Name:    "master",
				Usage:   "Local master sheet CSV/XLSX, used with --file",
				EnvVars: []string{"INVENTORY_MASTER_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "records",
				Usage:  "Print the decoded, filtered inventory records",
				Flags:  filterFlags(),
				Action: runRecords,
			},
			{
				Name:  "dashboard",
				Usage: "Print every dashboard view for a filter",
				Flags: append(filterFlags(),
					&cli.StringFlag{Name: "metric", Usage: "Trend metric: stock, in, out or sales", Value: string(domain.MetricStock)},
					&cli.IntFlag{Name: "limit", Usage: "Ranking size", Value: analytics.DefaultRankingLimit},
				),
				Action: runDashboard,
			},
			{
				Name:   "forecast",
				Usage:  "Print the stock forecast of one product",
				Flags:  filterFlags(),
				Action: runForecast,
			},
			{
				Name:  "pull",
				Usage: "Download sheet exports from object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Object key prefix to list"},
					&cli.StringFlag{Name: "key", Usage: "Single object key, relative to --prefix"},
					&cli.StringFlag{Name: "dest", Usage: "Destination directory (defaults to APP_DOWNLOAD_DIR)"},
				},
				Action: runPull,
			},
			{
				Name:      "push",
				Usage:     "Upload a local sheet export to object storage",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "Object key (defaults to the file name)"},
				},
				Action: runPush,
			},
			{
				Name:  "drive-files",
				Usage: "List the files of a Google Drive folder",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder-id", Usage: "Drive folder id"},
					&cli.StringFlag{Name: "path", Usage: "Folder path, e.g. Reports/Inventory"},
				},
				Action: runDriveFiles,
			},
		},
	}
}

// newService loads a snapshot from --file/--master when given, or from the
// configured source otherwise.
func newService(c *cli.Context) (*service.InventoryService, error) {
	cfg := config.Load()

	opts := service.Options{
		Processor: analytics.NewProcessor(analytics.Options{
			RankingLimit: cfg.App.RankingLimit,
			ForecastDays: cfg.App.ForecastDays,
			Location:     cfg.App.Location(),
		}),
		Cache:        cache.NewNoopViewCache(),
		FetchTimeout: cfg.Source.FetchTimeout,
	}

	if path := c.String("file"); path != "" {
		opts.Inventory = &source.FileSource{Path: path}
		if master := c.String("master"); master != "" {
			opts.Master = &source.FileSource{Path: master}
		}
	} else {
		srcs, err := source.New(c.Context, cfg)
		if err != nil {
			return nil, err
		}
		opts.Inventory = srcs.Inventory
		opts.Master = srcs.Master
	}

	svc := service.NewInventoryService(opts)
	if _, err := svc.Refresh(c.Context); err != nil {
		return nil, err
	}
	return svc, nil
}

func criteriaFrom(c *cli.Context) (domain.Criteria, error) {
	return domain.NewCriteria(c.String("product"), c.String("size"), c.String("start-date"), c.String("end-date"))
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runRecords(c *cli.Context) error {
	criteria, err := criteriaFrom(c)
	if err != nil {
		return err
	}
	svc, err := newService(c)
	if err != nil {
		return err
	}
	records, err := svc.Records(c.Context, criteria)
	if err != nil {
		return err
	}
	return printJSON(c, records)
}

func runDashboard(c *cli.Context) error {
	criteria, err := criteriaFrom(c)
	if err != nil {
		return err
	}
	metric, ok := domain.ParseTrendMetric(c.String("metric"))
	if !ok {
		return fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidFilter, c.String("metric"))
	}
	svc, err := newService(c)
	if err != nil {
		return err
	}
	dash, err := svc.GetDashboard(c.Context, analytics.Query{
		Criteria: criteria,
		Metric:   metric,
		Limit:    c.Int("limit"),
	})
	if err != nil {
		return err
	}
	return printJSON(c, dash)
}

func runForecast(c *cli.Context) error {
	criteria, err := criteriaFrom(c)
	if err != nil {
		return err
	}
	if criteria.Product == domain.All {
		return fmt.Errorf("%w: --product is required for a forecast", domain.ErrInvalidFilter)
	}
	svc, err := newService(c)
	if err != nil {
		return err
	}
	forecast, err := svc.GetForecast(c.Context, criteria)
	if err != nil {
		return err
	}
	return printJSON(c, forecast)
}
