package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/wp-stylometry/internal/analyze"
	"github.com/dtnitsch/wp-stylometry/internal/corpus"
	"github.com/dtnitsch/wp-stylometry/internal/crawl"
	"github.com/dtnitsch/wp-stylometry/internal/db"
	"github.com/dtnitsch/wp-stylometry/models"
	"github.com/dtnitsch/wp-stylometry/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "stylometry",
		Usage: "Crawl a WordPress news site and measure writing style per category and month",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"STYLOMETRY_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "WordPress REST API root, e.g. https://example.com/wp-json/wp/v2",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Aggregate stylometric metrics by category and month",
				ArgsUsage: "<input.json>",
				Action:    analyze.AnalyzeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Directory for tables, charts and the run manifest"},
					&cli.StringFlag{Name: "format", Usage: "Table format: xlsx or csv"},
					&cli.StringFlag{Name: "stopwords-language", Usage: "Stopword list: german or english"},
					&cli.StringFlag{Name: "tokenizer-language", Usage: "Sentence abbreviation rules: german or english"},
					&cli.StringFlag{Name: "normalize-mode", Usage: "HTML cleaning: plain or readability"},
					&cli.BoolFlag{Name: "skip-malformed-dates", Usage: "Skip and report articles with unparseable dates instead of failing"},
					&cli.BoolFlag{Name: "detect-language", Usage: "Report articles whose detected language differs from the stopword language"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent category lookups (1 = sequential)"},
					&cli.StringFlag{Name: "category-db", Usage: "SQLite file caching category names across runs"},
					&cli.BoolFlag{Name: "no-charts", Usage: "Skip the per-metric charts"},
				},
			},
			{
				Name:   "crawl",
				Usage:  "Download all posts into a JSON export and the local store",
				Action: crawl.CrawlAction,
				Flags:  crawlFlags(),
			},
			{
				Name:   "dump",
				Usage:  "Write every stored post to a JSON export",
				Action: crawl.DumpAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "Output file (default from config: express.json)"},
					&cli.StringFlag{Name: "db", Usage: "SQLite store"},
					&cli.Int64Flag{Name: "id", Usage: "Dump a single post"},
				},
			},
			{
				Name:  "crawls",
				Usage: "Inspect recorded crawls",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Usage: "SQLite store"},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent crawls",
						Action: db.CrawlsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum crawls to show (0 = all)"},
						},
					},
					{
						Name:      "show",
						Usage:     "Show the page log of a crawl (latest if no id)",
						ArgsUsage: "[id]",
						Action:    db.CrawlAction,
					},
				},
			},
			{
				Name:      "count",
				Usage:     "Count articles per year and save the first record",
				ArgsUsage: "<input.json>",
				Action:    corpus.CountAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-out", Value: "first.json", Usage: "File for the first record"},
				},
			},
			{
				Name:      "nativeads",
				Usage:     "Extract native ad articles with plain-text content",
				ArgsUsage: "<input.json>",
				Action:    corpus.NativeAdsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "native-ad.json", Usage: "Output file"},
					&cli.StringFlag{Name: "slug", Value: "native-ad", Usage: "class_list category slug to select"},
				},
			},
			{
				Name:      "pubtimes",
				Usage:     "Plot publication times by day and time of day",
				ArgsUsage: "<input.json>",
				Action:    corpus.PubTimesAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Directory for the heat map"},
					&cli.StringFlag{Name: "timezone", Usage: "IANA zone for local times"},
					&cli.IntFlag{Name: "bin-minutes", Usage: "Time-of-day bin width in minutes"},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick start guide",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "config-template", Usage: "Print the default configuration as YAML instead"},
				},
				Action: func(c *cli.Context) error {
					if c.Bool("config-template") {
						tmpl, err := help.ConfigTemplate()
						if err != nil {
							return err
						}
						fmt.Print(tmpl)
						return nil
					}
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:  "languages",
				Usage: "List supported stopword and tokenizer languages",
				Action: func(c *cli.Context) error {
					for _, lang := range models.SupportedLanguages {
						fmt.Println(lang)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func crawlFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "out", Usage: "Output file (default from config: express.json)"},
		&cli.StringFlag{Name: "db", Usage: "SQLite store (empty disables)"},
		&cli.IntFlag{Name: "max-pages", Usage: "Last page to request (default 508)"},
		&cli.IntFlag{Name: "per-page", Usage: "Posts per page, at most 100"},
		&cli.Float64Flag{Name: "rate", Usage: "Requests per second (0 = unlimited)"},
		&cli.StringFlag{Name: "cache-dir", Usage: "Directory caching fetched pages"},
		&cli.StringFlag{Name: "cache-ttl", Usage: "Cache entry lifetime, e.g. 24h"},
	}
}
