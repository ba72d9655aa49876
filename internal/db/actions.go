package db

import (
	"fmt"
	"os"

	"github.com/dtnitsch/wp-stylometry/internal/common"
	dbpkg "github.com/dtnitsch/wp-stylometry/pkg/db"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

func openStore(c *cli.Context) (*dbpkg.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	path := cfg.Crawl.DBPath
	if c.IsSet("db") {
		path = c.String("db")
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// CrawlsAction lists recorded crawls, newest first.
func CrawlsAction(c *cli.Context) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer database.Close()

	crawls, err := database.ListCrawls(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(crawls) == 0 {
		fmt.Println("No crawls found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "Created", "Base URL", "Pages", "Posts", "Stop Reason"})
	for _, cr := range crawls {
		t.AppendRow(table.Row{
			cr.CrawlID,
			cr.CreatedAt.Format("2006-01-02 15:04:05"),
			cr.BaseURL,
			cr.PageCount,
			cr.PostCount,
			cr.StopReason,
		})
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%d crawls", len(crawls))})
	t.Render()

	fmt.Printf("\nTip: Use 'stylometry crawls show <id>' to see page details\n")
	return nil
}

// CrawlAction shows the page log of one crawl, the latest by default.
func CrawlAction(c *cli.Context) error {
	database, err := openStore(c)
	if err != nil {
		return err
	}
	defer database.Close()

	crawlID, err := crawlIDOrLatest(c, database)
	if err != nil {
		return err
	}

	crawl, err := database.GetCrawlByID(crawlID)
	if err != nil {
		return err
	}
	pages, err := database.GetCrawlPages(crawlID)
	if err != nil {
		return err
	}

	fmt.Printf("Crawl %d\n", crawl.CrawlID)
	fmt.Printf("Created:   %s\n", crawl.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Endpoint:  %s (per_page=%d, max_pages=%d)\n", crawl.BaseURL, crawl.PerPage, crawl.MaxPages)
	fmt.Printf("Collected: %d posts from %d pages, stopped: %s\n\n", crawl.PostCount, crawl.PageCount, crawl.StopReason)

	t := newTable()
	t.AppendHeader(table.Row{"Page", "Status", "Posts", "Cached", "OK"})
	for _, p := range pages {
		t.AppendRow(table.Row{p.Page, p.StatusCode, p.PostCount, p.FromCache, p.Success})
	}
	t.Render()
	return nil
}

func crawlIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() > 0 {
		var id int64
		if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil {
			return 0, fmt.Errorf("invalid crawl ID: %s", c.Args().First())
		}
		return id, nil
	}

	crawls, err := database.ListCrawls(1)
	if err != nil {
		return 0, err
	}
	if len(crawls) == 0 {
		return 0, fmt.Errorf("no crawls found")
	}
	return crawls[0].CrawlID, nil
}
