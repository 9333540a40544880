package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/supadata-go/supadata"
)

var (
	scrapeNoLinks bool
	scrapeLang    string
	crawlLimit    int
	crawlWait     bool
	crawlInterval time.Duration
	crawlSkip     string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a web page as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := client.Web.Scrape(cmd.Context(), args[0], supadata.ScrapeParams{
			NoLinks: scrapeNoLinks,
			Lang:    scrapeLang,
		})
		if err != nil {
			return err
		}
		return printResult(page)
	},
}

var mapCmd = &cobra.Command{
	Use:   "map <url>",
	Short: "List the URLs found on a website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		siteMap, err := client.Web.Map(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(siteMap)
	},
}

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl <url>",
	Short: "Crawl a website",
	Long: `Start a crawl of a website and print the job ID.

With --wait the command polls the job until it finishes and prints every
collected page.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

var crawlResultsCmd = &cobra.Command{
	Use:   "crawl-results <job-id>",
	Short: "Show the status and pages of a crawl job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := client.Web.CrawlResults(cmd.Context(), args[0], crawlSkip)
		if err != nil {
			return err
		}
		return printResult(results)
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeNoLinks, "no-links", false, "drop links from the Markdown output")
	scrapeCmd.Flags().StringVarP(&scrapeLang, "lang", "l", "", "preferred page language (ISO 639-1)")

	crawlCmd.Flags().IntVar(&crawlLimit, "limit", 0, "maximum number of pages to crawl")
	crawlCmd.Flags().BoolVarP(&crawlWait, "wait", "w", false, "wait for the crawl to finish and print its pages")
	crawlCmd.Flags().DurationVar(&crawlInterval, "interval", 5*time.Second, "polling interval with --wait")

	crawlResultsCmd.Flags().StringVar(&crawlSkip, "skip", "", "cursor returned as next by a previous call")

	rootCmd.AddCommand(scrapeCmd, mapCmd, crawlCmd, crawlResultsCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	job, err := client.Web.Crawl(ctx, supadata.CrawlRequest{URL: args[0], Limit: crawlLimit})
	if err != nil {
		return err
	}
	logger.Info().Str("job_id", job.JobID).Str("url", args[0]).Msg("Crawl started")

	if !crawlWait {
		return printResult(job)
	}

	results, err := waitForCrawl(ctx, client.Web, job.JobID, crawlInterval)
	if err != nil {
		return err
	}
	return printResult(results)
}

// waitForCrawl polls a crawl job until it is done, then pages through its
// results and returns them merged into one.
func waitForCrawl(ctx context.Context, web *supadata.WebService, jobID string, interval time.Duration) (*supadata.CrawlResults, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var first *supadata.CrawlResults
	for {
		results, err := web.CrawlResults(ctx, jobID, "")
		if err != nil {
			return nil, err
		}
		if results.Status.IsDone() {
			first = results
			break
		}

		logger.Debug().Str("job_id", jobID).Str("status", string(results.Status)).Msg("Crawl in progress")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	if first.Status == supadata.CrawlFailed {
		return nil, fmt.Errorf("crawl %s failed: %s", jobID, first.Error)
	}

	merged := &supadata.CrawlResults{Status: first.Status, Pages: first.Pages}
	seen := map[string]bool{}
	for next := first.Next; next != ""; {
		if seen[next] {
			return nil, fmt.Errorf("crawl %s: results cursor %q repeated", jobID, next)
		}
		seen[next] = true

		page, err := web.CrawlResults(ctx, jobID, next)
		if err != nil {
			return nil, err
		}
		merged.Pages = append(merged.Pages, page.Pages...)
		next = page.Next
	}

	logger.Info().Str("job_id", jobID).Int("pages", len(merged.Pages)).Msg("Crawl finished")
	return merged, nil
}
