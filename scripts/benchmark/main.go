// Command benchmark measures a running recipy API against a set of recipe
// pages and writes a JSON report.
//
//	go run ./scripts/benchmark -runs 3 [URL...]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/recipy/models"
)

var (
	apiURL = flag.String("api-url", "http://localhost:8080", "recipy API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "number of runs per URL for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// defaultURLs covers both extraction paths: JSON-LD pages and pages that
// only use the article microformat.
var defaultURLs = []string{
	"https://www.allrecipes.com/recipe/21014/good-old-fashioned-pancakes/",
	"https://www.bbcgoodfood.com/recipes/easy-pancakes",
	"https://cooking.nytimes.com/recipes/1015819-chocolate-chip-cookies",
	"https://www.seriouseats.com/the-food-lab-best-chocolate-chip-cookie-recipe",
}

type runResult struct {
	Run          int    `json:"run"`
	TotalMs      int64  `json:"total_ms"`
	FetchMs      int64  `json:"fetch_ms"`
	ExtractMs    int64  `json:"extract_ms"`
	Ingredients  int    `json:"ingredients"`
	Instructions int    `json:"instructions"`
	HasImage     bool   `json:"has_image"`
	Engine       string `json:"engine,omitempty"`
	Success      bool   `json:"success"`
	ErrorCode    string `json:"error_code,omitempty"`
}

type urlAverages struct {
	TotalMs   float64 `json:"total_ms"`
	FetchMs   float64 `json:"fetch_ms"`
	ExtractMs float64 `json:"extract_ms"`
}

type urlResult struct {
	URL      string       `json:"url"`
	Runs     []runResult  `json:"runs"`
	Averages *urlAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp  string      `json:"timestamp"`
	APIURL     string      `json:"api_url"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

func main() {
	flag.Parse()
	urls := flag.Args()
	if len(urls) == 0 {
		urls = defaultURLs
	}

	fmt.Println("=== recipy benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/URL:  %d\n", *runs)
	fmt.Printf("Output:    %s\n\n", *output)

	client := &http.Client{Timeout: 90 * time.Second}

	if err := checkAPI(client, *apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Start it with: recipy serve\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     *apiURL,
		RunsPerURL: *runs,
	}

	for _, u := range urls {
		fmt.Printf("Benchmarking %s ...\n", u)
		ur := urlResult{URL: u}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkURL(client, u, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %d ingredients, %d steps\n", rr.TotalMs, rr.Ingredients, rr.Instructions)
			} else {
				fmt.Printf("FAILED: %s\n", rr.ErrorCode)
			}
			ur.Runs = append(ur.Runs, rr)
		}

		ur.Averages = computeAverages(ur.Runs)
		report.Results = append(report.Results, ur)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(client *http.Client, baseURL string) error {
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %d", resp.StatusCode)
	}
	return nil
}

// benchmarkURL extracts u once, bypassing the server cache.
func benchmarkURL(client *http.Client, u string, run int) runResult {
	rr := runResult{Run: run}

	body, err := json.Marshal(models.ExtractRequest{URL: u, MaxAge: -1})
	if err != nil {
		rr.ErrorCode = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/extract", bytes.NewReader(body))
	if err != nil {
		rr.ErrorCode = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		rr.ErrorCode = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var er models.ExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		rr.ErrorCode = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = er.Success
	rr.TotalMs = er.Timing.TotalMs
	rr.FetchMs = er.Timing.FetchMs
	rr.ExtractMs = er.Timing.ExtractMs
	rr.Engine = er.EngineUsed
	if er.Recipe != nil {
		rr.Ingredients = len(er.Recipe.Ingredients)
		rr.Instructions = len(er.Recipe.Instructions)
		rr.HasImage = er.Recipe.Image.Present()
	}
	if er.Error != nil {
		rr.ErrorCode = er.Error.Code
	}
	return rr
}

func computeAverages(runs []runResult) *urlAverages {
	var n float64
	var avg urlAverages
	for _, r := range runs {
		if !r.Success {
			continue
		}
		n++
		avg.TotalMs += float64(r.TotalMs)
		avg.FetchMs += float64(r.FetchMs)
		avg.ExtractMs += float64(r.ExtractMs)
	}
	if n == 0 {
		return nil
	}
	avg.TotalMs /= n
	avg.FetchMs /= n
	avg.ExtractMs /= n
	return &avg
}

func printTable(results []urlResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "URL\tAvg Total\tAvg Fetch\tAvg Extract\tResult\n")
	fmt.Fprintf(w, "───\t─────────\t─────────\t───────────\t──────\n")

	for _, r := range results {
		if r.Averages == nil {
			code := ""
			if len(r.Runs) > 0 {
				code = r.Runs[len(r.Runs)-1].ErrorCode
			}
			fmt.Fprintf(w, "%s\t-\t-\t-\t%s\n", truncateURL(r.URL, 50), code)
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%dms\t%dms\tok\n",
			truncateURL(r.URL, 50),
			int64(r.Averages.TotalMs),
			int64(r.Averages.FetchMs),
			int64(r.Averages.ExtractMs),
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func truncateURL(u string, max int) string {
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
