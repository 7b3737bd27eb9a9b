// sheets-export fetches sheets from the gateway once and writes them to a
// single workbook, one tab per sheet plus a MASTER vendor tab.
//
// Usage:
//
//	APP_SCRIPT_URL=... go run ./cmd/sheets-export -sheets "INDENT,STORE IN" -out tracker.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/indent_tracker/config"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
	"bitbucket.org/mmdatafocus/indent_tracker/table"
	"bitbucket.org/mmdatafocus/indent_tracker/utils"
	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

var vendorColumns = []views.Column{
	{Key: "vendorName", Header: "Vendor Name"},
	{Key: "gstin", Header: "GSTIN"},
	{Key: "address", Header: "Address"},
	{Key: "email", Header: "Email"},
}

func main() {
	sheetList := flag.String("sheets", "", "Optional: comma-separated sheet names (default: every sheet)")
	out := flag.String("out", "", "Optional: output path (default: sheets-<date>.xlsx)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	flag.Parse()

	logger := config.GetLogger()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	decimal.MarshalJSONWithoutQuotes = true

	names, err := parseSheets(*sheetList)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	path := strings.TrimSpace(*out)
	if path == "" {
		path = "sheets-" + time.Now().Format("2006-01-02") + ".xlsx"
	}

	client, err := sheets.NewClient(cfg.GatewayURL, cfg.GatewayTimeout, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tabs, failed := fetchTabs(ctx, client, names, logger)
	if len(tabs) == 0 {
		fmt.Fprintln(os.Stderr, "nothing fetched; see log for gateway errors")
		os.Exit(1)
	}

	if err := writeAtomically(path, tabs); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d tabs to %s\n", len(tabs), path)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d sheets failed\n", failed)
		os.Exit(2)
	}
}

func parseSheets(csv string) ([]sheets.SheetName, error) {
	parts := config.SplitAndTrim(csv)
	if len(parts) == 0 {
		return sheets.All, nil
	}
	names := make([]sheets.SheetName, 0, len(parts))
	for _, p := range utils.UniqueSlice(parts) {
		n, err := sheets.ParseSheetName(p)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

// fetchTabs keeps going past failed sheets so one broken tab does not sink the export.
func fetchTabs(ctx context.Context, client *sheets.Client, names []sheets.SheetName, logger *logrus.Logger) ([]table.Sheet, int) {
	results, _ := client.FetchAll(ctx, names)
	failed := len(names) - len(results)

	var tabs []table.Sheet
	for _, name := range names {
		res, ok := results[name]
		if !ok {
			continue
		}

		var (
			recs []table.Record
			cols []views.Column
			err  error
		)
		if name == sheets.Master {
			if res.Master == nil {
				continue
			}
			recs, err = table.Records(res.Master.Vendors)
			cols = vendorColumns
		} else {
			recs, err = table.Records(res.Rows)
		}
		if err != nil {
			config.LogError(logger, "sheets-export", "fetchTabs", "flattening "+name.String(), nil, err)
			failed++
			continue
		}
		tabs = append(tabs, table.Sheet{Title: name.String(), Columns: cols, Rows: recs})
	}
	return tabs, failed
}

// writeAtomically writes next to path and renames, so a failed run never
// leaves a truncated workbook behind.
func writeAtomically(path string, tabs []table.Sheet) error {
	tmp := filepath.Join(filepath.Dir(path), "."+uuid.NewString()+".xlsx.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := table.WriteWorkbook(f, tabs); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
