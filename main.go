package main

import (
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/charmbracelet/log"

	"github.com/Konakchieva/Apple-pay/internal"
)

type Params struct {
	Report   string `descr:"Report variant" alts:"belfius,bancontact" strict:"true"`
	CsvDir   string `descr:"Folder containing the monthly CSV exports (default: current folder)"`
	Workbook string `descr:"Path to the WIRED workbook (default: per report variant)"`
	ReadyOut string `descr:"Output path for the values-only READY workbook"`
	NoReady  bool   `descr:"Skip generating the READY workbook"`
	Config   string `descr:"Path to config file (default: ~/.report-refresh/config.yaml)"`
	Verbose  bool   `descr:"Verbose logging"`
}

func main() {
	boa.NewCmdT[Params]("report-refresh").
		WithShort("Refresh Apple Pay performance report workbooks from CSV exports").
		WithLong("Writes monthly CSV exports into hidden Data_* sheets of a WIRED workbook, rewires the visible report sheets with lookup formulas, stamps the Reporting Month, and produces a values-only READY copy safe to send out.").
		WithRunFunc(func(params *Params) {
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				Prefix:          "report-refresh",
			})
			if params.Verbose {
				logger.SetLevel(log.DebugLevel)
			}

			cfg := loadConfig(params.Config, logger)

			refresher := &internal.Refresher{Log: logger, Cfg: cfg}
			summary, err := refresher.Run(internal.RunOptions{
				Report:   params.Report,
				Workbook: params.Workbook,
				CSVDir:   params.CsvDir,
				ReadyOut: params.ReadyOut,
				NoReady:  params.NoReady,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			internal.PrintRunSummary(os.Stdout, summary)
		}).
		Run()
}

// loadConfig loads the explicit config path, or the default path when
// a config file exists there. A missing default config is fine; a
// broken one is fatal.
func loadConfig(path string, logger *log.Logger) *internal.Config {
	explicit := path != ""
	if !explicit {
		path = internal.DefaultConfigPath()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		logger.Fatal("loading config", "path", path, "error", err)
	}
	return cfg
}
