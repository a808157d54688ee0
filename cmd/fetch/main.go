package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/effective-security/xlog"

	"twstock/internal/config"
	"twstock/internal/wiring"
)

var logger = xlog.NewPackageLogger("twstock/cmd", "fetch")

func main() {
	var symbol string
	var symbolsCSV string
	var timeout int
	var configPath string
	var noPad bool
	var insecure bool

	flag.StringVar(&symbol, "symbol", "", "single stock id to look up, e.g. 2330")
	flag.StringVar(&symbolsCSV, "symbols", "", "comma-separated stock ids to compare, e.g. 2330,2454")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.BoolVar(&noPad, "no-pad", false, "send stock ids verbatim instead of zero-padding to 4 digits")
	flag.BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	flag.Parse()

	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.KV(xlog.ERROR, "status", "config", "err", err.Error())
		os.Exit(1)
	}
	xlog.SetGlobalLogLevel(wiring.LogLevel(cfg.Server.LogLevel))

	// Override select fields from flags where provided
	if timeout > 0 { cfg.TWSE.TimeoutSec = timeout }
	if noPad { cfg.TWSE.ZeroPad = false }
	if insecure { cfg.TWSE.InsecureSkipVerify = true }

	if symbol == "" && symbolsCSV == "" {
		if flag.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "usage: fetch -symbol 2330 | -symbols 2330,2454")
			os.Exit(2)
		}
		symbol = flag.Arg(0)
	}

	svc := wiring.NewService(cfg)

	// Room for one upstream timeout per requested id.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if symbol != "" {
		fmt.Println(svc.GetStockPrice(ctx, symbol))
	}
	if symbolsCSV != "" {
		fmt.Println(svc.CompareStocks(ctx, symbolsCSV))
	}
}
