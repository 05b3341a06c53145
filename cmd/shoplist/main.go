package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"shoplist/internal"
	"shoplist/internal/config"
	"shoplist/internal/connectors"
	"shoplist/internal/listener"
	"shoplist/internal/logging"
	"shoplist/internal/pipeline"
	"shoplist/internal/pricing"
	"shoplist/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	defer func() { _ = log.Sync() }()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "prices:sync":
		count, err := pricing.NewSyncService(db, cfg, log).FullSync(ctx)
		must(err)
		fmt.Printf("price sync complete: %d prices\n", count)
	case "prices:incremental-sync":
		count, err := pricing.NewSyncService(db, cfg, log).IncrementalSync(ctx)
		must(err)
		fmt.Printf("incremental price sync complete: %d prices\n", count)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.MailListenerProvider, "gmail|imap")
		label := fs.String("label", cfg.MailListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(args)
		conn, err := listener.NewConnector(ctx, cfg, *provider)
		must(err)
		result, err := connectors.NewFetchService(db, cfg.RawMailDir, conn).FetchAndStore(ctx, *label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "", "gmail|imap (empty: all)")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", cfg.MailListenerProcessBatch, "batch size")
		_ = fs.Parse(args)
		processor := pipeline.NewProcessingService(db, cfg, log)
		if strings.TrimSpace(*messageID) != "" {
			if *provider == "" {
				must(fmt.Errorf("--provider is required with --messageId"))
			}
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed plan id=%d status=%s items=%d priced=%d\n", res.PlanID, res.Status, res.Items, res.Priced)
			return
		}
		plans, items, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending plans=%d items=%d\n", plans, items)
	case "mail:listen":
		must(listener.NewService(db, cfg, log).Run(ctx))
	case "list:show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		planID := fs.Int("planId", 0, "internal plan id")
		_ = fs.Parse(args)
		if *planID == 0 {
			must(fmt.Errorf("--planId is required"))
		}
		items, err := db.GetListItems(*planID)
		must(err)
		printList(items)
	case "list:check":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		planID := fs.Int("planId", 0, "internal plan id")
		key := fs.String("key", "", "item key, e.g. carrot::g")
		unchecked := fs.Bool("unchecked", false, "clear the check mark instead")
		_ = fs.Parse(args)
		if *planID == 0 || strings.TrimSpace(*key) == "" {
			must(fmt.Errorf("--planId and --key are required"))
		}
		must(db.SetItemChecked(*planID, *key, !*unchecked))
		fmt.Printf("item %s checked=%t\n", *key, !*unchecked)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		planID := fs.Int("planId", 0, "internal plan id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(args)
		if *planID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--planId and --out are required"))
		}
		items, err := db.GetListItems(*planID)
		must(err)
		if len(items) == 0 {
			must(fmt.Errorf("no list items for planId=%d", *planID))
		}
		must(pipeline.ExportListToXLSX(items, *out))
		fmt.Printf("exported %d items to %s\n", len(items), *out)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input file path")
		inType := fs.String("type", "", "text|html|xlsx|pdf|eml")
		output := fs.String("output", "", "output path (.xlsx or .json)")
		_ = fs.Parse(args)
		if *input == "" || *inType == "" || *output == "" {
			must(fmt.Errorf("--input --type --output are required"))
		}
		must(runOneShot(db, cfg, log, *inType, *input, *output))
	default:
		usage()
		os.Exit(1)
	}
}

// runOneShot builds a shopping list straight from a file, without a mailbox.
func runOneShot(db *storage.DB, cfg config.Config, log *zap.Logger, inType, input, output string) error {
	entries, err := pipeline.ExtractSummariesFromInput(inType, input)
	if err != nil {
		return err
	}
	items := pipeline.BuildShoppingListFromEntries(entries)

	prices, err := db.ListPrices()
	if err != nil {
		return err
	}
	priced := pipeline.NewPriceMatcher(cfg.PriceMatchThreshold, prices).EnrichPrices(items)

	switch strings.ToLower(filepath.Ext(output)) {
	case ".json":
		err = pipeline.ExportListToJSON(items, output)
	case ".xlsx":
		err = pipeline.ExportListToXLSX(items, output)
	default:
		err = fmt.Errorf("unsupported output extension: %s", output)
	}
	if err != nil {
		return err
	}

	log.Info("one-shot run done", zap.Int("summaries", len(entries)), zap.Int("items", len(items)), zap.Int("priced", priced), zap.String("output", output))
	fmt.Printf("run done items=%d output=%s\n", len(items), output)
	return nil
}

func printList(items []internal.OrganizedItem) {
	aisle := ""
	for _, item := range items {
		if item.Aisle != aisle {
			aisle = item.Aisle
			fmt.Printf("\n%s %s\n", item.Emoji, item.Aisle)
		}
		mark := " "
		if item.Checked {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %g", mark, item.Quantity)
		if item.Unit != "" {
			line += " " + item.Unit
		}
		line += " " + item.Name
		if item.Price != nil {
			line += fmt.Sprintf("  (%.2f)", *item.Price)
		}
		fmt.Printf("%s   %s\n", line, item.Key)
	}
}

func usage() {
	fmt.Println("usage: shoplist <command>")
	fmt.Println("commands:")
	fmt.Println("  prices:sync")
	fmt.Println("  prices:incremental-sync")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process [--provider=gmail|imap] [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  list:show --planId=1")
	fmt.Println("  list:check --planId=1 --key=carrot::g [--unchecked]")
	fmt.Println("  export:xlsx --planId=1 --out=./out/list.xlsx")
	fmt.Println("  run --input=... --type=text|html|xlsx|pdf|eml --output=...xlsx|...json")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
