package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/SeakMengs/BizCard/internal/config"
	"github.com/SeakMengs/BizCard/internal/env"
	"github.com/SeakMengs/BizCard/internal/util"
	"github.com/SeakMengs/BizCard/pkg/bizcard"
)

func init() {
	env.LoadEnv(".env")
}

// Generates a single card from flags, or one card per row with -csv.
func main() {
	var card bizcard.Card
	flag.StringVar(&card.Name, "name", "", "name line")
	flag.StringVar(&card.Title, "title", "", "job title line")
	flag.StringVar(&card.Phone, "phone", "", "phone line")
	flag.StringVar(&card.Email, "email", "", "email line")
	flag.StringVar(&card.Website, "website", "", "website line, also used for the QR code")
	flag.StringVar(&card.Address, "address", "", "address line")
	flag.StringVar(&card.Font, "font", "Noto", "name font, Delmon or Noto")
	csvFile := flag.String("csv", "", "csv file with one card per row")
	template := flag.String("template", "", "template PDF, overrides CARD_TEMPLATE_PATH")
	out := flag.String("out", ".", "directory to write the generated PDF to")
	qr := flag.Bool("qr", false, "embed a QR code of the website")
	flag.Parse()

	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	cardCfg := cfg.Card.BizCardConfig()
	if *template != "" {
		cardCfg.TemplatePath = *template
	}
	settings := cfg.Card.Settings()
	settings.EmbedQRCode = settings.EmbedQRCode || *qr

	generator, err := bizcard.NewCardGenerator(cardCfg, settings, logger)
	if err != nil {
		logger.Fatalf("Failed to create card generator: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(*out, 0755); err != nil {
		logger.Fatalf("Failed to create output directory: %v", err)
	}

	if *csvFile == "" {
		result, err := generator.Generate(ctx, card)
		if err != nil {
			logger.Fatalf("Failed to generate card: %v", err)
		}
		defer generator.Remove(*result)

		dst := filepath.Join(*out, cardCfg.OutFileName)
		data, err := os.ReadFile(result.FilePath)
		if err != nil {
			logger.Fatalf("Failed to read generated card: %v", err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			logger.Fatalf("Failed to write %s: %v", dst, err)
		}
		fmt.Printf("Card written to %s (scale %.4f, offset %.2f, %.2f)\n", dst, result.Placement.ScaleFactor, result.Placement.OffsetX, result.Placement.OffsetY)
		return
	}

	f, err := os.Open(*csvFile)
	if err != nil {
		logger.Fatalf("Failed to open csv: %v", err)
	}
	cards, err := bizcard.ReadCards(f)
	f.Close()
	if err != nil {
		logger.Fatalf("Failed to read cards: %v", err)
	}

	results, err := generator.GenerateBatch(ctx, cards)
	if err != nil {
		logger.Fatalf("Failed to generate cards: %v", err)
	}
	defer func() {
		for _, r := range results {
			generator.Remove(r)
		}
	}()

	dst := filepath.Join(*out, "cards.zip")
	if err := bizcard.ZipFiles(bizcard.ZipEntriesForResults(results), dst); err != nil {
		logger.Fatalf("Failed to write %s: %v", dst, err)
	}
	fmt.Printf("%d cards written to %s\n", len(results), dst)
}
