package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SeakMengs/BizCard/pkg/bizcard"
)

// Prints the page sizes of a PDF and where a card would be placed on its first page.
func main() {
	widthMM := flag.Float64("card-width", 85, "card width in mm")
	heightMM := flag.Float64("card-height", 55, "card height in mm")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file.pdf>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	pdfFilePath := "assets/SON.pdf"
	if flag.NArg() > 0 {
		pdfFilePath = flag.Arg(0)
	}

	info, err := bizcard.InspectPdf(pdfFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to inspect %s: %v\n", pdfFilePath, err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", info.Path)
	fmt.Printf("PDF Page Count: %d\n", info.PageCount)
	for i, page := range info.Pages {
		fmt.Printf("Page %d: %.2f x %.2f pt\n", i+1, page.Width, page.Height)
	}

	spec, err := bizcard.NewCardSpec(*widthMM, *heightMM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid card size: %v\n", err)
		os.Exit(1)
	}

	if len(info.Pages) == 0 {
		fmt.Fprintln(os.Stderr, "pdf has no pages")
		os.Exit(1)
	}

	first := info.Pages[0]
	if err := bizcard.ValidatePageGeometry(first.Width, first.Height); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	placement := bizcard.ResolvePlacement(first.Width, first.Height, spec)
	fmt.Printf("Card: %.2f x %.2f pt (ratio %.3f)\n", spec.Width, spec.Height, spec.Ratio)
	fmt.Printf("Scale Factor: %.4f\n", placement.ScaleFactor)
	fmt.Printf("Effective Size: %.2f x %.2f pt\n", placement.EffectiveWidth, placement.EffectiveHeight)
	fmt.Printf("Offset: %.2f, %.2f pt\n", placement.OffsetX, placement.OffsetY)
}
