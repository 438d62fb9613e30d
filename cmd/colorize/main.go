package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"gioui.org/app"
	"github.com/esimov/colorize"
	"github.com/esimov/colorize/imop"
	"github.com/esimov/colorize/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┌─┐┬  ┌─┐┬─┐┬┌─┐┌─┐
│  │ ││  │ │├┬┘│┌─┘├┤
└─┘└─┘┴─┘└─┘┴└─┴└─┘└─┘

Scratch-off image coloring toy.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	assetsDir  = flag.String("assets", "assets", "Directory of the image assets")
	images     = flag.String("images", "", "Comma separated list of image file names (default: the bundled set)")
	scan       = flag.Bool("scan", false, "Use every supported image found in the assets directory")
	maxWidth   = flag.Float64("width", colorize.MaxWidth, "Maximum canvas width")
	maxHeight  = flag.Float64("height", colorize.MaxHeight, "Maximum canvas height")
	brushRatio = flag.Float64("brush", colorize.BrushRatio, "Brush size relative to the shorter canvas side")
	operator   = flag.String("op", imop.Copy, "Brush composition operation (copy, src_over)")
	seed       = flag.Int64("seed", 0, "Random seed used for picking the images (0: time based)")
	debug      = flag.Bool("debug", false, "Log the loading steps")
)

func main() {
	log.SetFlags(0)
	utils.SetColorOutput(term.IsTerminal(int(os.Stderr.Fd())))

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debug {
		colorize.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	fs, err := os.Stat(*assetsDir)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to read the assets directory: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	if !fs.IsDir() {
		log.Fatal(utils.DecorateText(fmt.Sprintf("%s is not a directory", *assetsDir), utils.ErrorMessage))
	}

	names := splitNames(*images)
	if *scan {
		names, err = colorize.ScanAssets(*assetsDir)
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Unable to scan the assets directory: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		if len(names) == 0 {
			log.Fatal(utils.DecorateText(fmt.Sprintf("No supported image found in %s", *assetsDir), utils.ErrorMessage))
		}
	}
	assets := colorize.NewAssetSet(*assetsDir, names...)
	ctrl, err := colorize.NewController(assets, colorize.FileDecoder{}, colorize.Options{
		MaxWidth:   *maxWidth,
		MaxHeight:  *maxHeight,
		BrushRatio: *brushRatio,
		Operator:   *operator,
		Seed:       *seed,
	})
	if err != nil {
		flag.Usage()
		log.Fatalf(
			utils.DecorateText("\nInvalid options: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	fmt.Fprintf(os.Stderr, "%s %s\n",
		utils.DecorateText("🦄 COLORIZE", utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("⇢ %d images found in %s", assets.Len(), *assetsDir), utils.DefaultMessage),
	)

	// The Gio event loop has to run on the main thread, the window is served from a separate goroutine.
	go func() {
		gui := colorize.NewGUI(ctrl)
		if err := gui.Run(); err != nil {
			log.Fatalf(
				utils.DecorateText("\nThe window closed with an error: %s", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		os.Exit(0)
	}()
	app.Main()
}

// splitNames splits the comma separated list of image names, dropping the empty entries.
func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
