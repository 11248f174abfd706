package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/esimov/seamcarving"
	"github.com/esimov/seamcarving/utils"
)

const HelpBanner = `
┌─┐┌─┐┌─┐┌┬┐┌─┐┌─┐┬─┐┬  ┬┬┌┐┌┌─┐
└─┐├┤ ├─┤│││├─┘├─┤├┬┘└┐┌┘│││││ ┬
└─┘└─┘┴ ┴┴ ┴└─┘┴ ┴┴└─ └┘ ┴┘└┘└─┘

Content aware image resize.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	newWidth    = flag.Int("width", 0, "New width")
	newHeight   = flag.Int("height", 0, "New height")
	percentage  = flag.Bool("perc", false, "Reduce image by percentage")
	square      = flag.Bool("square", false, "Reduce image to square dimensions")
	scale       = flag.Bool("scale", false, "Proportional scaling before carving")
	debug       = flag.Bool("debug", false, "Log the seam removal passes")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *newWidth <= 0 && *newHeight <= 0 {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a width, height or percentage for image rescaling!", utils.ErrorMessage))
	}

	if *debug {
		seamcarving.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	proc := &seamcarving.Processor{
		NewWidth:   *newWidth,
		NewHeight:  *newHeight,
		Percentage: *percentage,
		Square:     *square,
		Scale:      *scale,
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ SEAMCARVING", utils.StatusMessage),
		utils.DecorateText("⇢ resizing image (be patient, it may take a while)...", utils.DefaultMessage),
	)
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*80, true)

	op := &seamcarving.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}
	// The spinner would garble the output when writing to stdout.
	if *destination != pipeName {
		op.Spinner = spinner
	}

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	if err := proc.Execute(context.Background(), op); err != nil {
		log.Fatal(utils.DecorateText(fmt.Sprintf("\nError resizing the image: %v", err), utils.ErrorMessage))
	}
}
