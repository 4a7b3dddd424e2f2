package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

var (
	deviceFlag       string
	colorFlag        string
	bgColorFlag      string
	autorefreshFlag  float64
	announceFlag     bool
	visualizerFlag   bool
	visuRefreshFlag  float64
	visuAutogainFlag bool
	visuBarsFlag     int
)

func init() {
	flag.StringVar(&deviceFlag, "device", "", "Bluetooth hardware address of the remote device")
	flag.StringVar(&deviceFlag, "D", "", "Bluetooth hardware address (shorthand)")
	flag.StringVar(&colorFlag, "color", "default", "Text color (0-255 or \"default\")")
	flag.StringVar(&colorFlag, "c", "default", "Text color (shorthand)")
	flag.StringVar(&bgColorFlag, "bgcolor", "default", "Background color (0-255 or \"default\")")
	flag.StringVar(&bgColorFlag, "b", "default", "Background color (shorthand)")
	flag.Float64Var(&autorefreshFlag, "autorefresh", 1.0, "Autorefresh interval in seconds")
	flag.Float64Var(&autorefreshFlag, "a", 1.0, "Autorefresh interval (shorthand)")
	flag.BoolVar(&announceFlag, "announce", false, "Announce track changes with espeak")
	flag.BoolVar(&announceFlag, "A", false, "Announce track changes (shorthand)")
	flag.BoolVar(&visualizerFlag, "visualizer", false, "Show the cava visualizer below the panel")
	flag.BoolVar(&visualizerFlag, "V", false, "Show the visualizer (shorthand)")
	flag.Float64Var(&visuRefreshFlag, "visu-refresh", 0.1, "Visualizer refresh interval in seconds")
	flag.Float64Var(&visuRefreshFlag, "v", 0.1, "Visualizer refresh interval (shorthand)")
	flag.BoolVar(&visuAutogainFlag, "visu-autogain", false, "Enable visualizer auto-gain")
	flag.BoolVar(&visuAutogainFlag, "g", false, "Enable visualizer auto-gain (shorthand)")
	flag.IntVar(&visuBarsFlag, "visu-bars", 30, "Number of visualizer bars")
	flag.IntVar(&visuBarsFlag, "B", 30, "Number of visualizer bars (shorthand)")
}

// bindFlags overrides config values for flags the user explicitly set.
func bindFlags() {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color", "c":
			viper.Set("ui.color", colorFlag)
		case "bgcolor", "b":
			viper.Set("ui.bgcolor", bgColorFlag)
		case "autorefresh", "a":
			viper.Set("timing.refresh_ms", int(autorefreshFlag*1000))
		case "announce", "A":
			viper.Set("announce.enabled", announceFlag)
		case "visualizer", "V":
			viper.Set("visualizer.enabled", visualizerFlag)
		case "visu-refresh", "v":
			viper.Set("visualizer.refresh_ms", int(visuRefreshFlag*1000))
		case "visu-autogain", "g":
			viper.Set("visualizer.autogain", visuAutogainFlag)
		case "visu-bars", "B":
			viper.Set("visualizer.bars", visuBarsFlag)
		}
	})
}

func main() {
	flag.Parse()
	remote := deviceFlag != ""

	if missing := missingDeps(remote); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Missing dependencies: %s\n", strings.Join(missing, ", "))
		fmt.Fprintln(os.Stderr, "Please install them to use this program.")
		os.Exit(1)
	}

	initConfig()
	cfg := config.Get()

	var source MediaSource
	if remote {
		src, err := NewBluezSource(deviceFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot reach the system bus: %v\n", err)
			os.Exit(1)
		}
		// Kick off a connection attempt before the first refresh; the
		// wait screen covers the time until the device shows up.
		src.Reconnect()
		source = src
	} else {
		source = NewPlayerctlSource()
	}

	announcer := NewAnnouncer(
		time.Duration(cfg.Announce.QuietMs)*time.Millisecond,
		hasBinary("espeak"),
	)

	// Visualizer spawn failure degrades the feature, never the session.
	var visualizer *Visualizer
	if cfg.Visualizer.Enabled && hasBinary("cava") {
		if v, err := StartVisualizer(cfg.Visualizer.Bars, cfg.Visualizer.SixteenBit, cfg.Visualizer.Autogain); err == nil {
			visualizer = v
		}
	}

	m := newModel(source, announcer, visualizer, remote, deviceFlag)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()

	// The announcement worker is daemonic and abandoned; the visualizer
	// owns real resources and is torn down on every exit path.
	if visualizer != nil {
		visualizer.Stop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
