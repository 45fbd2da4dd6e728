// Package main provides an offline analysis tool for lighthouse deck
// captures. It decodes a recorded pulse stream, prints per-channel and
// per-sensor angle statistics, and optionally renders an azimuth/elevation
// scatter chart as a standalone HTML page.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/lighthouse/internal/framemux"
	"github.com/banshee-data/lighthouse/internal/lighthouse"
	"github.com/banshee-data/lighthouse/internal/monitoring"
	"github.com/banshee-data/lighthouse/internal/units"
)

var (
	capture  = flag.String("capture", "", "Capture file to analyse (required)")
	chart    = flag.String("chart", "", "Write an azimuth/elevation scatter chart to this HTML file")
	verbose  = flag.Bool("verbose", false, "Log individual block discard diagnostics")
	unit     = flag.String("units", units.Degrees, "Angle units for the report (rad or deg)")
	channels = flag.String("channel", "", "Only report this channel (0-15, empty = all)")
)

// sensorSeries accumulates one sensor's angle history across a capture.
type sensorSeries struct {
	azimuth   []float64
	elevation []float64
}

type report struct {
	results  int
	perChan  map[uint8]int
	sensors  [lighthouse.NumSensors]sensorSeries
	filtered uint8
	filterOn bool
}

func (r *report) add(a lighthouse.SweepAngles) {
	if r.filterOn && a.Channel != r.filtered {
		return
	}
	r.results++
	r.perChan[a.Channel]++
	for i, pair := range a.Sensors {
		r.sensors[i].azimuth = append(r.sensors[i].azimuth, pair.Azimuth)
		r.sensors[i].elevation = append(r.sensors[i].elevation, pair.Elevation)
	}
}

func (r *report) print(targetUnits string) {
	fmt.Printf("revolutions decoded: %d\n", r.results)

	chans := make([]int, 0, len(r.perChan))
	for ch := range r.perChan {
		chans = append(chans, int(ch))
	}
	sort.Ints(chans)
	for _, ch := range chans {
		fmt.Printf("  channel %2d: %d revolutions\n", ch+1, r.perChan[uint8(ch)])
	}

	for i, s := range r.sensors {
		if len(s.azimuth) == 0 {
			continue
		}
		azMean, azStd := stat.MeanStdDev(s.azimuth, nil)
		elMean, elStd := stat.MeanStdDev(s.elevation, nil)
		fmt.Printf("  sensor %d: azimuth %8.3f +/-%6.3f %s  elevation %8.3f +/-%6.3f %s\n",
			i,
			units.ConvertAngle(azMean, targetUnits), units.ConvertAngle(azStd, targetUnits), targetUnits,
			units.ConvertAngle(elMean, targetUnits), units.ConvertAngle(elStd, targetUnits), targetUnits)
	}
}

// renderChart writes an azimuth/elevation scatter of all four sensors.
func (r *report) renderChart(path string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Lighthouse sweep angles", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sweep angles", Subtitle: fmt.Sprintf("%d revolutions", r.results)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "azimuth (rad)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "elevation (rad)", NameLocation: "middle", NameGap: 30}),
	)

	for i, s := range r.sensors {
		data := make([]opts.ScatterData, 0, len(s.azimuth))
		for j := range s.azimuth {
			data = append(data, opts.ScatterData{Value: []float64{s.azimuth[j], s.elevation[j]}})
		}
		scatter.AddSeries(fmt.Sprintf("sensor %d", i), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return scatter.Render(f)
}

func main() {
	flag.Parse()

	if *capture == "" {
		log.Fatal("-capture is required")
	}
	if !units.IsValid(*unit) {
		log.Fatalf("invalid units %q: valid values are %v", *unit, units.ValidUnits)
	}
	if !*verbose {
		monitoring.SetLogger(nil)
	}

	r := &report{perChan: make(map[uint8]int)}
	if *channels != "" {
		var ch int
		if _, err := fmt.Sscanf(*channels, "%d", &ch); err != nil || ch < 0 || ch >= lighthouse.NumChannels {
			log.Fatalf("invalid channel filter %q", *channels)
		}
		r.filterOn = true
		r.filtered = uint8(ch)
	}

	f, err := os.Open(*capture)
	if err != nil {
		log.Fatalf("failed to open capture: %v", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	if err := framemux.Sync(reader); err != nil {
		log.Fatalf("no sync pattern in capture: %v", err)
	}

	if err := lighthouse.NewDecoder().Run(reader, r.add); err != nil {
		log.Fatalf("decode failed: %v", err)
	}

	r.print(*unit)

	if *chart != "" {
		if err := r.renderChart(*chart); err != nil {
			log.Fatalf("failed to render chart: %v", err)
		}
		log.Printf("wrote chart to %s", *chart)
	}
}
