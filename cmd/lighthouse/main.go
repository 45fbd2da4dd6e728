// Command lighthouse decodes the pulse stream of a Lighthouse V2 receiver
// deck into per-sensor azimuth/elevation angles, either live from a serial
// port or from a pre-recorded capture file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/lighthouse/internal/framemux"
	"github.com/banshee-data/lighthouse/internal/lighthouse"
	"github.com/banshee-data/lighthouse/internal/units"
)

var (
	port    = flag.String("port", "/dev/ttyUSB0", "Serial port to read the deck from")
	baud    = flag.Int("baud", 230400, "Serial baud rate")
	file    = flag.String("file", "", "Decode a recorded capture file instead of a serial port")
	devMode = flag.Bool("dev", false, "Replay the capture file through the mock serial layer")
)

func printAngles(a lighthouse.SweepAngles) {
	for sensor, pair := range a.Sensors {
		fmt.Printf("Chan:%2d Sensor:%d azimuth:%8.2f elevation:%8.2f\n",
			a.Channel+1, sensor,
			units.ConvertAngle(pair.Azimuth, units.Degrees),
			units.ConvertAngle(pair.Elevation, units.Degrees))
	}
	fmt.Println()
}

// decodeFile decodes a capture offline: align once, then run the pipeline to
// the end of the file.
func decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	if err := framemux.Sync(reader); err != nil {
		return fmt.Errorf("no sync pattern in capture: %w", err)
	}

	return lighthouse.NewDecoder().Run(reader, printAngles)
}

func main() {
	flag.Parse()

	if *file != "" && !*devMode {
		if err := decodeFile(*file); err != nil {
			log.Fatalf("failed to decode capture: %v", err)
		}
		return
	}

	var mux framemux.FrameMuxInterface
	if *devMode {
		if *file == "" {
			log.Fatal("-dev requires -file with a capture to replay")
		}
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("failed to read capture file: %v", err)
		}
		mux = framemux.NewMockFrameMux(data)
	} else {
		var err error
		mux, err = framemux.NewRealFrameMux(*port, framemux.PortOptions{BaudRate: *baud})
		if err != nil {
			log.Fatalf("failed to open deck port: %v", err)
		}
	}
	defer mux.Close()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop()
		if err := mux.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor deck port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// subscribe to the frame stream and feed it through the decode pipeline
	wg.Add(1)
	go func() {
		defer wg.Done()
		decoder := lighthouse.NewDecoder()
		id, c := mux.Subscribe()
		defer mux.Unsubscribe(id)
		for {
			select {
			case frame, ok := <-c:
				if !ok {
					return
				}
				angles, err := decoder.PushFrame(frame)
				if err != nil {
					log.Printf("error decoding frame: %v", err)
					continue
				}
				if angles != nil {
					printAngles(*angles)
				}
			case <-ctx.Done():
				log.Printf("decode routine terminated")
				return
			}
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
