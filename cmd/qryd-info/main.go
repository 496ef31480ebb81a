// qryd-info loads a serialized tweezer device and prints a human-readable
// summary of its layouts, native gates and connectivity, for quick
// inspection of downloaded calibration files.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/tweezerlab/qryd/go/qryd"
)

var (
	deviceFile = flag.String("device", "", "Path of a JSON-serialized tweezer device.")
	layout     = flag.String("layout", "", "Layout to inspect. Defaults to the device's current layout.")
	showEdges  = flag.Bool("edges", false, "Print the two-tweezer connectivity edges.")
)

func main() {
	flag.Parse()
	if *deviceFile == "" {
		log.Fatal("missing required flag: --device")
	}
	blob, err := os.ReadFile(*deviceFile)
	if err != nil {
		log.Fatalf("Reading %s: %v", *deviceFile, err)
	}
	device := qryd.New(qryd.Options{})
	if err := json.Unmarshal(blob, device); err != nil {
		log.Fatalf("Decoding %s: %v", *deviceFile, err)
	}

	fmt.Printf("device: %s\n", device.Name())
	fmt.Printf("layouts: %v\n", device.AvailableLayouts())
	fmt.Printf("current layout: %s\n", device.CurrentLayout())
	if d := device.DefaultLayout(); d != "" {
		fmt.Printf("default layout: %s\n", d)
	}

	gates, err := device.AvailableGateNames(*layout)
	if err != nil {
		log.Fatalf("Listing gates: %v", err)
	}
	positions, err := device.NumberTweezerPositions(*layout)
	if err != nil {
		log.Fatalf("Counting tweezers: %v", err)
	}
	fmt.Printf("tweezer positions: %d\n", positions)
	fmt.Printf("gates: %v\n", gates)
	fmt.Printf("qubits: %d\n", device.NumberQubits())

	if *showEdges {
		for _, e := range device.TwoTweezerEdges() {
			fmt.Printf("edge: %d -- %d\n", e[0], e[1])
		}
	}
}
