package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nccreg/pkg/config"
	"nccreg/pkg/mask"
	"nccreg/pkg/metric"
	"nccreg/pkg/volume"
	"nccreg/pkg/visualization"
)

func main() {
	// Parse command line arguments
	fixedDir := flag.String("fixed", "", "Directory containing the fixed volume's slices")
	movingDir := flag.String("moving", "", "Directory containing the moving volume's slices")
	configPath := flag.String("config", "nccmetric.yaml", "Configuration file (defaults are used if it does not exist)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	numCores := flag.Int("cores", 0, "Number of partitions evaluated in parallel (overrides config)")
	radius := flag.String("radius", "", "Window radius as rx,ry,rz or a single value (overrides config)")
	precision := flag.String("precision", "", "Accumulation precision: float32 or float64 (overrides config)")
	splitAxis := flag.String("axis", "", "Axis to split partitions along: x, y or z (overrides config)")
	maskLower := flag.Float64("mask-lower", 0, "Lower intensity of the threshold mask (enables the mask)")
	maskUpper := flag.Float64("mask-upper", 0, "Upper intensity of the threshold mask (enables the mask)")
	mapDir := flag.String("map-dir", "", "Directory to save squared NCC map slices (overrides config)")
	verify := flag.Bool("verify", false, "Recompute the total window by window and compare")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if *fixedDir == "" || *movingDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cores":
			cfg.Metric.NumCores = *numCores
		case "radius":
			r, err := parseRadius(*radius)
			if err != nil {
				log.Fatalf("Invalid -radius: %v", err)
			}
			cfg.Metric.Radius = r
		case "precision":
			cfg.Metric.Precision = *precision
		case "axis":
			cfg.Metric.SplitAxis = *splitAxis
		case "mask-lower":
			cfg.Mask.Enabled = true
			cfg.Mask.Lower = *maskLower
		case "mask-upper":
			cfg.Mask.Enabled = true
			cfg.Mask.Upper = *maskUpper
		case "map-dir":
			cfg.Output.MapDir = *mapDir
		}
	})

	params, err := cfg.MetricParams()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("NEIGHBORHOOD NORMALIZED CROSS CORRELATION")
	fmt.Println("================================")

	fixed, err := volume.LoadStack(*fixedDir)
	if err != nil {
		log.Fatalf("Failed to load fixed volume: %v", err)
	}
	moving, err := volume.LoadStack(*movingDir)
	if err != nil {
		log.Fatalf("Failed to load moving volume: %v", err)
	}
	fmt.Printf("Fixed volume %v, moving volume %v\n", fixed.Bounds(), moving.Bounds())

	if cfg.Mask.Enabled {
		source := fixed
		if cfg.Mask.Source == "moving" {
			source = moving
		}
		params.Mask = mask.Threshold(source, cfg.Mask.Lower, cfg.Mask.Upper)
		fmt.Printf("Mask: %s intensities in [%g, %g], %d voxels\n",
			cfg.Mask.Source, cfg.Mask.Lower, cfg.Mask.Upper, params.Mask.Count())
	}

	m := metric.New(params)
	report, err := m.Evaluate(fixed, moving)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	fmt.Printf("\nEvaluation %s completed in %.2f seconds\n", report.RunID, report.Elapsed.Seconds())
	fmt.Printf("=======================================\n")
	fmt.Printf("Radius: %v, precision: %s, partitions: %d\n", params.Radius, params.Precision, len(report.Partials))
	fmt.Printf("Windows reduced: %d\n", report.Voxels)
	fmt.Printf("Sum of squared NCC: %.6f\n", report.Total)
	fmt.Printf("Mean squared NCC: %.6f\n", report.Mean)
	fmt.Printf("Value to minimize: %.6f\n", m.ValueToMinimize())
	if cfg.Output.Verbose {
		for _, p := range report.Partials {
			fmt.Printf("- partition %d %v: %d windows, sum %.6f\n",
				p.Partition.Index, p.Partition.Output, p.Voxels, p.Sum)
		}
	}

	if *verify {
		fmt.Println("\nVerifying against the window-by-window computation...")
		total, n, err := m.Verify(fixed, moving)
		if err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		fmt.Printf("Reference sum: %.6f over %d windows (difference %.3g)\n", total, n, total-report.Total)
	}

	if cfg.Output.MapDir != "" {
		fmt.Println("\nSaving squared NCC map slices...")
		nccMap, err := m.Map(fixed, moving)
		if err != nil {
			log.Fatalf("Failed to compute map: %v", err)
		}
		viewer := visualization.NewViewer(nccMap)
		runDir := filepath.Join(cfg.Output.MapDir, report.RunID.String())
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(runDir, axis)
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)
			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
			}
		}
		if params.Mask != nil {
			maskDir := filepath.Join(runDir, "mask")
			if err := visualization.NewViewer(params.Mask.ToGrid()).SaveSliceSequence("z", maskDir); err != nil {
				log.Printf("Warning: Failed to save mask slices: %v", err)
			}
		}
	}
}

// parseRadius accepts "r" or "rx,ry,rz".
func parseRadius(s string) ([3]int, error) {
	var r [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return r, fmt.Errorf("want 1 or 3 values, got %d", len(parts))
	}
	for i := range r {
		v, err := strconv.Atoi(strings.TrimSpace(parts[min(i, len(parts)-1)]))
		if err != nil {
			return r, err
		}
		r[i] = v
	}
	return r, nil
}
