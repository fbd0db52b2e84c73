// Command castbardemo drives a Detector against a directory of ROI frame
// images and prints the emitted SparkResult stream: load config, build the
// detector, run the batch, exit with status 0 on SIGINT/SIGTERM.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gocv.io/x/gocv"

	"castbar"
)

func main() {
	configPath := flag.String("config", "", "path to a DetectorConfig JSON file (defaults omitted)")
	framesDir := flag.String("frames", "", "directory of ROI frame images, processed in lexical filename order")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9108)")
	flag.Parse()

	if *framesDir == "" {
		log.Fatal("castbardemo: -frames is required")
	}

	cfg := castbar.DefaultConfig()
	if *configPath != "" {
		loaded, err := castbar.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("castbardemo: loading config: %v", err)
		}
		cfg = loaded
	}

	det, err := castbar.NewDetector(cfg)
	if err != nil {
		log.Fatalf("castbardemo: constructing detector: %v", err)
	}
	defer det.Close()
	det.SetLogger(log.Default())

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := det.WithMetrics(reg); err != nil {
			log.Fatalf("castbardemo: registering metrics: %v", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("castbardemo: metrics server: %v", err)
			}
		}()
		defer server.Close()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("castbardemo: received shutdown signal, stopping")
		os.Exit(0)
	}()

	paths, err := framePaths(*framesDir)
	if err != nil {
		log.Fatalf("castbardemo: listing frames: %v", err)
	}
	if len(paths) == 0 {
		log.Fatalf("castbardemo: no frames found under %s", *framesDir)
	}

	for i, path := range paths {
		img := gocv.IMRead(path, gocv.IMReadColor)
		if img.Empty() {
			log.Printf("frame %d (%s): failed to decode, skipping", i, filepath.Base(path))
			continue
		}

		res, err := det.ProcessFrame(img)
		img.Close()
		if err != nil {
			log.Fatalf("frame %d (%s): %v", i, filepath.Base(path), err)
		}
		if res == nil {
			log.Printf("frame %d (%s): warming up", i, filepath.Base(path))
			continue
		}
		log.Printf("frame %d (%s): %s", i, filepath.Base(path), res)
	}
}

func framePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg", ".bmp":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
