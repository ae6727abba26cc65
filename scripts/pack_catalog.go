//go:build ignore

// pack_catalog validates a catalog document and writes a gzip copy next to it
// for upload to the seed bucket.
//
//	go run scripts/pack_catalog.go [data/seed/catalog.yaml]
package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"

	"cardapio/internal/seed"
)

func main() {
	src := "data/seed/catalog.yaml"
	if len(os.Args) > 1 {
		src = os.Args[1]
	}

	data, err := os.ReadFile(src)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", src, err)
	}

	catalog, err := seed.Parse(data)
	if err != nil {
		log.Fatalf("Invalid catalog %s:\n%v", src, err)
	}

	normalised, err := seed.Marshal(catalog)
	if err != nil {
		log.Fatalf("Failed to encode catalog: %v", err)
	}

	dst := src + ".gz"
	if err := writeGzip(dst, normalised); err != nil {
		log.Fatalf("Failed to write %s: %v", dst, err)
	}

	fmt.Printf("Created %s (%d categories, %d menu items)\n", dst, len(catalog.Categories), len(catalog.MenuItems))
}

func writeGzip(path string, data []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip stream: %w", err)
	}
	return nil
}
