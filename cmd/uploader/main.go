package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/dotoole/photofolio-backend/internal/uploads"
	"github.com/dotoole/photofolio-backend/pkg/config"
)

// uploader pushes a single photo through the full pipeline from the command
// line: derive, presign, upload, commit.
func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "path of the image to upload")
	apiURL := flag.String("api", "http://localhost:8080", "portfolio API base URL")
	token := flag.String("token", os.Getenv("PHOTOFOLIO_UPLOAD_TOKEN"), "admin session token")
	title := flag.String("title", "", "title override (defaults to the filename)")
	album := flag.String("album", "", "album public id to assign the image to")
	visibility := flag.String("visibility", "public", "public|unlisted|private")
	featured := flag.Bool("featured", false, "mark the image as featured")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	verbose := flag.Bool("v", false, "print the pipeline debug log")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	var media config.MediaConfig
	if cfg, err := config.Load(); err == nil {
		media = cfg.Media
	} else {
		media = config.MediaConfig{
			FullMaxDimension:  6000,
			FullMaxBytes:      50 * 1024 * 1024,
			ThumbMaxDimension: 520,
			ThumbMaxBytes:     314572,
			JPEGQuality:       85,
		}
	}

	client := uploads.NewAPIClient(*apiURL, *token, nil)
	pipeline, err := uploads.NewPipeline(client, media, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pipeline:", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}

	if err := pipeline.Select(filepath.Base(*file), f); err != nil {
		fmt.Fprintln(os.Stderr, "select:", err)
		os.Exit(1)
	}

	form := pipeline.Form()
	if *title != "" {
		form.Title = *title
	}
	form.AlbumPublicID = *album
	form.Visibility = *visibility
	form.Featured = *featured
	pipeline.SetForm(form)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	err = pipeline.Submit(ctx)
	if *verbose {
		for _, line := range pipeline.DebugLog() {
			fmt.Fprintln(os.Stderr, line)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, pipeline.Status())
		os.Exit(1)
	}

	fmt.Println(pipeline.Status())
}
