package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/urban-heat/uhi-monitor-api/internal/api"
	"github.com/urban-heat/uhi-monitor-api/internal/catalog"
	"github.com/urban-heat/uhi-monitor-api/internal/geocode"
	"github.com/urban-heat/uhi-monitor-api/internal/properties"
	"github.com/urban-heat/uhi-monitor-api/internal/ui"
)

func printBanner() {
	figure1 := figure.NewFigure("UHI", "isometric1", true)
	figure2 := figure.NewFigure("Monitor", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func parseArgs() (port int, serve bool) {
	for i, arg := range os.Args {
		switch {
		case arg == "--serve":
			serve = true
		case strings.HasPrefix(arg, "--port="):
			portArg := strings.TrimPrefix(arg, "--port=")
			var err error
			port, err = strconv.Atoi(portArg)
			if err != nil {
				bannercolor.Red("Invalid port value: %s", portArg)
				os.Exit(1)
			}
		case arg == "--port" && i+1 < len(os.Args):
			var err error
			port, err = strconv.Atoi(os.Args[i+1])
			if err != nil {
				bannercolor.Red("Invalid port value: %s", os.Args[i+1])
				os.Exit(1)
			}
		}
	}
	return port, serve
}

func main() {
	port, serve := parseArgs()
	if port == 0 {
		port = 5000
		bannercolor.Yellow("No port specified. Using default port: %d", port)
	} else {
		bannercolor.Green("Using specified port: %d", port)
	}

	// The .env file is optional; real environment variables win either way.
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			bannercolor.Yellow("No .env file found, relying on the environment")
		}
	}

	properties.HttpPort = port

	geocoder := geocode.NewClient()
	fetcher := catalog.NewClient()

	if serve {
		server := api.NewServer(geocoder, fetcher)
		bannercolor.Green("Serving HTTP API on port %d", port)
		if err := server.Router().Run(fmt.Sprintf(":%d", port)); err != nil {
			bannercolor.Red("HTTP server failed: %s", err.Error())
			os.Exit(1)
		}
		return
	}

	printBanner()
	ui.NewMenu(geocoder, fetcher).Run()
}
