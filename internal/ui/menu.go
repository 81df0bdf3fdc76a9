package ui

import (
	"bufio"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/urban-heat/uhi-monitor-api/internal/delivery"
	"github.com/urban-heat/uhi-monitor-api/internal/geocode"
	"github.com/urban-heat/uhi-monitor-api/internal/notification"
	"github.com/urban-heat/uhi-monitor-api/output"
)

const dateLayout = "2006-01-02"

// Menu drives the interactive analysis loop.
type Menu struct {
	geocoder   *geocode.Client
	fetcher    delivery.SceneFetcher
	reader     *bufio.Reader
	lastResult *delivery.RegionAnalysis
	lastRegion string
}

func NewMenu(geocoder *geocode.Client, fetcher delivery.SceneFetcher) *Menu {
	return &Menu{
		geocoder: geocoder,
		fetcher:  fetcher,
		reader:   bufio.NewReader(os.Stdin),
	}
}

// Run loops until the user exits. Panics are reported to the error webhook
// before the process dies, matching the service's unattended usage.
func (m *Menu) Run() {
	defer func() {
		if r := recover(); r != nil {
			color.Red("\nPANIC: %v", r)
			color.Red("Exiting...")
			notification.SendAnalysisFailure(fmt.Sprintf("UHI Monitor CLI panic:\n\n%v\n\nStack trace:\n%s", r, debug.Stack()))
		}
	}()

	for {
		color.Blue("===================")
		color.Blue("1. Analyze a region")
		color.Blue("2. Export last analysis")
		color.Blue("3. Exit")
		color.Blue("Enter your choice:")

		var choice int
		if _, err := fmt.Scan(&choice); err != nil {
			color.Red("\nInvalid input. Please enter a number.")
			fmt.Scanln()
			continue
		}

		switch choice {
		case 1:
			m.analyzeRegion()
		case 2:
			m.exportLastAnalysis()
		case 3:
			fmt.Println("Exiting...")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) prompt(label string) string {
	color.Blue(label)
	// Drop the newline fmt.Scan leaves behind before reading a full line.
	line, _ := m.reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		line, _ = m.reader.ReadString('\n')
		line = strings.TrimSpace(line)
	}
	return line
}

func (m *Menu) analyzeRegion() {
	query := m.prompt("Enter a place to analyze (e.g. \"Phoenix, Arizona\"):")
	if query == "" {
		color.Red("\nA place name is required.")
		return
	}

	location, err := m.geocoder.Search(query)
	if err != nil {
		color.Red("\nError searching location: %s", err.Error())
		return
	}
	if location == nil {
		color.Red("\nLocation %q not found.", query)
		return
	}
	color.Green("Found: %s (%.4f, %.4f)", location.DisplayName, location.Lat, location.Lon)

	startDate, err := time.Parse(dateLayout, m.prompt("Enter the start date (YYYY-MM-DD):"))
	if err != nil {
		color.Red("\nInvalid start date: %s", err.Error())
		return
	}
	endDate, err := time.Parse(dateLayout, m.prompt("Enter the end date (YYYY-MM-DD):"))
	if err != nil {
		color.Red("\nInvalid end date: %s", err.Error())
		return
	}

	result, err := delivery.AnalyzeRegion(m.fetcher, location.BBox, startDate, endDate, 15)
	if err != nil {
		color.Red("\nError analyzing region: %s", err.Error())
		return
	}

	m.lastResult = result
	m.lastRegion = location.Name

	color.Green("\nScene date: %s (cloud cover %.1f%%)", result.SceneDate, result.CloudCover)
	color.Green("Surface temperature: %.1f to %.1f °C (mean %.1f)",
		result.LST.Statistics.Min, result.LST.Statistics.Max, result.LST.Statistics.Mean)
	color.Green("Vegetation index: %.2f to %.2f (mean %.2f)",
		result.NDVI.Statistics.Min, result.NDVI.Statistics.Max, result.NDVI.Statistics.Mean)
	color.Green("UHI magnitude: %.1f °C", result.UHIMagnitude)
	color.Green("LST-NDVI correlation: %.2f", result.Correlation)
}

func (m *Menu) exportLastAnalysis() {
	if m.lastResult == nil {
		color.Yellow("\nNothing to export yet. Run an analysis first.")
		return
	}

	name := fmt.Sprintf("%s_%s", sanitizeName(m.lastRegion), m.lastResult.SceneDate)
	paths, err := output.ExportRegionAnalysis(m.lastResult, name)
	if err != nil {
		color.Red("\nError exporting analysis: %s", err.Error())
		notification.SendAnalysisFailure(fmt.Sprintf("UHI Monitor CLI\n\nError exporting analysis: %s", err.Error()))
		return
	}

	color.Green("\nExport complete:")
	for _, path := range paths {
		color.Green("- %s", path)
	}
}

func sanitizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, ",", "")
	return strings.ReplaceAll(name, " ", "_")
}
