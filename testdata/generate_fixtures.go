//go:build ignore

// This program generates test fixture files for slidekit.
package main

import (
	"fmt"
	"os"

	"github.com/klytics/slidekit/internal/formats/pptx"
	"github.com/klytics/slidekit/internal/formats/xlsx"
	"github.com/klytics/slidekit/internal/geometry"
)

const sampleIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256" fill="currentColor">` +
	`<path d="M234.5,114.38l-45.1,39.36,13.51,58.6a16,16,0,0,1-23.84,17.34l-51.11-31-51,31a16,16,0,0,1-23.84-17.34L66.61,153.8,21.5,114.38a16,16,0,0,1,9.11-28.06l59.46-5.15,23.21-55.36a15.95,15.95,0,0,1,29.44,0h0L166,81.17l59.44,5.15a16,16,0,0,1,9.11,28.06Z"/></svg>`

func main() {
	if err := generatePptx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.pptx: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll("icons", 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating icons/: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("icons/star-fill.svg", []byte(sampleIcon), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing icons/star-fill.svg: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func box(left, top, width, height float64) pptx.Rect {
	return pptx.Rect{
		X:  geometry.Inches(left),
		Y:  geometry.Inches(top),
		CX: geometry.Inches(width),
		CY: geometry.Inches(height),
	}
}

func generatePptx() error {
	d, err := pptx.New()
	if err != nil {
		return err
	}

	// Slide 1: title and bulleted agenda
	s1, err := d.AddSlide(pptx.DefaultLayout, 0)
	if err != nil {
		return err
	}
	bold := true
	if _, err := pptx.AddTextbox(s1, box(0.5, 0.4, 9, 1), pptx.TextboxSpec{
		Text: "Acme Quarterly Review",
		Font: pptx.FontSpec{SizePt: 36, Bold: &bold},
	}); err != nil {
		return err
	}
	bullet, err := pptx.ParseBullet("bullet")
	if err != nil {
		return err
	}
	if _, err := pptx.AddTextbox(s1, box(0.5, 1.6, 9, 3), pptx.TextboxSpec{
		Text:   "Revenue for Q3\nCustomer growth at Acme\nRoadmap",
		Font:   pptx.FontSpec{SizePt: 20},
		Bullet: &bullet,
	}); err != nil {
		return err
	}

	// Slide 2: table
	s2, err := d.AddSlide(pptx.DefaultLayout, 0)
	if err != nil {
		return err
	}
	if _, err := pptx.AddTable(s2, 3, 3, box(0.5, 1, 9, 2), [][]string{
		{"Region", "Q3", "Q4"},
		{"North", "120", "140"},
		{"South", "95", "110"},
	}); err != nil {
		return err
	}

	// Slide 3: chart with an embedded workbook
	s3, err := d.AddSlide(pptx.DefaultLayout, 0)
	if err != nil {
		return err
	}
	if _, err := pptx.AddChart(s3, pptx.ChartSpec{
		Type:  "column",
		Title: "Revenue",
		Data: xlsx.ChartData{
			Categories: []string{"Q1", "Q2", "Q3", "Q4"},
			Series: []xlsx.Series{
				{Name: "Sales", Values: []float64{10, 14, 18, 21}},
				{Name: "Profit", Values: []float64{2, 3, 5, 6}},
			},
		},
	}, box(1, 1.5, 8, 4.5)); err != nil {
		return err
	}

	return d.Save("sample.pptx")
}
