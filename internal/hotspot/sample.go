// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import "time"

// SampleConfig returns a demo configuration with one hotspot of each of
// the link, video, product and popup kinds on pages 1-4.
func SampleConfig(documentID string, now time.Time) Config {
	ts := now.UnixMilli()
	price := 99.99
	width := 2.0
	opacity := 1.0
	on := true
	if documentID == "" {
		documentID = "sample-document"
	}

	return Config{
		DocumentID: documentID,
		Hotspots: []Hotspot{
			{
				ID:          "hotspot-1",
				PageNumber:  1,
				Position:    Position{X: 20, Y: 30, Width: 30, Height: 15},
				Action:      LinkAction{URL: "https://github.com", OpenInNewTab: true},
				Title:       "Visit GitHub",
				Description: "Click to open GitHub in new tab",
				CreatedAt:   ts,
			},
			{
				ID:          "hotspot-2",
				PageNumber:  2,
				Position:    Position{X: 40, Y: 25, Width: 35, Height: 20},
				Action:      VideoAction{VideoID: "dQw4w9WgXcQ", Platform: PlatformYouTube},
				Title:       "Watch Video",
				Description: "Click to play video",
				Style: &Style{
					BorderColor:     "rgba(239, 68, 68, 0.5)",
					BackgroundColor: "rgba(239, 68, 68, 0.1)",
					HoverEffect:     "glow",
				},
				CreatedAt: ts,
			},
			{
				ID:         "hotspot-3",
				PageNumber: 3,
				Position:   Position{X: 15, Y: 40, Width: 25, Height: 30},
				Action: ProductAction{
					ProductID:  "prod-123",
					Name:       "Sample Product",
					Price:      &price,
					ProductURL: "https://example.com/product",
				},
				Title:       "Buy Now",
				Description: "Click for product details",
				Style: &Style{
					BorderColor:     "rgba(34, 197, 94, 0.5)",
					BackgroundColor: "rgba(34, 197, 94, 0.1)",
					HoverEffect:     "scale",
				},
				CreatedAt: ts,
			},
			{
				ID:         "hotspot-4",
				PageNumber: 4,
				Position:   Position{X: 50, Y: 50, Width: 30, Height: 20},
				Action: PopupAction{
					Title:   "More Information",
					Content: "This is additional content that appears in a popup modal.",
				},
				Title:       "Learn More",
				Description: "Click for more information",
				Style: &Style{
					BorderColor:     "rgba(168, 85, 247, 0.5)",
					BackgroundColor: "rgba(168, 85, 247, 0.1)",
					HoverEffect:     "highlight",
				},
				CreatedAt: ts,
			},
		},
		DefaultStyle: &Style{
			BorderColor:     "rgba(59, 130, 246, 0.5)",
			BorderWidth:     &width,
			BackgroundColor: "rgba(59, 130, 246, 0.1)",
			Opacity:         &opacity,
			HoverEffect:     "glow",
			Cursor:          "pointer",
		},
		EnableAnalytics: &on,
		ShowIndicators:  &on,
		Version:         CurrentVersion,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
}
