package app

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"wprefix/internal/switcher"
)

// EntryView is one row as the frontend renders it
type EntryView struct {
	Label    string `json:"label"`
	Title    string `json:"title"`
	HasTitle bool   `json:"hasTitle"`
	Window   string `json:"window"`
	Icon     string `json:"icon"` // PNG data URL, empty when unavailable
}

// ListView is the switcher state sent to the frontend
type ListView struct {
	Filter  string      `json:"filter"`
	Message string      `json:"message"`
	Entries []EntryView `json:"entries"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
}

func newListView(v switcher.View) ListView {
	view := ListView{
		Filter:  v.Filter,
		Message: v.Message,
		Entries: make([]EntryView, 0, len(v.Rows)),
		Width:   v.Size.X,
		Height:  v.Size.Y,
	}
	for _, row := range v.Rows {
		view.Entries = append(view.Entries, EntryView{
			Label:    row.Label,
			Title:    row.Title,
			HasTitle: row.HasTitle,
			Window:   row.Window.String(),
			Icon:     iconDataURL(row.Icon),
		})
	}
	return view
}

func iconDataURL(img *image.NRGBA) string {
	if img == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
