package tui

import (
	"fmt"
	"io"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"                 _   _                   _             ", "#818cf8"},
	{"  _ __ ___   ___ | |_(_) ___  _ __  _ __ | | __ _ _ __  ", "#a78bfa"},
	{" | '_ ` _ \\ / _ \\| __| |/ _ \\| '_ \\| '_ \\| |/ _` | '_ \\ ", "#c084fc"},
	{" | | | | | | (_) | |_| | (_) | | | | |_) | | (_| | | | |", "#e879f9"},
	{" |_| |_| |_|\\___/ \\__|_|\\___/|_| |_| .__/|_|\\__,_|_| |_|", "#f472b6"},
	{"                                   |_|                  ", "#fb7185"},
}

// PrintBanner writes the motionplan banner to w, colored when w is a terminal.
func PrintBanner(w io.Writer) {
	p := profileFor(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
