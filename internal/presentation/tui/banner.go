package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Dreamboard banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`      _                          _                         _ `, "#818cf8"},
		{`   __| |_ __ ___  __ _ _ __ ___ | |__   ___   __ _ _ __ __| |`, "#a78bfa"},
		{`  / _' | '__/ _ \/ _' | '_ ' _ \| '_ \ / _ \ / _' | '__/ _' |`, "#c084fc"},
		{` | (_| | | |  __/ (_| | | | | | | |_) | (_) | (_| | | | (_| |`, "#e879f9"},
		{`  \__,_|_|  \___|\__,_|_| |_| |_|_.__/ \___/ \__,_|_|  \__,_|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
