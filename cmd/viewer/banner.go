package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

const bannerWidth = 46

// displayWidth counts terminal columns: wide and fullwidth runes take two.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// pad centres s in a field of w columns.
func pad(s string, w int) string {
	gap := w - displayWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

func printBanner(out io.Writer, name, version string) {
	inner := bannerWidth - 3
	fmt.Fprintln(out)
	fmt.Fprintf(out, "\033[36;1m  ┌%s┐\033[0m\n", strings.Repeat("─", inner))
	fmt.Fprintf(out, "\033[36;1m  │\033[0m%s\033[36;1m│\033[0m\n", pad(name, inner))
	fmt.Fprintf(out, "\033[36;1m  │\033[0m%s\033[36;1m│\033[0m\n", pad("version "+version, inner))
	fmt.Fprintf(out, "\033[36;1m  └%s┘\033[0m\n", strings.Repeat("─", inner))
	fmt.Fprintln(out)
}

func printSection(out io.Writer, title string) {
	lineLen := bannerWidth - displayWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Fprintf(out, "  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(out io.Writer, label string, n int) {
	num := strconv.Itoa(n)
	dotsLen := bannerWidth + 12 - displayWidth(label) - len(num)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Fprintf(out, "  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), num)
}

func printReady(out io.Writer, msg string) {
	fmt.Fprintf(out, "  \033[32m▶\033[0m %s\n", msg)
}
