package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner prints the startup banner.
func PrintBanner() {
	p := termenv.ColorProfile()

	s1 := termenv.String("  _     _          _                   ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" | |__ (_)_ __ ___| | ___   ___  _ __  ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | '_ \\| | '__/ _ \\ |/ _ \\ / _ \\| '_ \\ ").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | | | | | | |  __/ | (_) | (_) | |_) |").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |_| |_|_|_|  \\___|_|\\___/ \\___/| .__/ ").Foreground(p.Color("#f472b6"))
	s6 := termenv.String("                                |_|    ").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
