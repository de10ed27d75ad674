package main

import (
	"fmt"
	"os"
	"time"

	"github.com/karolakvido/ics-export/internal/calendar"
	"github.com/karolakvido/ics-export/internal/event"
)

func main() {
	loc, err := event.TimeZone()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timezone: %v\n", err)
		os.Exit(1)
	}

	// Create a sample event
	evt := &event.Event{
		Title:       "Karol a Kvído: Pirátský poklad",
		Start:       time.Date(2026, time.February, 14, 10, 0, 0, 0, loc),
		Location:    "Divadlo U Hasičů, Římská 45, Praha 2",
		Region:      "Praha",
		City:        "Praha",
		Information: "Připravte se na show plnou dobrodružství.",
		DetailURL:   "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/",
	}

	icsContent, err := calendar.Build([]*event.Event{evt})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building calendar: %v\n", err)
		os.Exit(1)
	}

	// Write to file (owner read/write only for security)
	filename := "preview-karolakvido.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
