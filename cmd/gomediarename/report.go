package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	oldNameWidth = 75
	newNameWidth = 30
)

var changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

// printPlan writes the old → new table, highlighting rows whose name changes.
func printPlan(out io.Writer, files []FileInfo) {
	fmt.Fprintln(out, "The following table shows all files, name changes are highlighted:")
	fmt.Fprintf(out, "%-*s | %-*s\n", oldNameWidth, "Old filename", newNameWidth, "New filename")
	fmt.Fprintln(out, strings.Repeat("-", oldNameWidth+newNameWidth+3))

	for _, f := range files {
		oldCol := fmt.Sprintf("%-*s", oldNameWidth, f.SourceName)
		newCol := fmt.Sprintf("%-*s", newNameWidth, f.DestName)
		if f.SourceName != f.DestName {
			oldCol = changedStyle.Render(oldCol)
			newCol = changedStyle.Render(newCol)
		}
		fmt.Fprintf(out, "%s | %s\n", oldCol, newCol)
	}
}

func printSummary(out io.Writer, stats renameStats, mode string) {
	fmt.Fprintln(out, "\nAll image and video files processed!")
	fmt.Fprintf(out, "%d entries processed: %d successful renamings, %d kept their name, %d failures while copying/renaming, %d not processed\n",
		stats.Total, stats.Renamed, stats.Unchanged, stats.Failed, stats.NotProcessed())
	if mode == modeCopy {
		fmt.Fprintf(out, "Copied %s\n", humanize.Bytes(uint64(stats.BytesCopied)))
	}
}
