// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ik5/upmix/stem"
)

// setTable is the discover listing: one row per stem-set and a footer with
// the set count and the total running time.
type setTable struct {
	tw    table.Writer
	sets  int
	total time.Duration
}

func newSetTable() *setTable {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Folder", "Stems", "Sample Rate", "Duration"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Sample Rate", Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Name: "Duration", Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})
	return &setTable{tw: tw}
}

// add opens set to read its rate and length. A set that cannot be opened
// is still listed, with unknown rate and duration.
func (t *setTable) add(set *stem.Set) {
	var present []string
	for _, tr := range set.Tracks() {
		present = append(present, string(tr.Role))
	}
	t.sets++
	rate, length := "?", "?"
	if err := set.Open(); err == nil {
		if r := set.SampleRate(); r > 0 && set.Frames() >= 0 {
			d := time.Duration(float64(set.Frames()) / float64(r) * float64(time.Second))
			t.total += d
			rate, length = strconv.Itoa(r)+" Hz", formatDuration(d)
		}
		set.Close()
	}
	t.tw.AppendRow(table.Row{set.Dir, strings.Join(present, ", "), rate, length})
}

func (t *setTable) String() string {
	t.tw.AppendFooter(table.Row{fmt.Sprintf("%d stem-set(s)", t.sets), "", "", formatDuration(t.total)})
	return t.tw.Render()
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}
