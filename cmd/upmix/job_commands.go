// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/upmix/stem"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render <folder>",
		Short: "Render every stem-set under a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, view, err := ctx.upmixer(cmd)
			if err != nil {
				return err
			}
			return exclusive(func() error {
				started := time.Now()
				jobs, err := u.RenderFolder(strings.TrimSpace(args[0]))
				view.finish()

				out := cmd.OutOrStdout()
				for _, job := range jobs {
					fmt.Fprintf(out, "[%d/%d] %s\n", job.Index+1, job.Total, filepath.Join(job.Set.Dir, stem.RenderName))
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rendered %d stem-set(s) in %s\n", len(jobs), time.Since(started).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func newSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "split <file>",
		Short: "Split a long recording into overlapping segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, view, err := ctx.upmixer(cmd)
			if err != nil {
				return err
			}
			return exclusive(func() error {
				paths, err := u.SplitFile(strings.TrimSpace(args[0]))
				view.finish()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, p := range paths {
					fmt.Fprintln(out, p)
				}
				return nil
			})
		},
	}
}

func newRecombineCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recombine <first-segment-folder>",
		Short: "Join processed segments back into one render",
		Long: "Joins <name>.0/render.wav, <name>.1/render.wav, ... with a linear crossfade\n" +
			"over the overlap and writes render.wav next to the segment folders.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, view, err := ctx.upmixer(cmd)
			if err != nil {
				return err
			}
			return exclusive(func() error {
				path, err := u.RecombineFolder(strings.TrimSpace(args[0]))
				view.finish()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}
}
