// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errNothingToList = errors.New("no stem-sets found")

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discover <folder>",
		Short: "List the stem-sets a render would process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, _, err := ctx.upmixer(cmd)
			if err != nil {
				return err
			}
			sets, err := u.Discover(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if len(sets) == 0 {
				return fmt.Errorf("%w in %s", errNothingToList, args[0])
			}

			tbl := newSetTable()
			for _, set := range sets {
				tbl.add(set)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}
