/*
Copyright © 2020 A. Jensen <jensen.aaro@gmail.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajjensen13/stockmarket/internal/util"
)

var listingsFlags struct {
	refresh bool
	query   string
}

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "List company listings from the cache, refreshing it when needed",
	Run: func(cmd *cobra.Command, args []string) {
		lg, cleanup := logger()
		defer cleanup()

		ctx := util.WithLogger(cmd.Context(), lg)
		repo, cleanup, err := stockRepository(ctx, lg)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to setup stock repository: %w", err)))
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		flow := repo.CompanyListings(ctx, listingsFlags.refresh, listingsFlags.query)
		for r := range flow.C() {
			printResource(out, r, printListings)
		}

		err = flow.Err()
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to load company listings: %w", err)))
		}
	},
}

func init() {
	listingsCmd.Flags().BoolVarP(&listingsFlags.refresh, "refresh", "r", false, "refresh the cache from the remote api")
	listingsCmd.Flags().StringVarP(&listingsFlags.query, "query", "q", "", "only show listings whose name contains or whose symbol equals the query")
	rootCmd.AddCommand(listingsCmd)
}
