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
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajjensen13/stockmarket/internal/model"
	"github.com/ajjensen13/stockmarket/internal/resource"
	"github.com/ajjensen13/stockmarket/internal/util"
)

var intradayCmd = &cobra.Command{
	Use:   "intraday SYMBOL",
	Short: "Show the intraday closing prices of a symbol",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lg, cleanup := logger()
		defer cleanup()

		ctx := util.WithLogger(cmd.Context(), lg)
		repo, cleanup, err := stockRepository(ctx, lg)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to setup stock repository: %w", err)))
		}
		defer cleanup()

		printResource(cmd.OutOrStdout(), repo.IntradayInfo(ctx, strings.ToUpper(args[0])), printIntradayInfo)
	},
}

var companyCmd = &cobra.Command{
	Use:   "company SYMBOL",
	Short: "Show the company info of a symbol",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lg, cleanup := logger()
		defer cleanup()

		ctx := util.WithLogger(cmd.Context(), lg)
		repo, cleanup, err := stockRepository(ctx, lg)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to setup stock repository: %w", err)))
		}
		defer cleanup()

		printResource(cmd.OutOrStdout(), repo.CompanyInfo(ctx, strings.ToUpper(args[0])), printCompanyInfo)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info SYMBOL",
	Short: "Show company info and intraday prices of a symbol, fetched concurrently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lg, cleanup := logger()
		defer cleanup()

		ctx := util.WithLogger(cmd.Context(), lg)
		repo, cleanup, err := stockRepository(ctx, lg)
		if err != nil {
			panic(lg.ErrorErr(fmt.Errorf("failed to setup stock repository: %w", err)))
		}
		defer cleanup()

		symbol := strings.ToUpper(args[0])

		var info resource.Resource[model.CompanyInfo]
		var intraday resource.Resource[[]model.IntradayInfo]

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			info = repo.CompanyInfo(ctx, symbol)
			return nil
		})
		g.Go(func() error {
			intraday = repo.IntradayInfo(ctx, symbol)
			return nil
		})
		_ = g.Wait()

		out := cmd.OutOrStdout()
		printResource(out, info, printCompanyInfo)
		fmt.Fprintln(out)
		printResource(out, intraday, printIntradayInfo)
	},
}

func init() {
	rootCmd.AddCommand(intradayCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(infoCmd)
}
