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
	"io"
	"text/tabwriter"

	"github.com/ajjensen13/stockmarket/internal/model"
	"github.com/ajjensen13/stockmarket/internal/resource"
	"github.com/ajjensen13/stockmarket/internal/transform"
)

func printResource[T any](w io.Writer, r resource.Resource[T], printData func(io.Writer, T)) {
	switch r.Kind {
	case resource.KindLoading:
		fmt.Fprintf(w, "loading: %t\n", r.IsLoading)
	case resource.KindSuccess:
		printData(w, r.Data)
	case resource.KindError:
		fmt.Fprintf(w, "error: %s\n", r.Message)
		if r.HasData {
			printData(w, r.Data)
		}
	default:
		panic(fmt.Sprintf("unexpected resource kind %v", r.Kind))
	}
}

func printListings(w io.Writer, ls []model.CompanyListing) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SYMBOL\tNAME\tEXCHANGE\n")
	for _, l := range ls {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Symbol, l.Name, l.Exchange)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d listings\n", len(ls))
}

func printIntradayInfo(w io.Writer, infos []model.IntradayInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TIMESTAMP\tCLOSE\n")
	for _, i := range infos {
		fmt.Fprintf(tw, "%s\t%s\n", i.Timestamp.Format(transform.TimestampLayout), i.Close)
	}
	_ = tw.Flush()
}

func printCompanyInfo(w io.Writer, info model.CompanyInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Symbol\t%s\n", info.Symbol)
	fmt.Fprintf(tw, "Name\t%s\n", info.Name)
	fmt.Fprintf(tw, "Country\t%s\n", info.Country)
	fmt.Fprintf(tw, "Industry\t%s\n", info.Industry)
	_ = tw.Flush()
	if info.Description != "" {
		fmt.Fprintf(w, "\n%s\n", info.Description)
	}
}
