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

package transform

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajjensen13/stockmarket/internal/api"
	"github.com/ajjensen13/stockmarket/internal/db"
	"github.com/ajjensen13/stockmarket/internal/model"
)

// TimestampLayout is yyyy-MM-dd HH:mm:ss.
const TimestampLayout = "2006-01-02 15:04:05"

// IntradayInfo parses a naive feed timestamp, kept in UTC. There is no
// fallback layout.
func IntradayInfo(timestamp string, close decimal.Decimal) (model.IntradayInfo, error) {
	ts, err := time.Parse(TimestampLayout, timestamp)
	if err != nil {
		return model.IntradayInfo{}, fmt.Errorf("failed to parse intraday timestamp %q: %w", timestamp, err)
	}
	return model.IntradayInfo{Timestamp: ts, Close: close}, nil
}

func CompanyInfo(in api.CompanyInfoDto) model.CompanyInfo {
	return model.CompanyInfo{
		Symbol:      in.Symbol,
		Description: in.Description,
		Name:        in.Name,
		Country:     in.Country,
		Industry:    in.Industry,
	}
}

func CompanyListing(in db.CompanyListingEntity) model.CompanyListing {
	return model.CompanyListing{
		Symbol:   in.Symbol,
		Name:     in.Name,
		Exchange: in.Exchange,
	}
}

func CompanyListingEntity(in model.CompanyListing) db.CompanyListingEntity {
	return db.CompanyListingEntity{
		Symbol:   in.Symbol,
		Name:     in.Name,
		Exchange: in.Exchange,
	}
}

func CompanyListings(in []db.CompanyListingEntity) []model.CompanyListing {
	out := make([]model.CompanyListing, len(in))
	for i, e := range in {
		out[i] = CompanyListing(e)
	}
	return out
}

func CompanyListingEntities(in []model.CompanyListing) []db.CompanyListingEntity {
	out := make([]db.CompanyListingEntity, len(in))
	for i, l := range in {
		out[i] = CompanyListingEntity(l)
	}
	return out
}
