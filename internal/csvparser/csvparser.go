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

// Package csvparser turns the CSV payloads of the remote api into domain values.
package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ajjensen13/stockmarket/internal/model"
	"github.com/ajjensen13/stockmarket/internal/transform"
)

// Parser decodes a CSV stream into rows, in stream order.
type Parser[T any] interface {
	Parse(r io.Reader) ([]T, error)
}

// rows reads every record after the header. fn returns ok=false to skip a record.
func rows[T any](r io.Reader, fn func(record []string) (T, bool, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	_, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var ret []T
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return ret, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		v, ok, err := fn(record)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("failed to parse csv record on line %d: %w", line, err)
		}
		if ok {
			ret = append(ret, v)
		}
	}
}

// CompanyListings reads the columns symbol,name,exchange of a listing status
// report. Records without all three columns are skipped.
type CompanyListings struct{}

func (CompanyListings) Parse(r io.Reader) ([]model.CompanyListing, error) {
	return rows(r, func(record []string) (model.CompanyListing, bool, error) {
		if len(record) < 3 {
			return model.CompanyListing{}, false, nil
		}
		return model.CompanyListing{
			Symbol:   record[0],
			Name:     record[1],
			Exchange: record[2],
		}, true, nil
	})
}

// IntradayInfos reads the timestamp (column 0) and close (column 4) of an
// intraday time series. Records that are too short are skipped; a malformed
// timestamp or price fails the parse.
type IntradayInfos struct{}

func (IntradayInfos) Parse(r io.Reader) ([]model.IntradayInfo, error) {
	return rows(r, func(record []string) (model.IntradayInfo, bool, error) {
		if len(record) < 5 {
			return model.IntradayInfo{}, false, nil
		}

		c, err := decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil {
			return model.IntradayInfo{}, false, fmt.Errorf("failed to parse close %q: %w", record[4], err)
		}

		info, err := transform.IntradayInfo(record[0], c)
		if err != nil {
			return model.IntradayInfo{}, false, err
		}
		return info, true, nil
	})
}
