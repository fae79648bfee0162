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

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Finnhub-Stock-API/finnhub-go"
	"github.com/antihax/optional"
)

// Finnhub serves company info from finnhub company profiles. Profiles carry
// no description.
type Finnhub struct {
	client *finnhub.DefaultApiService
	apiKey string
}

func NewFinnhub(client *finnhub.DefaultApiService, apiKey string) *Finnhub {
	return &Finnhub{client: client, apiKey: apiKey}
}

func (f *Finnhub) CompanyInfo(ctx context.Context, symbol string) (CompanyInfoDto, error) {
	ctx = context.WithValue(ctx, finnhub.ContextAPIKey, finnhub.APIKey{Key: f.apiKey})

	profile, httpResp, err := f.client.CompanyProfile2(ctx, &finnhub.CompanyProfile2Opts{Symbol: optional.NewString(symbol)})
	if err != nil {
		return CompanyInfoDto{}, handleFinnhubErr(fmt.Sprintf("error while getting company profile %q", symbol), httpResp, err)
	}

	result := CompanyInfoDto{
		Symbol:   profile.Ticker,
		Name:     profile.Name,
		Country:  profile.Country,
		Industry: profile.FinnhubIndustry,
	}
	if result.Symbol == "" {
		result.Symbol = symbol
	}
	return result, nil
}

func handleFinnhubErr(msg string, resp *http.Response, err error) error {
	switch {
	case resp == nil:
		return &IOError{Msg: msg, Err: err}
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return &IOError{Msg: msg, Err: err}
	}

	result := &HTTPError{Msg: msg, StatusCode: resp.StatusCode, Err: err}
	if resp.StatusCode == http.StatusTooManyRequests {
		result.Err = fmt.Errorf("%v: %w", err, ErrToManyRequests)
	}

	var apiErr finnhub.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		result.Body = string(apiErr.Body())
	}
	return result
}
