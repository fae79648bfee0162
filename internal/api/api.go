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
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://www.alphavantage.co"

type CompanyInfoDto struct {
	Symbol      string `json:"Symbol"`
	Description string `json:"Description"`
	Name        string `json:"Name"`
	Country     string `json:"Country"`
	Industry    string `json:"Industry"`
}

type CompanyInfoSource interface {
	CompanyInfo(ctx context.Context, symbol string) (CompanyInfoDto, error)
}

// StockApi is the remote side of the repository. The listing and intraday
// endpoints hand back raw CSV; the caller closes the body.
type StockApi interface {
	CompanyInfoSource
	Listings(ctx context.Context) (io.ReadCloser, error)
	IntradayInfo(ctx context.Context, symbol string) (io.ReadCloser, error)
}

type withCompanyInfo struct {
	StockApi
	src CompanyInfoSource
}

func (w withCompanyInfo) CompanyInfo(ctx context.Context, symbol string) (CompanyInfoDto, error) {
	return w.src.CompanyInfo(ctx, symbol)
}

// WithCompanyInfo answers company info queries from src and everything else from base.
func WithCompanyInfo(base StockApi, src CompanyInfoSource) StockApi {
	return withCompanyInfo{StockApi: base, src: src}
}

type AlphaVantage struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewAlphaVantage(client *http.Client, baseURL, apiKey string) *AlphaVantage {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AlphaVantage{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

func (a *AlphaVantage) Listings(ctx context.Context) (io.ReadCloser, error) {
	return a.csv(ctx, "error while requesting listings", url.Values{
		"function": {"LISTING_STATUS"},
	})
}

func (a *AlphaVantage) IntradayInfo(ctx context.Context, symbol string) (io.ReadCloser, error) {
	return a.csv(ctx, fmt.Sprintf("error while requesting intraday info %q", symbol), url.Values{
		"function": {"TIME_SERIES_INTRADAY"},
		"symbol":   {symbol},
		"interval": {"60min"},
		"datatype": {"csv"},
	})
}

type overviewResponse struct {
	CompanyInfoDto
	notice
}

func (a *AlphaVantage) CompanyInfo(ctx context.Context, symbol string) (CompanyInfoDto, error) {
	msg := fmt.Sprintf("error while requesting company info %q", symbol)
	resp, err := a.get(ctx, msg, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {symbol},
	})
	if err != nil {
		return CompanyInfoDto{}, err
	}
	defer resp.Body.Close()

	var result overviewResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return CompanyInfoDto{}, &IOError{Msg: msg, Err: fmt.Errorf("failed to decode company info: %w", err)}
	}
	if err := result.notice.err(msg, resp.StatusCode); err != nil {
		return CompanyInfoDto{}, err
	}

	return result.CompanyInfoDto, nil
}

func (a *AlphaVantage) get(ctx context.Context, msg string, query url.Values) (*http.Response, error) {
	query.Set("apikey", a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/query?"+query.Encode(), nil)
	if err != nil {
		return nil, &IOError{Msg: msg, Err: err}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &IOError{Msg: msg, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErr(msg, resp)
	}
	return resp, nil
}

// csv issues the request and checks that a CSV body came back. Alpha Vantage
// answers rate limited or invalid requests with 200 and a small JSON object.
func (a *AlphaVantage) csv(ctx context.Context, msg string, query url.Values) (io.ReadCloser, error) {
	resp, err := a.get(ctx, msg, query)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(resp.Body)
	peek, err := br.Peek(1)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		resp.Body.Close()
		return nil, &IOError{Msg: msg, Err: err}
	case peek[0] == '{':
		defer resp.Body.Close()
		var n notice
		err := json.NewDecoder(br).Decode(&n)
		if err != nil {
			return nil, &IOError{Msg: msg, Err: fmt.Errorf("failed to decode api notice: %w", err)}
		}
		if err := n.err(msg, resp.StatusCode); err != nil {
			return nil, err
		}
		return nil, &HTTPError{Msg: msg, StatusCode: resp.StatusCode, Body: "unexpected json response", Err: ErrUnexpectedResponse}
	}

	return readCloser{Reader: br, Closer: resp.Body}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

type notice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (n notice) err(msg string, statusCode int) error {
	switch {
	case n.ErrorMessage != "":
		return &HTTPError{Msg: msg, StatusCode: statusCode, Body: n.ErrorMessage, Err: ErrUnexpectedResponse}
	case n.Note != "":
		return &HTTPError{Msg: msg, StatusCode: statusCode, Body: n.Note, Err: ErrToManyRequests}
	case n.Information != "":
		return &HTTPError{Msg: msg, StatusCode: statusCode, Body: n.Information, Err: ErrToManyRequests}
	default:
		return nil
	}
}

var (
	ErrToManyRequests     = errors.New("error: too many requests")
	ErrUnexpectedResponse = errors.New("error: unexpected response")
)

// HTTPError is a failure reported by the remote service itself.
type HTTPError struct {
	Msg        string
	StatusCode int
	Body       string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", e.Msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: http %d (%s)", e.Msg, e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IOError is a failure to reach the remote service or to read its answer.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsHTTP reports whether err was reported by the remote service. Every other
// failure of this package is an IOError.
func IsHTTP(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

func handleErr(msg string, resp *http.Response) error {
	result := &HTTPError{Msg: msg, StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusTooManyRequests {
		result.Err = ErrToManyRequests
	}
	if resp.Body == nil {
		return result
	}

	defer resp.Body.Close()
	body, readErr := ioutil.ReadAll(io.LimitReader(resp.Body, 4096))
	if readErr != nil {
		result.Body = fmt.Sprintf("error while parsing error response: %v", readErr)
		return result
	}
	result.Body = strings.TrimSpace(string(body))
	return result
}
