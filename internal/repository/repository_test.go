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

package repository

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajjensen13/stockmarket/internal/api"
	"github.com/ajjensen13/stockmarket/internal/csvparser"
	"github.com/ajjensen13/stockmarket/internal/db"
	"github.com/ajjensen13/stockmarket/internal/model"
	"github.com/ajjensen13/stockmarket/internal/resource"
)

type listings = []model.CompanyListing

var (
	aapl = model.CompanyListing{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ"}
	msft = model.CompanyListing{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"}
	ibm  = model.CompanyListing{Symbol: "IBM", Name: "International Business Machines Corp", Exchange: "NYSE"}
	tsla = model.CompanyListing{Symbol: "TSLA", Name: "Tesla Inc", Exchange: "NASDAQ"}

	errIO   = &api.IOError{Msg: "error while requesting", Err: errors.New("connection refused")}
	errHTTP = &api.HTTPError{Msg: "error while requesting", StatusCode: http.StatusBadGateway}
)

const remoteListingsCSV = `symbol,name,exchange,assetType,ipoDate,delistingDate,status
IBM,International Business Machines Corp,NYSE,Stock,1962-01-02,null,Active
TSLA,Tesla Inc,NASDAQ,Stock,2010-06-29,null,Active
`

type fakeApi struct {
	listings    string
	listingsErr error
	intraday    string
	intradayErr error
	info        api.CompanyInfoDto
	infoErr     error

	listingCalls, intradayCalls, infoCalls int
}

func (f *fakeApi) Listings(context.Context) (io.ReadCloser, error) {
	f.listingCalls++
	if f.listingsErr != nil {
		return nil, f.listingsErr
	}
	return ioutil.NopCloser(strings.NewReader(f.listings)), nil
}

func (f *fakeApi) IntradayInfo(_ context.Context, symbol string) (io.ReadCloser, error) {
	f.intradayCalls++
	if f.intradayErr != nil {
		return nil, f.intradayErr
	}
	return ioutil.NopCloser(strings.NewReader(f.intraday)), nil
}

func (f *fakeApi) CompanyInfo(_ context.Context, symbol string) (api.CompanyInfoDto, error) {
	f.infoCalls++
	return f.info, f.infoErr
}

// clearInsertDao hides ReplaceCompanyListings so the repository falls back to clear then insert.
type clearInsertDao struct {
	db.ListingDao
	cleared int
}

func (c *clearInsertDao) ClearCompanyListings(ctx context.Context) error {
	c.cleared++
	return c.ListingDao.ClearCompanyListings(ctx)
}

type failingDao struct {
	*db.Memory
	err error
}

func (f failingDao) SearchCompanyListing(context.Context, string) ([]db.CompanyListingEntity, error) {
	return nil, f.err
}

func seeded(t *testing.T, ls ...model.CompanyListing) *db.Memory {
	m := db.NewMemory()
	for _, l := range ls {
		require.NoError(t, m.Insert(context.Background(), db.CompanyListingEntity{Symbol: l.Symbol, Name: l.Name, Exchange: l.Exchange}))
	}
	return m
}

func newRepo(a api.StockApi, dao db.ListingDao) *Repository {
	return New(a, dao, csvparser.CompanyListings{}, csvparser.IntradayInfos{})
}

func stored(t *testing.T, dao db.ListingDao) listings {
	rows, err := dao.SearchCompanyListing(context.Background(), "")
	require.NoError(t, err)
	var ret listings
	for _, r := range rows {
		ret = append(ret, model.CompanyListing{Symbol: r.Symbol, Name: r.Name, Exchange: r.Exchange})
	}
	return ret
}

func TestCompanyListingsFromCache(t *testing.T) {
	a := &fakeApi{listings: remoteListingsCSV}
	repo := newRepo(a, seeded(t, aapl, msft))

	got, err := repo.CompanyListings(context.Background(), false, "AAPL").Collect()
	require.NoError(t, err)

	assert.Equal(t, []resource.Resource[listings]{
		resource.Loading[listings](true),
		resource.Success(listings{aapl}),
		resource.Loading[listings](false),
	}, got)
	assert.Equal(t, 0, a.listingCalls)
}

func TestCompanyListingsFromCacheAllRows(t *testing.T) {
	a := &fakeApi{listings: remoteListingsCSV}
	repo := newRepo(a, seeded(t, aapl, msft))

	got, err := repo.CompanyListings(context.Background(), false, "").Collect()
	require.NoError(t, err)

	assert.Equal(t, []resource.Resource[listings]{
		resource.Loading[listings](true),
		resource.Success(listings{aapl, msft}),
		resource.Loading[listings](false),
	}, got)
	assert.Equal(t, 0, a.listingCalls)
}

func TestCompanyListingsNoMatchDoesNotFetch(t *testing.T) {
	a := &fakeApi{listings: remoteListingsCSV}
	repo := newRepo(a, db.NewMemory())

	got, err := repo.CompanyListings(context.Background(), false, "zzz").Collect()
	require.NoError(t, err)

	assert.Equal(t, []resource.Resource[listings]{
		resource.Loading[listings](true),
		resource.Success(listings{}),
		resource.Loading[listings](false),
	}, got)
	assert.Equal(t, 0, a.listingCalls)
}

func TestCompanyListingsEmptyCacheFetches(t *testing.T) {
	for _, query := range []string{"", "   "} {
		a := &fakeApi{listings: remoteListingsCSV}
		dao := db.NewMemory()
		repo := newRepo(a, dao)

		got, err := repo.CompanyListings(context.Background(), false, query).Collect()
		require.NoError(t, err)

		assert.Equal(t, []resource.Resource[listings]{
			resource.Loading[listings](true),
			resource.Success(listings{}),
			resource.Success(listings{ibm, tsla}),
			resource.Loading[listings](false),
		}, got)
		assert.Equal(t, 1, a.listingCalls)
		assert.Equal(t, listings{ibm, tsla}, stored(t, dao))
	}
}

func TestCompanyListingsRefreshReplacesCache(t *testing.T) {
	a := &fakeApi{listings: remoteListingsCSV}
	dao := seeded(t, aapl, msft)
	repo := newRepo(a, dao)

	got, err := repo.CompanyListings(context.Background(), true, "AAPL").Collect()
	require.NoError(t, err)

	assert.Equal(t, []resource.Resource[listings]{
		resource.Loading[listings](true),
		resource.Success(listings{aapl}),
		resource.Success(listings{ibm, tsla}),
		resource.Loading[listings](false),
	}, got)
	assert.Equal(t, 1, a.listingCalls)
	assert.Equal(t, listings{ibm, tsla}, stored(t, dao))
}

func TestCompanyListingsRefreshWithClearThenInsert(t *testing.T) {
	a := &fakeApi{listings: remoteListingsCSV}
	dao := &clearInsertDao{ListingDao: seeded(t, aapl, msft)}
	repo := newRepo(a, dao)

	got, err := repo.CompanyListings(context.Background(), true, "").Collect()
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, resource.Success(listings{ibm, tsla}), got[2])
	assert.Equal(t, 1, dao.cleared)
	assert.Equal(t, listings{ibm, tsla}, stored(t, dao))
}

func TestCompanyListingsRefreshFailure(t *testing.T) {
	for name, a := range map[string]*fakeApi{
		"io":    {listingsErr: errIO},
		"http":  {listingsErr: errHTTP},
		"parse": {listings: "symbol,name,exchange\nAA,\"Alcoa,NYSE\n"},
	} {
		t.Run(name, func(t *testing.T) {
			dao := seeded(t, aapl, msft)
			repo := newRepo(a, dao)

			got, err := repo.CompanyListings(context.Background(), true, "").Collect()
			require.NoError(t, err)

			assert.Equal(t, []resource.Resource[listings]{
				resource.Loading[listings](true),
				resource.Success(listings{aapl, msft}),
				resource.Error[listings]("Couldn't load data"),
			}, got)
			assert.Equal(t, 1, a.listingCalls)
			assert.Equal(t, listings{aapl, msft}, stored(t, dao))
		})
	}
}

func TestCompanyListingsStoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	a := &fakeApi{listings: remoteListingsCSV}
	repo := newRepo(a, failingDao{Memory: db.NewMemory(), err: boom})

	got, err := repo.CompanyListings(context.Background(), true, "").Collect()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []resource.Resource[listings]{resource.Loading[listings](true)}, got)
	assert.Equal(t, 0, a.listingCalls)
}

func TestCompanyListingsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &fakeApi{listings: remoteListingsCSV}
	flow := newRepo(a, seeded(t, aapl)).CompanyListings(ctx, true, "")

	first := <-flow.C()
	assert.Equal(t, resource.Loading[listings](true), first)
	cancel()

	select {
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not stop after cancellation")
	case <-flowDone(flow):
	}
	assert.ErrorIs(t, flow.Err(), context.Canceled)
}

func flowDone(f *resource.Flow[listings]) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_ = f.Err()
		close(done)
	}()
	return done
}

const intradayCSV = `timestamp,open,high,low,close,volume
2021-11-05 20:00:00,151.2800,151.3500,151.2000,151.3000,25836
2021-11-05 19:00:00,151.2600,151.3200,151.2300,151.2800,41093
`

func TestIntradayInfo(t *testing.T) {
	a := &fakeApi{intraday: intradayCSV}

	got := newRepo(a, db.NewMemory()).IntradayInfo(context.Background(), "AAPL")
	require.Equal(t, resource.KindSuccess, got.Kind)
	require.Len(t, got.Data, 2)
	assert.True(t, got.Data[0].Timestamp.Equal(time.Date(2021, time.November, 5, 20, 0, 0, 0, time.UTC)))
	assert.True(t, got.Data[1].Close.Equal(decimal.RequireFromString("151.28")))
}

func TestIntradayInfoFailures(t *testing.T) {
	tests := map[string]struct {
		api  *fakeApi
		want string
	}{
		"io":    {api: &fakeApi{intradayErr: errIO}, want: "Couldn't load intraday info IO-ex"},
		"http":  {api: &fakeApi{intradayErr: errHTTP}, want: "Couldn't load intraday info HTTP-ex"},
		"parse": {api: &fakeApi{intraday: "timestamp,open,high,low,close\nyesterday,1,1,1,1\n"}, want: "Couldn't load intraday info IO-ex"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := newRepo(tt.api, db.NewMemory()).IntradayInfo(context.Background(), "AAPL")
			assert.Equal(t, resource.Error[[]model.IntradayInfo](tt.want), got)
		})
	}
}

func TestCompanyInfo(t *testing.T) {
	a := &fakeApi{info: api.CompanyInfoDto{Symbol: "IBM", Name: "IBM", Description: "d", Country: "USA", Industry: "Tech"}}

	got := newRepo(a, db.NewMemory()).CompanyInfo(context.Background(), "IBM")
	assert.Equal(t, resource.Success(model.CompanyInfo{Symbol: "IBM", Name: "IBM", Description: "d", Country: "USA", Industry: "Tech"}), got)
	assert.Equal(t, 1, a.infoCalls)
}

func TestCompanyInfoFailures(t *testing.T) {
	ioRes := newRepo(&fakeApi{infoErr: errIO}, db.NewMemory()).CompanyInfo(context.Background(), "IBM")
	httpRes := newRepo(&fakeApi{infoErr: errHTTP}, db.NewMemory()).CompanyInfo(context.Background(), "IBM")

	assert.Equal(t, resource.Error[model.CompanyInfo]("Couldn't load company info IO-ex"), ioRes)
	assert.Equal(t, resource.Error[model.CompanyInfo]("Couldn't load company info HTTP-ex"), httpRes)
	assert.NotEqual(t, ioRes.Message, httpRes.Message)
}
