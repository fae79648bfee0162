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
	"fmt"
	"strings"

	"cloud.google.com/go/logging"

	"github.com/ajjensen13/stockmarket/internal/api"
	"github.com/ajjensen13/stockmarket/internal/csvparser"
	"github.com/ajjensen13/stockmarket/internal/db"
	"github.com/ajjensen13/stockmarket/internal/model"
	"github.com/ajjensen13/stockmarket/internal/resource"
	"github.com/ajjensen13/stockmarket/internal/transform"
	"github.com/ajjensen13/stockmarket/internal/util"
)

const (
	msgListings        = "Couldn't load data"
	msgIntradayIO      = "Couldn't load intraday info IO-ex"
	msgIntradayHTTP    = "Couldn't load intraday info HTTP-ex"
	msgCompanyInfoIO   = "Couldn't load company info IO-ex"
	msgCompanyInfoHTTP = "Couldn't load company info HTTP-ex"
)

type StockRepository interface {
	CompanyListings(ctx context.Context, fetchFromRemote bool, query string) *resource.Flow[[]model.CompanyListing]
	IntradayInfo(ctx context.Context, symbol string) resource.Resource[[]model.IntradayInfo]
	CompanyInfo(ctx context.Context, symbol string) resource.Resource[model.CompanyInfo]
}

type Repository struct {
	api            api.StockApi
	dao            db.ListingDao
	listingsParser csvparser.Parser[model.CompanyListing]
	intradayParser csvparser.Parser[model.IntradayInfo]
}

func New(client api.StockApi, dao db.ListingDao, listingsParser csvparser.Parser[model.CompanyListing], intradayParser csvparser.Parser[model.IntradayInfo]) *Repository {
	return &Repository{
		api:            client,
		dao:            dao,
		listingsParser: listingsParser,
		intradayParser: intradayParser,
	}
}

// CompanyListings serves the cached listings matching query and then, if the
// cache is empty or fetchFromRemote is set, refreshes the whole cache from the
// remote api. A failed refresh ends the stream with an Error and no
// Loading(false). Store failures abort the stream and are reported by Err.
func (r *Repository) CompanyListings(ctx context.Context, fetchFromRemote bool, query string) *resource.Flow[[]model.CompanyListing] {
	ctx = util.WithLoggerValue(ctx, "action", "company_listings")
	return resource.Emit(ctx, func(ctx context.Context, emit resource.Emitter[[]model.CompanyListing]) error {
		err := emit(resource.Loading[[]model.CompanyListing](true))
		if err != nil {
			return err
		}

		local, err := r.dao.SearchCompanyListing(ctx, query)
		if err != nil {
			return err
		}

		err = emit(resource.Success(transform.CompanyListings(local)))
		if err != nil {
			return err
		}

		isDbEmpty := len(local) == 0 && strings.TrimSpace(query) == ""
		if !isDbEmpty && !fetchFromRemote {
			return emit(resource.Loading[[]model.CompanyListing](false))
		}

		remote, err := r.fetchCompanyListings(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			util.Logf(ctx, logging.Warning, "failed to refresh company listings: %v", err)
			return emit(resource.Error[[]model.CompanyListing](msgListings))
		}

		err = r.replaceCompanyListings(ctx, transform.CompanyListingEntities(remote))
		if err != nil {
			return err
		}
		util.Logf(ctx, logging.Debug, "refreshed %d company listings", len(remote))

		refreshed, err := r.dao.SearchCompanyListing(ctx, "")
		if err != nil {
			return err
		}

		err = emit(resource.Success(transform.CompanyListings(refreshed)))
		if err != nil {
			return err
		}
		return emit(resource.Loading[[]model.CompanyListing](false))
	})
}

func (r *Repository) fetchCompanyListings(ctx context.Context) ([]model.CompanyListing, error) {
	body, err := r.api.Listings(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	listings, err := r.listingsParser.Parse(body)
	if err != nil {
		return nil, &api.IOError{Msg: "error while parsing listings", Err: err}
	}
	return listings, nil
}

func (r *Repository) replaceCompanyListings(ctx context.Context, entities []db.CompanyListingEntity) error {
	if replacer, ok := r.dao.(db.ListingReplacer); ok {
		return replacer.ReplaceCompanyListings(ctx, entities)
	}

	err := r.dao.ClearCompanyListings(ctx)
	if err != nil {
		return err
	}
	return r.dao.InsertList(ctx, entities)
}

func (r *Repository) IntradayInfo(ctx context.Context, symbol string) resource.Resource[[]model.IntradayInfo] {
	ctx = util.WithLoggerValue(ctx, "symbol", symbol)

	infos, err := r.fetchIntradayInfo(ctx, symbol)
	if err != nil {
		util.Logf(ctx, logging.Warning, "failed to load intraday info: %v", err)
		if api.IsHTTP(err) {
			return resource.Error[[]model.IntradayInfo](msgIntradayHTTP)
		}
		return resource.Error[[]model.IntradayInfo](msgIntradayIO)
	}
	return resource.Success(infos)
}

func (r *Repository) fetchIntradayInfo(ctx context.Context, symbol string) ([]model.IntradayInfo, error) {
	body, err := r.api.IntradayInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	infos, err := r.intradayParser.Parse(body)
	if err != nil {
		return nil, &api.IOError{Msg: fmt.Sprintf("error while parsing intraday info %q", symbol), Err: err}
	}
	return infos, nil
}

func (r *Repository) CompanyInfo(ctx context.Context, symbol string) resource.Resource[model.CompanyInfo] {
	ctx = util.WithLoggerValue(ctx, "symbol", symbol)

	dto, err := r.api.CompanyInfo(ctx, symbol)
	if err != nil {
		util.Logf(ctx, logging.Warning, "failed to load company info: %v", err)
		if api.IsHTTP(err) {
			return resource.Error[model.CompanyInfo](msgCompanyInfoHTTP)
		}
		return resource.Error[model.CompanyInfo](msgCompanyInfoIO)
	}
	return resource.Success(transform.CompanyInfo(dto))
}

var _ StockRepository = (*Repository)(nil)
