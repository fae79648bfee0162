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
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Finnhub-Stock-API/finnhub-go"
	"github.com/ajjensen13/config"
	"github.com/ajjensen13/gke"
	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ajjensen13/stockmarket/internal/api"
	"github.com/ajjensen13/stockmarket/internal/csvparser"
	"github.com/ajjensen13/stockmarket/internal/db"
	"github.com/ajjensen13/stockmarket/internal/model"
)

const (
	dbSecretName  = "stockmarket-db-secret.json"
	appConfigName = "stockmarket-config-cm.json"
	apiSecretName = "stockmarket-api-secret.json"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"

	providerAlphaVantage = "alphavantage"
	providerFinnhub      = "finnhub"
)

type appConfig struct {
	ApiBaseURL            string `json:"api_base_url"`
	FinnhubBaseURL        string `json:"finnhub_base_url"`
	CompanyInfoProvider   string `json:"company_info_provider"`
	Store                 string `json:"store"`
	DataSourceName        string `json:"data_source_name"`
	MigrationSourceURL    string `json:"migration_source_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
}

type appSecrets struct {
	AlphaVantageApiKey string `json:"alpha_vantage_api_key"`
	FinnhubApiKey      string `json:"finnhub_api_key"`
}

func provideAppConfig() (*appConfig, error) {
	var result appConfig
	err := config.InterfaceJson(appConfigName, &result)
	if err != nil {
		return nil, err
	}

	if result.ApiBaseURL == "" {
		result.ApiBaseURL = api.DefaultBaseURL
	}
	if result.CompanyInfoProvider == "" {
		result.CompanyInfoProvider = providerAlphaVantage
	}
	if result.Store == "" {
		result.Store = storePostgres
	}
	if result.DataSourceName == "" {
		result.DataSourceName = "postgres://localhost:5432/stockdb?sslmode=disable"
	}
	if result.MigrationSourceURL == "" {
		result.MigrationSourceURL = "file://migrations"
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = 30
	}

	return &result, nil
}

func provideAppSecrets() (*appSecrets, error) {
	var result appSecrets
	err := config.InterfaceJson(apiSecretName, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func provideDbSecrets() (*url.Userinfo, error) {
	ui, err := config.Userinfo(dbSecretName)
	if err != nil {
		return nil, err
	}
	return ui, nil
}

func provideDataSourceName(user *url.Userinfo, cfg *appConfig) (dsn *url.URL, err error) {
	dsn, err = url.Parse(cfg.DataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data source name: %w", err)
	}
	dsn.User = user

	return dsn, nil
}

func provideBackoff() backoff.BackOff {
	result := backoff.NewExponentialBackOff()
	result.InitialInterval = time.Second
	result.MaxElapsedTime = time.Minute
	return result
}

func provideBackoffNotifier(lg gke.Logger) backoff.Notify {
	return func(err error, duration time.Duration) {
		lg.Warningf("database connection failed, waiting %v before retrying: %v", duration, err)
	}
}

func provideDbConnPool(ctx context.Context, dsn *url.URL, bo backoff.BackOff, bon backoff.Notify) (*pgxpool.Pool, func(), error) {
	var pool *pgxpool.Pool
	err := backoff.RetryNotify(func() error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		p, err := pgxpool.Connect(ctx, dsn.String())
		if err != nil {
			return err
		}

		err = p.Ping(ctx)
		if err != nil {
			p.Close()
			return err
		}

		pool = p
		return nil
	}, backoff.WithContext(bo, ctx), bon)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open database connection pool: %w", err)
	}

	return pool, pool.Close, nil
}

func provideListingDao(ctx context.Context, cfg *appConfig, bo backoff.BackOff, bon backoff.Notify) (db.ListingDao, func(), error) {
	switch cfg.Store {
	case storeMemory:
		return db.NewMemory(), func() {}, nil
	case storePostgres:
		user, err := provideDbSecrets()
		if err != nil {
			return nil, func() {}, err
		}

		dsn, err := provideDataSourceName(user, cfg)
		if err != nil {
			return nil, func() {}, err
		}

		pool, cleanup, err := provideDbConnPool(ctx, dsn, bo, bon)
		if err != nil {
			return nil, func() {}, err
		}
		return db.NewPostgres(pool), cleanup, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func provideHttpClient(cfg *appConfig) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second}
}

func provideFinnhubClient(cfg *appConfig, client *http.Client) *finnhub.DefaultApiService {
	fc := finnhub.NewConfiguration()
	fc.HTTPClient = client
	if cfg.FinnhubBaseURL != "" {
		fc.BasePath = cfg.FinnhubBaseURL
	}
	return finnhub.NewAPIClient(fc).DefaultApi
}

func provideStockApi(cfg *appConfig, secrets *appSecrets, client *http.Client, fh *finnhub.DefaultApiService) (api.StockApi, error) {
	av := api.NewAlphaVantage(client, cfg.ApiBaseURL, secrets.AlphaVantageApiKey)

	switch cfg.CompanyInfoProvider {
	case providerAlphaVantage:
		return av, nil
	case providerFinnhub:
		if secrets.FinnhubApiKey == "" {
			return nil, errors.New("finnhub company info provider requires finnhub_api_key")
		}
		return api.WithCompanyInfo(av, api.NewFinnhub(fh, secrets.FinnhubApiKey)), nil
	default:
		return nil, fmt.Errorf("unknown company info provider %q", cfg.CompanyInfoProvider)
	}
}

func provideCompanyListingsParser() csvparser.Parser[model.CompanyListing] {
	return csvparser.CompanyListings{}
}

func provideIntradayInfoParser() csvparser.Parser[model.IntradayInfo] {
	return csvparser.IntradayInfos{}
}

func provideMigrationSourceURL(cfg *appConfig) string {
	return cfg.MigrationSourceURL
}

func provideLogger() (lg gke.Logger, cleanup func()) {
	lg, cleanup, err := gke.NewLogger(context.Background())
	if err != nil {
		panic(err)
	}

	gke.LogEnv(lg)
	gke.LogMetadata(lg)

	return lg, cleanup
}

func provideMigrator(lg gke.Logger, databaseURL *url.URL, sourceURL string) (m *migrate.Migrate, err error) {
	m, err = migrate.New(sourceURL, databaseURL.String())
	if err != nil {
		return nil, err
	}
	m.Log = migrationLogger{lg}
	return m, err
}

type migrationLogger struct {
	gke.Logger
}

func (m migrationLogger) Printf(format string, v ...interface{}) {
	m.Defaultf(format, v...)
}

func (m migrationLogger) Verbose() bool {
	return false
}
