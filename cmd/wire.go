//go:build wireinject
// +build wireinject

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

	"github.com/ajjensen13/gke"
	"github.com/golang-migrate/migrate/v4"
	"github.com/google/wire"

	"github.com/ajjensen13/stockmarket/internal/repository"
)

func logger() (lg gke.Logger, cleanup func()) {
	panic(wire.Build(provideLogger))
}

func stockRepository(ctx context.Context, lg gke.Logger) (repo repository.StockRepository, cleanup func(), err error) {
	panic(wire.Build(
		provideAppConfig,
		provideAppSecrets,
		provideHttpClient,
		provideFinnhubClient,
		provideStockApi,
		provideBackoff,
		provideBackoffNotifier,
		provideListingDao,
		provideCompanyListingsParser,
		provideIntradayInfoParser,
		repository.New,
		wire.Bind(new(repository.StockRepository), new(*repository.Repository)),
	))
}

func migrator(lg gke.Logger) (m *migrate.Migrate, err error) {
	panic(wire.Build(provideMigrator, provideMigrationSourceURL, provideDataSourceName, provideDbSecrets, provideAppConfig))
}
