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

package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/logging"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ajjensen13/stockmarket/internal/util"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const upsertListing = `
	INSERT INTO company_listings
		(symbol, name, exchange)
	VALUES
		($1, $2, $3)
	ON CONFLICT
		(symbol)
	DO UPDATE
		SET
			name = excluded.name,
			exchange = excluded.exchange`

func (p *Postgres) Insert(ctx context.Context, entities ...CompanyListingEntity) error {
	return p.InsertList(ctx, entities)
}

func (p *Postgres) InsertList(ctx context.Context, entities []CompanyListingEntity) error {
	ctx, cancel := context.WithTimeout(ctx, util.MedReqTimeout)
	defer cancel()

	return util.RunTx(ctx, p.pool, func(ctx context.Context, tx pgx.Tx) error {
		return insertListings(ctx, tx, entities)
	})
}

func insertListings(ctx context.Context, tx pgx.Tx, entities []CompanyListingEntity) error {
	if len(entities) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entities {
		batch.Queue(upsertListing, e.Symbol, e.Name, e.Exchange)
	}

	br := tx.SendBatch(ctx, batch)
	for _, e := range entities {
		_, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert company listing %q: %w", e.Symbol, err)
		}
	}

	err := br.Close()
	if err != nil {
		return fmt.Errorf("failed to insert company listings: %w", err)
	}

	util.Logf(ctx, logging.Debug, "successfully inserted %d company listings", len(entities))
	return nil
}

func (p *Postgres) Update(ctx context.Context, entity CompanyListingEntity) error {
	ctx, cancel := context.WithTimeout(ctx, util.ShortReqTimeout)
	defer cancel()

	_, err := p.pool.Exec(ctx, `UPDATE company_listings SET name = $2, exchange = $3 WHERE symbol = $1`, entity.Symbol, entity.Name, entity.Exchange)
	if err != nil {
		return fmt.Errorf("failed to update company listing %q: %w", entity.Symbol, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, entity CompanyListingEntity) error {
	ctx, cancel := context.WithTimeout(ctx, util.ShortReqTimeout)
	defer cancel()

	_, err := p.pool.Exec(ctx, `DELETE FROM company_listings WHERE symbol = $1`, entity.Symbol)
	if err != nil {
		return fmt.Errorf("failed to delete company listing %q: %w", entity.Symbol, err)
	}
	return nil
}

func (p *Postgres) SearchCompanyListing(ctx context.Context, query string) ([]CompanyListingEntity, error) {
	ctx, cancel := context.WithTimeout(ctx, util.ShortReqTimeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, `
		SELECT
			symbol, name, exchange
		FROM company_listings
		WHERE
			LOWER(name) LIKE '%' || LOWER($1) || '%' OR
			symbol = UPPER($1)
		ORDER BY id`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search company listings %q: %w", query, err)
	}
	defer rows.Close()

	var ret []CompanyListingEntity
	for rows.Next() {
		var symbol, name, exchange pgtype.Text
		err := rows.Scan(&symbol, &name, &exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company listing: %w", err)
		}
		ret = append(ret, CompanyListingEntity{Symbol: symbol.String, Name: name.String, Exchange: exchange.String})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read company listings: %w", err)
	}
	return ret, nil
}

func (p *Postgres) ClearCompanyListings(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, util.ShortReqTimeout)
	defer cancel()

	_, err := p.pool.Exec(ctx, `DELETE FROM company_listings`)
	if err != nil {
		return fmt.Errorf("failed to clear company listings: %w", err)
	}
	return nil
}

func (p *Postgres) ReplaceCompanyListings(ctx context.Context, entities []CompanyListingEntity) error {
	ctx, cancel := context.WithTimeout(ctx, util.MedReqTimeout)
	defer cancel()

	return util.RunTx(ctx, p.pool, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM company_listings`)
		if err != nil {
			return fmt.Errorf("failed to clear company listings: %w", err)
		}
		return insertListings(ctx, tx, entities)
	})
}

var (
	_ ListingDao      = (*Postgres)(nil)
	_ ListingReplacer = (*Postgres)(nil)
)
