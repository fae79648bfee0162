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

package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"cloud.google.com/go/logging"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	ShortReqTimeout = 30 * time.Second
	MedReqTimeout   = 5 * time.Minute
)

var nextTxId uint32

func RunTx(ctx context.Context, pool *pgxpool.Pool, f func(ctx context.Context, tx pgx.Tx) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to aquire connection: %w", err)
	}

	pid := conn.Conn().PgConn().PID()
	ctx = WithLoggerValue(ctx, "db_conn_pid", fmt.Sprintf("pid_%d", pid))
	Logf(ctx, logging.Debug, "acquired database connection [%d]", pid)

	defer func() {
		conn.Release()
		Logf(ctx, logging.Debug, "released database connection [%d]", pid)
	}()

	txid := atomic.AddUint32(&nextTxId, 1)
	ctx = WithLoggerValue(ctx, "db_conn_tx_id", fmt.Sprintf("tx_%d", txid))
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction [%d/%d]: %w", pid, txid, err)
	}
	Logf(ctx, logging.Debug, "started new database transaction [%d -> %d]", pid, txid)

	err = f(ctx, tx)
	if err != nil {
		Logf(ctx, logging.Debug, "rolling back database transaction [%d -> %d]", pid, txid)
		errRollback := tx.Rollback(ctx)
		if errRollback != nil {
			Logf(ctx, logging.Warning, "failed to rollback database transaction [%d -> %d]: %v", pid, txid, errRollback)
		}
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to commit database transaction [%d -> %d]: %w", pid, txid, err)
	}

	Logf(ctx, logging.Debug, "successfully committed database transaction [%d -> %d]", pid, txid)
	return nil
}
