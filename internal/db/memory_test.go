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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	aapl = CompanyListingEntity{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ"}
	msft = CompanyListingEntity{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"}
	ibm  = CompanyListingEntity{Symbol: "IBM", Name: "International Business Machines Corp", Exchange: "NYSE"}
)

func TestMemoryInsertAndSearchAll(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Insert(ctx, aapl, msft))
	require.NoError(t, m.InsertList(ctx, []CompanyListingEntity{ibm}))

	got, err := m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []CompanyListingEntity{aapl, msft, ibm}, got)
}

func TestMemoryInsertReplacesOnConflict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Insert(ctx, aapl, msft))

	renamed := CompanyListingEntity{Symbol: "AAPL", Name: "Apple Computer", Exchange: "NYSE"}
	require.NoError(t, m.Insert(ctx, renamed))

	got, err := m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []CompanyListingEntity{renamed, msft}, got)
}

func TestMemorySearch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Insert(ctx, aapl, msft, ibm))

	tests := []struct {
		query string
		want  []CompanyListingEntity
	}{
		{query: "AAPL", want: []CompanyListingEntity{aapl}},
		{query: "aapl", want: []CompanyListingEntity{aapl}},
		{query: "micro", want: []CompanyListingEntity{msft}},
		{query: "MACHINES", want: []CompanyListingEntity{ibm}},
		{query: "IB", want: nil},
		{query: "c", want: []CompanyListingEntity{aapl, msft, ibm}},
		{query: "nothing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := m.SearchCompanyListing(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Insert(ctx, aapl))

	require.NoError(t, m.Update(ctx, CompanyListingEntity{Symbol: "AAPL", Name: "Apple", Exchange: "NASDAQ"}))
	require.NoError(t, m.Update(ctx, msft))

	got, err := m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []CompanyListingEntity{{Symbol: "AAPL", Name: "Apple", Exchange: "NASDAQ"}}, got)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Insert(ctx, aapl, msft, ibm))

	require.NoError(t, m.Delete(ctx, msft))
	require.NoError(t, m.Delete(ctx, msft))

	got, err := m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []CompanyListingEntity{aapl, ibm}, got)

	renamed := CompanyListingEntity{Symbol: "IBM", Name: "IBM", Exchange: "NYSE"}
	require.NoError(t, m.Insert(ctx, renamed))
	got, err = m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []CompanyListingEntity{aapl, renamed}, got)
}

func TestMemoryClearAndReplace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Insert(ctx, aapl, msft))

	require.NoError(t, m.ClearCompanyListings(ctx))
	got, err := m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, m.Insert(ctx, aapl))
	require.NoError(t, m.ReplaceCompanyListings(ctx, []CompanyListingEntity{ibm, msft}))
	got, err = m.SearchCompanyListing(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []CompanyListingEntity{ibm, msft}, got)
}

func TestTableFilterCopies(t *testing.T) {
	ctx := context.Background()
	table := NewTable[string, CompanyListingEntity]()
	require.NoError(t, table.Insert(ctx, aapl, msft))

	got := table.Filter(func(CompanyListingEntity) bool { return true })
	got[0].Name = "changed"

	again := table.Filter(func(CompanyListingEntity) bool { return true })
	assert.Equal(t, aapl, again[0])
}
