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
	"strings"
)

// Entity is a row with a unique identity.
type Entity[K comparable] interface {
	Key() K
}

// Dao is the persistence capability shared by every entity. Inserts replace
// any row with the same key. Update and Delete of a missing row are not errors.
type Dao[K comparable, T Entity[K]] interface {
	Insert(ctx context.Context, entities ...T) error
	InsertList(ctx context.Context, entities []T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
}

type CompanyListingEntity struct {
	Symbol   string
	Name     string
	Exchange string
}

func (e CompanyListingEntity) Key() string {
	return e.Symbol
}

// ListingDao stores company listings. SearchCompanyListing returns, in
// insertion order, the rows whose name contains query (ignoring case) or
// whose symbol equals the upper-cased query. An empty query matches every row.
type ListingDao interface {
	Dao[string, CompanyListingEntity]
	SearchCompanyListing(ctx context.Context, query string) ([]CompanyListingEntity, error)
	ClearCompanyListings(ctx context.Context) error
}

// ListingReplacer is implemented by stores that can swap the whole listing
// table in one step, so readers never see it empty.
type ListingReplacer interface {
	ReplaceCompanyListings(ctx context.Context, entities []CompanyListingEntity) error
}

func matchesListing(e CompanyListingEntity, query string) bool {
	return strings.Contains(strings.ToLower(e.Name), strings.ToLower(query)) || e.Symbol == strings.ToUpper(query)
}
