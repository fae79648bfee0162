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
	"sync"
)

// Table is an in-memory, insertion-ordered Dao. Replacing a row keeps its position.
type Table[K comparable, T Entity[K]] struct {
	mu    sync.RWMutex
	rows  []T
	index map[K]int
}

func NewTable[K comparable, T Entity[K]]() *Table[K, T] {
	return &Table[K, T]{index: make(map[K]int)}
}

func (t *Table[K, T]) Insert(ctx context.Context, entities ...T) error {
	return t.InsertList(ctx, entities)
}

func (t *Table[K, T]) InsertList(_ context.Context, entities []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.insert(entities)
	return nil
}

func (t *Table[K, T]) insert(entities []T) {
	for _, e := range entities {
		if ndx, ok := t.index[e.Key()]; ok {
			t.rows[ndx] = e
			continue
		}
		t.index[e.Key()] = len(t.rows)
		t.rows = append(t.rows, e)
	}
}

func (t *Table[K, T]) Update(_ context.Context, entity T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ndx, ok := t.index[entity.Key()]; ok {
		t.rows[ndx] = entity
	}
	return nil
}

func (t *Table[K, T]) Delete(_ context.Context, entity T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ndx, ok := t.index[entity.Key()]
	if !ok {
		return nil
	}

	t.rows = append(t.rows[:ndx], t.rows[ndx+1:]...)
	delete(t.index, entity.Key())
	for i := ndx; i < len(t.rows); i++ {
		t.index[t.rows[i].Key()] = i
	}
	return nil
}

// Filter returns a copy of the rows accepted by keep, in insertion order.
func (t *Table[K, T]) Filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var ret []T
	for _, r := range t.rows {
		if keep(r) {
			ret = append(ret, r)
		}
	}
	return ret
}

func (t *Table[K, T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clear()
}

func (t *Table[K, T]) clear() {
	t.rows = nil
	t.index = make(map[K]int)
}

func (t *Table[K, T]) Replace(entities []T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clear()
	t.insert(entities)
}

type Memory struct {
	*Table[string, CompanyListingEntity]
}

func NewMemory() *Memory {
	return &Memory{Table: NewTable[string, CompanyListingEntity]()}
}

func (m *Memory) SearchCompanyListing(_ context.Context, query string) ([]CompanyListingEntity, error) {
	return m.Filter(func(e CompanyListingEntity) bool {
		return matchesListing(e, query)
	}), nil
}

func (m *Memory) ClearCompanyListings(context.Context) error {
	m.Clear()
	return nil
}

func (m *Memory) ReplaceCompanyListings(_ context.Context, entities []CompanyListingEntity) error {
	m.Replace(entities)
	return nil
}

var (
	_ ListingDao      = (*Memory)(nil)
	_ ListingReplacer = (*Memory)(nil)
)
