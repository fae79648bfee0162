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

package resource

import (
	"context"
	"sync"
)

// Emitter hands one value to the consumer of a Flow. It returns the context
// error if the consumer went away first.
type Emitter[T any] func(Resource[T]) error

// Producer writes the values of a Flow in order. A non-nil return aborts the
// stream and is reported by Flow.Err.
type Producer[T any] func(ctx context.Context, emit Emitter[T]) error

// Flow is a finite, ordered stream of envelopes with a single producer.
// Nothing runs until the first call to C or Collect, and a Flow is never
// restarted. Consumers must either drain C or cancel ctx.
type Flow[T any] struct {
	ctx      context.Context
	producer Producer[T]

	once sync.Once
	c    chan Resource[T]
	done chan struct{}
	err  error
}

func Emit[T any](ctx context.Context, producer Producer[T]) *Flow[T] {
	return &Flow[T]{
		ctx:      ctx,
		producer: producer,
		c:        make(chan Resource[T]),
		done:     make(chan struct{}),
	}
}

func (f *Flow[T]) start() {
	f.once.Do(func() {
		go func() {
			defer close(f.done)
			defer close(f.c)
			f.err = f.producer(f.ctx, f.send)
		}()
	})
}

func (f *Flow[T]) send(r Resource[T]) error {
	select {
	case <-f.ctx.Done():
		return f.ctx.Err()
	case f.c <- r:
		return nil
	}
}

// C returns the channel the envelopes are delivered on. It is closed once the
// producer returns.
func (f *Flow[T]) C() <-chan Resource[T] {
	f.start()
	return f.c
}

// Err blocks until the producer has returned and reports why it stopped, or
// nil if it completed normally.
func (f *Flow[T]) Err() error {
	f.start()
	<-f.done
	return f.err
}

// Collect drains the flow.
func (f *Flow[T]) Collect() ([]Resource[T], error) {
	var ret []Resource[T]
	for r := range f.C() {
		ret = append(ret, r)
	}
	return ret, f.Err()
}
