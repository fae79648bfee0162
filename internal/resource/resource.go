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

// Package resource holds the envelope every repository query answers with.
package resource

import "fmt"

type Kind int

const (
	KindLoading Kind = iota + 1
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Resource is a tagged union over Loading, Success and Error. Consumers
// switch on Kind; only the fields belonging to that variant are meaningful.
// An Error carries Data only when built with ErrorWithData.
type Resource[T any] struct {
	Kind      Kind
	IsLoading bool
	Data      T
	HasData   bool
	Message   string
}

func Loading[T any](isLoading bool) Resource[T] {
	return Resource[T]{Kind: KindLoading, IsLoading: isLoading}
}

func Success[T any](data T) Resource[T] {
	return Resource[T]{Kind: KindSuccess, Data: data, HasData: true}
}

func Error[T any](message string) Resource[T] {
	return Resource[T]{Kind: KindError, Message: message}
}

func ErrorWithData[T any](message string, data T) Resource[T] {
	return Resource[T]{Kind: KindError, Message: message, Data: data, HasData: true}
}

func (r Resource[T]) String() string {
	switch r.Kind {
	case KindLoading:
		return fmt.Sprintf("Loading(%t)", r.IsLoading)
	case KindSuccess:
		return fmt.Sprintf("Success(%v)", r.Data)
	case KindError:
		if r.HasData {
			return fmt.Sprintf("Error(%q, %v)", r.Message, r.Data)
		}
		return fmt.Sprintf("Error(%q)", r.Message)
	default:
		return r.Kind.String()
	}
}
