package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Option is a value with an explicit presence flag. Nullable columns scan
// into it and nil is written back when it is empty.
type Option[T any] struct {
	val   T
	valid bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{val: v, valid: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) Get() (T, bool) {
	return o.val, o.valid
}

func (o Option[T]) Valid() bool {
	return o.valid
}

// OrZero returns the held value or the zero value of T.
func (o Option[T]) OrZero() T {
	return o.val
}

func (o Option[T]) Or(fallback T) T {
	if !o.valid {
		return fallback
	}
	return o.val
}

// Value implements driver.Valuer.
func (o Option[T]) Value() (driver.Value, error) {
	if !o.valid {
		return nil, nil
	}

	switch v := any(o.val).(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	default:
		return v, nil
	}
}

// Scan implements sql.Scanner.
func (o *Option[T]) Scan(src any) error {
	if src == nil {
		*o = Option[T]{}
		return nil
	}

	if v, ok := src.(T); ok {
		*o = Some(v)
		return nil
	}

	switch dst := any(&o.val).(type) {
	case *int:
		n, ok := src.(int64)
		if !ok {
			return fmt.Errorf("cannot scan %T into Option[int]", src)
		}
		*dst = int(n)
	case *string:
		b, ok := src.([]byte)
		if !ok {
			return fmt.Errorf("cannot scan %T into Option[string]", src)
		}
		*dst = string(b)
	case *time.Time:
		return fmt.Errorf("cannot scan %T into Option[time.Time]", src)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, o.val)
	}

	o.valid = true
	return nil
}

func (o Option[T]) String() string {
	if !o.valid {
		return "<none>"
	}
	return fmt.Sprint(o.val)
}

// OptionalString treats the empty string as absence.
func OptionalString(s string) Option[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}
