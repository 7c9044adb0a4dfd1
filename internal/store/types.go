package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an item in store is not found.
	ErrNotFound = errors.New("not found")
)

// Record is a sample kept in the history.
type Record struct {
	Seq        uint64    `json:"seq"`
	Value      float64   `json:"value"`
	ObservedAt time.Time `json:"observedAt"`
	Raw        []byte    `json:"-"`
}

// WindowStats summarises the rolling window of the most recent samples.
type WindowStats struct {
	Size int     `json:"size"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}
