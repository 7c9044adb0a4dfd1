package rest

import (
	"net/http"
	"strconv"
	"time"
)

// request and response types are defined below
// these types can be defined as protobuf messages in a production system (specifically if using gRPC + gRPC-gateway)

type ListHistoryRequest struct {
	Limit int `json:"limit"`
}

func (r *ListHistoryRequest) decode(req *http.Request) error {
	limit := req.URL.Query().Get("limit")
	if limit == "" {
		return nil
	}

	n, err := strconv.Atoi(limit)
	if err != nil || n < 0 {
		return NewErrf(http.StatusBadRequest, "Invalid 'limit': expected a non negative integer")
	}
	r.Limit = n
	return nil
}

type ListHistoryResponse struct {
	Capacity int       `json:"capacity"`
	Records  []*Record `json:"records"`
}

type GetRecordRequest struct {
	Index int `json:"index"`
}

func (r *GetRecordRequest) decode(req *http.Request) error {
	n, err := strconv.Atoi(req.PathValue("index"))
	if err != nil || n < 0 {
		return NewErrf(http.StatusBadRequest, "Invalid 'index': expected a non negative integer")
	}
	r.Index = n
	return nil
}

type GetRecordResponse struct {
	Index  int     `json:"index"`
	Record *Record `json:"record"`
}

type GetWindowRequest struct{}

func (r *GetWindowRequest) decode(*http.Request) error {
	return nil
}

type GetWindowResponse struct {
	Size int     `json:"size"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type Record struct {
	Seq        uint64         `json:"seq"`
	Value      float64        `json:"value"`
	ObservedAt time.Time      `json:"observedAt"`
	Sample     map[string]any `json:"sample,omitempty"`
}
