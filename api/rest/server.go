package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Lolirofle/fixed-circular-buffer/internal/store"
)

type HistoryStore interface {
	Capacity() int
	Get(ctx context.Context, index int) (*store.Record, error)
	List(ctx context.Context, limit int) ([]*store.Record, error)
	Window(ctx context.Context) (*store.WindowStats, error)
}

type Server struct {
	logger       *logrus.Logger
	historyStore HistoryStore
}

func NewServer(logger *logrus.Logger, historyStore HistoryStore) *Server {
	return &Server{
		logger:       logger,
		historyStore: historyStore,
	}
}

func (s *Server) ListHistory(ctx context.Context, req *ListHistoryRequest) (*ListHistoryResponse, error) {
	logger := s.logger.WithContext(ctx).WithField("limit", req.Limit)

	storedRecords, err := s.historyStore.List(ctx, req.Limit)
	if err != nil {
		logger.WithError(err).Error("Failed to list history from store")
		return nil, NewErrf(http.StatusInternalServerError, "Could not list history from store")
	}

	records := make([]*Record, 0, len(storedRecords))
	for storedRecord := range slices.Values(storedRecords) {
		rec, err := convertStoredToAPIRecord(storedRecord)
		if err != nil {
			logger.WithError(err).Error("Failed to unmarshal record in ListHistory")
			return nil, NewErrf(http.StatusInternalServerError, "Could not unmarshal record")
		}
		records = append(records, rec)
	}

	return &ListHistoryResponse{
		Capacity: s.historyStore.Capacity(),
		Records:  records,
	}, nil
}

func (s *Server) GetRecord(ctx context.Context, req *GetRecordRequest) (*GetRecordResponse, error) {
	logger := s.logger.WithContext(ctx).WithField("index", req.Index)

	storedRecord, err := s.historyStore.Get(ctx, req.Index)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("Requested history slot has not been filled yet")
			return nil, NewErrf(http.StatusNotFound, "No record at index %d yet", req.Index)
		}
		logger.WithError(err).Error("Failed to get record from store")
		return nil, NewErrf(http.StatusInternalServerError, "Could not get record from store")
	}

	rec, err := convertStoredToAPIRecord(storedRecord)
	if err != nil {
		logger.WithError(err).Error("Failed to unmarshal record in GetRecord")
		return nil, NewErrf(http.StatusInternalServerError, "Could not unmarshal record")
	}

	return &GetRecordResponse{
		Index:  req.Index,
		Record: rec,
	}, nil
}

func (s *Server) GetWindow(ctx context.Context, _ *GetWindowRequest) (*GetWindowResponse, error) {
	logger := s.logger.WithContext(ctx)

	stats, err := s.historyStore.Window(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("Window stats requested before the window was filled")
			return nil, NewErrf(http.StatusServiceUnavailable, "Window is not filled yet, please retry later")
		}
		logger.WithError(err).Error("Failed to get window stats from store")
		return nil, NewErrf(http.StatusInternalServerError, "Could not get window stats from store")
	}

	return &GetWindowResponse{
		Size: stats.Size,
		Mean: stats.Mean,
		Min:  stats.Min,
		Max:  stats.Max,
	}, nil
}

func convertStoredToAPIRecord(rec *store.Record) (*Record, error) {
	var sample map[string]any
	if len(rec.Raw) > 0 {
		err := json.Unmarshal(rec.Raw, &sample)
		if err != nil {
			return nil, fmt.Errorf("unmarshal raw stored sample: %w", err)
		}
	}

	return &Record{
		Seq:        rec.Seq,
		Value:      rec.Value,
		ObservedAt: rec.ObservedAt,
		Sample:     sample,
	}, nil
}
