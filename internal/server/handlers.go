package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/models"
	"github.com/spacesedan/commentlens/internal/summary"
)

const maxRequestBytes = 1 << 20

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "YouTube Comment Analyzer is running!")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"comment_source": s.source != nil,
	})
}

// analyzeHandler analyzes either an inline comment batch or the comments of
// the video named by url/video_id.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comments, status, err := s.resolveComments(r, req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	result, err := s.analyzer.Analyze(comments)
	if errors.Is(err, summary.ErrInvalidSentenceCount) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("[Server] Analysis failed",
			slog.Int("comments", len(comments)),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result.ToResponse())
}

func (s *Server) resolveComments(r *http.Request, req models.AnalyzeRequest) ([]string, int, error) {
	if req.URL == "" && req.VideoID == "" {
		if req.Comments == nil {
			return nil, http.StatusBadRequest, errors.New("one of url, video_id or comments is required")
		}
		if len(req.Comments) > s.maxComments {
			return nil, http.StatusBadRequest, fmt.Errorf("at most %d comments per request", s.maxComments)
		}
		return req.Comments, http.StatusOK, nil
	}

	if s.source == nil {
		return nil, http.StatusServiceUnavailable, errors.New("no comment source configured")
	}

	raw := req.VideoID
	if raw == "" {
		raw = req.URL
	}
	videoID, err := clients.ParseVideoID(raw)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	comments, err := s.source.FetchComments(r.Context(), videoID)
	switch {
	case err == nil:
		return comments, http.StatusOK, nil
	case errors.Is(err, clients.ErrCommentsDisabled):
		slog.Warn("[Server] Comments disabled, analyzing empty batch",
			slog.String("video_id", videoID))
		return nil, http.StatusOK, nil
	case errors.Is(err, clients.ErrVideoNotFound):
		return nil, http.StatusNotFound, err
	default:
		slog.Error("[Server] Failed to fetch comments",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		return nil, http.StatusBadGateway, errors.New("failed to fetch comments")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("[Server] Failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
