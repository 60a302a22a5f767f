package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/properties"
	"github.com/pithecene-io/braket-devices/types"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope of every device route. Exactly one of the payload
// fields is set on success; Message and Type are set on error.
type Response struct {
	Status   string                `json:"status"`
	Devices  []types.DeviceSummary `json:"devices,omitempty"`
	Device   *types.DeviceDetail   `json:"device,omitempty"`
	View     *properties.View      `json:"view,omitempty"`
	Catalog  *catalog.Document     `json:"catalog,omitempty"`
	Metrics  *metrics.Snapshot     `json:"metrics,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`

	Message string         `json:"message,omitempty"`
	Type    braket.Kind    `json:"type,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// listResponse is the list envelope. Devices is always present, as an
// empty array when nothing is listed.
type listResponse struct {
	Status   string                `json:"status"`
	Devices  []types.DeviceSummary `json:"devices"`
	Warnings []string              `json:"warnings,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode response", map[string]any{"error": err.Error()})
	}
}

func (s *Server) writeSuccess(w http.ResponseWriter, resp Response) {
	resp.Status = StatusSuccess
	s.writeJSON(w, http.StatusOK, resp)
}

// writeError renders err as an error envelope. Classified upstream errors
// keep their message and details; anything else is an internal error whose
// text is logged but not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.IncResponseError()

	resp := Response{
		Status:  StatusError,
		Type:    braket.KindOf(err),
		Message: err.Error(),
	}
	var be *braket.Error
	if errors.As(err, &be) {
		resp.Message = be.Message()
		if d := be.Details(); len(d) > 0 {
			resp.Details = d
		}
	} else if resp.Type == braket.KindServer {
		resp.Message = "internal server error"
	}

	code := braket.HTTPStatus(err)
	fields := map[string]any{
		"request_id": RequestID(r.Context()),
		"path":       r.URL.Path,
		"status":     code,
		"type":       string(resp.Type),
		"error":      err.Error(),
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Info("request rejected", fields)
	}
	s.writeJSON(w, code, resp)
}
