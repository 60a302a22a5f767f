package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/properties"
	"github.com/pithecene-io/braket-devices/types"
)

// Route names used in request metrics.
const (
	routeList    = "devices"
	routeDetail  = "device"
	routeView    = "view"
	routeCatalog = "catalog"
	routeMetrics = "metrics"
)

// DeviceARNParam is the query parameter selecting a single device.
const DeviceARNParam = "deviceArn"

func (*Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleDevices lists devices, or returns one device when deviceArn is set.
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has(DeviceARNParam) {
		s.handleDevice(w, r)
		return
	}
	s.metrics.IncRequest(routeList)

	list, err := s.registry.ListDevices(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	devices := list.Devices
	if devices == nil {
		devices = []types.DeviceSummary{}
	}
	s.writeJSON(w, http.StatusOK, listResponse{Status: StatusSuccess, Devices: devices, Warnings: list.Warnings})
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncRequest(routeDetail)

	detail, err := s.getDevice(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSuccess(w, Response{Device: &detail})
}

// handleView returns the normalized view of one device.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.metrics.IncRequest(routeView)

	detail, err := s.getDevice(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view := properties.BuildView(detail, s.logger.With("request_id", RequestID(r.Context())))
	if !view.PropertiesAvailable && detail.Properties != nil && strings.TrimSpace(*detail.Properties) != "" {
		s.metrics.IncParseFailure()
	}
	s.writeSuccess(w, Response{View: &view})
}

func (s *Server) getDevice(r *http.Request) (types.DeviceDetail, error) {
	arn := strings.TrimSpace(r.URL.Query().Get(DeviceARNParam))
	if err := braket.ValidateARN(arn); err != nil {
		return types.DeviceDetail{}, err
	}
	return s.registry.GetDevice(r.Context(), arn)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.metrics.IncRequest(routeCatalog)
	doc := s.catalog.Document(time.Time{})
	s.writeSuccess(w, Response{Catalog: &doc})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.metrics.IncRequest(routeMetrics)
	snap := s.metrics.Snapshot()
	s.writeSuccess(w, Response{Metrics: &snap})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, braket.NewError(braket.ErrNotFound, "route", "", fmt.Errorf("no route for %s", r.URL.Path)))
}
