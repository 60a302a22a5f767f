// Package properties decodes Braket device capability documents and derives
// the normalized hardware, operational and performance data shown for a
// device.
//
// Missing data is never defaulted: every optional field is a pointer or a
// nil slice/map, and extractors only report what the document contains.
// Fidelities are fractions in [0,1] everywhere in this package except in the
// strings produced by the Format helpers.
package properties

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pithecene-io/braket-devices/log"
)

// Properties is the decoded device capabilities document.
// Each section is nil when absent or undecodable.
type Properties struct {
	Service  *Service  `json:"service,omitempty"`
	Paradigm *Paradigm `json:"paradigm,omitempty"`
	// Provider is vendor-specific; it is decoded per vendor on demand.
	Provider json.RawMessage `json:"provider,omitempty"`
	// Action is keyed by program type, e.g. "braket.ir.openqasm.program".
	Action       map[string]Action `json:"action,omitempty"`
	Standardized *Standardized     `json:"standardized,omitempty"`
}

// Service holds the service section: where and when a device runs and what
// it costs.
type Service struct {
	DeviceLocation      *string           `json:"deviceLocation,omitempty"`
	DeviceCost          *DeviceCost       `json:"deviceCost,omitempty"`
	ShotsRange          []int             `json:"shotsRange,omitempty"`
	ExecutionWindows    []ExecutionWindow `json:"executionWindows,omitempty"`
	UpdatedAt           *string           `json:"updatedAt,omitempty"`
	DeviceDocumentation *Documentation    `json:"deviceDocumentation,omitempty"`
}

// DeviceCost is the price per unit (shot or minute) in USD.
type DeviceCost struct {
	Price *float64 `json:"price,omitempty"`
	Unit  *string  `json:"unit,omitempty"`
}

// ExecutionWindow is a recurring availability window. Hours are UTC.
type ExecutionWindow struct {
	ExecutionDay    string `json:"executionDay"`
	WindowStartHour string `json:"windowStartHour"`
	WindowEndHour   string `json:"windowEndHour"`
}

// Documentation links published for a device.
type Documentation struct {
	Summary                  *string `json:"summary,omitempty"`
	ExternalDocumentationURL *string `json:"externalDocumentationUrl,omitempty"`
	ImageURL                 *string `json:"imageUrl,omitempty"`
}

// Paradigm holds the execution-model section.
type Paradigm struct {
	QubitCount    *int          `json:"qubitCount,omitempty"`
	NativeGateSet []string      `json:"nativeGateSet,omitempty"`
	Connectivity  *Connectivity `json:"connectivity,omitempty"`
	// Performance is only present for analog (AHS) devices.
	Performance json.RawMessage `json:"performance,omitempty"`
}

// Connectivity describes qubit couplings. FullyConnected is nil when the
// document does not say.
type Connectivity struct {
	FullyConnected    *bool                `json:"fullyConnected,omitempty"`
	ConnectivityGraph map[string][]QubitID `json:"connectivityGraph,omitempty"`
}

// QubitID is a qubit label. Documents use both strings and integers.
type QubitID string

// UnmarshalJSON accepts a JSON string or number.
func (q *QubitID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = QubitID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("qubit id: %w", err)
	}
	*q = QubitID(n.String())
	return nil
}

// Action is one supported program type.
type Action struct {
	ActionType           *string      `json:"actionType,omitempty"`
	Version              []string     `json:"version,omitempty"`
	SupportedOperations  []string     `json:"supportedOperations,omitempty"`
	SupportedResultTypes []ResultType `json:"supportedResultTypes,omitempty"`
}

// ResultType is a result type a program may request.
type ResultType struct {
	Name        string   `json:"name"`
	Observables []string `json:"observables,omitempty"`
	MinShots    *int     `json:"minShots,omitempty"`
	MaxShots    *int     `json:"maxShots,omitempty"`
}

// sections lists the top-level keys decoded independently, in order.
var sections = []string{"service", "paradigm", "provider", "action", "standardized"}

// Parse decodes a raw capabilities document.
//
// It never fails: a nil, empty or malformed document yields (nil, false) and
// malformed input is logged. A section with an unexpected shape is dropped
// on its own without affecting the other sections.
func Parse(raw *string, logger *log.Logger) (*Properties, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, false
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(*raw), &top); err != nil {
		logger.Warn("malformed device properties", map[string]any{
			"error": err.Error(),
			"bytes": len(*raw),
		})
		return nil, false
	}
	if top == nil {
		return nil, false
	}

	p := &Properties{}
	for _, name := range sections {
		data, ok := top[name]
		if !ok || string(data) == "null" {
			continue
		}
		dropped, err := p.decodeSection(name, data)
		if err != nil {
			logger.Warn("dropping undecodable properties section", map[string]any{
				"section": name,
				"error":   err.Error(),
			})
			continue
		}
		for _, ferr := range dropped {
			logger.Warn("dropping undecodable properties field", map[string]any{
				"section": name,
				"error":   ferr.Error(),
			})
		}
	}
	return p, true
}

// ParseString is Parse for a non-optional document.
func ParseString(raw string, logger *log.Logger) (*Properties, bool) {
	return Parse(&raw, logger)
}

// decodeSection stores one top-level section. Service and paradigm fields
// are decoded independently; the fields that failed are returned as dropped.
func (p *Properties) decodeSection(name string, data json.RawMessage) ([]error, error) {
	var dropped []error
	switch name {
	case "service":
		fields, err := objectFields(data)
		if err != nil {
			return nil, err
		}
		var s Service
		dropped = decodeFields(fields, &s)
		p.Service = &s
	case "paradigm":
		fields, err := objectFields(data)
		if err != nil {
			return nil, err
		}
		var pd Paradigm
		if raw, ok := fields["connectivity"]; ok {
			delete(fields, "connectivity")
			c, cdropped, err := decodeConnectivity(raw)
			if err != nil {
				dropped = append(dropped, fmt.Errorf("field %q: %w", "connectivity", err))
			}
			dropped = append(dropped, cdropped...)
			pd.Connectivity = c
		}
		dropped = append(dropped, decodeFields(fields, &pd)...)
		p.Paradigm = &pd
	case "provider":
		p.Provider = append(json.RawMessage(nil), data...)
	case "action":
		var a map[string]Action
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
		p.Action = a
	case "standardized":
		var s Standardized
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		p.Standardized = &s
	default:
		return nil, fmt.Errorf("unknown section %q", name)
	}
	return dropped, nil
}

func decodeConnectivity(data json.RawMessage) (*Connectivity, []error, error) {
	if string(data) == "null" {
		return nil, nil, nil
	}
	fields, err := objectFields(data)
	if err != nil {
		return nil, nil, err
	}
	var c Connectivity
	dropped := decodeFields(fields, &c)
	for i, e := range dropped {
		dropped[i] = fmt.Errorf("connectivity: %w", e)
	}
	return &c, dropped, nil
}

// objectFields splits a JSON object into its raw members.
func objectFields(data json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeFields decodes each member into dst on its own. A member that does
// not decode leaves dst untouched and is reported; the others still land.
func decodeFields[T any](fields map[string]json.RawMessage, dst *T) []error {
	var dropped []error
	for _, key := range sortedKeys(fields) {
		one, err := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if err != nil {
			dropped = append(dropped, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		var scratch T
		if err := json.Unmarshal(one, &scratch); err != nil {
			dropped = append(dropped, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		_ = json.Unmarshal(one, dst)
	}
	return dropped
}

// QubitCount returns the paradigm qubit count if present.
func (p *Properties) QubitCount() (int, bool) {
	if p == nil || p.Paradigm == nil || p.Paradigm.QubitCount == nil {
		return 0, false
	}
	return *p.Paradigm.QubitCount, true
}

// formatNumber renders a float without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
