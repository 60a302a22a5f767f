package render

import (
	"strconv"

	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/properties"
	"github.com/pithecene-io/braket-devices/types"
)

// Table is a header row plus data rows. StatusColumn is the index of a
// device status column to color, or -1.
type Table struct {
	Headers      []string
	Rows         [][]string
	StatusColumn int
}

// Tabular values render through Table in table format.
type Tabular interface {
	Table() Table
}

// Section is a titled list of label/value rows. Empty is shown when the
// section has no rows.
type Section struct {
	Title string
	Rows  [][2]string
	Empty string
}

// Sectioned values render as sections in table format.
type Sectioned interface {
	Sections() []Section
}

// Devices is a device listing.
type Devices []types.DeviceSummary

// Table implements Tabular.
func (d Devices) Table() Table {
	t := Table{
		Headers:      []string{"NAME", "PROVIDER", "TYPE", "QUBITS", "ARN", "STATUS"},
		StatusColumn: 5,
	}
	for _, s := range d {
		t.Rows = append(t.Rows, []string{
			s.DeviceName,
			s.ProviderName,
			string(s.DeviceType),
			qubits(s.QubitCount),
			s.DeviceArn,
			string(s.DeviceStatus),
		})
	}
	return t
}

// CatalogDocument is an exported catalog.
type CatalogDocument catalog.Document

// Table implements Tabular.
func (c CatalogDocument) Table() Table {
	t := Table{Headers: []string{"NAME", "PROVIDER", "TYPE", "QUBITS", "ARN"}, StatusColumn: -1}
	for _, e := range c.Devices {
		t.Rows = append(t.Rows, []string{
			e.DeviceName,
			e.ProviderName,
			string(e.DeviceType),
			qubits(e.QubitCount),
			e.DeviceArn,
		})
	}
	return t
}

// DeviceView is a normalized device view.
type DeviceView struct {
	properties.View
}

// Sections implements Sectioned.
func (v DeviceView) Sections() []Section {
	s := v.Summary
	sections := []Section{{
		Title: s.DeviceName,
		Rows: [][2]string{
			{"ARN", s.DeviceArn},
			{"Provider", s.ProviderName},
			{"Type", string(s.DeviceType)},
			{"Status", string(s.DeviceStatus)},
		},
	}}

	queue := Section{Title: "Queue", Empty: "not reported"}
	for _, q := range v.Queue {
		queue.Rows = append(queue.Rows, [2]string{q.Label, strconv.Itoa(q.Value)})
	}
	sections = append(sections, queue)

	if !v.PropertiesAvailable {
		return append(sections, Section{Title: "Properties", Empty: "not available"})
	}

	hardware := Section{Title: "Hardware", Empty: "not reported"}
	if v.Hardware != nil {
		hardware.Rows = rows(v.Hardware.Rows())
	}
	operational := Section{Title: "Operational", Empty: "not reported"}
	if v.Operational != nil {
		operational.Rows = rows(v.Operational.Rows())
	}
	sections = append(sections, hardware, operational)

	perf := Section{Title: "Performance", Empty: "not applicable"}
	if v.PerformanceApplicable {
		for _, m := range v.Performance {
			perf.Rows = append(perf.Rows, [2]string{m.Label, m.Value})
		}
	}
	sections = append(sections, perf)

	gates := Section{Title: "Supported Gates", Empty: "none"}
	for _, g := range v.SupportedGates {
		desc := g.Description
		if g.Native {
			desc += " (native)"
		}
		gates.Rows = append(gates.Rows, [2]string{g.Name, desc})
	}
	results := Section{Title: "Result Types", Empty: "none"}
	for _, rt := range v.ResultTypes {
		results.Rows = append(results.Rows, [2]string{rt.Name, shotsRange(rt)})
	}
	return append(sections, gates, results)
}

func rows(in []properties.Row) [][2]string {
	out := make([][2]string, 0, len(in))
	for _, r := range in {
		out = append(out, [2]string{r.Label, r.Value})
	}
	return out
}

func qubits(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func shotsRange(rt properties.ResultType) string {
	switch {
	case rt.MinShots != nil && rt.MaxShots != nil:
		return strconv.Itoa(*rt.MinShots) + " - " + strconv.Itoa(*rt.MaxShots) + " shots"
	case rt.MinShots != nil:
		return ">= " + strconv.Itoa(*rt.MinShots) + " shots"
	case rt.MaxShots != nil:
		return "<= " + strconv.Itoa(*rt.MaxShots) + " shots"
	}
	return ""
}
