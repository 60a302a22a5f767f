package properties

import "testing"

func TestExtractHardware(t *testing.T) {
	h := ExtractHardware(mustParse(t, rigettiProps))

	if h.QubitCount == nil || *h.QubitCount != 84 {
		t.Errorf("QubitCount = %v", h.QubitCount)
	}
	if h.FullyConnected == nil || *h.FullyConnected {
		t.Errorf("FullyConnected = %v, want false", h.FullyConnected)
	}
	if h.CouplingCount == nil || *h.CouplingCount != 3 {
		t.Errorf("CouplingCount = %v, want 3", h.CouplingCount)
	}

	want := []Row{
		{"Qubits", "84"},
		{"Connectivity", "3 qubit pairs"},
		{"Native Gates", "rx, rz, iswap"},
	}
	assertRows(t, h.Rows(), want)
}

func TestExtractHardware_MissingFieldsStayUnknown(t *testing.T) {
	h := ExtractHardware(mustParse(t, `{"paradigm": {"qubitCount": 5}}`))
	if h.FullyConnected != nil {
		t.Errorf("FullyConnected = %v, want nil", *h.FullyConnected)
	}
	if h.CouplingCount != nil {
		t.Errorf("CouplingCount = %v, want nil", *h.CouplingCount)
	}
	assertRows(t, h.Rows(), []Row{{"Qubits", "5"}})

	if rows := ExtractHardware(nil).Rows(); len(rows) != 0 {
		t.Errorf("nil properties rows = %v", rows)
	}
}

func TestIsFullyConnected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"true", `{"paradigm": {"connectivity": {"fullyConnected": true}}}`, true},
		{"false", `{"paradigm": {"connectivity": {"fullyConnected": false}}}`, false},
		{"flag absent", `{"paradigm": {"connectivity": {}}}`, false},
		{"connectivity absent", `{"paradigm": {"qubitCount": 2}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFullyConnected(mustParse(t, tt.raw)); got != tt.want {
				t.Errorf("IsFullyConnected() = %v, want %v", got, tt.want)
			}
		})
	}
	if IsFullyConnected(nil) {
		t.Error("nil properties reported fully connected")
	}
}

func TestExtractOperational(t *testing.T) {
	o := ExtractOperational(mustParse(t, ionqProps))

	want := []Row{
		{"Location", "Maryland, USA"},
		{"Cost", "0.03 USD/shot"},
		{"Shots Range", "1 - 5000 shots"},
		{"Execution Window", "Everyday 00:00:00 - 23:59:59 UTC"},
		{"Last Updated", "2025-03-01T12:00:00+00:00"},
	}
	assertRows(t, o.Rows(), want)
}

func TestExtractOperational_Documentation(t *testing.T) {
	o := ExtractOperational(mustParse(t, `{"service": {
		"deviceCost": {"price": 0.075, "unit": "minute"},
		"deviceDocumentation": {"summary": "State vector simulator", "externalDocumentationUrl": "https://example.com/sv1"}
	}}`))

	assertRows(t, o.Rows(), []Row{
		{"Cost", "0.075 USD/minute"},
		{"Documentation", "https://example.com/sv1"},
	})
}

func assertRows(t *testing.T, got, want []Row) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}
