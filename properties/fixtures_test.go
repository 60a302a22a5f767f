package properties

const ionqProps = `{
  "service": {
    "deviceLocation": "Maryland, USA",
    "deviceCost": {"price": 0.03, "unit": "shot"},
    "shotsRange": [1, 5000],
    "executionWindows": [{"executionDay": "Everyday", "windowStartHour": "00:00:00", "windowEndHour": "23:59:59"}],
    "updatedAt": "2025-03-01T12:00:00+00:00"
  },
  "paradigm": {
    "qubitCount": 25,
    "nativeGateSet": ["GPI", "GPI2", "MS"],
    "connectivity": {"fullyConnected": true, "connectivityGraph": {}}
  },
  "provider": {
    "fidelity": {"1Q": {"mean": 0.9998}, "2Q": {"mean": 0.9895}, "spam": {"mean": 0.9945}}
  },
  "action": {
    "braket.ir.jaqcd.program": {"supportedOperations": ["x"]},
    "braket.ir.openqasm.program": {
      "actionType": "braket.ir.openqasm.program",
      "supportedOperations": ["x", "h", "cnot", "gpi", "ms", "mystery"],
      "supportedResultTypes": [{"name": "Sample", "observables": ["x", "z"], "minShots": 1, "maxShots": 5000}]
    }
  }
}`

const rigettiProps = `{
  "paradigm": {
    "qubitCount": 84,
    "nativeGateSet": ["rx", "rz", "iswap"],
    "connectivity": {"fullyConnected": false, "connectivityGraph": {"0": ["1", "7"], "1": ["0", 2], "7": ["0"]}}
  },
  "standardized": {
    "oneQubitProperties": {
      "0": {
        "T1": {"value": 10, "unit": "S"},
        "T2": {"value": 5, "unit": "us"},
        "oneQubitFidelity": [
          {"fidelityType": {"name": "SIMULTANEOUS_RANDOMIZED_BENCHMARKING"}, "fidelity": 0.95},
          {"fidelityType": {"name": "RANDOMIZED_BENCHMARKING"}, "fidelity": 0.998},
          {"fidelityType": {"name": "READOUT"}, "fidelity": 0.97}
        ]
      },
      "1": {
        "T1": {"value": 20, "unit": "S"},
        "oneQubitFidelity": [
          {"fidelityType": {"name": "RANDOMIZED_BENCHMARKING"}, "fidelity": 0.996},
          {"fidelityType": {"name": "READOUT"}, "fidelity": 0.93}
        ]
      },
      "2": {
        "T2": {"value": 15, "unit": "us"}
      }
    },
    "twoQubitProperties": {
      "0-1": {"twoQubitGateFidelity": [
        {"gateName": "ISWAP", "fidelity": 0.95, "fidelityType": {"name": "INTERLEAVED_RANDOMIZED_BENCHMARKING"}},
        {"gateName": "CZ", "fidelity": 0.5, "fidelityType": {"name": "INTERLEAVED_RANDOMIZED_BENCHMARKING"}}
      ]},
      "1-2": {"twoQubitGateFidelity": [{"gateName": "ISWAP", "fidelity": 0.97, "fidelityType": {"name": "INTERLEAVED_RANDOMIZED_BENCHMARKING"}}]},
      "0-7": {"twoQubitGateFidelity": []}
    }
  }
}`

const iqmProps = `{
  "paradigm": {"qubitCount": 20, "nativeGateSet": ["cz", "prx"]},
  "provider": {
    "properties": {
      "one_qubit": {
        "1": {"T1": 4e-5, "T2": 2e-5, "fRB": 0.999, "fRO": 0.95},
        "2": {"T1": 6e-5, "fRO": 0.97},
        "3": {"fRB": 0.997}
      },
      "two_qubit": {
        "1-2": {"fCZ": 0.99},
        "2-3": {"fCZ": null}
      }
    }
  }
}`

const aqtProps = `{
  "paradigm": {"qubitCount": 12},
  "provider": {
    "properties": {
      "singleQubitGateFidelity": {"0": 99.5, "1": 99.5, "2": null},
      "twoQubitGateFidelity": 97.8,
      "spamFidelityLowerBound": 99.6,
      "T1": 10,
      "T2": 0.2,
      "readoutTime": 300
    }
  }
}`

const queraProps = `{
  "paradigm": {
    "qubitCount": 256,
    "performance": {
      "lattice": {
        "atomLossProbabilityTypical": 0.005,
        "fillingErrorTypical": 0.02,
        "positionErrorAbs": 1e-7
      }
    }
  },
  "action": {"braket.ir.ahs.program": {"actionType": "braket.ir.ahs.program"}}
}`

func mustParse(t interface {
	Helper()
	Fatalf(string, ...any)
}, raw string) *Properties {
	t.Helper()
	p, ok := ParseString(raw, nil)
	if !ok {
		t.Fatalf("ParseString failed for fixture")
	}
	return p
}

func metricValue(metrics []Metric, label string) (string, bool) {
	for _, m := range metrics {
		if m.Label == label {
			return m.Value, true
		}
	}
	return "", false
}
