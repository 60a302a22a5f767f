package properties

import (
	"slices"
	"strings"
)

// GateType classifies a gate by the number of qubits it acts on.
type GateType string

// Gate types.
const (
	GateSingleQubit GateType = "single-qubit"
	GateTwoQubit    GateType = "two-qubit"
	GateThreeQubit  GateType = "three-qubit"
	GateOther       GateType = "other"
)

// Gate is one gate record.
type Gate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        GateType `json:"type"`
	Native      bool     `json:"native"`
}

type gateInfo struct {
	description string
	kind        GateType
}

// knownGates maps lowercase operation names to descriptions.
var knownGates = map[string]gateInfo{
	"i":             {"Identity", GateSingleQubit},
	"h":             {"Hadamard", GateSingleQubit},
	"x":             {"Pauli-X", GateSingleQubit},
	"y":             {"Pauli-Y", GateSingleQubit},
	"z":             {"Pauli-Z", GateSingleQubit},
	"s":             {"S (phase)", GateSingleQubit},
	"si":            {"S dagger", GateSingleQubit},
	"t":             {"T (pi/8)", GateSingleQubit},
	"ti":            {"T dagger", GateSingleQubit},
	"v":             {"Square root of X", GateSingleQubit},
	"vi":            {"Square root of X dagger", GateSingleQubit},
	"rx":            {"X-axis rotation", GateSingleQubit},
	"ry":            {"Y-axis rotation", GateSingleQubit},
	"rz":            {"Z-axis rotation", GateSingleQubit},
	"phaseshift":    {"Phase shift", GateSingleQubit},
	"gpi":           {"GPi (IonQ native)", GateSingleQubit},
	"gpi2":          {"GPi2 (IonQ native)", GateSingleQubit},
	"prx":           {"Phased X rotation", GateSingleQubit},
	"u":             {"Generic single-qubit rotation", GateSingleQubit},
	"cnot":          {"Controlled NOT", GateTwoQubit},
	"cy":            {"Controlled Y", GateTwoQubit},
	"cz":            {"Controlled Z", GateTwoQubit},
	"cv":            {"Controlled square root of X", GateTwoQubit},
	"swap":          {"Swap", GateTwoQubit},
	"iswap":         {"iSwap", GateTwoQubit},
	"pswap":         {"Parametrized swap", GateTwoQubit},
	"xy":            {"XY interaction", GateTwoQubit},
	"xx":            {"Ising XX coupling", GateTwoQubit},
	"yy":            {"Ising YY coupling", GateTwoQubit},
	"zz":            {"Ising ZZ coupling", GateTwoQubit},
	"ecr":           {"Echoed cross-resonance", GateTwoQubit},
	"ms":            {"Molmer-Sorensen (IonQ native)", GateTwoQubit},
	"cphaseshift":   {"Controlled phase shift", GateTwoQubit},
	"cphaseshift00": {"Controlled phase shift on |00>", GateTwoQubit},
	"cphaseshift01": {"Controlled phase shift on |01>", GateTwoQubit},
	"cphaseshift10": {"Controlled phase shift on |10>", GateTwoQubit},
	"rxx":           {"XX rotation", GateTwoQubit},
	"ccnot":         {"Toffoli", GateThreeQubit},
	"cswap":         {"Fredkin", GateThreeQubit},
	"unitary":       {"Arbitrary unitary", GateOther},
}

// describeGate returns a record for an operation name. Unknown operations
// keep their name as description.
func describeGate(name string, native bool) Gate {
	g := Gate{Name: name, Description: name, Type: GateOther, Native: native}
	if info, ok := knownGates[strings.ToLower(name)]; ok {
		g.Description = info.description
		g.Type = info.kind
	}
	return g
}

// ExtractNativeGates returns one native record per operation the
// preferred action supports. An absent list yields an empty slice.
func ExtractNativeGates(p *Properties) []Gate {
	gates := []Gate{}
	_, action, ok := PreferredAction(p)
	if !ok {
		return gates
	}
	for _, op := range action.SupportedOperations {
		gates = append(gates, describeGate(op, true))
	}
	return gates
}

// ExtractNativeGateSet lists the paradigm's native gate set, the gates the
// hardware runs without compilation.
func ExtractNativeGateSet(p *Properties) []Gate {
	gates := []Gate{}
	if p == nil || p.Paradigm == nil {
		return gates
	}
	for _, name := range p.Paradigm.NativeGateSet {
		gates = append(gates, describeGate(name, true))
	}
	return gates
}

// Preferred program types, most specific first.
var actionPreference = []string{
	"braket.ir.openqasm.program",
	"braket.ir.jaqcd.program",
	"braket.ir.ahs.program",
}

// PreferredAction picks the action used for gate and result type listings:
// OpenQASM, then JAQCD, then AHS, then the first program type by name.
func PreferredAction(p *Properties) (string, Action, bool) {
	if p == nil || len(p.Action) == 0 {
		return "", Action{}, false
	}
	for _, key := range actionPreference {
		if a, ok := p.Action[key]; ok {
			return key, a, true
		}
	}
	keys := make([]string, 0, len(p.Action))
	for k := range p.Action {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys[0], p.Action[keys[0]], true
}

// ExtractSupportedGates lists the preferred action's supported operations,
// flagging those that are also in the native gate set.
func ExtractSupportedGates(p *Properties) []Gate {
	gates := []Gate{}
	_, action, ok := PreferredAction(p)
	if !ok {
		return gates
	}

	native := make(map[string]struct{})
	if p.Paradigm != nil {
		for _, n := range p.Paradigm.NativeGateSet {
			native[strings.ToLower(n)] = struct{}{}
		}
	}
	for _, op := range action.SupportedOperations {
		_, isNative := native[strings.ToLower(op)]
		gates = append(gates, describeGate(op, isNative))
	}
	return gates
}

// ExtractResultTypes lists the preferred action's result types.
func ExtractResultTypes(p *Properties) []ResultType {
	_, action, ok := PreferredAction(p)
	if !ok || len(action.SupportedResultTypes) == 0 {
		return []ResultType{}
	}
	return append([]ResultType(nil), action.SupportedResultTypes...)
}
