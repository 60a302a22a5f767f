package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Queue names used by the Braket API for quantum task priorities.
const (
	QueueNormal   = "Normal"
	QueuePriority = "Priority"
)

// QueueCount is the number of pending items in one named queue.
type QueueCount struct {
	Name  string
	Count int
}

// QueueDepth holds per-queue pending quantum task counts plus the number of
// pending hybrid jobs.
//
// QuantumTasks is ordered: the wire form is a JSON object and the order of
// its keys is preserved through decode and encode.
type QueueDepth struct {
	QuantumTasks []QueueCount
	// Jobs is nil when the upstream did not report a jobs queue.
	Jobs *int
}

// Clone returns a deep copy.
func (q QueueDepth) Clone() QueueDepth {
	out := QueueDepth{QuantumTasks: append([]QueueCount(nil), q.QuantumTasks...)}
	if q.Jobs != nil {
		j := *q.Jobs
		out.Jobs = &j
	}
	return out
}

// Task returns the count for the named task queue.
func (q QueueDepth) Task(name string) (int, bool) {
	for _, c := range q.QuantumTasks {
		if c.Name == name {
			return c.Count, true
		}
	}
	return 0, false
}

// SetTask sets the count for the named queue, appending it if new.
func (q *QueueDepth) SetTask(name string, count int) {
	for i := range q.QuantumTasks {
		if q.QuantumTasks[i].Name == name {
			q.QuantumTasks[i].Count = count
			return
		}
	}
	q.QuantumTasks = append(q.QuantumTasks, QueueCount{Name: name, Count: count})
}

// ParseQueueSize parses a queue size as reported by the API. Large queues are
// reported as a bound (">4000"); the bound is taken as the count.
func ParseQueueSize(s string) (int, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimLeft(v, "><=")
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid queue size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid queue size %q: negative", s)
	}
	return n, nil
}

// MarshalJSON writes {"quantumTasks": {...}, "jobs": n} keeping queue order.
func (q QueueDepth) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"quantumTasks":{`)
	for i, c := range q.QuantumTasks {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}
	buf.WriteByte('}')
	if q.Jobs != nil {
		buf.WriteString(`,"jobs":`)
		buf.WriteString(strconv.Itoa(*q.Jobs))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the wire form. Counts may be numbers or numeric strings.
func (q *QueueDepth) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuantumTasks json.RawMessage `json:"quantumTasks"`
		Jobs         json.RawMessage `json:"jobs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out QueueDepth
	if isPresent(raw.QuantumTasks) {
		tasks, err := decodeOrderedCounts(raw.QuantumTasks)
		if err != nil {
			return fmt.Errorf("queueDepth.quantumTasks: %w", err)
		}
		out.QuantumTasks = tasks
	}
	if isPresent(raw.Jobs) {
		var v any
		if err := json.Unmarshal(raw.Jobs, &v); err != nil {
			return fmt.Errorf("queueDepth.jobs: %w", err)
		}
		n, err := countFromValue(v)
		if err != nil {
			return fmt.Errorf("queueDepth.jobs: %w", err)
		}
		out.Jobs = &n
	}

	*q = out
	return nil
}

// MarshalYAML mirrors MarshalJSON, keeping queue order.
func (q QueueDepth) MarshalYAML() (any, error) {
	tasks := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range q.QuantumTasks {
		tasks.Content = append(tasks.Content, yamlScalar("!!str", c.Name), yamlScalar("!!int", strconv.Itoa(c.Count)))
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, yamlScalar("!!str", "quantumTasks"), tasks)
	if q.Jobs != nil {
		root.Content = append(root.Content, yamlScalar("!!str", "jobs"), yamlScalar("!!int", strconv.Itoa(*q.Jobs)))
	}
	return root, nil
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func decodeOrderedCounts(raw json.RawMessage) ([]QueueCount, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var out []QueueCount
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected queue name, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		n, err := countFromValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, QueueCount{Name: name, Count: n})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func countFromValue(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		return ParseQueueSize(n.String())
	case float64:
		if n < 0 || n != float64(int(n)) {
			return 0, fmt.Errorf("invalid queue size %v", n)
		}
		return int(n), nil
	case string:
		return ParseQueueSize(n)
	default:
		return 0, fmt.Errorf("invalid queue size %v", v)
	}
}
