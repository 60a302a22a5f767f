package properties

import (
	"strings"

	"github.com/pithecene-io/braket-devices/types"
)

// QueueRow is one display row of a queue depth.
type QueueRow struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Labels for the queue kinds the API reports today.
const (
	LabelTasksQueue    = "Tasks Queue"
	LabelPriorityQueue = "Priority Queue"
	LabelJobsQueue     = "Hybrid Jobs Queue"
)

// FormatQueueDepth maps a queue depth to display rows in input order, with
// the hybrid jobs queue last. Zero counts are kept. Queue names other than
// Normal and Priority keep their raw name as label.
func FormatQueueDepth(q types.QueueDepth) []QueueRow {
	rows := make([]QueueRow, 0, len(q.QuantumTasks)+1)
	for _, c := range q.QuantumTasks {
		rows = append(rows, QueueRow{Label: queueLabel(c.Name), Value: c.Count})
	}
	if q.Jobs != nil {
		rows = append(rows, QueueRow{Label: LabelJobsQueue, Value: *q.Jobs})
	}
	return rows
}

func queueLabel(name string) string {
	// The Python SDK stringifies its enum as "QueueType.NORMAL".
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "queuetype.")
	switch key {
	case "normal":
		return LabelTasksQueue
	case "priority":
		return LabelPriorityQueue
	case "jobs", "hybrid", "jobs_queue":
		return LabelJobsQueue
	default:
		return name
	}
}
