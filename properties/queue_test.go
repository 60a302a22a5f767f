package properties

import (
	"testing"

	"github.com/pithecene-io/braket-devices/types"
)

func TestFormatQueueDepth(t *testing.T) {
	q := types.QueueDepth{QuantumTasks: []types.QueueCount{
		{Name: types.QueueNormal, Count: 5},
		{Name: types.QueuePriority, Count: 0},
	}}

	got := FormatQueueDepth(q)
	want := []QueueRow{{LabelTasksQueue, 5}, {LabelPriorityQueue, 0}}
	assertQueueRows(t, got, want)
}

func TestFormatQueueDepth_JobsLast(t *testing.T) {
	jobs := 2
	q := types.QueueDepth{
		QuantumTasks: []types.QueueCount{
			{Name: "Priority", Count: 1},
			{Name: "QueueType.NORMAL", Count: 7},
			{Name: "Express", Count: 3},
		},
		Jobs: &jobs,
	}

	got := FormatQueueDepth(q)
	want := []QueueRow{
		{LabelPriorityQueue, 1},
		{LabelTasksQueue, 7},
		{"Express", 3},
		{LabelJobsQueue, 2},
	}
	assertQueueRows(t, got, want)
}

func TestFormatQueueDepth_Empty(t *testing.T) {
	if rows := FormatQueueDepth(types.QueueDepth{}); len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}

func assertQueueRows(t *testing.T, got, want []QueueRow) {
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
