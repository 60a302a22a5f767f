package braket

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsbraket "github.com/aws/aws-sdk-go-v2/service/braket"
	bktypes "github.com/aws/aws-sdk-go-v2/service/braket/types"

	"github.com/pithecene-io/braket-devices/types"
)

// Queue names reported in DeviceQueueInfo.
const (
	queueQuantumTasks = "QUANTUM_TASKS_QUEUE"
	queueJobs         = "JOBS_QUEUE"
)

func summaryFrom(d bktypes.DeviceSummary) (types.DeviceSummary, error) {
	arn := aws.ToString(d.DeviceArn)
	deviceType, err := types.ParseDeviceType(string(d.DeviceType))
	if err != nil {
		return types.DeviceSummary{}, fmt.Errorf("device %s: %w", arn, err)
	}
	return types.DeviceSummary{
		DeviceArn:    arn,
		DeviceName:   aws.ToString(d.DeviceName),
		DeviceType:   deviceType,
		DeviceStatus: types.ParseDeviceStatus(string(d.DeviceStatus)),
		ProviderName: aws.ToString(d.ProviderName),
	}, nil
}

func (c *Client) detailFrom(arn string, out *awsbraket.GetDeviceOutput) (types.DeviceDetail, error) {
	if out == nil {
		return types.DeviceDetail{}, NewError(ErrServer, "get-device", arn, fmt.Errorf("empty response"))
	}
	deviceType, err := types.ParseDeviceType(string(out.DeviceType))
	if err != nil {
		return types.DeviceDetail{}, NewError(ErrServer, "get-device", arn, err)
	}

	detail := types.DeviceDetail{
		DeviceSummary: types.DeviceSummary{
			DeviceArn:    arn,
			DeviceName:   aws.ToString(out.DeviceName),
			DeviceType:   deviceType,
			DeviceStatus: types.ParseDeviceStatus(string(out.DeviceStatus)),
			ProviderName: aws.ToString(out.ProviderName),
		},
		QueueDepth: c.queueDepthFrom(arn, out.DeviceQueueInfo),
	}
	if out.DeviceArn != nil && *out.DeviceArn != "" {
		detail.DeviceArn = *out.DeviceArn
	}
	if out.DeviceCapabilities != nil && strings.TrimSpace(*out.DeviceCapabilities) != "" {
		caps := *out.DeviceCapabilities
		detail.Properties = &caps
	}
	return detail, nil
}

// queueDepthFrom folds queue infos into a QueueDepth, keeping the order in
// which task queues are reported. Unreadable sizes are skipped. Returns nil
// when the device reports no queues.
func (c *Client) queueDepthFrom(arn string, infos []bktypes.DeviceQueueInfo) *types.QueueDepth {
	if len(infos) == 0 {
		return nil
	}

	var q types.QueueDepth
	for _, info := range infos {
		size, err := types.ParseQueueSize(aws.ToString(info.QueueSize))
		if err != nil {
			c.logger.Warn("skipping unreadable queue size", map[string]any{
				"device_arn": arn,
				"queue":      string(info.Queue),
				"error":      err.Error(),
			})
			continue
		}
		switch string(info.Queue) {
		case queueJobs:
			jobs := size
			q.Jobs = &jobs
		case queueQuantumTasks:
			name := string(info.QueuePriority)
			if name == "" {
				name = types.QueueNormal
			}
			q.SetTask(name, size)
		default:
			c.logger.Debug("ignoring unknown queue", map[string]any{
				"device_arn": arn,
				"queue":      string(info.Queue),
			})
		}
	}
	if len(q.QuantumTasks) == 0 && q.Jobs == nil {
		return nil
	}
	return &q
}
