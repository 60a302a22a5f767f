package braket

import (
	"context"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsbraket "github.com/aws/aws-sdk-go-v2/service/braket"
	bktypes "github.com/aws/aws-sdk-go-v2/service/braket/types"

	"github.com/pithecene-io/braket-devices/types"
)

// fakeAPI serves canned SearchDevices pages and GetDevice outputs.
type fakeAPI struct {
	mu sync.Mutex

	pages     [][]bktypes.DeviceSummary
	searchErr error
	devices   map[string]*awsbraket.GetDeviceOutput
	getErr    error

	searchCalls int
	getCalls    int
	lastFilters []bktypes.SearchDevicesFilter
}

func (f *fakeAPI) SearchDevices(_ context.Context, in *awsbraket.SearchDevicesInput, _ ...func(*awsbraket.Options)) (*awsbraket.SearchDevicesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.lastFilters = in.Filters
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	for _, filter := range in.Filters {
		if aws.ToString(filter.Name) != "deviceArn" {
			continue
		}
		var matched []bktypes.DeviceSummary
		for _, page := range f.pages {
			for _, d := range page {
				for _, v := range filter.Values {
					if aws.ToString(d.DeviceArn) == v {
						matched = append(matched, d)
					}
				}
			}
		}
		return &awsbraket.SearchDevicesOutput{Devices: matched}, nil
	}

	idx := 0
	if in.NextToken != nil {
		idx, _ = strconv.Atoi(*in.NextToken)
	}
	out := &awsbraket.SearchDevicesOutput{}
	if idx < len(f.pages) {
		out.Devices = f.pages[idx]
	}
	if idx+1 < len(f.pages) {
		out.NextToken = aws.String(strconv.Itoa(idx + 1))
	}
	return out, nil
}

func (f *fakeAPI) GetDevice(_ context.Context, in *awsbraket.GetDeviceInput, _ ...func(*awsbraket.Options)) (*awsbraket.GetDeviceOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	out, ok := f.devices[aws.ToString(in.DeviceArn)]
	if !ok {
		return nil, &bktypes.ResourceNotFoundException{Message: aws.String("Braket device not found")}
	}
	return out, nil
}

func summary(arn, name, provider, deviceType, status string) bktypes.DeviceSummary {
	return bktypes.DeviceSummary{
		DeviceArn:    aws.String(arn),
		DeviceName:   aws.String(name),
		ProviderName: aws.String(provider),
		DeviceType:   bktypes.DeviceType(deviceType),
		DeviceStatus: bktypes.DeviceStatus(status),
	}
}

// regionAPIs builds a constructor that hands out a fixed fake per region
// and records which regions were requested.
type regionAPIs struct {
	mu        sync.Mutex
	fakes     map[string]*fakeAPI
	requested []string
}

func (r *regionAPIs) newAPI(region string) API {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requested = append(r.requested, region)
	f, ok := r.fakes[region]
	if !ok {
		f = &fakeAPI{}
		r.fakes[region] = f
	}
	return f
}

// fakeRegistry is an in-memory Registry.
type fakeRegistry struct {
	mu          sync.Mutex
	details     map[string]types.DeviceDetail
	statuses    map[string]types.DeviceStatus
	err         error
	getCalls    int
	statusCalls int
}

func (f *fakeRegistry) ListDevices(context.Context) (DeviceList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return DeviceList{}, f.err
	}
	var list DeviceList
	for _, d := range f.details {
		list.Devices = append(list.Devices, d.DeviceSummary)
	}
	return list, nil
}

func (f *fakeRegistry) GetDevice(_ context.Context, arn string) (types.DeviceDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return types.DeviceDetail{}, f.err
	}
	d, ok := f.details[arn]
	if !ok {
		return types.DeviceDetail{}, NewError(ErrNotFound, "get-device", arn, nil)
	}
	if s, ok := f.statuses[arn]; ok {
		d.DeviceStatus = s
	}
	return d, nil
}

func (f *fakeRegistry) DeviceStatus(_ context.Context, arn string) (types.DeviceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.err != nil {
		return "", f.err
	}
	s, ok := f.statuses[arn]
	if !ok {
		return "", NewError(ErrNotFound, "device-status", arn, nil)
	}
	return s, nil
}
