// Package braket is the device registry source: it lists Amazon Braket
// devices and fetches per-device details through the Braket API, and
// classifies upstream failures into the error kinds surfaced to clients.
package braket

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsbraket "github.com/aws/aws-sdk-go-v2/service/braket"
	bktypes "github.com/aws/aws-sdk-go-v2/service/braket/types"

	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/types"
)

// Registry supplies device records.
type Registry interface {
	// ListDevices returns ONLINE and OFFLINE devices across all regions.
	ListDevices(ctx context.Context) (DeviceList, error)
	// GetDevice returns the full detail of one device.
	GetDevice(ctx context.Context, arn string) (types.DeviceDetail, error)
	// DeviceStatus returns only the live status of one device.
	DeviceStatus(ctx context.Context, arn string) (types.DeviceStatus, error)
}

// DeviceList is a device listing plus the warnings gathered while building
// it. Warnings mark partial results; they are never errors.
type DeviceList struct {
	Devices  []types.DeviceSummary
	Warnings []string
}

// API is the subset of the Braket client used here. *awsbraket.Client
// implements it.
type API interface {
	awsbraket.SearchDevicesAPIClient
	GetDevice(ctx context.Context, params *awsbraket.GetDeviceInput, optFns ...func(*awsbraket.Options)) (*awsbraket.GetDeviceOutput, error)
}

// Config selects the regions and credentials used by NewFromConfig.
type Config struct {
	// Regions are searched in order when listing. Empty means the region
	// from the AWS default chain.
	Regions []string
	// Profile is a shared config profile name. Empty uses the default chain.
	Profile string
	// Endpoint overrides the Braket endpoint URL (for local fakes).
	Endpoint string
}

// Client implements Registry on top of one Braket API client per region.
type Client struct {
	regions []string
	newAPI  func(region string) API
	logger  *log.Logger
	metrics *metrics.Collector

	mu   sync.Mutex
	apis map[string]API
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for upstream failures and warnings.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the collector for upstream call counters.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client that obtains per-region API clients from newAPI.
// At least one region is required; the first is used for global devices.
func New(regions []string, newAPI func(region string) API, opts ...Option) (*Client, error) {
	if len(regions) == 0 {
		return nil, errors.New("at least one region is required")
	}
	if newAPI == nil {
		return nil, errors.New("API constructor is required")
	}
	c := &Client{
		regions: slices.Clone(regions),
		newAPI:  newAPI,
		apis:    make(map[string]API),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a Client from the AWS default credential chain.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if len(cfg.Regions) > 0 {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Regions[0]))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, Classify("load-config", "", fmt.Errorf("failed to load AWS config: %w", err))
	}

	regions := cfg.Regions
	if len(regions) == 0 {
		if awsConfig.Region == "" {
			return nil, NewError(ErrValidation, "load-config", "", errors.New("no AWS region configured"))
		}
		regions = []string{awsConfig.Region}
	}

	newAPI := func(region string) API {
		return awsbraket.NewFromConfig(awsConfig, func(o *awsbraket.Options) {
			o.Region = region
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
		})
	}
	return New(regions, newAPI, opts...)
}

// Regions returns the configured regions in search order.
func (c *Client) Regions() []string {
	return slices.Clone(c.regions)
}

// apiFor returns the client for region, creating it on first use. An empty
// region (global simulators) maps to the first configured region.
func (c *Client) apiFor(region string) (string, API) {
	if region == "" {
		region = c.regions[0]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	api, ok := c.apis[region]
	if !ok {
		api = c.newAPI(region)
		c.apis[region] = api
	}
	return region, api
}

// ListDevices searches every region in order. A region that fails while
// others succeed becomes a warning; if every region fails the first error
// is returned. Devices are deduplicated by ARN (global simulators appear in
// every region) and sorted by name.
func (c *Client) ListDevices(ctx context.Context) (DeviceList, error) {
	var (
		list     DeviceList
		firstErr error
		failed   int
	)
	seen := make(map[string]struct{})

	for _, region := range c.regions {
		if err := ctx.Err(); err != nil {
			return DeviceList{}, Classify("search-devices", "", err)
		}

		found, err := c.searchRegion(ctx, region, nil)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			list.Warnings = append(list.Warnings, fmt.Sprintf("region %s: %s", region, messageOf(err)))
			continue
		}

		for _, d := range found {
			summary, err := summaryFrom(d)
			if err != nil {
				list.Warnings = append(list.Warnings, err.Error())
				continue
			}
			if !summary.DeviceStatus.Listed() {
				continue
			}
			if _, dup := seen[summary.DeviceArn]; dup {
				continue
			}
			seen[summary.DeviceArn] = struct{}{}
			list.Devices = append(list.Devices, summary)
		}
	}

	if failed == len(c.regions) {
		return DeviceList{}, firstErr
	}
	for range failed {
		c.metrics.IncRegionWarning()
	}
	if failed > 0 {
		c.logger.Warn("partial device listing", map[string]any{
			"failed_regions": failed,
			"warnings":       list.Warnings,
		})
	}

	slices.SortFunc(list.Devices, func(a, b types.DeviceSummary) int {
		if n := strings.Compare(a.DeviceName, b.DeviceName); n != 0 {
			return n
		}
		return strings.Compare(a.DeviceArn, b.DeviceArn)
	})
	return list, nil
}

// searchRegion pages through SearchDevices in one region.
func (c *Client) searchRegion(ctx context.Context, region string, filters []bktypes.SearchDevicesFilter) ([]bktypes.DeviceSummary, error) {
	_, api := c.apiFor(region)
	if filters == nil {
		filters = []bktypes.SearchDevicesFilter{}
	}

	var out []bktypes.DeviceSummary
	p := awsbraket.NewSearchDevicesPaginator(api, &awsbraket.SearchDevicesInput{Filters: filters})
	for p.HasMorePages() {
		c.metrics.IncUpstreamCall()
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, c.fail("search-devices", "", region, err)
		}
		out = append(out, page.Devices...)
	}
	return out, nil
}

// GetDevice fetches the full detail of one device from the region in its
// ARN.
func (c *Client) GetDevice(ctx context.Context, arn string) (types.DeviceDetail, error) {
	if err := ValidateARN(arn); err != nil {
		return types.DeviceDetail{}, err
	}

	region, api := c.apiFor(RegionFromARN(arn))
	c.metrics.IncUpstreamCall()
	out, err := api.GetDevice(ctx, &awsbraket.GetDeviceInput{DeviceArn: aws.String(arn)})
	if err != nil {
		return types.DeviceDetail{}, c.fail("get-device", arn, region, err)
	}
	detail, err := c.detailFrom(arn, out)
	if err != nil {
		return types.DeviceDetail{}, c.fail("get-device", arn, region, err)
	}
	return detail, nil
}

// DeviceStatus looks up the live status of one device with a filtered
// search, which is cheaper than a full GetDevice.
func (c *Client) DeviceStatus(ctx context.Context, arn string) (types.DeviceStatus, error) {
	if err := ValidateARN(arn); err != nil {
		return "", err
	}

	region := RegionFromARN(arn)
	found, err := c.searchRegion(ctx, region, []bktypes.SearchDevicesFilter{{
		Name:   aws.String("deviceArn"),
		Values: []string{arn},
	}})
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.ARN = arn
		}
		return "", err
	}
	for _, d := range found {
		if aws.ToString(d.DeviceArn) == arn {
			return types.ParseDeviceStatus(string(d.DeviceStatus)), nil
		}
	}
	return "", c.fail("device-status", arn, region, NewError(ErrNotFound, "device-status", arn, fmt.Errorf("no device with ARN %s", arn)))
}

// fail classifies err, counts it and logs it.
func (c *Client) fail(op, arn, region string, err error) error {
	classified := Classify(op, arn, err)
	var e *Error
	if errors.As(classified, &e) && e.Region == "" {
		e.Region = region
	}
	kind := KindOf(classified)
	c.metrics.IncUpstreamError(string(kind))
	c.logger.Warn("braket call failed", map[string]any{
		"operation":  op,
		"device_arn": arn,
		"region":     region,
		"kind":       string(kind),
		"error":      err.Error(),
	})
	return classified
}

// messageOf returns the envelope message of a classified error.
func messageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
