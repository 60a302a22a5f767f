package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/pithecene-io/braket-devices/properties"
)

// View types with TUI support.
const (
	ViewListDevices   = "list_devices"
	ViewInspectDevice = "inspect_device"
)

// Run starts the appropriate TUI based on the view type.
// Returns an error if the view type doesn't support TUI or data has the
// wrong type for it.
func Run(ctx context.Context, viewType string, data any) error {
	if !IsTUISupported(viewType) {
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}

	switch viewType {
	case ViewListDevices:
		src, ok := data.(BrowserSource)
		if !ok {
			return fmt.Errorf("invalid data type %T for %s", data, viewType)
		}
		return RunBrowserTUI(ctx, src)
	case ViewInspectDevice:
		v, ok := data.(properties.View)
		if !ok {
			return fmt.Errorf("invalid data type %T for %s", data, viewType)
		}
		return RunInspectTUI(v)
	}
	return fmt.Errorf("unknown view type: %s", viewType)
}

// IsTUISupported returns true if the view type supports TUI mode.
// Only list and inspect support TUI.
func IsTUISupported(viewType string) bool {
	return slices.Contains(SupportedTUIViews(), viewType)
}

// SupportedTUIViews returns a list of view types that support TUI.
func SupportedTUIViews() []string {
	return []string{ViewListDevices, ViewInspectDevice}
}
