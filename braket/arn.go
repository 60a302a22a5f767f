package braket

import (
	"fmt"
	"strings"
)

// ARNPrefix is the required prefix of a device ARN.
const ARNPrefix = "arn:aws:braket:"

// ValidateARN checks that arn looks like a Braket device ARN.
func ValidateARN(arn string) error {
	if arn == "" || !strings.HasPrefix(arn, ARNPrefix) {
		return NewError(ErrValidation, "validate", arn, fmt.Errorf("invalid device ARN format: %q", arn))
	}
	return nil
}

// RegionFromARN returns the region field of a device ARN. Simulators are
// global and their ARNs carry no region, so the result may be empty.
//
//	arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1 -> us-east-1
//	arn:aws:braket:::device/quantum-simulator/amazon/sv1 -> ""
func RegionFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return ""
	}
	return parts[3]
}

// ProviderFromARN returns the provider path segment of a device ARN, e.g.
// "ionq" for arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1.
func ProviderFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return ""
	}
	segs := strings.Split(parts[5], "/")
	if len(segs) < 4 || segs[0] != "device" {
		return ""
	}
	return segs[2]
}
