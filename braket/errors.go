package braket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	bktypes "github.com/aws/aws-sdk-go-v2/service/braket/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for upstream failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrAuth indicates missing, invalid or expired credentials.
	ErrAuth = errors.New("authentication failed")

	// ErrPermission indicates valid credentials without access to Braket.
	ErrPermission = errors.New("access denied")

	// ErrNotFound indicates the device does not exist in the region.
	ErrNotFound = errors.New("device not found")

	// ErrValidation indicates a malformed request, such as a bad ARN.
	ErrValidation = errors.New("invalid request")

	// ErrNetwork indicates the API could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrUnavailable indicates the service is throttling or unavailable.
	ErrUnavailable = errors.New("service unavailable")

	// ErrServer indicates any other upstream failure.
	ErrServer = errors.New("service error")
)

// Kind is the machine-readable error type surfaced in error envelopes.
type Kind string

// Error kinds. KindParseFailure never comes from the API; it labels
// capabilities documents the normaliser could not read.
const (
	KindAuth         Kind = "auth"
	KindPermission   Kind = "permission"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindNetwork      Kind = "network"
	KindServer       Kind = "server_error"
	KindParseFailure Kind = "parse_failure"
)

// Error wraps an upstream error with its classification.
// It preserves the original error in the chain for inspection via errors.As.
type Error struct {
	// Kind is the sentinel error for classification (e.g., ErrNotFound).
	Kind error
	// Op is the operation that failed (e.g., "search-devices", "get-device").
	Op string
	// ARN is the device involved, if any.
	ARN string
	// Region is the region the call went to, if known.
	Region string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.ARN != "" {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.ARN, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Message is the human-readable text for error envelopes: the API error
// code and message when the service returned one, otherwise the error text.
func (e *Error) Message() string {
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

// Details returns diagnostic fields for error envelopes. Empty values are
// omitted.
func (e *Error) Details() map[string]any {
	d := make(map[string]any)
	if e.Op != "" {
		d["operation"] = e.Op
	}
	if e.ARN != "" {
		d["deviceArn"] = e.ARN
	}
	if e.Region != "" {
		d["region"] = e.Region
	}
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		d["code"] = apiErr.ErrorCode()
	}
	var respErr *awshttp.ResponseError
	if errors.As(e.Err, &respErr) {
		if id := respErr.ServiceRequestID(); id != "" {
			d["requestId"] = id
		}
		d["httpStatus"] = respErr.HTTPStatusCode()
	}
	return d
}

// NewError creates a classified error with an explicit kind.
func NewError(kind error, op, arn string, err error) *Error {
	return &Error{Kind: kind, Op: op, ARN: arn, Err: err}
}

// Classify wraps an upstream error with its classification.
// Returns nil if err is nil. Already classified errors are returned as is.
func Classify(op, arn string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return NewError(classifyError(err), op, arn, err)
}

// KindOf maps an error to its envelope type. Unclassified errors are
// server errors.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrPermission):
		return KindPermission
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindServer
	}
}

// HTTPStatus maps an error to the status code of its error envelope.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// codeKinds maps Braket and common AWS error codes to sentinels.
var codeKinds = map[string]error{
	"ResourceNotFoundException":     ErrNotFound,
	"DeviceRetiredException":        ErrNotFound,
	"AccessDeniedException":         ErrPermission,
	"ValidationException":           ErrValidation,
	"UnrecognizedClientException":   ErrAuth,
	"InvalidSignatureException":     ErrAuth,
	"IncompleteSignature":           ErrAuth,
	"MissingAuthenticationToken":    ErrAuth,
	"ExpiredTokenException":         ErrAuth,
	"InvalidClientTokenId":          ErrAuth,
	"ThrottlingException":           ErrUnavailable,
	"ServiceUnavailableException":   ErrUnavailable,
	"ServiceQuotaExceededException": ErrUnavailable,
	"DeviceOfflineException":        ErrUnavailable,
	"InternalFailure":               ErrServer,
}

// classifyError determines the sentinel for an upstream error: context
// errors first, then typed exceptions, then API error codes, then message
// patterns.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrNetwork
	}

	var notFound *bktypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return ErrNotFound
	}
	var denied *bktypes.AccessDeniedException
	if errors.As(err, &denied) {
		return ErrPermission
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := codeKinds[apiErr.ErrorCode()]; ok {
			return kind
		}
		if strings.HasSuffix(apiErr.ErrorCode(), "ServiceException") {
			return ErrUnavailable
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return ErrServer
		}
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "failed to retrieve credentials", "no valid providers", "nocredentialproviders",
		"no ec2 imds role", "expiredtoken", "security token included in the request is invalid"):
		return ErrAuth
	case containsAny(msg, "accessdenied", "not authorized", "forbidden"):
		return ErrPermission
	case containsAny(msg, "connection refused", "no such host", "no route to host",
		"network is unreachable", "dial tcp", "i/o timeout", "tls handshake"):
		return ErrNetwork
	case containsAny(msg, "not found", "does not exist"):
		return ErrNotFound
	default:
		return ErrServer
	}
}

// containsAny checks whether s contains any of the lowercase substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
