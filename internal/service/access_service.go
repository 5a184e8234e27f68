package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type permissionReader interface {
	EffectiveCodes(ctx context.Context, userID string) ([]string, error)
}

// GateOutcome classifies the result of a gated operation.
type GateOutcome string

const (
	GateGranted GateOutcome = "granted"
	GateDenied  GateOutcome = "denied"
	GateErrored GateOutcome = "errored"
)

// GateResult is the uniform outcome of a permission-gated call. Denials and
// failures are values here, not errors, so every caller handles the three
// cases through one shape.
type GateResult struct {
	Outcome GateOutcome `json:"outcome"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Detail  string      `json:"detail,omitempty"`
	Err     error       `json:"-"`
}

// Granted reports whether the gated operation ran and succeeded.
func (r GateResult) Granted() bool {
	return r.Outcome == GateGranted
}

// AccessService resolves effective permissions and gates operations on them.
// Permissions are recomputed from the store on every call; there is no cache,
// so grants and revocations take effect immediately.
type AccessService struct {
	permissions permissionReader
	logger      *zap.Logger
}

// NewAccessService constructs an AccessService.
func NewAccessService(permissions permissionReader, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{permissions: permissions, logger: logger}
}

// HasAccess reports whether the user holds at least one of the given
// permission codes through group membership or a direct grant. An unknown
// user simply has no permissions; the check fails closed without error.
func (s *AccessService) HasAccess(ctx context.Context, userID string, codes ...string) (bool, error) {
	if userID == "" || len(codes) == 0 {
		return false, nil
	}
	effective, err := s.permissions.EffectiveCodes(ctx, userID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve permissions")
	}
	held := make(map[string]struct{}, len(effective))
	for _, code := range effective {
		held[code] = struct{}{}
	}
	for _, code := range codes {
		if _, ok := held[code]; ok {
			return true, nil
		}
	}
	return false, nil
}

// ExecuteWithAccess runs op only when the user holds one of the required
// codes. The access check happens before any side effect; a denied call
// never invokes op. Errors and panics inside op become the errored outcome
// instead of propagating.
func (s *AccessService) ExecuteWithAccess(ctx context.Context, name, userID string, codes []string, denialMessage string, op func() (interface{}, error)) GateResult {
	ok, err := s.HasAccess(ctx, userID, codes...)
	if err != nil {
		s.logger.Error("access check failed", zap.String("operation", name), zap.String("user_id", userID), zap.Error(err))
		return GateResult{
			Outcome: GateErrored,
			Message: fmt.Sprintf("operation %s failed", name),
			Detail:  err.Error(),
			Err:     err,
		}
	}
	if !ok {
		return GateResult{Outcome: GateDenied, Message: denialMessage}
	}
	return s.run(name, op)
}

func (s *AccessService) run(name string, op func() (interface{}, error)) (result GateResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("gated operation panicked", zap.String("operation", name), zap.Any("panic", r))
			result = GateResult{
				Outcome: GateErrored,
				Message: fmt.Sprintf("operation %s failed", name),
				Detail:  fmt.Sprint(r),
			}
		}
	}()

	data, err := op()
	if err != nil {
		s.logger.Error("gated operation failed", zap.String("operation", name), zap.Error(err))
		return GateResult{
			Outcome: GateErrored,
			Message: fmt.Sprintf("operation %s failed", name),
			Detail:  err.Error(),
			Err:     err,
		}
	}
	return GateResult{Outcome: GateGranted, Data: data}
}
