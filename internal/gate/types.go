package gate

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// activityTimeLayout renders a round-trip timestamp with seven fractional
// digits and an explicit offset, e.g. 2025-03-12T04:00:00.0000000Z.
const activityTimeLayout = "2006-01-02T15:04:05.0000000Z07:00"

// Status is the condition of a unit recorded on a gate entry.
type Status string

const (
	StatusUndamaged Status = "A"
	StatusDamaged   Status = "D"
	StatusSold      Status = "S"
)

// ActivityType is the direction of a gate move.
type ActivityType string

const (
	ActivityIn  ActivityType = "IN"
	ActivityOut ActivityType = "OUT"
)

var (
	validStatuses = []Status{StatusUndamaged, StatusDamaged, StatusSold}
	validTypes    = []ActivityType{ActivityIn, ActivityOut}
)

// Depot identifies the facility handling the unit.
type Depot struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	Code      string `json:"code"`
}

// DefaultDepot is the depot gatectl records gate-in entries for.
var DefaultDepot = Depot{
	CompanyID: "CNXIAFTRI",
	Name:      "Xiamen Sanlly Container Services, Co., Ltd.",
	Code:      "XIAF",
}

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// GateStatusRequest asks for the current gate status of one unit.
type GateStatusRequest struct {
	UnitNumber string
}

// NewGateStatusRequest validates unitNumber and builds a lookup request. The
// unit number is used verbatim.
func NewGateStatusRequest(unitNumber string) (*GateStatusRequest, error) {
	if strings.TrimSpace(unitNumber) == "" {
		return nil, &ValidationError{Field: "unit number", Reason: "cannot be empty"}
	}
	return &GateStatusRequest{UnitNumber: unitNumber}, nil
}

// GateCreateRequest is the body of a gate entry submission. Field order is
// the order of the JSON document.
type GateCreateRequest struct {
	AdviceNumber string       `json:"adviceNumber"`
	Depot        Depot        `json:"depot"`
	UnitNumber   string       `json:"unitNumber"`
	Status       Status       `json:"status"`
	ActivityTime string       `json:"activityTime"`
	Type         ActivityType `json:"type"`
	Photos       []string     `json:"photos"`
}

// CreateOption customizes a GateCreateRequest.
type CreateOption func(*GateCreateRequest)

// WithStatus sets the condition of the unit. Defaults to StatusUndamaged.
func WithStatus(s Status) CreateOption {
	return func(r *GateCreateRequest) { r.Status = s }
}

// WithActivityType sets the gate direction. Defaults to ActivityIn.
func WithActivityType(t ActivityType) CreateOption {
	return func(r *GateCreateRequest) { r.Type = t }
}

// WithPhotos attaches opaque photo references, in order.
func WithPhotos(refs ...string) CreateOption {
	return func(r *GateCreateRequest) { r.Photos = append(r.Photos, refs...) }
}

// NewGateCreateRequest validates its input and builds a gate entry. The
// activity time is fixed here, in UTC, and never recomputed.
func NewGateCreateRequest(adviceNumber, unitNumber string, depot Depot, at time.Time, opts ...CreateOption) (*GateCreateRequest, error) {
	if strings.TrimSpace(unitNumber) == "" {
		return nil, &ValidationError{Field: "unit number", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(adviceNumber) == "" {
		return nil, &ValidationError{Field: "advice number", Reason: "cannot be empty"}
	}
	if depot.CompanyID == "" || depot.Code == "" {
		return nil, &ValidationError{Field: "depot", Reason: "requires a company id and a code"}
	}

	r := &GateCreateRequest{
		AdviceNumber: adviceNumber,
		Depot:        depot,
		UnitNumber:   unitNumber,
		Status:       StatusUndamaged,
		ActivityTime: at.UTC().Format(activityTimeLayout),
		Type:         ActivityIn,
		Photos:       []string{},
	}
	for _, opt := range opts {
		opt(r)
	}

	if !slices.Contains(validStatuses, r.Status) {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("must be one of A, D or S, got %q", r.Status)}
	}
	if !slices.Contains(validTypes, r.Type) {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("must be IN or OUT, got %q", r.Type)}
	}

	return r, nil
}

// ParseStatus converts a command-line value into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(s))
	if !slices.Contains(validStatuses, st) {
		return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("must be one of A, D or S, got %q", s)}
	}
	return st, nil
}

// ParseActivityType converts a command-line value into an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(strings.ToUpper(s))
	if !slices.Contains(validTypes, t) {
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("must be IN or OUT, got %q", s)}
	}
	return t, nil
}

// ValidUnitNumber reports whether u is a well-formed ISO 6346 container
// number: three owner letters, a category letter (U, J or Z), six serial
// digits and a matching check digit.
func ValidUnitNumber(u string) bool {
	if len(u) != 11 {
		return false
	}
	for i := 0; i < 3; i++ {
		if u[i] < 'A' || u[i] > 'Z' {
			return false
		}
	}
	if !strings.ContainsRune("UJZ", rune(u[3])) {
		return false
	}
	for i := 4; i < 11; i++ {
		if u[i] < '0' || u[i] > '9' {
			return false
		}
	}

	sum := 0
	for i := 0; i < 10; i++ {
		v := int(u[i] - '0')
		if i < 4 {
			v = letterValue(u[i])
		}
		sum += v << i
	}
	return sum%11%10 == int(u[10]-'0')
}

// letterValue maps A..Z to 10..38, skipping multiples of 11.
func letterValue(c byte) int {
	v := 10
	for l := byte('A'); l < c; l++ {
		v++
		if v%11 == 0 {
			v++
		}
	}
	return v
}
