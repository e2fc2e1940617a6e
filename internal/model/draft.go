package model

import (
	"fmt"
	"strings"
	"time"
)

// DeadlineLayoutLocal is the layout produced by an HTML datetime-local input.
const DeadlineLayoutLocal = "2006-01-02T15:04"

// Draft is the user-supplied part of a service order.
type Draft struct {
	OSNumber       string `json:"osNumber"`
	StoreName      string `json:"storeName"`
	Salesperson    string `json:"salesperson"`
	Deadline       string `json:"deadline"`
	DeliveryMethod string `json:"deliveryMethod"`
	Notes          string `json:"notes"`
}

func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.OSNumber) == "" {
		missing = append(missing, "osNumber")
	}
	if strings.TrimSpace(d.StoreName) == "" {
		missing = append(missing, "storeName")
	}
	if strings.TrimSpace(d.Deadline) == "" {
		missing = append(missing, "deadline")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if _, err := ParseDeadline(d.Deadline); err != nil {
		return err
	}
	if strings.TrimSpace(d.DeliveryMethod) != "" {
		if _, err := ParseDeliveryMethod(d.DeliveryMethod); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

// ParseDeadline accepts RFC3339 timestamps and datetime-local values, the
// latter in the server's local zone.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DeadlineLayoutLocal, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: deadline %q is not a date-time", ErrValidation, s)
}

// NewOrder validates the draft and builds a pending order.
func NewOrder(d Draft, id string, now time.Time) (ServiceOrder, error) {
	if err := d.Validate(); err != nil {
		return ServiceOrder{}, err
	}
	deadline, _ := ParseDeadline(d.Deadline)

	method := DeliveryPickup
	if strings.TrimSpace(d.DeliveryMethod) != "" {
		method, _ = ParseDeliveryMethod(d.DeliveryMethod)
	}

	return ServiceOrder{
		ID:             id,
		OSNumber:       strings.TrimSpace(d.OSNumber),
		StoreName:      strings.TrimSpace(d.StoreName),
		Salesperson:    d.Salesperson,
		Deadline:       deadline.UTC().Truncate(time.Microsecond),
		DeliveryMethod: method,
		Status:         StatusPending,
		CreatedAt:      now.UnixMilli(),
		Notes:          strings.TrimSpace(d.Notes),
	}, nil
}
