package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation            = errors.New("invalid service order")
	ErrUnknownStatus         = errors.New("unknown order status")
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
)

// Status is the lifecycle state of a service order: PENDING -> COMPLETED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s Status) String() string { return string(s) }

func (s Status) MarshalText() ([]byte, error) {
	if _, err := ParseStatus(string(s)); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DeliveryMethod is fixed when the order is created.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "PICKUP"
	DeliveryDelivery DeliveryMethod = "DELIVERY"
)

func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch DeliveryMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case DeliveryPickup:
		return DeliveryPickup, nil
	case DeliveryDelivery:
		return DeliveryDelivery, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDeliveryMethod, s)
}

func (m DeliveryMethod) String() string { return string(m) }

func (m DeliveryMethod) MarshalText() ([]byte, error) {
	if _, err := ParseDeliveryMethod(string(m)); err != nil {
		return nil, err
	}
	return []byte(m), nil
}

func (m *DeliveryMethod) UnmarshalText(b []byte) error {
	v, err := ParseDeliveryMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ServiceOrder is a work order tracked by the dashboard.
// CreatedAt is Unix milliseconds.
type ServiceOrder struct {
	ID             string         `json:"id"`
	OSNumber       string         `json:"osNumber"`
	StoreName      string         `json:"storeName"`
	Salesperson    string         `json:"salesperson"`
	Deadline       time.Time      `json:"deadline"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	Status         Status         `json:"status"`
	CreatedAt      int64          `json:"createdAt"`
	Notes          string         `json:"notes,omitempty"`
}

func (o ServiceOrder) IsPending() bool   { return o.Status == StatusPending }
func (o ServiceOrder) IsCompleted() bool { return o.Status == StatusCompleted }

// Complete moves a pending order to COMPLETED. It returns false when the
// order was already completed.
func (o *ServiceOrder) Complete() bool {
	if o.Status != StatusPending {
		return false
	}
	o.Status = StatusCompleted
	return true
}
