package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a status change is not allowed from the current state
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownStatus is returned for status strings outside the enumerated set
	ErrUnknownStatus = errors.New("unknown status")
)

// Role enum
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleOwner    Role = "Owner"
)

// CreelType enum
type CreelType string

const (
	CreelTypeO CreelType = "O"
	CreelTypeU CreelType = "U"
)

// Valid reports whether the creel type is one of the manufactured shapes
func (t CreelType) Valid() bool {
	return t == CreelTypeO || t == CreelTypeU
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "Online"
	PaymentMethodCash   PaymentMethod = "Cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodOnline || m == PaymentMethodCash
}

// PaymentType enum
type PaymentType string

const (
	PaymentTypeProduct PaymentType = "Product"
	PaymentTypeService PaymentType = "Service"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeProduct || t == PaymentTypeService
}

// transitions maps each state to the states reachable from it
type transitions[S ~string] map[S][]S

func (t transitions[S]) known(s S) bool {
	_, ok := t[s]
	return ok
}

func (t transitions[S]) check(from, to S) error {
	if !t.known(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(to))
	}
	for _, next := range t[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, string(from), string(to))
}

// OrderStatus enum
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusDelivered OrderStatus = "Delivered"
)

var orderTransitions = transitions[OrderStatus]{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusCancelled: nil,
	OrderStatusDelivered: nil,
}

func (s OrderStatus) Valid() bool { return orderTransitions.known(s) }

// TransitionTo returns nil when the order may move from s to next
func (s OrderStatus) TransitionTo(next OrderStatus) error {
	return orderTransitions.check(s, next)
}

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
)

var paymentTransitions = transitions[PaymentStatus]{
	PaymentStatusPending:   {PaymentStatusCompleted},
	PaymentStatusCompleted: nil,
}

func (s PaymentStatus) Valid() bool { return paymentTransitions.known(s) }

func (s PaymentStatus) TransitionTo(next PaymentStatus) error {
	return paymentTransitions.check(s, next)
}

// DeliveryStatus enum
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "Pending"
	DeliveryStatusInTransit DeliveryStatus = "In Transit"
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
)

var deliveryTransitions = transitions[DeliveryStatus]{
	DeliveryStatusPending:   {DeliveryStatusInTransit, DeliveryStatusDelivered},
	DeliveryStatusInTransit: {DeliveryStatusDelivered},
	DeliveryStatusDelivered: nil,
}

func (s DeliveryStatus) Valid() bool { return deliveryTransitions.known(s) }

func (s DeliveryStatus) TransitionTo(next DeliveryStatus) error {
	return deliveryTransitions.check(s, next)
}

// ServiceStatus enum
type ServiceStatus string

const (
	ServiceStatusPending    ServiceStatus = "Pending"
	ServiceStatusInProgress ServiceStatus = "In Progress"
	ServiceStatusCompleted  ServiceStatus = "Completed"
)

var serviceTransitions = transitions[ServiceStatus]{
	ServiceStatusPending:    {ServiceStatusInProgress, ServiceStatusCompleted},
	ServiceStatusInProgress: {ServiceStatusCompleted},
	ServiceStatusCompleted:  nil,
}

func (s ServiceStatus) Valid() bool { return serviceTransitions.known(s) }

func (s ServiceStatus) TransitionTo(next ServiceStatus) error {
	return serviceTransitions.check(s, next)
}
