package service

import "kungfu-delivery/internal/domain"

// TransitionPolicy decides whether an admin may move an order between two
// valid statuses.
type TransitionPolicy interface {
	Allowed(from, to domain.OrderStatus) bool
}

// PermissiveTransitions allows any valid status from any other.
type PermissiveTransitions struct{}

func (PermissiveTransitions) Allowed(from, to domain.OrderStatus) bool {
	return from.Valid() && to.Valid()
}

// TransitionTable is an explicit from -> allowed targets table.
type TransitionTable map[domain.OrderStatus][]domain.OrderStatus

func (t TransitionTable) Allowed(from, to domain.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ForwardTransitions only moves orders ahead in the kitchen flow. Cancelled
// and refunded are side exits from every state before completion.
var ForwardTransitions = TransitionTable{
	domain.StatusPending: {
		domain.StatusConfirmed, domain.StatusPreparing,
		domain.StatusCancelled, domain.StatusRefunded,
	},
	domain.StatusConfirmed: {
		domain.StatusPreparing, domain.StatusDelivering,
		domain.StatusCancelled, domain.StatusRefunded,
	},
	domain.StatusPreparing: {
		domain.StatusDelivering,
		domain.StatusCancelled, domain.StatusRefunded,
	},
	domain.StatusDelivering: {
		domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusRefunded,
	},
}

// PolicyFor maps the ORDER_TRANSITIONS setting to a policy.
func PolicyFor(mode string) TransitionPolicy {
	if mode == "strict" {
		return ForwardTransitions
	}
	return PermissiveTransitions{}
}
