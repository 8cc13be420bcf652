package order

// orderState implements the state pattern for the order lifecycle:
//
//	stock_reserved -> payment_pending -> confirmed
//	stock_reserved -> cancelled            (explicit cancel)
//	payment_pending -> cancelled           (charge failed or timed out)
//
// Confirmed and cancelled are terminal. Every rejected transition is
// ErrInvalidStateTransition; at most one of pay/cancel can ever win.
type orderState interface {
	status() Status
	onPaymentStarted(o *Order) (orderState, error)
	onPaymentSucceeded(o *Order) (orderState, error)
	onPaymentFailed(o *Order, reason string) (orderState, error)
	onCancelled(o *Order) (orderState, error)
}

func stateFor(s Status) orderState {
	switch s {
	case StatusStockReserved:
		return stockReservedState{}
	case StatusPaymentPending:
		return paymentPendingState{}
	case StatusConfirmed:
		return confirmedState{}
	case StatusCancelled:
		return cancelledState{}
	default:
		return invalidState{s}
	}
}

type stockReservedState struct{}

func (stockReservedState) status() Status { return StatusStockReserved }

func (stockReservedState) onPaymentStarted(o *Order) (orderState, error) {
	o.FailureReason = ""
	return paymentPendingState{}, nil
}

func (stockReservedState) onPaymentSucceeded(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (stockReservedState) onPaymentFailed(*Order, string) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (stockReservedState) onCancelled(o *Order) (orderState, error) {
	o.FailureReason = "cancelled_by_customer"
	return cancelledState{}, nil
}

type paymentPendingState struct{}

func (paymentPendingState) status() Status { return StatusPaymentPending }

func (paymentPendingState) onPaymentStarted(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (paymentPendingState) onPaymentSucceeded(o *Order) (orderState, error) {
	o.FailureReason = ""
	return confirmedState{}, nil
}

func (paymentPendingState) onPaymentFailed(o *Order, reason string) (orderState, error) {
	o.FailureReason = reason
	return cancelledState{}, nil
}

func (paymentPendingState) onCancelled(*Order) (orderState, error) {
	// A payment attempt is in flight; cancelling now could strand a charge.
	return nil, ErrInvalidStateTransition
}

type confirmedState struct{}

func (confirmedState) status() Status { return StatusConfirmed }

func (confirmedState) onPaymentStarted(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (confirmedState) onPaymentSucceeded(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (confirmedState) onPaymentFailed(*Order, string) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (confirmedState) onCancelled(*Order) (orderState, error) {
	// Cancelling a confirmed order is a refund workflow, not a transition.
	return nil, ErrInvalidStateTransition
}

type cancelledState struct{}

func (cancelledState) status() Status { return StatusCancelled }

func (cancelledState) onPaymentStarted(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (cancelledState) onPaymentSucceeded(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (cancelledState) onPaymentFailed(*Order, string) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (cancelledState) onCancelled(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

type invalidState struct{ s Status }

func (i invalidState) status() Status { return i.s }

func (invalidState) onPaymentStarted(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (invalidState) onPaymentSucceeded(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (invalidState) onPaymentFailed(*Order, string) (orderState, error) {
	return nil, ErrInvalidStateTransition
}

func (invalidState) onCancelled(*Order) (orderState, error) {
	return nil, ErrInvalidStateTransition
}
