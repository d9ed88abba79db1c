package commands

import (
	"errors"
	"slices"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/order"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/errs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
	// ErrRefundIntentNotAllowed is returned for refund intents, which belong to the refund commands.
	ErrRefundIntentNotAllowed = errs.NewValueIsInvalidErrorWithCause(
		"intent", errors.New("refund intents are handled by the refund workflow"),
	)
)

// TransitionOrderCommand asks the lifecycle to apply an intent on behalf of
// an actor. FulfilledItems is only read for IntentPartiallyFulfill.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actorID        string
	role           order.Role
	intent         order.Intent
	fulfilledItems []order.LineItem

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actorID string,
	role order.Role,
	intent order.Intent,
	fulfilledItems []order.LineItem,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actorID, role),
		cmd.setIntent(intent, fulfilledItems),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) ActorID() string {
	return c.actorID
}

func (c TransitionOrderCommand) Role() order.Role {
	return c.role
}

func (c TransitionOrderCommand) Intent() order.Intent {
	return c.intent
}

func (c TransitionOrderCommand) FulfilledItems() []order.LineItem {
	return slices.Clone(c.fulfilledItems)
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setActor(actorID string, role order.Role) error {
	if actorID == "" {
		return order.ErrActorIsRequired
	}
	parsed, err := order.ParseRole(role.String())
	if err != nil {
		return err
	}
	c.actorID = actorID
	c.role = parsed
	return nil
}

func (c *TransitionOrderCommand) setIntent(intent order.Intent, fulfilledItems []order.LineItem) error {
	if err := intent.Validate(); err != nil {
		return err
	}
	if intent.IsRefundIntent() {
		return ErrRefundIntentNotAllowed
	}
	if intent == order.IntentPartiallyFulfill && len(fulfilledItems) == 0 {
		return errs.NewValueIsRequiredError("fulfilledItems")
	}
	c.intent = intent
	c.fulfilledItems = slices.Clone(fulfilledItems)
	return nil
}
