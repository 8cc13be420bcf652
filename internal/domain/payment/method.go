package payment

import (
	"errors"
	"fmt"
)

var ErrIncompleteMethod = errors.New("payment: incomplete method details")

type MethodKind string

const (
	MethodCreditCard   MethodKind = "credit_card"
	MethodBankTransfer MethodKind = "bank_transfer"
)

// Method is a tagged payment method variant. The credential fields stay
// unexported so they cannot leak through logging or serialization; anything
// user-visible goes through Masked.
type Method struct {
	kind    MethodKind
	holder  string
	account string
	expiry  string
}

func NewCreditCard(holder, number, expiry string) (Method, error) {
	if holder == "" || number == "" || expiry == "" {
		return Method{}, ErrIncompleteMethod
	}
	return Method{kind: MethodCreditCard, holder: holder, account: number, expiry: expiry}, nil
}

func NewBankTransfer(holder, iban string) (Method, error) {
	if holder == "" || iban == "" {
		return Method{}, ErrIncompleteMethod
	}
	return Method{kind: MethodBankTransfer, holder: holder, account: iban}, nil
}

func (m Method) Kind() MethodKind { return m.kind }

func (m Method) Holder() string { return m.holder }

// Masked renders the method with all but the last four account digits hidden.
func (m Method) Masked() string {
	tail := m.account
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return fmt.Sprintf("%s ****%s", m.kind, tail)
}
