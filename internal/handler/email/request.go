package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// errAddressShape marks an address field that is neither a string nor a
// list of strings. It is a client error, not a parse fault.
var errAddressShape = errors.New("address list must be a string or an array of strings")

// VerificationRequest is the body of POST /send-verification.
type VerificationRequest struct {
	Email            string `json:"email" validate:"required"`
	VerificationLink string `json:"verification_link" validate:"required"`
	UserName         string `json:"user_name"`
}

// PasswordResetRequest is the body of POST /send-password-reset.
type PasswordResetRequest struct {
	Email     string `json:"email" validate:"required"`
	ResetLink string `json:"reset_link" validate:"required"`
	UserName  string `json:"user_name"`
}

// WelcomeRequest is the body of POST /send-welcome.
type WelcomeRequest struct {
	Email    string `json:"email" validate:"required"`
	UserName string `json:"user_name"`
}

// CustomRequest is the body of POST /send-custom.
type CustomRequest struct {
	ToAddresses  AddressList `json:"to_addresses" validate:"required,min=1"`
	Subject      string      `json:"subject" validate:"required"`
	HTMLBody     string      `json:"html_body" validate:"required"`
	TextBody     string      `json:"text_body"`
	CCAddresses  AddressList `json:"cc_addresses"`
	BCCAddresses AddressList `json:"bcc_addresses"`
	ReplyTo      string      `json:"reply_to"`
}

// AddressList accepts either a single address or a list of addresses.
// A single address becomes a one-element list; an empty string an empty list.
type AddressList []string

func (a *AddressList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*a = nil
			return nil
		}
		*a = AddressList{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: %v", errAddressShape, err)
	}
	*a = list
	return nil
}
