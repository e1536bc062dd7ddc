// ABOUTME: Consultation request form: a three-step per-user state machine
// ABOUTME: name -> contact -> request, with contact validation in between
package bot

import (
	"errors"
	"strings"

	"legalbot/internal/contact"
)

type formStage int

const (
	stageName formStage = iota
	stageContact
	stageRequest
)

// form tracks one user's progress through the consultation dialog.
type form struct {
	stage   formStage
	name    string
	contact string
}

// submission is a completed consultation form.
type submission struct {
	Name    string
	Contact string
	Request string
}

// advance feeds one user message into the form. It returns the reply to
// send and, once the form is complete, the collected submission. An
// unrecognized contact keeps the form on the contact step.
func (f *form) advance(input string) (string, *submission) {
	text := strings.TrimSpace(input)

	switch f.stage {
	case stageName:
		if text == "" {
			return replyAskName, nil
		}
		f.name = text
		f.stage = stageContact
		return replyAskContact, nil

	case stageContact:
		normalized, err := contact.Normalize(text)
		if err != nil {
			var verr *contact.ValidationError
			if errors.As(err, &verr) {
				return verr.Message, nil
			}
			return replyAskContact, nil
		}
		f.contact = normalized
		f.stage = stageRequest
		return replyAskRequest, nil

	default:
		if text == "" {
			return replyAskRequest, nil
		}
		return "", &submission{Name: f.name, Contact: f.contact, Request: text}
	}
}
