// Package classifier maps raw text-generation results to terminal slot states.
package classifier

import (
	"errors"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Classify turns the outcome of one Generate call into a terminal SlotState.
// It is pure and total: every (payload, err) pair maps to Success or Error.
//
// Usable text always wins over a safety flag; a reply is reported as blocked
// only when no candidate carries non-empty text.
func Classify(payload *domain.Payload, err error) domain.SlotState {
	if err != nil {
		if errors.Is(err, domain.ErrMalformedPayload) {
			return domain.Failure(domain.ErrorKindMalformed, domain.MessageMalformed)
		}
		return domain.Failure(domain.ErrorKindTransport, transportMessage(err))
	}
	if payload == nil {
		return domain.Failure(domain.ErrorKindMalformed, domain.MessageMalformed)
	}

	if text, ok := FirstText(payload); ok {
		return domain.Success(text)
	}

	if IsBlocked(payload) {
		return domain.Failure(domain.ErrorKindSafety, domain.MessageSafetyBlocked)
	}

	return domain.Failure(domain.ErrorKindMalformed, domain.MessageMalformed)
}

// FirstText returns the first non-empty part text across candidates, verbatim.
func FirstText(payload *domain.Payload) (string, bool) {
	for _, c := range payload.Candidates {
		for _, part := range c.Content.Parts {
			if part.Text != "" {
				return part.Text, true
			}
		}
	}
	return "", false
}

// IsBlocked reports whether any candidate, or the prompt itself, was refused on safety grounds.
func IsBlocked(payload *domain.Payload) bool {
	for _, c := range payload.Candidates {
		if domain.IsSafetyFinishReason(c.FinishReason) {
			return true
		}
	}
	return payload.PromptFeedback != nil && payload.PromptFeedback.BlockReason != ""
}

func transportMessage(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.Error()
	}
	return err.Error()
}
