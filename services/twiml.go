package services

import (
	"github.com/twilio/twilio-go/twiml"
)

// MessagingResponse renders the TwiML document answering an inbound SMS.
// An empty reply gives an empty Response, Twilio then sends nothing back.
func MessagingResponse(replies ...string) ([]byte, error) {
	var verbs []twiml.Element
	for _, r := range replies {
		if r != "" {
			verbs = append(verbs, &twiml.MessagingMessage{Body: r})
		}
	}

	doc, err := twiml.Messages(verbs)
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}
