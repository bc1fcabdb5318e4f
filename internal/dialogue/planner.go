// Package dialogue selects the next honeypot utterance. The policy is a
// turn-indexed decision table: ordered rules per turn, first match wins, with
// a rule of no triggers acting as the fallback. Keeping the policy as data
// lets it be reviewed and tested independently of control flow.
package dialogue

import (
	"strings"

	"github.com/MikeSquared-Agency/decoy/internal/session"
)

type rule struct {
	triggers []string // any-of substring match; empty means always
	reply    string
}

var decisionTable = map[int][]rule{
	1: {
		{triggers: []string{"block", "suspend", "deactivate"}, reply: "Why will my account be blocked?"},
		{triggers: []string{"won", "prize", "lottery"}, reply: "Really? How do I claim it?"},
		{triggers: []string{"verify", "confirm"}, reply: "How do I verify this? What information do you need?"},
		{reply: "Can you please explain what this is about?"},
	},
	2: {
		{triggers: []string{"click", "link", "website"}, reply: "I'm worried about clicking links. Can you give me more details first?"},
		{triggers: []string{"call", "contact"}, reply: "What number should I call? What's your name?"},
		{triggers: []string{"upi", "payment", "send"}, reply: "Where should I send the payment? What's your UPI ID?"},
		{reply: "Can you give me your official contact details?"},
	},
	3: {
		{reply: "I want to help but I'm nervous. Can you provide your company details and employee ID?"},
	},
	4: {
		{triggers: []string{"pay", "fee", "charge"}, reply: "How much do I need to pay? What's your bank account number?"},
		{reply: "What's the next step? How long will this take?"},
	},
}

// stallBank is cycled once per turn from turn 5 onward, holding on the last
// entry rather than overflowing.
var stallBank = []string{
	"Can you send me an official email with all the details? What's your email address?",
	"My family wants everything in writing. Can you provide your office address?",
	"What's your supervisor's name and contact number?",
	"Which branch are you calling from? What's the reference number?",
	"I need to verify this with my bank. What exact information do you need?",
}

// Next returns the agent's reply for the given correspondent message and turn
// number. Each turn both stalls and asks for one more category of identifying
// information. History is accepted for extensibility; the current policy is a
// pure function of turn number and the current message.
func Next(message string, turnNumber int, history []session.Turn) string {
	_ = history

	if turnNumber < 1 {
		turnNumber = 1
	}

	if turnNumber >= 5 {
		idx := turnNumber - 5
		if idx >= len(stallBank) {
			idx = len(stallBank) - 1
		}
		return stallBank[idx]
	}

	lower := strings.ToLower(message)
	for _, r := range decisionTable[turnNumber] {
		if len(r.triggers) == 0 {
			return r.reply
		}
		for _, trig := range r.triggers {
			if strings.Contains(lower, trig) {
				return r.reply
			}
		}
	}
	// Every turn's rule list ends in a fallback; this is unreachable.
	return stallBank[len(stallBank)-1]
}
