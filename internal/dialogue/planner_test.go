package dialogue

import (
	"testing"
)

func TestNext_TurnOne(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"block threat", "your account will be blocked today", "Why will my account be blocked?"},
		{"suspend threat", "we will suspend your card", "Why will my account be blocked?"},
		{"prize bait", "you won a lottery prize", "Really? How do I claim it?"},
		{"verify request", "please verify your identity", "How do I verify this? What information do you need?"},
		{"fallback", "hello sir, important notice", "Can you please explain what this is about?"},
		{"ordered rules, block wins over verify", "verify now or be blocked", "Why will my account be blocked?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.message, 1, nil)
			if got != tt.want {
				t.Errorf("Next(%q, 1) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestNext_TurnTwo(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"link push", "click this link to proceed", "I'm worried about clicking links. Can you give me more details first?"},
		{"call push", "call our helpline now", "What number should I call? What's your name?"},
		{"payment push", "send the payment via upi", "Where should I send the payment? What's your UPI ID?"},
		{"fallback", "just do it quickly", "Can you give me your official contact details?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.message, 2, nil)
			if got != tt.want {
				t.Errorf("Next(%q, 2) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestNext_TurnThreeFixed(t *testing.T) {
	want := "I want to help but I'm nervous. Can you provide your company details and employee ID?"
	for _, msg := range []string{"anything", "pay the fee now", ""} {
		if got := Next(msg, 3, nil); got != want {
			t.Errorf("Next(%q, 3) = %q, want fixed reply", msg, got)
		}
	}
}

func TestNext_TurnFour(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"fee mentioned", "a small fee is required", "How much do I need to pay? What's your bank account number?"},
		{"no fee", "we are processing it", "What's the next step? How long will this take?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.message, 4, nil)
			if got != tt.want {
				t.Errorf("Next(%q, 4) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestNext_StallBankAdvances(t *testing.T) {
	seen := make(map[string]bool)
	for turn := 5; turn < 5+len(stallBank); turn++ {
		reply := Next("whatever", turn, nil)
		if seen[reply] {
			t.Errorf("turn %d repeated reply %q before bank exhausted", turn, reply)
		}
		seen[reply] = true
	}
}

func TestNext_StallBankOverflowHoldsLast(t *testing.T) {
	last := stallBank[len(stallBank)-1]
	for _, turn := range []int{5 + len(stallBank), 50, 1000} {
		if got := Next("whatever", turn, nil); got != last {
			t.Errorf("Next(turn=%d) = %q, want last stall entry %q", turn, got, last)
		}
	}
}

func TestNext_TurnBelowOneTreatedAsFirst(t *testing.T) {
	want := Next("please verify", 1, nil)
	if got := Next("please verify", 0, nil); got != want {
		t.Errorf("Next(turn=0) = %q, want %q", got, want)
	}
}
