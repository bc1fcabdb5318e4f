package catalog

// Version identifies the shipped rule set. Bump when trigger lists change.
const Version = "2.0.0"

// Category names. Used in score results and logs.
const (
	Urgency       = "urgency"
	Threats       = "threats"
	Financial     = "financial"
	PersonalInfo  = "personal_info"
	TooGood       = "too_good"
	Impersonation = "impersonation"
)

// Category is a themed group of lexical triggers with a scoring weight.
// Triggers are matched as case-insensitive substrings of the message.
type Category struct {
	Name     string
	Weight   float64
	Triggers []string
}

// Catalog is the immutable set of scam categories loaded at process start.
type Catalog struct {
	categories []Category
	total      float64
}

// Default returns the built-in rule set. Weights sum to 1.0 and act as the
// normalization base for scoring.
func Default() *Catalog {
	cats := []Category{
		{
			Name:   Urgency,
			Weight: 0.15,
			Triggers: []string{
				"urgent", "immediately", "right now", "asap", "limited time",
				"act now", "expires", "hurry", "last chance", "time sensitive", "today",
			},
		},
		{
			Name:   Threats,
			Weight: 0.25,
			Triggers: []string{
				"blocked", "suspended", "deactivated", "terminated", "cancelled",
				"legal action", "arrest", "lawsuit", "fraud", "unauthorized",
				"suspicious activity", "security alert", "freeze", "close",
			},
		},
		{
			Name:   Financial,
			Weight: 0.20,
			Triggers: []string{
				"won", "prize", "lottery", "jackpot", "reward", "refund",
				"tax refund", "inheritance", "compensation", "claim",
				"transfer", "payment", "credit", "deposit", "wire", "upi",
			},
		},
		{
			Name:   PersonalInfo,
			Weight: 0.20,
			Triggers: []string{
				"verify", "confirm", "update", "validate", "authenticate",
				"click here", "link", "account details", "password", "pin",
				"otp", "cvv", "card number", "social security", "aadhar", "share",
			},
		},
		{
			Name:   TooGood,
			Weight: 0.10,
			Triggers: []string{
				"free", "guaranteed", "no risk", "100%", "amazing offer",
				"exclusive", "selected", "chosen", "congratulations",
			},
		},
		{
			Name:   Impersonation,
			Weight: 0.10,
			Triggers: []string{
				"bank", "government", "irs", "income tax", "police",
				"court", "customs", "delivery", "fedex", "dhl",
				"amazon", "flipkart", "paytm", "phonepe", "google pay",
			},
		},
	}

	var total float64
	for _, c := range cats {
		total += c.Weight
	}
	return &Catalog{categories: cats, total: total}
}

// Categories returns the category list in catalog order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// TotalWeight is the fixed normalization base for scoring, independent of
// any message.
func (c *Catalog) TotalWeight() float64 {
	return c.total
}
