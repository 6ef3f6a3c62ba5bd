package detection

// tacticGroup is one social-engineering tactic and the keyword patterns
// that signal it
type tacticGroup struct {
	tag      string
	keywords []string
}

// tacticGroups is the maintained reference list of tactics. Like brandList,
// declaration order is the output order.
var tacticGroups = []tacticGroup{
	{
		tag: "urgency",
		keywords: []string{
			"urgent", "immediately", "asap", "right away", "time sensitive",
			"expires", "expire", "within 24 hours", "final notice",
			"act now", "last chance", "suspended", "will be closed",
		},
	},
	{
		tag: "credential-request",
		keywords: []string{
			"password", "verify your account", "confirm your identity",
			"login", "log in", "sign in", "credentials", "reset your",
			"unusual activity", "security alert", "reactivate",
		},
	},
	{
		tag: "financial-request",
		keywords: []string{
			"wire transfer", "payment", "invoice", "bank account",
			"routing number", "swift", "iban", "gift card", "itunes",
			"prepaid card", "bitcoin", "wallet", "refund",
		},
	},
	{
		tag: "impersonation-authority",
		keywords: []string{
			"ceo", "president", "managing director", "head of finance",
			"confidential", "do not discuss", "between us", "authorized",
			"on my behalf",
		},
	},
	{
		tag: "attachment-lure",
		keywords: []string{
			"see attached", "attached invoice", "open the attachment",
			"attached document", "enable macros", "enable content",
			"download the file",
		},
	},
}
