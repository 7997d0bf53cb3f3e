package errors

// Diagnostic codes reported by lexgen tools.
//
// L0001-L0099: scanning errors
// L0100-L0199: rule file errors
// L0200-L0299: command line and tooling errors
const (
	// L0001: no rule matches the character at the cursor
	ErrorUnrecognizedCharacter = "L0001"

	// L0100: a rule pattern is not a valid regular expression
	ErrorRuleCompilation = "L0100"

	// L0101: the rule file itself cannot be parsed
	ErrorRuleSyntax = "L0101"

	// L0200: a token type was requested that no rule defines
	ErrorUnknownTokenType = "L0200"

	// L0201: a "builtin:" rule set was requested that does not exist
	ErrorUnknownPreset = "L0201"
)
