package rules

// PatternDef is an uncompiled (pattern, replacement) pair. Replacement text
// may reference capture groups with $1 / ${1}.
type PatternDef struct {
	Pattern     string
	Replacement string
}

// Built-in pattern groups. Order within each group matters: rules are applied
// sequentially and each rule sees the output of the previous one, so more
// specific patterns come before generic ones.
//
// Value character classes exclude '[' where a placeholder could otherwise
// re-trigger the rule; redacting already-redacted text must be a no-op.

// SecretsPatterns detects service credentials and key material.
var SecretsPatterns = []PatternDef{
	{`AKIA[0-9A-Z]{16}`, "[REDACTED_AWS_KEY]"},
	{`ghp_[A-Za-z0-9]{36}`, "[REDACTED_GITHUB_TOKEN]"},
	{`github_pat_[A-Za-z0-9_]{22,255}`, "[REDACTED_GITHUB_TOKEN]"},
	{`xox[aboprs]-[0-9A-Za-z-]{10,200}`, "[REDACTED_SLACK_TOKEN]"},
	{`sk_(?:live|test)_[0-9A-Za-z]{16,}`, "[REDACTED_STRIPE_KEY]"},
	{`AIza[0-9A-Za-z_-]{35}`, "[REDACTED_GOOGLE_API_KEY]"},
	{`eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`, "[REDACTED_JWT]"},
	{`(https?://)([^\s:/?#]+):([^\s@]+)@`, "${1}[REDACTED_USER]:[REDACTED_PASS]@"},
	{`-----BEGIN (?:[A-Z0-9 ]+ )?PRIVATE KEY-----`, "[REDACTED_PRIVATE_KEY]"},
}

// HeaderPatterns scrubs sensitive HTTP header values.
var HeaderPatterns = []PatternDef{
	{`(?i)^(cookie:\s*)[^\r\n]+`, "${1}[REDACTED]"},
	{`(?i)^(set-cookie:\s*)[^\r\n]+`, "${1}[REDACTED]"},
	{`(?i)authorization: basic [a-z0-9+/=]+`, "authorization: basic [REDACTED]"},
	{`(?i)authorization: bearer [a-z0-9\-_.=]+`, "authorization: bearer [REDACTED]"},
	{`(?i)x-api-key:\s*[^\s[]+`, "x-api-key: [REDACTED]"},
}

// ParamPatterns scrubs credential-bearing query and form parameters.
var ParamPatterns = []PatternDef{
	{
		`(?i)\b(access_token|refresh_token|id_token|session(?:id)?|session_id|csrf(?:_token)?|auth_token|session_token|token)=([^\s&;[][^\s&;]*)`,
		"${1}=[REDACTED]",
	},
	{`(?i)api[_-]?key=([a-z0-9\-_.]+)`, "api_key=[REDACTED]"},
	{`(?i)password=([^\s&[][^\s&]*)`, "password=[REDACTED]"},
}

// PIIPatterns detects personally identifiable information.
var PIIPatterns = []PatternDef{
	{`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`, "[REDACTED_EMAIL]"},
	{`\b\d{3}-\d{2}-\d{4}\b`, "[REDACTED_SSN]"},
}

// DefaultPatterns is the concatenation of every built-in group, in the order
// they are applied.
var DefaultPatterns = concat(SecretsPatterns, HeaderPatterns, ParamPatterns, PIIPatterns)

// presetPatterns maps preset names to their pattern lists. Names are
// case-sensitive.
var presetPatterns = map[string][]PatternDef{
	"default": DefaultPatterns,
	"secrets": concat(SecretsPatterns, HeaderPatterns, ParamPatterns),
	"pii":     PIIPatterns,
}

func concat(groups ...[]PatternDef) []PatternDef {
	out := make([]PatternDef, 0)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
