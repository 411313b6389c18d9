package siws

import (
	"fmt"
	"strings"
)

// BuildMessage renders the canonical sign-in message text for a challenge,
// following the Solana Wallet Standard encoding. The wallet signs exactly
// these bytes, so the server reconstructs them to compare against what was
// actually signed.
func BuildMessage(in SignInInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s wants you to sign in with your Solana account:", in.Domain)
	if in.Address != "" {
		sb.WriteString("\n")
		sb.WriteString(in.Address)
	}

	if in.Statement != nil {
		sb.WriteString("\n\n")
		sb.WriteString(*in.Statement)
	}

	var fields []string
	appendField := func(name string, value *string) {
		if value != nil {
			fields = append(fields, name+": "+*value)
		}
	}
	appendField("URI", in.URI)
	appendField("Version", in.Version)
	appendField("Chain ID", in.ChainID)
	if in.Nonce != "" {
		fields = append(fields, "Nonce: "+in.Nonce)
	}
	if in.IssuedAt != "" {
		fields = append(fields, "Issued At: "+in.IssuedAt)
	}
	appendField("Expiration Time", in.ExpirationTime)
	appendField("Not Before", in.NotBefore)
	appendField("Request ID", in.RequestID)
	if len(in.Resources) > 0 {
		fields = append(fields, "Resources:")
		for _, r := range in.Resources {
			fields = append(fields, "- "+r)
		}
	}

	if len(fields) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(fields, "\n"))
	}

	return sb.String()
}
