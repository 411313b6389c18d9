// Package siws implements the server side of Sign In With Solana: the
// challenge message format from the Solana Wallet Standard and stateless
// verification of a wallet's Ed25519 signature over it.
package siws

// SignInInput is the structured challenge a wallet is asked to sign.
// Optional fields are pointers so absence and empty string stay distinct
// when the message text is reconstructed.
type SignInInput struct {
	Domain         string   `json:"domain"`
	Address        string   `json:"address,omitempty"`
	Statement      *string  `json:"statement,omitempty"`
	URI            *string  `json:"uri,omitempty"`
	Version        *string  `json:"version,omitempty"`
	ChainID        *string  `json:"chainId,omitempty"`
	Nonce          string   `json:"nonce"`
	IssuedAt       string   `json:"issuedAt,omitempty"`
	ExpirationTime *string  `json:"expirationTime,omitempty"`
	NotBefore      *string  `json:"notBefore,omitempty"`
	RequestID      *string  `json:"requestId,omitempty"`
	Resources      []string `json:"resources,omitempty"`
}

// SignInOutput is the wallet's response to a challenge.
type SignInOutput struct {
	Account       AccountInfo `json:"account"`
	Signature     Bytes       `json:"signature"`
	SignedMessage Bytes       `json:"signedMessage"`
}

// AccountInfo describes the wallet account that signed the challenge.
type AccountInfo struct {
	Address   string `json:"address"`
	PublicKey Bytes  `json:"publicKey,omitempty"`
	Label     string `json:"label,omitempty"`
	Icon      string `json:"icon,omitempty"`
}
