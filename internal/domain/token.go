package domain

// VerificationToken is a one-time email verification code. It is deleted on
// successful redemption; expired tokens are simply never matched.
type VerificationToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt string
}
