package dao

const (
	// CollectionAccount stores account records synced from the identity
	// provider.
	CollectionAccount = "accounts"

	// CollectionSession stores interview sessions with their transcripts.
	CollectionSession = "sessions"
)
