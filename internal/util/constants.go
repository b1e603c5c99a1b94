package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"

	// MaxAvatarSize is the largest avatar upload accepted, in bytes.
	MaxAvatarSize = 2 << 20
)

const (
	DefaultPageLimit    = 10
	MaxPageLimit        = 100
	DefaultRecentLimit  = 5
	MaxRecentLimit      = 50
	DefaultAdminPageLen = 20
)
