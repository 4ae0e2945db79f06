package config

const (
	// DefaultDatabasePath is the default path for the watchlist database
	DefaultDatabasePath = "./watchlist.db"

	// DefaultSeedUsers is the comma separated list of users created on first boot
	DefaultSeedUsers = "Person 1,Person 2,Person 3"
)
