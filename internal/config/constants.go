package config

// Defaults for options that may be omitted from the config file.
const (
	DefaultConfigPath = "config.json"
	DefaultInputFile  = "highlights.txt"
	DefaultVaultPath  = "vault"
	DefaultSchedule   = "0 * * * *"
	DefaultLogLevel   = "info"

	// EnvPrefix prefixes environment variables overriding scalar options,
	// e.g. HV_VAULT_PATH.
	EnvPrefix = "HV"
)
