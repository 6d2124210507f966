package constants

const (
	AppName = "dentalcenter"

	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every environment override,
	// e.g. DENTALCENTER_STORE_DRIVER overrides store.driver.
	EnvPrefix = "DENTALCENTER"
)
