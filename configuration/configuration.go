package configuration

// Configuration holds every value settable by flag or environment variable
// (see github.com/fulldump/goconfig) that governs a running fluxiond
// process.
type Configuration struct {
	HttpAddr   string `usage:"HTTP address"`
	Dir        string `usage:"data directory, holds fluxion.db"`
	Version    bool   `usage:"show version and exit"`
	ShowBanner bool   `usage:"show big banner"`
	ShowConfig bool   `usage:"print config"`

	EnableCompression bool `usage:"gzip-compress HTTP responses"`

	HttpsEnabled    bool `usage:"serve over HTTPS"`
	HttpsSelfsigned bool `usage:"use a self-signed certificate for HTTPS"`

	MasterApiKey string `usage:"master API key, grants read_write_delete and api key management unconditionally"`
}

// Default returns the configuration goconfig.Read starts from before
// applying flags and environment variables.
func Default() Configuration {
	return Configuration{
		HttpAddr: ":8080",
		Dir:      "./data",
	}
}
