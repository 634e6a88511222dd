package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userauth/internal/flagx"
	"github.com/dmitrijs2005/userauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// strings such as "30m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	SigningAlgorithm            string          `json:"algorithm"`
	AccessTokenValidityDuration timex.Duration  `json:"access_token_validity_duration"`
	RevocationCacheTTL          *timex.Duration `json:"revocation_cache_ttl"`
	PasswordHashScheme          string          `json:"password_hash_scheme"`
	BcryptCost                  int             `json:"bcrypt_cost"`
	CookieName                  string          `json:"cookie_name"`
	LogLevel                    string          `json:"log_level"`
}

func setIf[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config (or $USERAUTH_CONFIG) into
// config. Keys missing from the file keep their current value. Unreadable
// files and invalid JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.SigningAlgorithm, c.SigningAlgorithm)
	setIf(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	if c.RevocationCacheTTL != nil {
		config.RevocationCacheTTL = c.RevocationCacheTTL.Duration
	}
	setIf(&config.PasswordHashScheme, c.PasswordHashScheme)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.CookieName, c.CookieName)
	setIf(&config.LogLevel, c.LogLevel)
}
