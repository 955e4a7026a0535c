package config

import (
	"time"

	"github.com/spf13/viper"
)

// Session cookie and store-side lifetime default to one hour.
const defaultSessionTTL = time.Hour

// Session holds session store configuration.
type Session struct {
	Secret string
	TTL    time.Duration
}

func getSessionConfig(v *viper.Viper) *Session {
	ttl := defaultSessionTTL
	if seconds := v.GetInt("session.ttl"); seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	return &Session{
		Secret: v.GetString("session.secret"),
		TTL:    ttl,
	}
}
