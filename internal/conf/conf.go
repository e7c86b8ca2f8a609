package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root configuration scanned from the config file.
type Bootstrap struct {
	Server   *Server   `json:"server"`
	Data     *Data     `json:"data"`
	Metadata *Metadata `json:"metadata"`
	Auth     *Auth     `json:"auth"`
}

// Server holds transport configuration.
type Server struct {
	HTTP *HTTPServer `json:"http"`
}

// HTTPServer holds HTTP listener configuration.
type HTTPServer struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data holds database and cache configuration.
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
}

// Database holds the PostgreSQL connection configuration.
type Database struct {
	Source string `json:"source"`
}

// Redis holds the Redis connection configuration.
type Redis struct {
	Addr         string   `json:"addr"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

// Metadata holds the movie metadata API client configuration.
type Metadata struct {
	URL      string   `json:"url"`
	ImageURL string   `json:"image_url"`
	APIKey   string   `json:"api_key"`
	Timeout  Duration `json:"timeout"`
}

// Auth holds the bearer token accepted for write operations.
type Auth struct {
	Token string `json:"token"`
}

// Duration is a time.Duration that unmarshals from either a duration
// string ("5s") or a number of nanoseconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration type %T", v)
	}
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}
