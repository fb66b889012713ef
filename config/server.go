package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Listener is one HTTP listen address.
type Listener struct {
	Host string
	Port int
}

// Addr returns host:port.
func (l *Listener) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// Server holds the public (tenant facing) and private (internal) listeners.
type Server struct {
	Public          *Listener
	Private         *Listener
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Public: &Listener{
			Host: getStringOrDefault(v, "server.public.host", "0.0.0.0"),
			Port: getIntOrDefault(v, "server.public.port", 8080),
		},
		Private: &Listener{
			Host: getStringOrDefault(v, "server.private.host", "0.0.0.0"),
			Port: getIntOrDefault(v, "server.private.port", 8081),
		},
		ReadTimeout:     getDurationOrDefault(v, "server.read_timeout", 60*time.Second),
		WriteTimeout:    getDurationOrDefault(v, "server.write_timeout", 60*time.Second),
		ShutdownTimeout: getDurationOrDefault(v, "server.shutdown_timeout", 30*time.Second),
	}
}
