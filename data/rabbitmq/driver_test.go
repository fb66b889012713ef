package rabbitmq

import (
	"testing"

	"github.com/ncobase/cargohold/data/config"
)

func TestDriverName(t *testing.T) {
	d := &driver{}
	if got := d.Name(); got != "rabbitmq" {
		t.Errorf("Name() = %q, want %q", got, "rabbitmq")
	}
}

func TestDialURL(t *testing.T) {
	cases := []struct {
		cfg  config.RabbitMQ
		want string
	}{
		{config.RabbitMQ{URL: "amqp://guest:guest@mq:5672/"}, "amqp://guest:guest@mq:5672/"},
		{config.RabbitMQ{URL: "mq:5672"}, "amqp://mq:5672"},
		{config.RabbitMQ{URL: "mq:5672", Username: "u", Password: "p", Vhost: "files"}, "amqp://u:p@mq:5672/files"},
		{config.RabbitMQ{URL: "mq:5672", Vhost: "/files"}, "amqp://mq:5672/files"},
	}
	for _, tc := range cases {
		got, err := dialURL(&tc.cfg)
		if err != nil {
			t.Fatalf("dialURL(%+v): %v", tc.cfg, err)
		}
		if got != tc.want {
			t.Errorf("dialURL(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}

	if _, err := dialURL(&config.RabbitMQ{}); err == nil {
		t.Error("expected error for empty URL")
	}
}
