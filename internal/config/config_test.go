package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "KAFKA_BROKERS", "BOOKING_STORE", "ROOM_SERVICE_URL", "ROOM_LOOKUP_TIMEOUT", "NOTIFIER_WORKERS", "NOTIFICATION_FEED_SIZE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8081" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.BookingStore != "postgres" {
		t.Errorf("BookingStore = %q", cfg.BookingStore)
	}
	if cfg.RoomLookupTimeout != 5*time.Second {
		t.Errorf("RoomLookupTimeout = %v", cfg.RoomLookupTimeout)
	}
	if cfg.FeedSize != 20 || cfg.NotifierWorkers != 4 {
		t.Errorf("FeedSize=%d NotifierWorkers=%d", cfg.FeedSize, cfg.NotifierWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("BOOKING_STORE", "Memory")
	t.Setenv("ROOM_SERVICE_URL", "http://rooms:10004/")
	t.Setenv("ROOM_LOOKUP_TIMEOUT", "750ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := []string{"k1:9092", "k2:9092"}; !reflect.DeepEqual(cfg.KafkaBrokers, want) {
		t.Errorf("KafkaBrokers = %v, want %v", cfg.KafkaBrokers, want)
	}
	if cfg.BookingStore != "memory" {
		t.Errorf("BookingStore = %q", cfg.BookingStore)
	}
	if cfg.RoomServiceURL != "http://rooms:10004" {
		t.Errorf("RoomServiceURL = %q", cfg.RoomServiceURL)
	}
	if cfg.RoomLookupTimeout != 750*time.Millisecond {
		t.Errorf("RoomLookupTimeout = %v", cfg.RoomLookupTimeout)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"store":   {"BOOKING_STORE", "mongo"},
		"timeout": {"ROOM_LOOKUP_TIMEOUT", "soon"},
		"workers": {"NOTIFIER_WORKERS", "-2"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
