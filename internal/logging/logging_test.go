package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewParsesLevel(t *testing.T) {
	lg, err := New("debug")
	if err != nil {
		t.Fatalf("New(debug): %v", err)
	}
	if lg.Level != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", lg.Level)
	}

	if _, err := New("chatty"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
