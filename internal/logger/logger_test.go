package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput_Level(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"trace", logrus.TraceLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tc := range tests {
		l := NewWithOutput(&bytes.Buffer{}, tc.in, "")
		if l.GetLevel() != tc.want {
			t.Errorf("level(%q) = %v, want %v", tc.in, l.GetLevel(), tc.want)
		}
	}
}

func TestNewWithOutput_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "")
	l.WithField("session_id", "s-1").Info("answer analysed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["session_id"] != "s-1" || entry["msg"] != "answer analysed" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewWithOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	NewWithOutput(&buf, "info", "text").Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q", buf.String())
	}
}
