package contracts

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	if got := GetVersionString(); got != "latetrack v"+Version {
		t.Errorf("GetVersionString() = %q", got)
	}
}

func TestGetFullVersionString(t *testing.T) {
	full := GetFullVersionString()
	if !strings.HasPrefix(full, GetVersionString()) {
		t.Errorf("full version %q does not start with short version", full)
	}
	if !strings.Contains(full, "data format: "+DataFormatVersion) {
		t.Errorf("full version %q is missing data format", full)
	}
}
