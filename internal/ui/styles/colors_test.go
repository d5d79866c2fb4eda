// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestStatusIndicatorsUnique(t *testing.T) {
	seen := map[string]string{}
	for name, v := range map[string]string{
		"Success": StatusIndicators.Success,
		"Error":   StatusIndicators.Error,
		"Warning": StatusIndicators.Warning,
		"Info":    StatusIndicators.Info,
		"Pending": StatusIndicators.Pending,
		"Active":  StatusIndicators.Active,
		"Neutral": StatusIndicators.Neutral,
	} {
		if v == "" {
			t.Errorf("%s indicator is empty", name)
		}
		if other, dup := seen[v]; dup {
			t.Errorf("%s and %s share indicator %q", name, other, v)
		}
		seen[v] = name
	}
}

func TestStatusIndicatorsASCII(t *testing.T) {
	for _, v := range []string{
		StatusIndicators.Success, StatusIndicators.Error, StatusIndicators.Pending, StatusIndicators.Neutral,
	} {
		for _, r := range v {
			if r > 127 {
				t.Errorf("indicator %q is not ASCII", v)
			}
		}
	}
}

func TestBadgeColorStable(t *testing.T) {
	if BadgeColor("Slack") != BadgeColor("Slack") {
		t.Error("BadgeColor should be deterministic")
	}
	found := false
	for _, c := range BadgePalette {
		if c == BadgeColor("GitHub") {
			found = true
		}
	}
	if !found {
		t.Error("BadgeColor should come from BadgePalette")
	}
}

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name      string
		got       string
		indicator string
	}{
		{"success", RenderSuccess("saved"), StatusIndicators.Success},
		{"error", RenderError("saved"), StatusIndicators.Error},
		{"warning", RenderWarning("saved"), StatusIndicators.Warning},
		{"info", RenderInfo("saved"), StatusIndicators.Info},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !strings.Contains(tc.got, tc.indicator) || !strings.Contains(tc.got, "saved") {
				t.Errorf("got %q", tc.got)
			}
		})
	}
	if !strings.Contains(RenderLink("docs"), "docs") {
		t.Error("RenderLink dropped its text")
	}
}
