package tools

import (
	"encoding/json"
	"testing"
)

func TestDescriptorsCoverAllTools(t *testing.T) {
	descriptors := Descriptors()
	if len(descriptors) != 5 {
		t.Fatalf("expected 5 descriptors, got %d", len(descriptors))
	}

	want := map[string]bool{
		ToolSetCredentials:      false,
		ToolGetTeamMembers:      false,
		ToolGetTrackingsSummary: false,
		ToolGetNotes:            false,
		ToolGetWorkOrderDetails: false,
	}

	for _, d := range descriptors {
		if _, ok := want[d.Name]; !ok {
			t.Errorf("unexpected tool %q", d.Name)
			continue
		}
		want[d.Name] = true

		if d.Description == "" {
			t.Errorf("tool %q has no description", d.Name)
		}

		var schema map[string]interface{}
		if err := json.Unmarshal(d.InputSchema, &schema); err != nil {
			t.Errorf("tool %q has invalid schema: %v", d.Name, err)
			continue
		}
		if schema["type"] != "object" {
			t.Errorf("tool %q schema is not an object", d.Name)
		}
	}

	for name, seen := range want {
		if !seen {
			t.Errorf("tool %q missing from descriptors", name)
		}
	}
}
