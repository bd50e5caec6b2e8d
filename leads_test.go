package realflow

import "testing"

func TestIsLeadTool(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: "Set_Lead_Field", want: true},
		{in: "Submit_Lead", want: true},
		{in: " Submit_Lead ", want: false},
		{in: "set_lead_field", want: false},
		{in: "transferCall", want: false},
		{in: "", want: false},
	}
	for _, tc := range cases {
		if got := IsLeadTool(tc.in); got != tc.want {
			t.Fatalf("IsLeadTool(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLeadTools_ReturnsCopy(t *testing.T) {
	tools := LeadTools()
	if len(tools) != 2 {
		t.Fatalf("LeadTools() len=%d, want 2", len(tools))
	}
	tools[0] = "mutated"
	if LeadTools()[0] != ToolSetLeadField {
		t.Fatalf("LeadTools() should not expose internal slice")
	}
}
