package reddit

import "testing"

func TestIsTombstone(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"[deleted]", true},
		{"[removed]", true},
		{"  [Removed] \n", true},
		{"[removed by reddit]", true},
		{"", true},
		{"   ", true},
		{"I [deleted] my old account", false},
		{"Great post!", false},
	}

	for _, tt := range tests {
		if got := IsTombstone(tt.body); got != tt.want {
			t.Errorf("IsTombstone(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestFilterComments(t *testing.T) {
	in := []CommentRecord{
		{ID: "c1", Body: "first"},
		{ID: "c2", Body: "[deleted]"},
		{ID: "c3", Body: "third"},
		{ID: "c4", Body: "[removed]"},
		{ID: "c5", Body: ""},
	}

	got := FilterComments(in)
	want := []string{"c1", "c3"}
	if len(got) != len(want) {
		t.Fatalf("FilterComments() returned %d comments, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("FilterComments()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
	if len(in) != 5 || in[1].ID != "c2" {
		t.Error("FilterComments() modified its input")
	}
}
