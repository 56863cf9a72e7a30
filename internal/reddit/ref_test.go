package reddit

import "testing"

func TestParsePostID(t *testing.T) {
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "1abcd2", want: "1abcd2"},
		{ref: "  T3_1AbCd2 ", want: "1abcd2"},
		{ref: "https://www.reddit.com/r/golang/comments/1abcd2/some_title/", want: "1abcd2"},
		{ref: "https://old.reddit.com/r/AskReddit/comments/xyz789/", want: "xyz789"},
		{ref: "reddit.com/r/golang/comments/1abcd2", want: "1abcd2"},
		{ref: "https://redd.it/1abcd2", want: "1abcd2"},
		{ref: "https://www.reddit.com/r/golang/comments/1abcd2/t/?utm_source=share", want: "1abcd2"},
		{ref: "", wantErr: true},
		{ref: "not an id", wantErr: true},
		{ref: "https://www.reddit.com/r/golang/", wantErr: true},
		{ref: "https://example.com/comments/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParsePostID(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePostID(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePostID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
