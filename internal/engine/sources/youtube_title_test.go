package sources

import "testing"

func TestFindHTMLTitle(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "strips youtube suffix",
			body: `<html><head><title>Cool Video - YouTube</title></head><body></body></html>`,
			want: "Cool Video",
		},
		{
			name: "plain title",
			body: `<html><head><title>  Some Page  </title></head></html>`,
			want: "Some Page",
		},
		{
			name: "no title element",
			body: `<html><head></head><body><p>hi</p></body></html>`,
			want: "",
		},
		{
			name: "not html",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findHTMLTitle([]byte(tt.body)); got != tt.want {
				t.Errorf("findHTMLTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
