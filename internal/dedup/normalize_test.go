package dedup

import "testing"

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips tracking params",
			in:   "https://example.com/news/ai-city?utm_source=feed&utm_medium=rss",
			want: "https://example.com/news/ai-city",
		},
		{
			name: "keeps real params",
			in:   "https://example.com/story?id=42&utm_campaign=x",
			want: "https://example.com/story?id=42",
		},
		{
			name: "drops fbclid and ref",
			in:   "https://example.com/a?fbclid=abc&ref=homepage",
			want: "https://example.com/a",
		},
		{
			name: "lowercases and strips www",
			in:   "https://www.Example.com/News/Article-1/",
			want: "https://example.com/news/article-1",
		},
		{
			name: "trailing slash",
			in:   "https://example.com/path/",
			want: "https://example.com/path",
		},
		{
			name: "empty input",
			in:   "   ",
			want: "",
		},
		{
			name: "not a url degrades gracefully",
			in:   "Not A URL At All",
			want: "not a url at all",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeURL(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://www.example.com/news/ai-city/?utm_source=feed",
		"https://example.com/story?id=42&gclid=x",
		"HTTPS://WWW.SITE.COM/A/B/",
	}
	for _, in := range inputs {
		once := NormalizeURL(in)
		twice := NormalizeURL(once)
		if once != twice {
			t.Fatalf("NormalizeURL not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
