package storage

import (
	"testing"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned url",
			url:  "https://res.example.com/demo/image/upload/v123/k.jpg",
			want: "k",
		},
		{
			name: "unversioned url",
			url:  "https://res.example.com/demo/image/upload/k.jpg",
			want: "k",
		},
		{
			name: "doubled extension",
			url:  "https://res.example.com/demo/image/upload/v123/k.jpg.jpg",
			want: "k",
		},
		{
			name: "doubled extension without version",
			url:  "https://res.example.com/demo/image/upload/k.png.png",
			want: "k",
		},
		{
			name: "staged file name key",
			url:  "https://res.example.com/demo/image/upload/v1712345678/1712345678000-6ba7b810-9dad-11d1-80b4-00c04fd430c8-cheese.png",
			want: "1712345678000-6ba7b810-9dad-11d1-80b4-00c04fd430c8-cheese",
		},
		{
			name: "mixed case extension",
			url:  "https://res.example.com/demo/image/upload/v9/k.JPG",
			want: "k",
		},
		{
			name: "url-encoded key",
			url:  "https://res.example.com/demo/image/upload/v5/my%20image.jpg",
			want: "my image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPublicID(tt.url)
			if err != nil {
				t.Fatalf("ExtractPublicID(%q) returned error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractPublicID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractPublicID_Malformed(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no upload marker", "https://res.example.com/demo/image/k.jpg"},
		{"no extension", "https://res.example.com/demo/image/upload/v123/k"},
		{"empty string", ""},
		{"upload marker only", "https://res.example.com/demo/image/upload/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractPublicID(tt.url); err == nil {
				t.Errorf("ExtractPublicID(%q) succeeded, want error", tt.url)
			}
		})
	}
}
