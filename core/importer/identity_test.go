package importer

import (
	"strings"
	"testing"
)

func TestDeriveUniqueLink(t *testing.T) {
	link := DeriveUniqueLink("alice", "mymusic", "Rock_Hits/song_one.mp3")
	if !strings.HasPrefix(link, "musicstream://track/") {
		t.Errorf("link %q missing scheme prefix", link)
	}
	if again := DeriveUniqueLink("alice", "mymusic", "Rock_Hits/song_one.mp3"); again != link {
		t.Errorf("identical coordinates must derive identical links: %q vs %q", link, again)
	}
	if other := DeriveUniqueLink("alice", "mymusic", "Rock_Hits/song_two.mp3"); other == link {
		t.Error("distinct file paths must derive distinct links")
	}
	if other := DeriveUniqueLink("bob", "mymusic", "Rock_Hits/song_one.mp3"); other == link {
		t.Error("distinct owners must derive distinct links")
	}
}

func TestParseUniqueLinkRoundTrip(t *testing.T) {
	cases := []struct{ owner, repo, path string }{
		{"alice", "mymusic", "Rock_Hits/song_one.mp3"},
		{"bob", "my.repo", "folder with spaces/名前.flac"},
		{"carol", "vault", "a/b.ogg"},
	}
	for _, tc := range cases {
		link := DeriveUniqueLink(tc.owner, tc.repo, tc.path)
		raw, err := ParseUniqueLink(link)
		if err != nil {
			t.Errorf("ParseUniqueLink(%q) error: %v", link, err)
			continue
		}
		want := tc.owner + "/" + tc.repo + "/" + tc.path
		if raw != want {
			t.Errorf("round trip = %q, want %q", raw, want)
		}
	}
}

func TestParseUniqueLinkRejectsForeignInput(t *testing.T) {
	for _, link := range []string{
		"https://github.com/alice/mymusic",
		"musicstream://playlist/abc",
		"musicstream://track/%%not-base64%%",
		"",
	} {
		if _, err := ParseUniqueLink(link); err == nil {
			t.Errorf("ParseUniqueLink(%q) should fail", link)
		}
	}
}
