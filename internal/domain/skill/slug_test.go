package skill

import "testing"

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Développement Web", "developpement-web"},
		{"C++", "c"},
		{"Node.js", "node-js"},
		{"  PostgreSQL  ", "postgresql"},
		{"Intégration Continue (CI/CD)", "integration-continue-ci-cd"},
		{"Go", "go"},
		{"", ""},
		{"---", ""},
		{"Éléphant  À  Récurer", "elephant-a-recurer"},
	}

	for _, c := range cases {
		if got := NormalizeSlug(c.in); got != c.want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeSlugIdempotent(t *testing.T) {
	once := NormalizeSlug("Développement Web")
	if twice := NormalizeSlug(once); twice != once {
		t.Fatalf("not idempotent: %q became %q", once, twice)
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Développeur SENIOR exigé"); got != "developpeur senior exige" {
		t.Fatalf("Fold = %q", got)
	}
	if got := Fold("café"); got != "cafe" {
		t.Fatalf("Fold = %q", got)
	}
}
