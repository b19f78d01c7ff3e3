package category

import "testing"

func TestVocabulary_ContainsMiscellaneous(t *testing.T) {
	v := Vocabulary()
	if len(v) != 32 {
		t.Fatalf("expected 32 labels, got %d", len(v))
	}
	if !IsValid(Miscellaneous) {
		t.Error("Miscellaneous must be valid")
	}
	if IsValid("Blockchain") {
		t.Error("Blockchain must not be valid")
	}
}

func TestVocabulary_ReturnsCopy(t *testing.T) {
	v := Vocabulary()
	v[0] = "mutated"
	if Vocabulary()[0] != Infrastructure {
		t.Error("Vocabulary must not expose internal slice")
	}
}

func TestSet_Basics(t *testing.T) {
	s := NewSet(Security, Networking, "", Security)
	if s.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d", s.Len())
	}
	if !s.Has(Networking) || !s.Has(Security) {
		t.Errorf("unexpected set: %v", s)
	}
	got := s.Sorted()
	if got[0] != Networking || got[1] != Security {
		t.Errorf("Sorted() = %v", got)
	}
	if s.String() != "[Networking, Security]" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestSet_Equal(t *testing.T) {
	if !NewSet(DevOps, Containers).Equal(NewSet(Containers, DevOps)) {
		t.Error("expected equal sets")
	}
	if NewSet(DevOps).Equal(NewSet(Containers)) {
		t.Error("expected different sets")
	}
	if NewSet(DevOps).Equal(NewSet(DevOps, Containers)) {
		t.Error("expected different sizes to differ")
	}
}

func TestFromKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Set
	}{
		{
			name:  "aks networking",
			query: "What are the networking requirements for AKS?",
			want:  NewSet(Networking, Containers),
		},
		{
			name:  "no match",
			query: "How do I bake bread?",
			want:  NewSet(Miscellaneous),
		},
		{
			name:  "empty query",
			query: "",
			want:  NewSet(Miscellaneous),
		},
		{
			name:  "multi word keyword",
			query: "LOAD BALANCER sizing",
			want:  NewSet(Networking),
		},
		{
			name:  "ci/cd keyword",
			query: "ci/cd for terraform",
			want:  NewSet(DevOps),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromKeywords(tc.query)
			if !got.Equal(tc.want) {
				t.Errorf("FromKeywords(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestFromKeywords_SubstringNetwork(t *testing.T) {
	for _, q := range []string{"network", "Private networks", "xNETWORKx"} {
		if !FromKeywords(q).Has(Networking) {
			t.Errorf("FromKeywords(%q) missing Networking", q)
		}
	}
}
