package rules

import "testing"

func TestReligionGroup(t *testing.T) {
	cases := []struct {
		religion string
		want     string
	}{
		{religion: "Presbyterian", want: ReligionGroupChristian},
		{religion: "catholic", want: ReligionGroupChristian},
		{religion: "Islam", want: ReligionGroupMuslim},
		{religion: "traditionalist", want: ReligionGroupTraditional},
		{religion: "buddhist", want: ReligionGroupEastern},
		{religion: "atheist", want: ReligionGroupSecular},
		{religion: "", want: ""},
		{religion: "jedi", want: ""},
	}

	for _, tc := range cases {
		if got := ReligionGroup(tc.religion); got != tc.want {
			t.Fatalf("ReligionGroup(%q): got %q want %q", tc.religion, got, tc.want)
		}
	}
}

func TestSameReligionGroup(t *testing.T) {
	if !SameReligionGroup("methodist", "anglican") {
		t.Fatal("denominations within a group must match")
	}
	if SameReligionGroup("muslim", "catholic") {
		t.Fatal("different groups must not match")
	}
	if SameReligionGroup("", "") {
		t.Fatal("missing data must not count as a match")
	}
}

func TestParseSchoolList(t *testing.T) {
	schools, any := ParseSchoolList(`["Accra Academy","Wesley Girls"]`)
	if any || len(schools) != 2 || schools[0] != "accra academy" {
		t.Fatalf("unexpected parse result: %v any=%v", schools, any)
	}

	if _, any := ParseSchoolList("Any high school"); !any {
		t.Fatal("any-school sentinel must disable the stage")
	}
	if _, any := ParseSchoolList(""); !any {
		t.Fatal("empty blob must disable the stage")
	}
	if _, any := ParseSchoolList(`["Accra Academy"`); !any {
		t.Fatal("malformed blob must be treated as empty")
	}
}
