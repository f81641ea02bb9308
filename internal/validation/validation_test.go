package validation

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPath_String(t *testing.T) {
	cases := []struct {
		path Path
		want string
	}{
		{Path{}, ""},
		{Path{"data"}, "data"},
		{Path{"data", "items"}, "data.items"},
		{Path{"data", "items", 0, "count"}, "data.items[0].count"},
		{Path{"matrix", 1, 2}, "matrix[1][2]"},
	}
	for _, tc := range cases {
		if got := tc.path.String(); got != tc.want {
			t.Errorf("Path%v.String() = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestPath_AppendDoesNotAliasSiblings(t *testing.T) {
	base := make(Path, 0, 4)
	base = base.Append("data")

	a := base.Append("left")
	b := base.Append("right")

	if diff := cmp.Diff(Path{"data", "left"}, a); diff != "" {
		t.Fatalf("first branch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Path{"data", "right"}, b); diff != "" {
		t.Fatalf("second branch (-want +got):\n%s", diff)
	}
}

func TestError_Error(t *testing.T) {
	e := Error{Message: `missing expected field "count"`, Path: Path{"items", 0, "count"}}
	want := `missing expected field "count" at items[0].count`
	if got := e.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	root := Error{Message: "expected object value, got array"}
	if got := root.Error(); got != "expected object value, got array" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestError_JSON(t *testing.T) {
	raw, err := json.Marshal(Error{Message: "m", Path: Path{"a", 0}})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); got != `{"message":"m","path":["a",0]}` {
		t.Fatalf("marshaled = %s", got)
	}

	raw, err = json.Marshal(Error{Message: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); got != `{"message":"m"}` {
		t.Fatalf("marshaled = %s", got)
	}
}
