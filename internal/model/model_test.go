package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRestaurantListDecodesTagFilterShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want TagNames
	}{
		{"single string", `{"success":true,"data":[],"filters":{"tags":"Rice"}}`, TagNames{"Rice"}},
		{"list", `{"success":true,"data":[],"filters":{"tags":["Rice","Grocery"]}}`, TagNames{"Rice", "Grocery"}},
		{"empty string", `{"success":true,"data":[],"filters":{"tags":""}}`, nil},
		{"null", `{"success":true,"data":[],"filters":{"tags":null}}`, nil},
		{"absent", `{"success":true,"data":[],"filters":{}}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var list RestaurantList
			if err := json.Unmarshal([]byte(tc.body), &list); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(list.Filters.Tags, tc.want) {
				t.Errorf("expected tags %v, got %v", tc.want, list.Filters.Tags)
			}
		})
	}
}

func TestRestaurantListRejectsNumericTags(t *testing.T) {
	var list RestaurantList
	err := json.Unmarshal([]byte(`{"success":true,"data":[],"filters":{"tags":42}}`), &list)
	if err == nil {
		t.Fatal("expected an error for numeric tags")
	}
}

func TestRestaurantListCount(t *testing.T) {
	var nilList *RestaurantList
	if nilList.Count() != 0 {
		t.Errorf("expected 0 for nil list, got %d", nilList.Count())
	}

	list := &RestaurantList{Data: []Restaurant{{ID: 1}, {ID: 2}}}
	if list.Count() != 2 {
		t.Errorf("expected 2, got %d", list.Count())
	}
}

func TestRestaurantPreservesTagOrder(t *testing.T) {
	body := `{"id":7,"name":"Mama Put","slug":"mama-put","rating":"4.5","reviewCount":120,
		"isActive":true,"isOpen":false,"tags":["Soup bowl","Amala","Rice"],
		"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z"}`

	var r Restaurant
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Soup bowl", "Amala", "Rice"}
	if !reflect.DeepEqual(r.Tags, want) {
		t.Errorf("expected %v, got %v", want, r.Tags)
	}
	if r.Rating != "4.5" {
		t.Errorf("expected rating text 4.5, got %q", r.Rating)
	}
}

func TestGlyphForTag(t *testing.T) {
	if got := GlyphForTag("Rice"); got != GlyphRiceBowl {
		t.Errorf("expected %s, got %s", GlyphRiceBowl, got)
	}
	if got := GlyphForTag("Sushi"); got != DefaultGlyph {
		t.Errorf("expected default glyph for unknown tag, got %s", got)
	}

	table := TagGlyphs()
	table["Rice"] = GlyphCake
	if GlyphForTag("Rice") != GlyphRiceBowl {
		t.Error("mutating the returned table must not change lookups")
	}
}
