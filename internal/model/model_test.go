package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Coordinate
		wantErr bool
	}{
		{name: "plain", in: "0,2", want: At(0, 2)},
		{name: "spaces", in: " 1 , 3 ", want: At(1, 3)},
		{name: "missing item", in: "1", wantErr: true},
		{name: "too many parts", in: "1,2,3", wantErr: true},
		{name: "not a number", in: "a,1", wantErr: true},
		{name: "negative", in: "-1,0", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCoordinate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoordinate(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseCoordinate(%q)=%v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestItem_JSONKeepsVariant(t *testing.T) {
	in := []Item{Concrete("0A"), Placeholder()}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[{"kind":"concrete","payload":"0A"},{"kind":"placeholder"}]` {
		t.Fatalf("unexpected json: %s", b)
	}
	var out []Item
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("got %#v, want %#v", out, in)
	}

	var bad Item
	if err := json.Unmarshal([]byte(`{"kind":"ghost"}`), &bad); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestBoard_PayloadsSkipPlaceholders(t *testing.T) {
	b := NewBoard([][]Item{
		{Concrete("0B"), Placeholder()},
		{Concrete("1A"), Concrete("0A"), Placeholder()},
	}, true)
	got := b.Payloads()
	want := [][]string{{"0B"}, {"1A", "0A"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Payloads()=%v, want %v", got, want)
	}
	if !b.Sections[0][1].Placeholder {
		t.Fatalf("expected placeholder cell at 0,1")
	}
}
