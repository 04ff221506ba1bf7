package models

import (
	"strings"
	"testing"
)

func samplePayload() SheetPayload {
	var card Card
	n := 1
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			card.Grid[row][col] = n
			n++
		}
	}
	return SheetPayload{Cards: []Card{card, card, card, card}}
}

func TestMarshalPayloadDeterministic(t *testing.T) {
	p := samplePayload()

	first, err := MarshalPayload(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := MarshalPayload(p)
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("payload serialization is not deterministic")
	}
	if strings.ContainsAny(string(first), " \n\t") {
		t.Fatalf("payload serialization contains whitespace: %s", first)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	p := samplePayload()
	data, err := MarshalPayload(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := UnmarshalPayload(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Cards) != CardsPerSheet {
		t.Fatalf("expected %d cards, got %d", CardsPerSheet, len(got.Cards))
	}
	if got.Cards[0].Grid != p.Cards[0].Grid {
		t.Fatal("grid changed across round trip")
	}
}

func TestUnmarshalPayloadRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalPayload([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Unassigned", "Sold"} {
		status, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if string(status) != raw {
			t.Fatalf("got %q want %q", status, raw)
		}
	}

	if _, err := ParseStatus("Reserved"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
