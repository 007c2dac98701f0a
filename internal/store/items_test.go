package store

import (
	"errors"
	"testing"
)

func TestValidateItems(t *testing.T) {
	cases := []struct {
		name    string
		items   []ItemInput
		wantErr bool
	}{
		{"empty", nil, true},
		{"zero quantity", []ItemInput{{ProductID: 1, Quantity: 0}}, true},
		{"negative quantity", []ItemInput{{ProductID: 1, Quantity: -2}}, true},
		{"bad product id", []ItemInput{{ProductID: 0, Quantity: 1}}, true},
		{"ok", []ItemInput{{ProductID: 1, Quantity: 3}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateItems(tc.items)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestAggregateItemsSumsDuplicates(t *testing.T) {
	in := []ItemInput{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 3},
	}
	got := AggregateItems(in)
	if len(got) != 2 {
		t.Fatalf("want 2 entries, got %d", len(got))
	}
	if got[0].ProductID != 1 || got[0].Quantity != 5 {
		t.Errorf("product 1: got %+v", got[0])
	}
	if got[1].ProductID != 2 || got[1].Quantity != 1 {
		t.Errorf("product 2: got %+v", got[1])
	}
}

func TestAggregateItemsKeepsOrder(t *testing.T) {
	in := []ItemInput{
		{ProductID: 7, Quantity: 1},
		{ProductID: 3, Quantity: 1},
		{ProductID: 7, Quantity: 1},
		{ProductID: 5, Quantity: 1},
	}
	got := AggregateItems(in)
	wantOrder := []int64{7, 3, 5}
	if len(got) != len(wantOrder) {
		t.Fatalf("want %d entries, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ProductID != id {
			t.Errorf("position %d: want product %d, got %d", i, id, got[i].ProductID)
		}
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusPending, StatusConfirmed) {
		t.Error("pending -> confirmed should be allowed")
	}
	if CanTransition(StatusDelivered, StatusPending) {
		t.Error("delivered -> pending should be rejected")
	}
	if CanTransition(StatusCancelled, StatusShipped) {
		t.Error("cancelled -> shipped should be rejected")
	}
}
