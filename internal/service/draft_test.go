package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lavanderia-pos/api/internal/domain"
)

func TestDraftAddItem(t *testing.T) {
	wash := domain.Service{ID: uuid.New(), Name: "Wash & Fold", Price: dec("5.00")}
	iron := domain.Service{ID: uuid.New(), Name: "Ironing", Price: dec("2.50")}

	d := NewDraft()
	if !d.Empty() {
		t.Fatal("new draft should be empty")
	}

	if err := d.AddItem(wash, dec("3")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := d.AddItem(iron, dec("2")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := d.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ServiceName != "Wash & Fold" || !items[0].Subtotal.Equal(dec("15.00")) {
		t.Errorf("first line = %s %s, want Wash & Fold 15.00", items[0].ServiceName, items[0].Subtotal)
	}
	if !d.Total().Equal(dec("20.00")) {
		t.Errorf("Total = %s, want 20.00", d.Total())
	}
}

func TestDraftMergesDuplicateService(t *testing.T) {
	wash := domain.Service{ID: uuid.New(), Name: "Wash & Fold", Price: dec("5.00")}

	d := NewDraft()
	if err := d.AddItem(wash, dec("2")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := d.AddItem(wash, dec("1.5")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := d.Items()
	if len(items) != 1 {
		t.Fatalf("got %d lines, want 1 merged line", len(items))
	}
	if !items[0].Quantity.Equal(dec("3.5")) {
		t.Errorf("Quantity = %s, want 3.5", items[0].Quantity)
	}
	if !items[0].Subtotal.Equal(dec("17.50")) {
		t.Errorf("Subtotal = %s, want 17.50", items[0].Subtotal)
	}
	if !d.Total().Equal(dec("17.50")) {
		t.Errorf("Total = %s, want 17.50", d.Total())
	}
}

func TestDraftKeepsFirstPriceOnMerge(t *testing.T) {
	id := uuid.New()
	d := NewDraft()
	if err := d.AddItem(domain.Service{ID: id, Name: "Wash", Price: dec("5.00")}, dec("1")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	// Same service with a changed catalog price: the snapshot wins.
	if err := d.AddItem(domain.Service{ID: id, Name: "Wash", Price: dec("9.00")}, dec("1")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := d.Items()
	if !items[0].UnitPrice.Equal(dec("5.00")) {
		t.Errorf("UnitPrice = %s, want snapshot 5.00", items[0].UnitPrice)
	}
	if !items[0].Subtotal.Equal(dec("10.00")) {
		t.Errorf("Subtotal = %s, want 10.00", items[0].Subtotal)
	}
}

func TestDraftRejectsNonPositiveQuantity(t *testing.T) {
	wash := domain.Service{ID: uuid.New(), Name: "Wash", Price: dec("5.00")}

	for _, qty := range []string{"0", "-1"} {
		if err := NewDraft().AddItem(wash, dec(qty)); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddItem(qty=%s) = %v, want ErrInvalidQuantity", qty, err)
		}
	}
	if !IsValidation(NewDraft().AddItem(wash, dec("0"))) {
		t.Error("quantity error should classify as validation")
	}
}

func TestDraftRejectsSubCentQuantity(t *testing.T) {
	wash := domain.Service{ID: uuid.New(), Name: "Wash", Price: dec("5.00")}

	// 0.004 is positive but finer than the 2-decimal storage scale.
	err := NewDraft().AddItem(wash, dec("0.004"))
	if !errors.Is(err, ErrQuantityPrecision) {
		t.Errorf("AddItem(qty=0.004) = %v, want ErrQuantityPrecision", err)
	}
	if !IsValidation(err) {
		t.Error("precision error should classify as validation")
	}

	if err := NewDraft().AddItem(wash, dec("1.25")); err != nil {
		t.Errorf("AddItem(qty=1.25) = %v, want nil", err)
	}
}
