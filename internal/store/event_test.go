package store

import (
	"context"
	"testing"
)

func TestEventCreateDefaults(t *testing.T) {
	es := NewEventStore(setupTestDB(t))
	ctx := context.Background()

	e, err := es.Create(ctx, newTestEvent("sarahs-wedding", "sarah@x.com"))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if !e.IsActive {
		t.Error("new event should be active")
	}
	if e.Slug != "sarahs-wedding" {
		t.Errorf("slug = %q, want %q", e.Slug, "sarahs-wedding")
	}
	if len(e.MealOptions) != 2 || e.MealOptions[1] != "Fish" {
		t.Errorf("meal_options = %v", e.MealOptions)
	}
	if len(e.CustomAttendanceOptions) != 2 {
		t.Errorf("custom_attendance_options = %v", e.CustomAttendanceOptions)
	}
	if e.LocationURL != nil {
		t.Errorf("location_url = %v, want nil", e.LocationURL)
	}
}

func TestEventSlugUnique(t *testing.T) {
	es := NewEventStore(setupTestDB(t))
	ctx := context.Background()

	es.Create(ctx, newTestEvent("dup", "a@x.com"))
	if _, err := es.Create(ctx, newTestEvent("dup", "b@x.com")); err == nil {
		t.Error("expected error for duplicate slug")
	}
	exists, err := es.SlugExists(ctx, "dup")
	if err != nil {
		t.Fatalf("slug exists: %v", err)
	}
	if !exists {
		t.Error("slug should exist")
	}
}

func TestEventDeactivate(t *testing.T) {
	es := NewEventStore(setupTestDB(t))
	ctx := context.Background()
	e, _ := es.Create(ctx, newTestEvent("sarahs-wedding", "sarah@x.com"))

	ok, err := es.Deactivate(ctx, e.ID, "mallory@x.com")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if ok {
		t.Error("non-owner should not deactivate")
	}

	ok, err = es.Deactivate(ctx, e.ID, "sarah@x.com")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if !ok {
		t.Fatal("owner should deactivate")
	}

	public, err := es.GetActiveBySlug(ctx, "sarahs-wedding")
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if public != nil {
		t.Error("inactive event visible on public lookup")
	}

	owner, err := es.GetBySlug(ctx, "sarahs-wedding")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if owner == nil || owner.IsActive {
		t.Errorf("owner lookup = %+v, want inactive event", owner)
	}
}

func TestEventUpdateFilteredByHost(t *testing.T) {
	es := NewEventStore(setupTestDB(t))
	ctx := context.Background()
	e, _ := es.Create(ctx, newTestEvent("party", "host@x.com"))

	e.Title = "Renamed"
	e.MealOptions = nil

	got, err := es.Update(ctx, e, "other@x.com")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != nil {
		t.Error("update by non-owner should not match a row")
	}

	got, err = es.Update(ctx, e, "host@x.com")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("title = %q, want %q", got.Title, "Renamed")
	}
	if got.MealOptions == nil || len(got.MealOptions) != 0 {
		t.Errorf("meal_options = %v, want empty", got.MealOptions)
	}
}

func TestEventListActiveByHost(t *testing.T) {
	es := NewEventStore(setupTestDB(t))
	ctx := context.Background()
	a, _ := es.Create(ctx, newTestEvent("a", "host@x.com"))
	es.Create(ctx, newTestEvent("b", "host@x.com"))
	es.Create(ctx, newTestEvent("c", "other@x.com"))
	es.Deactivate(ctx, a.ID, "host@x.com")

	events, err := es.ListActiveByHost(ctx, "host@x.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].Slug != "b" {
		t.Errorf("events = %+v, want only b", events)
	}
}
