package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd", "manager@corp-hq.example.org"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-03-04"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", "2024-3-4", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2024-03-04", false}, // Monday
		{"2024-03-08", false}, // Friday
		{"2024-03-09", true},  // Saturday
		{"2024-03-10", true},  // Sunday
	}
	for _, c := range cases {
		d, ok := IsValidDate(c.date)
		if !ok {
			t.Fatalf("bad test date %q", c.date)
		}
		if got := IsWeekend(d); got != c.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00+07:00",
		"2024-01-15T10:30:00",
		"2024-01-15 10:30:00",
		"2024-01-15 10:30",
	}
	invalid := []string{"2024-01-15", "15/01/2024 10:30", "not-a-time", ""}
	for _, s := range valid {
		_, ok := IsValidDateTime(s)
		if !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDateTime(s)
		if ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTimeNormalizesToUTC(t *testing.T) {
	got, ok := IsValidDateTime("2024-01-15T10:30:00+07:00")
	if !ok {
		t.Fatal("expected valid timestamp")
	}
	want := time.Date(2024, 1, 15, 3, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"Present", "Planned Leave", "Unplanned Leave", "Absent"}
	if !IsInSlice("Present", statuses) {
		t.Error("IsInSlice(Present) = false, want true")
	}
	if IsInSlice("present", statuses) {
		t.Error("IsInSlice(present) = true, want false")
	}
	if IsInSlice("", statuses) {
		t.Error("IsInSlice(\"\") = true, want false")
	}
}
