package models

import "testing"

func TestCategoryVisible(t *testing.T) {
	cases := []struct {
		name     string
		category Category
		want     bool
	}{
		{"active", Category{Name: "Tea", IsActive: true}, true},
		{"inactive", Category{Name: "Tea"}, false},
	}
	for _, tc := range cases {
		if got := tc.category.Visible(); got != tc.want {
			t.Errorf("%s: Visible() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
