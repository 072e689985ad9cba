package repository

import "testing"

func TestStoreDatabaseFromTable(t *testing.T) {
	cases := []struct {
		table string
		want  string
	}{
		{"marketlens.assessments", "marketlens"},
		{"analytics.assessments", "analytics"},
		{"assessments", ""},
	}
	for _, tc := range cases {
		s := &CHAssessmentStore{table: tc.table}
		if got := s.database(); got != tc.want {
			t.Fatalf("database(%q) = %q, want %q", tc.table, got, tc.want)
		}
	}
}
