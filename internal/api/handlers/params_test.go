package handlers

import (
	"reflect"
	"testing"
)

func TestMultiParameter(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		symbol   string
		expected []string
	}{
		{"missing", "", ",", nil},
		{"single", "foo", ",", []string{"foo"}},
		{"list", "foo,bar", ",", []string{"foo", "bar"}},
		{"semicolon list", "a;b;c", ";", []string{"a", "b", "c"}},
		{"empty entries dropped", "foo,,bar,", ",", []string{"foo", "bar"}},
		{"whitespace trimmed", " foo , bar ", ",", []string{"foo", "bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := multiParameter(tt.value, tt.symbol)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("multiParameter(%q, %q) = %v, want %v", tt.value, tt.symbol, got, tt.expected)
			}
		})
	}
}

func TestIntListParameter(t *testing.T) {
	got, err := intListParameter("2,3", ",")
	if err != nil {
		t.Fatalf("intListParameter failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("intListParameter = %v, want [2 3]", got)
	}

	if _, err := intListParameter("2,x", ","); err == nil {
		t.Error("malformed entry should invalidate the parameter")
	}

	got, err = intListParameter("", ",")
	if err != nil || len(got) != 0 {
		t.Errorf("missing parameter should parse to empty, got %v (%v)", got, err)
	}
}

func TestCategoryPathsParameter(t *testing.T) {
	got, err := categoryPathsParameter("1,2;3")
	if err != nil {
		t.Fatalf("categoryPathsParameter failed: %v", err)
	}
	expected := [][]int{{1, 2}, {3}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("categoryPathsParameter = %v, want %v", got, expected)
	}

	if _, err := categoryPathsParameter("1,a"); err == nil {
		t.Error("malformed level should invalidate the parameter")
	}

	got, err = categoryPathsParameter("")
	if err != nil || len(got) != 0 {
		t.Errorf("missing parameter should parse to empty, got %v (%v)", got, err)
	}
}
