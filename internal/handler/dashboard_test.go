package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSVCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ann", "Ann"},
		{"", ""},
		{"=HYPERLINK(\"http://evil\")", "'=HYPERLINK(\"http://evil\")"},
		{"+1 555 0100", "'+1 555 0100"},
		{"-2+3", "'-2+3"},
		{"@SUM(A1)", "'@SUM(A1)"},
		{"\tcmd", "'\tcmd"},
		{"Bob = Robert", "Bob = Robert"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, csvCell(tt.in), "csvCell(%q)", tt.in)
	}
}
