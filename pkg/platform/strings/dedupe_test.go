package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "blank", input: "  ", expected: nil},
		{name: "single broker", input: "localhost:9092", expected: []string{"localhost:9092"}},
		{
			name:     "trims and drops empties",
			input:    " kafka-1:9092 ,, kafka-2:9092 ",
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
		{
			name:     "removes repeats preserving order",
			input:    "b,a,b,c,a",
			expected: []string{"b", "a", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input, ","))
		})
	}
}

func TestDedupeAndTrimKeepsEmptyInput(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{" ", ""}))
}
