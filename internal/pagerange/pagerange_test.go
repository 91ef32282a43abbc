// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagerange

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		expr string
		n    int
		want []int
	}{
		{
			name: "ranges and singles",
			expr: "1-3,5",
			n:    10,
			want: []int{1, 2, 3, 5},
		},
		{
			name: "empty selects all",
			expr: "",
			n:    5,
			want: []int{1, 2, 3, 4, 5},
		},
		{
			name: "blank selects all",
			expr: "   ",
			n:    3,
			want: []int{1, 2, 3},
		},
		{
			name: "fully out of range vanishes",
			expr: "7-9",
			n:    5,
			want: []int{},
		},
		{
			name: "range clamped to document",
			expr: "3-20",
			n:    5,
			want: []int{3, 4, 5},
		},
		{
			name: "duplicates counted once",
			expr: "2, 1-3, 3",
			n:    10,
			want: []int{1, 2, 3},
		},
		{
			name: "ascending regardless of input order",
			expr: "9, 2-4, 1",
			n:    10,
			want: []int{1, 2, 3, 4, 9},
		},
		{
			name: "malformed tokens dropped",
			expr: "abc, 2, x-y, 4",
			n:    10,
			want: []int{2, 4},
		},
		{
			name: "reversed range dropped",
			expr: "5-2, 7",
			n:    10,
			want: []int{7},
		},
		{
			name: "zero and negative clamped away",
			expr: "0, -3, 1",
			n:    10,
			want: []int{1},
		},
		{
			name: "whitespace tolerated",
			expr: " 1 - 2 , 4 ",
			n:    10,
			want: []int{1, 2, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.expr, tt.n)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q, %d) = %v, want %v", tt.expr, tt.n, got, tt.want)
			}
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	if got := Parse("1-3", 0); got != nil {
		t.Errorf("Parse on zero pages = %v, want nil", got)
	}
}
